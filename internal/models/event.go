package models

// Event represents a discrete behavioral event attached to a vessel's track.
// Events are stored separately from position samples and occur irregularly.
type Event struct {
	ID          int64  `json:"id" db:"id"`
	EntityID    string `json:"entityId" db:"entity_id"`
	EventType   string `json:"type" db:"event_type"`
	Timestamp   int64  `json:"timestamp" db:"timestamp"` // Unix milliseconds, UTC
	Severity    string `json:"severity" db:"severity"`
	Description string `json:"description,omitempty" db:"description"`
}

// EventType constants
const (
	EventTypeAISGap          = "AIS_GAP"
	EventTypeLoitering       = "LOITERING"
	EventTypeRendezvous      = "RENDEZVOUS"
	EventTypeSpeedChange     = "SPEED_CHANGE"
	EventTypeCourseDeviation = "COURSE_DEVIATION"
	EventTypeDarkVessel      = "DARK_VESSEL"
)

// Severity constants
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ValidEventType reports whether t is one of the enumerated event types
func ValidEventType(t string) bool {
	switch t {
	case EventTypeAISGap, EventTypeLoitering, EventTypeRendezvous,
		EventTypeSpeedChange, EventTypeCourseDeviation, EventTypeDarkVessel:
		return true
	}
	return false
}

// ValidSeverity reports whether s is one of the enumerated severities
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
