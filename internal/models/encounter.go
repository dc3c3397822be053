package models

// Encounter represents a detected pairwise proximity relationship between two
// vessels within one detection slice. Encounters are derived read-only output:
// recomputed on every detector invocation, never mutated after creation, and
// carry no identity across re-runs.
type Encounter struct {
	ID             string            `json:"id"`
	Timestamp      int64             `json:"timestamp"` // Slice midpoint, Unix milliseconds
	EntityIDs      []string          `json:"entityIds"` // Sorted, always 2 entries
	EncounterType  string            `json:"type"`
	Latitude       float64           `json:"latitude"`  // Geodesic midpoint of the pair
	Longitude      float64           `json:"longitude"`
	DistanceMeters float64           `json:"distanceMeters"`
	DurationMs     int64             `json:"durationMs"` // Slice width; coarse approximation
	Confidence     float64           `json:"confidence"` // 0.1 - 1.0
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// EncounterType constants, ordered from most to least specific
const (
	EncounterTypeSTSTransfer   = "STS_TRANSFER"
	EncounterTypeRendezvous    = "RENDEZVOUS"
	EncounterTypeCloseApproach = "CLOSE_APPROACH"
	EncounterTypeFormation     = "FORMATION"
)
