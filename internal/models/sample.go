package models

// PositionSample represents a single timestamped position report for a vessel.
// Timestamps are Unix milliseconds in UTC. Samples within a track are strictly
// increasing in timestamp; ordering is enforced at append time by the track store.
type PositionSample struct {
	EntityID  string  `json:"entityId" db:"entity_id"`
	Timestamp int64   `json:"timestamp" db:"timestamp"` // Unix milliseconds, UTC
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Speed     float64 `json:"speed" db:"speed"`     // Knots
	Heading   float64 `json:"heading" db:"heading"` // Degrees, 0-360
	RiskScore float64 `json:"riskScore" db:"risk_score"`
}

// TrackResponse represents one vessel's ordered samples within a queried range
type TrackResponse struct {
	EntityID       string           `json:"entityId"`
	Samples        []PositionSample `json:"samples"`
	Count          int              `json:"count"`
	DistanceMeters float64          `json:"distanceMeters"` // Geodesic path length over the returned samples
}

// VesselSummary represents one vessel's presence within a queried range
type VesselSummary struct {
	EntityID       string         `json:"entityId"`
	SampleCount    int            `json:"sampleCount"`
	FirstTimestamp int64          `json:"firstTimestamp"`
	LastTimestamp  int64          `json:"lastTimestamp"`
	LastSample     PositionSample `json:"lastSample"`
}
