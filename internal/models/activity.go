package models

// ActivitySnapshot represents aggregate fleet activity over one timeline interval.
// Snapshots are derived values, recomputed from the track store and event log at
// generation time.
type ActivitySnapshot struct {
	Timestamp       int64   `json:"timestamp"` // Interval end, Unix milliseconds
	EntityCount     int     `json:"entityCount"`
	MeanRisk        float64 `json:"meanRisk"` // 0 when no entities matched
	EventCount      int     `json:"eventCount"`
	DarkEntityCount int     `json:"darkEntityCount"`
	ClusterCount    int     `json:"clusterCount"`
}

// HeatmapBin represents one fixed-width interval of a heatmap query. Bins
// partition the queried range contiguously; intensity is normalized to [0,1].
type HeatmapBin struct {
	Start           int64   `json:"start"`
	End             int64   `json:"end"`
	TimestampCenter int64   `json:"timestampCenter"`
	EntityCount     int     `json:"entityCount"`
	EncounterCount  int     `json:"encounterCount"`
	Intensity       float64 `json:"intensity"`
}

// RiskDistribution summarizes the spread of risk scores across the fleet
type RiskDistribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P95    float64 `json:"p95"`
}

// CurrentStats represents the latest fleet-wide activity figures plus the
// risk score distribution across vessels seen in the latest interval
type CurrentStats struct {
	Snapshot ActivitySnapshot `json:"snapshot"`
	Risk     RiskDistribution `json:"risk"`
}
