package models

// RangeFilter represents query parameters for time-range queries
type RangeFilter struct {
	Start int64 `form:"start"` // Unix milliseconds
	End   int64 `form:"end"`   // Unix milliseconds
}

// TracksFilter represents query parameters for multi-vessel track queries
type TracksFilter struct {
	IDs   string `form:"ids"` // Comma-separated entity IDs
	Start int64  `form:"start"`
	End   int64  `form:"end"`
}

// AtTimeFilter represents query parameters for point-in-time queries
type AtTimeFilter struct {
	T           int64 `form:"t"`         // Unix milliseconds
	ToleranceMs int64 `form:"tolerance"` // Optional; defaults to configured snapshot tolerance
}

// TimelineFilter represents query parameters for activity timeline queries
type TimelineFilter struct {
	LookbackHours int `form:"lookbackHours"`
}

// HeatmapFilter represents query parameters for heatmap queries
type HeatmapFilter struct {
	Start int64 `form:"start"`
	End   int64 `form:"end"`
	Bins  int   `form:"bins"` // Defaults to configured bin count
}
