package models

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates a time range whose start is after its end
var ErrInvalidRange = errors.New("invalid time range: start after end")

// TimeRange represents a closed interval of Unix-millisecond timestamps.
// Construct via NewTimeRange so the start <= end invariant holds everywhere
// downstream of the constructor.
type TimeRange struct {
	Start int64 `json:"start" form:"start"`
	End   int64 `json:"end" form:"end"`
}

// NewTimeRange creates a validated time range
func NewTimeRange(start, end int64) (TimeRange, error) {
	if start > end {
		return TimeRange{}, ErrInvalidRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Validate checks the start <= end invariant on ranges bound from requests
func (r TimeRange) Validate() error {
	if r.Start > r.End {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether ts falls within the range (inclusive)
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.Start && ts <= r.End
}

// Width returns the range width in milliseconds
func (r TimeRange) Width() int64 {
	return r.End - r.Start
}

// Duration returns the range width as a time.Duration
func (r TimeRange) Duration() time.Duration {
	return time.Duration(r.Width()) * time.Millisecond
}
