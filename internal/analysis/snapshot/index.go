package snapshot

import (
	"time"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/store"
)

// Index answers "where was every vessel near time T" queries via per-entity
// bounded range lookups on the track store, avoiding full-track scans. Query
// volume is bounded by entity count times the number of evaluated instants;
// a sorted-by-time global index would remove the per-instant entity sweep if
// fleets grow past a few thousand vessels.
type Index struct {
	store      *store.TrackStore
	defaultTol time.Duration
}

// NewIndex creates a point-in-time index over the given store. defaultTol is
// used when a caller passes a non-positive tolerance.
func NewIndex(s *store.TrackStore, defaultTol time.Duration) *Index {
	return &Index{store: s, defaultTol: defaultTol}
}

// NearestSample returns the entity's sample closest to t within the tolerance
// window, or false when no sample qualifies (including unknown entities).
func (ix *Index) NearestSample(entityID string, t int64, tol time.Duration) (models.PositionSample, bool) {
	window := ix.window(t, tol)
	samples, err := ix.store.SamplesInRange(entityID, window)
	if err != nil || len(samples) == 0 {
		return models.PositionSample{}, false
	}

	best := samples[0]
	bestDelta := absDelta(best.Timestamp, t)
	for _, s := range samples[1:] {
		if d := absDelta(s.Timestamp, t); d < bestDelta {
			best = s
			bestDelta = d
		}
	}
	return best, true
}

// At returns every vessel's nearest qualifying sample at time t. Vessels with
// no sample inside the tolerance window are omitted entirely; callers must not
// assume universal coverage.
func (ix *Index) At(t int64, tol time.Duration) map[string]models.PositionSample {
	out := make(map[string]models.PositionSample)
	for _, id := range ix.store.EntityIDs() {
		if s, ok := ix.NearestSample(id, t, tol); ok {
			out[id] = s
		}
	}
	return out
}

func (ix *Index) window(t int64, tol time.Duration) models.TimeRange {
	if tol <= 0 {
		tol = ix.defaultTol
	}
	half := tol.Milliseconds()
	return models.TimeRange{Start: t - half, End: t + half}
}

func absDelta(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
