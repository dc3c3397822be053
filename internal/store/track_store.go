package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/harborwatch/marinetrack/internal/models"
)

// ErrOutOfOrderSample indicates an append whose timestamp does not strictly
// increase the entity's track. The track is left unchanged.
var ErrOutOfOrderSample = errors.New("sample timestamp not after last sample")

// ErrUnknownEntity indicates a query for an entity with no track. Distinct from
// an empty in-range result for an entity that does exist.
var ErrUnknownEntity = errors.New("unknown entity")

// TrackStore owns the canonical per-vessel time series of position samples and
// the per-vessel event log. Appends are the only mutation path; every query is
// read-only. Tracks are append-only slices, so slices handed out to readers
// stay valid while concurrent appends extend the track. A long-running query
// may observe a prefix of appends that land mid-query; acceptable for
// analytics workloads.
type TrackStore struct {
	mu          sync.RWMutex
	tracks      map[string][]models.PositionSample
	events      map[string][]models.Event
	nextEventID int64
}

// NewTrackStore creates an empty track store
func NewTrackStore() *TrackStore {
	return &TrackStore{
		tracks: make(map[string][]models.PositionSample),
		events: make(map[string][]models.Event),
	}
}

// Append adds a sample to the entity's track, creating the track on first
// append. Fails with ErrOutOfOrderSample when the timestamp does not strictly
// exceed the entity's last sample; the track is left untouched on failure.
func (s *TrackStore) Append(sample models.PositionSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	track := s.tracks[sample.EntityID]
	if len(track) > 0 && sample.Timestamp <= track[len(track)-1].Timestamp {
		return ErrOutOfOrderSample
	}
	s.tracks[sample.EntityID] = append(track, sample)
	return nil
}

// Track returns the entity's full ordered track. The returned slice is shared
// with the store and must not be mutated by callers.
func (s *TrackStore) Track(entityID string) ([]models.PositionSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.tracks[entityID]
	if !ok {
		return nil, ErrUnknownEntity
	}
	return track, nil
}

// SamplesInRange returns the entity's samples within the range, via binary
// search over the ordered track. An existing entity with no samples in range
// yields an empty slice, not an error.
func (s *TrackStore) SamplesInRange(entityID string, r models.TimeRange) ([]models.PositionSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track, ok := s.tracks[entityID]
	if !ok {
		return nil, ErrUnknownEntity
	}
	lo, hi := rangeBounds(track, r)
	return track[lo:hi], nil
}

// LatestSampleAt returns the entity's most recent sample at or before ts.
// Returns false when the entity has no sample at or before ts.
func (s *TrackStore) LatestSampleAt(entityID string, ts int64) (models.PositionSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	track := s.tracks[entityID]
	// First index with timestamp > ts; the sample before it is the latest at ts
	idx := sort.Search(len(track), func(i int) bool { return track[i].Timestamp > ts })
	if idx == 0 {
		return models.PositionSample{}, false
	}
	return track[idx-1], true
}

// EntityIDs returns every entity with a track, sorted for deterministic
// cross-entity iteration
func (s *TrackStore) EntityIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.tracks))
	for id := range s.tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AppendEvent adds an event to the entity's event log with the same ordering
// discipline as samples. Assigns the event ID on success.
func (s *TrackStore) AppendEvent(event models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.events[event.EntityID]
	if len(log) > 0 && event.Timestamp <= log[len(log)-1].Timestamp {
		return models.Event{}, ErrOutOfOrderSample
	}
	s.nextEventID++
	event.ID = s.nextEventID
	s.events[event.EntityID] = append(log, event)
	return event, nil
}

// Events returns the entity's full ordered event log. Entities without events
// yield an empty slice.
func (s *TrackStore) Events(entityID string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events[entityID]
}

// EventsInRange returns all events across all entities whose timestamp falls
// within the range, ordered by timestamp
func (s *TrackStore) EventsInRange(r models.TimeRange) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for _, log := range s.events {
		lo := sort.Search(len(log), func(i int) bool { return log[i].Timestamp >= r.Start })
		hi := sort.Search(len(log), func(i int) bool { return log[i].Timestamp > r.End })
		out = append(out, log[lo:hi]...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// rangeBounds returns the half-open index interval [lo, hi) of samples whose
// timestamps fall within the closed range
func rangeBounds(track []models.PositionSample, r models.TimeRange) (int, int) {
	lo := sort.Search(len(track), func(i int) bool { return track[i].Timestamp >= r.Start })
	hi := sort.Search(len(track), func(i int) bool { return track[i].Timestamp > r.End })
	return lo, hi
}
