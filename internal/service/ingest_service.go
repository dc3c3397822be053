package service

import (
	"fmt"
	"log"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/repository"
	"github.com/harborwatch/marinetrack/internal/risk"
	"github.com/harborwatch/marinetrack/internal/store"
)

// IngestService is the supply side of the core: it scores and appends position
// samples and behavioral events. Collaborators feeding it may be live AIS
// feeds, archive replays, or synthetic generators; the source format is their
// concern, not ours.
type IngestService struct {
	store   *store.TrackStore
	scorer  *risk.Scorer
	archive *repository.ArchiveRepository // nil disables write-through
}

// NewIngestService creates an ingest service. archive may be nil.
func NewIngestService(s *store.TrackStore, scorer *risk.Scorer, archive *repository.ArchiveRepository) *IngestService {
	return &IngestService{store: s, scorer: scorer, archive: archive}
}

// AppendSample scores and appends one position sample. Ordering violations
// surface as store.ErrOutOfOrderSample and leave the track unchanged.
func (s *IngestService) AppendSample(sample models.PositionSample) (models.PositionSample, error) {
	if sample.EntityID == "" {
		return models.PositionSample{}, fmt.Errorf("append sample: entity ID is required")
	}
	if sample.Latitude < -90 || sample.Latitude > 90 || sample.Longitude < -180 || sample.Longitude > 180 {
		return models.PositionSample{}, fmt.Errorf("append sample: position out of range")
	}

	sample.RiskScore = s.scorer.Score(sample.EntityID, sample.Speed, sample.Latitude, sample.Longitude, sample.Timestamp)

	if err := s.store.Append(sample); err != nil {
		return models.PositionSample{}, err
	}

	if s.archive != nil {
		if err := s.archive.SaveSample(sample); err != nil {
			// Archive is write-through convenience, not the source of truth
			log.Printf("[IngestService] archive sample write failed: %v", err)
		}
	}
	return sample, nil
}

// AppendEvent appends one behavioral event with the same per-entity ordering
// discipline as samples
func (s *IngestService) AppendEvent(event models.Event) (models.Event, error) {
	if event.EntityID == "" {
		return models.Event{}, fmt.Errorf("append event: entity ID is required")
	}
	if !models.ValidEventType(event.EventType) {
		return models.Event{}, fmt.Errorf("append event: unknown event type %q", event.EventType)
	}
	if !models.ValidSeverity(event.Severity) {
		return models.Event{}, fmt.Errorf("append event: unknown severity %q", event.Severity)
	}

	stored, err := s.store.AppendEvent(event)
	if err != nil {
		return models.Event{}, err
	}

	if s.archive != nil {
		if err := s.archive.SaveEvent(stored); err != nil {
			log.Printf("[IngestService] archive event write failed: %v", err)
		}
	}
	return stored, nil
}
