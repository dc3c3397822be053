package repository

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/store"
)

// ArchiveRepository persists appended samples and events to the sqlite archive
// and can replay an archive into a fresh track store at startup. The in-memory
// store stays the source of truth for queries; the archive is a write-through
// convenience so restarts do not lose history.
type ArchiveRepository struct {
	db *sql.DB
}

// NewArchiveRepository creates an archive repository
func NewArchiveRepository(db *sql.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// SaveSample persists one position sample
func (r *ArchiveRepository) SaveSample(s models.PositionSample) error {
	query := `INSERT INTO position_samples
		(entity_id, timestamp, latitude, longitude, speed, heading, risk_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, s.EntityID, s.Timestamp, s.Latitude, s.Longitude, s.Speed, s.Heading, s.RiskScore); err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}
	return nil
}

// SaveEvent persists one vessel event
func (r *ArchiveRepository) SaveEvent(e models.Event) error {
	query := `INSERT INTO vessel_events
		(entity_id, event_type, timestamp, severity, description)
		VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, e.EntityID, e.EventType, e.Timestamp, e.Severity, e.Description); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ReplayInto loads the archived samples and events into the store in timestamp
// order. Rows that violate the ordering invariant (duplicates from an earlier
// partial replay, clock glitches in archived feeds) are skipped and counted,
// not fatal.
func (r *ArchiveRepository) ReplayInto(ts *store.TrackStore) error {
	samples, skippedSamples, err := r.replaySamples(ts)
	if err != nil {
		return err
	}
	events, skippedEvents, err := r.replayEvents(ts)
	if err != nil {
		return err
	}
	log.Printf("[Archive] replayed %d samples (%d skipped), %d events (%d skipped)",
		samples, skippedSamples, events, skippedEvents)
	return nil
}

func (r *ArchiveRepository) replaySamples(ts *store.TrackStore) (loaded, skipped int, err error) {
	rows, err := r.db.Query(`SELECT entity_id, timestamp, latitude, longitude, speed, heading, risk_score
		FROM position_samples ORDER BY timestamp, entity_id`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query archived samples: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.PositionSample
		if err := rows.Scan(&s.EntityID, &s.Timestamp, &s.Latitude, &s.Longitude, &s.Speed, &s.Heading, &s.RiskScore); err != nil {
			return loaded, skipped, fmt.Errorf("failed to scan archived sample: %w", err)
		}
		if err := ts.Append(s); err != nil {
			skipped++
			continue
		}
		loaded++
	}
	return loaded, skipped, rows.Err()
}

func (r *ArchiveRepository) replayEvents(ts *store.TrackStore) (loaded, skipped int, err error) {
	rows, err := r.db.Query(`SELECT entity_id, event_type, timestamp, severity, description
		FROM vessel_events ORDER BY timestamp, entity_id`)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query archived events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.EntityID, &e.EventType, &e.Timestamp, &e.Severity, &e.Description); err != nil {
			return loaded, skipped, fmt.Errorf("failed to scan archived event: %w", err)
		}
		if _, err := ts.AppendEvent(e); err != nil {
			skipped++
			continue
		}
		loaded++
	}
	return loaded, skipped, rows.Err()
}
