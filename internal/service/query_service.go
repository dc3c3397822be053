package service

import (
	"context"
	"sync"
	"time"

	"github.com/harborwatch/marinetrack/internal/analysis/activity"
	"github.com/harborwatch/marinetrack/internal/analysis/encounter"
	"github.com/harborwatch/marinetrack/internal/analysis/snapshot"
	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/spatial"
	"github.com/harborwatch/marinetrack/internal/store"
)

// QueryService is the single entry point external collaborators call. It
// composes the track store, point-in-time index, encounter detector and
// activity aggregator; its only state is the default active time range.
type QueryService struct {
	store      *store.TrackStore
	index      *snapshot.Index
	detector   *encounter.Detector
	aggregator *activity.Aggregator
	cfg        *config.Config

	mu          sync.RWMutex
	activeRange models.TimeRange

	now func() int64 // Injectable clock, Unix milliseconds
}

// NewQueryService wires the query facade over a track store. Each facade is an
// explicit instance; tests construct fresh ones with fresh stores.
func NewQueryService(s *store.TrackStore, cfg *config.Config) *QueryService {
	ix := snapshot.NewIndex(s, cfg.SnapshotTolerance)
	det := encounter.NewDetector(ix, cfg)
	agg := activity.NewAggregator(s, ix, det, cfg)

	qs := &QueryService{
		store:      s,
		index:      ix,
		detector:   det,
		aggregator: agg,
		cfg:        cfg,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
	now := qs.now()
	qs.activeRange = models.TimeRange{Start: now - 24*time.Hour.Milliseconds(), End: now}
	return qs
}

// WithClock replaces the facade's clock; used by replays and tests
func (qs *QueryService) WithClock(now func() int64) *QueryService {
	qs.now = now
	return qs
}

// SetTimeRange replaces the default active range applied when a query omits
// an explicit range
func (qs *QueryService) SetTimeRange(r models.TimeRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.activeRange = r
	return nil
}

// ActiveTimeRange returns the current default range
func (qs *QueryService) ActiveTimeRange() models.TimeRange {
	qs.mu.RLock()
	defer qs.mu.RUnlock()
	return qs.activeRange
}

// VesselsInRange returns a presence summary for every vessel with at least one
// sample in the range
func (qs *QueryService) VesselsInRange(r models.TimeRange) ([]models.VesselSummary, error) {
	r = qs.resolveRange(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := []models.VesselSummary{}
	for _, id := range qs.store.EntityIDs() {
		samples, err := qs.store.SamplesInRange(id, r)
		if err != nil || len(samples) == 0 {
			continue
		}
		out = append(out, models.VesselSummary{
			EntityID:       id,
			SampleCount:    len(samples),
			FirstTimestamp: samples[0].Timestamp,
			LastTimestamp:  samples[len(samples)-1].Timestamp,
			LastSample:     samples[len(samples)-1],
		})
	}
	return out, nil
}

// TracksFor returns the in-range track of each requested vessel. Unknown
// entities fail with store.ErrUnknownEntity; known entities with no samples in
// range yield an empty track.
func (qs *QueryService) TracksFor(entityIDs []string, r models.TimeRange) ([]models.TrackResponse, error) {
	r = qs.resolveRange(r)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	out := make([]models.TrackResponse, 0, len(entityIDs))
	for _, id := range entityIDs {
		samples, err := qs.store.SamplesInRange(id, r)
		if err != nil {
			return nil, err
		}

		lats := make([]float64, len(samples))
		lons := make([]float64, len(samples))
		for i, s := range samples {
			lats[i] = s.Latitude
			lons[i] = s.Longitude
		}

		out = append(out, models.TrackResponse{
			EntityID:       id,
			Samples:        samples,
			Count:          len(samples),
			DistanceMeters: spatial.PathLengthMeters(lats, lons),
		})
	}
	return out, nil
}

// VesselsAtTime returns every vessel's nearest sample at time t. Vessels with
// no qualifying sample are omitted.
func (qs *QueryService) VesselsAtTime(t int64, tolerance time.Duration) map[string]models.PositionSample {
	return qs.index.At(t, tolerance)
}

// Timeline returns hourly activity snapshots over the lookback window ending
// now. Non-positive lookback defaults to 24 hours.
func (qs *QueryService) Timeline(ctx context.Context, lookbackHours int) ([]models.ActivitySnapshot, error) {
	if lookbackHours <= 0 {
		lookbackHours = 24
	}
	now := qs.now()
	r := models.TimeRange{Start: now - int64(lookbackHours)*time.Hour.Milliseconds(), End: now}
	return qs.aggregator.Timeline(ctx, r, now)
}

// CurrentStats derives fleet-wide figures from the latest timeline snapshot
// plus the risk distribution across vessels seen in that interval
func (qs *QueryService) CurrentStats(ctx context.Context) (models.CurrentStats, error) {
	timeline, err := qs.Timeline(ctx, 24)
	if err != nil {
		return models.CurrentStats{}, err
	}
	if len(timeline) == 0 {
		return models.CurrentStats{}, nil
	}

	latest := timeline[len(timeline)-1]
	interval := models.TimeRange{
		Start: latest.Timestamp - qs.cfg.TimelineInterval.Milliseconds(),
		End:   latest.Timestamp,
	}
	return models.CurrentStats{
		Snapshot: latest,
		Risk:     qs.aggregator.RiskDistribution(interval),
	}, nil
}

// Encounters runs the encounter detector over the range
func (qs *QueryService) Encounters(ctx context.Context, r models.TimeRange) ([]models.Encounter, error) {
	return qs.detector.Detect(ctx, qs.resolveRange(r))
}

// HeatmapData builds a heatmap over the range with the configured default bin
// count
func (qs *QueryService) HeatmapData(ctx context.Context, r models.TimeRange) ([]models.HeatmapBin, error) {
	return qs.aggregator.Heatmap(ctx, qs.resolveRange(r), 0)
}

// TimelineHeatmap builds a heatmap over the range with a caller-specified bin
// count
func (qs *QueryService) TimelineHeatmap(ctx context.Context, r models.TimeRange, binCount int) ([]models.HeatmapBin, error) {
	return qs.aggregator.Heatmap(ctx, qs.resolveRange(r), binCount)
}

// resolveRange substitutes the active range for a zero-valued one
func (qs *QueryService) resolveRange(r models.TimeRange) models.TimeRange {
	if r == (models.TimeRange{}) {
		return qs.ActiveTimeRange()
	}
	return r
}
