package activity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/harborwatch/marinetrack/internal/analysis/encounter"
	"github.com/harborwatch/marinetrack/internal/analysis/snapshot"
	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/store"
)

// Aggregator builds fixed-interval activity snapshots and time-binned heatmaps
// from the track store. All output is derived and ephemeral: recomputed from
// the store and event log on every call.
type Aggregator struct {
	store    *store.TrackStore
	index    *snapshot.Index
	detector *encounter.Detector
	cfg      *config.Config
}

// NewAggregator creates an activity aggregator
func NewAggregator(s *store.TrackStore, ix *snapshot.Index, det *encounter.Detector, cfg *config.Config) *Aggregator {
	return &Aggregator{store: s, index: ix, detector: det, cfg: cfg}
}

// Timeline produces one activity snapshot per fixed interval across the range.
// now is the reference instant for dark-vessel staleness, supplied by the
// caller so historical replays and tests stay deterministic; a vessel's
// staleness does not vary with the interval it matched, so dark counts are
// constant across the intervals of one query. Intervals with no matched
// vessels report zero counts and a zero mean risk, never NaN.
func (a *Aggregator) Timeline(ctx context.Context, r models.TimeRange, now int64) ([]models.ActivitySnapshot, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	width := a.cfg.TimelineInterval.Milliseconds()
	ids := a.store.EntityIDs()

	var timeline []models.ActivitySnapshot
	for lo := r.Start; lo < r.End; lo += width {
		if err := ctx.Err(); err != nil {
			return timeline, err
		}

		hi := lo + width
		if hi > r.End {
			hi = r.End
		}
		// Half-open interval: the boundary sample belongs to the next interval
		interval := models.TimeRange{Start: lo, End: hi - 1}

		var risks []float64
		dark := 0
		for _, id := range ids {
			samples, err := a.store.SamplesInRange(id, interval)
			if err != nil || len(samples) == 0 {
				continue
			}
			risks = append(risks, samples[len(samples)-1].RiskScore)

			if last, ok := a.store.LatestSampleAt(id, now); ok {
				if now-last.Timestamp > a.cfg.DarkVesselThreshold.Milliseconds() {
					dark++
				}
			}
		}

		meanRisk := 0.0
		if len(risks) > 0 {
			meanRisk = stat.Mean(risks, nil)
		}

		timeline = append(timeline, models.ActivitySnapshot{
			Timestamp:       hi,
			EntityCount:     len(risks),
			MeanRisk:        meanRisk,
			EventCount:      len(a.store.EventsInRange(interval)),
			DarkEntityCount: dark,
			ClusterCount:    len(risks) / a.cfg.ClusterSize,
		})
	}
	return timeline, nil
}

// Heatmap partitions the range into equal-width bins combining vessel density
// with encounter intensity. Always returns exactly bins bins, however sparse
// the underlying data; bins partition the range contiguously. A negative bin
// count is a configuration error; zero falls back to the configured default.
func (a *Aggregator) Heatmap(ctx context.Context, r models.TimeRange, bins int) ([]models.HeatmapBin, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if bins == 0 {
		bins = a.cfg.DefaultBinCount
	}
	if bins < 0 {
		return nil, fmt.Errorf("%w: bin count must be positive, got %d", config.ErrConfiguration, bins)
	}

	encounters, err := a.detector.Detect(ctx, r)
	if err != nil {
		return nil, err
	}

	width := r.Width()
	binWidth := width / int64(bins)

	// Encounter counts per bin
	encounterCounts := make([]int, bins)
	for _, e := range encounters {
		idx := 0
		if width > 0 {
			idx = int((e.Timestamp - r.Start) * int64(bins) / width)
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		encounterCounts[idx]++
	}

	tolerance := time.Duration(binWidth/2) * time.Millisecond
	out := make([]models.HeatmapBin, 0, bins)
	for i := 0; i < bins; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		start := r.Start + width*int64(i)/int64(bins)
		end := r.Start + width*int64(i+1)/int64(bins)
		center := start + (end-start)/2

		entityCount := len(a.index.At(center, tolerance))

		// Intensity is the pointwise max of normalized vessel density and
		// normalized encounter density; encounters weigh double as the
		// rarer, higher-signal term.
		entityDensity := clamp01(float64(entityCount) / float64(a.cfg.MaxExpectedEntities))
		encounterDensity := clamp01(float64(encounterCounts[i])/float64(a.cfg.MaxExpectedEncounters)) * 2

		intensity := entityDensity
		if encounterDensity > intensity {
			intensity = encounterDensity
		}

		out = append(out, models.HeatmapBin{
			Start:           start,
			End:             end,
			TimestampCenter: center,
			EntityCount:     entityCount,
			EncounterCount:  encounterCounts[i],
			Intensity:       clamp01(intensity),
		})
	}
	return out, nil
}

// RiskDistribution summarizes the latest in-range risk score of every vessel
// with samples in the range. Zero-valued when no vessel matches.
func (a *Aggregator) RiskDistribution(r models.TimeRange) models.RiskDistribution {
	var risks []float64
	for _, id := range a.store.EntityIDs() {
		samples, err := a.store.SamplesInRange(id, r)
		if err != nil || len(samples) == 0 {
			continue
		}
		risks = append(risks, samples[len(samples)-1].RiskScore)
	}
	if len(risks) == 0 {
		return models.RiskDistribution{}
	}

	sort.Float64s(risks)
	dist := models.RiskDistribution{
		Mean: stat.Mean(risks, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, risks, nil),
	}
	if len(risks) > 1 {
		dist.StdDev = stat.StdDev(risks, nil)
	}
	return dist
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
