package encounter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harborwatch/marinetrack/internal/analysis/snapshot"
	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/spatial"
)

// Maximum speed difference (knots) for a pair to classify as a rendezvous
const rendezvousSpeedDiffKnots = 2.0

// Confidence multipliers. Distance penalties stack multiplicatively; the final
// confidence is clamped to [0.1, 1.0].
const (
	innerTierPenalty = 0.7
	outerTierPenalty = 0.5
	slowPairBonus    = 1.2
	highRiskBonus    = 1.1
	minConfidence    = 0.1
	maxConfidence    = 1.0
)

// Detector performs a time-sliced spatial join across vessel pairs to find
// co-location events. Stateless between invocations: each run recomputes
// encounters from the track store, and the output carries no identity across
// re-runs.
type Detector struct {
	index *snapshot.Index
	cfg   *config.Config
}

// NewDetector creates an encounter detector reading through the given
// point-in-time index
func NewDetector(index *snapshot.Index, cfg *config.Config) *Detector {
	return &Detector{index: index, cfg: cfg}
}

// Detect finds all pairwise encounters within the range. The range is
// partitioned into fixed-width slices; each slice is evaluated at its midpoint
// with a tolerance of half the slice width. No qualifying pairs is a normal
// empty result, never an error. Cancellation is honored between slices, so a
// caller may consume partial results slice by slice.
func (d *Detector) Detect(ctx context.Context, r models.TimeRange) ([]models.Encounter, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	width := d.cfg.SliceWidth.Milliseconds()
	tolerance := d.cfg.SliceWidth / 2

	encounters := []models.Encounter{}
	for _, slice := range partition(r, width) {
		if err := ctx.Err(); err != nil {
			return encounters, err
		}

		mid := slice.Start + slice.Width()/2
		snap := d.index.At(mid, tolerance)
		if len(snap) < 2 {
			continue
		}

		for _, pair := range candidatePairs(snap, d.cfg.DetectRadiusMeters) {
			a, b := snap[pair[0]], snap[pair[1]]

			dist := spatial.HaversineDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
			if dist > d.cfg.DetectRadiusMeters {
				continue
			}

			lat, lon := spatial.Midpoint(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
			encounters = append(encounters, models.Encounter{
				ID:             uuid.NewString(),
				Timestamp:      mid,
				EntityIDs:      []string{pair[0], pair[1]},
				EncounterType:  d.classify(dist, a, b),
				Latitude:       lat,
				Longitude:      lon,
				DistanceMeters: dist,
				// Coarse approximation: true overlap duration would need
				// sub-slice sampling. Tune via the slice width setting.
				DurationMs: slice.Width(),
				Confidence: d.confidence(dist, a, b),
			})
		}
	}
	return encounters, nil
}

// classify applies the ordered classification rules; first match wins
func (d *Detector) classify(dist float64, a, b models.PositionSample) string {
	slow := d.cfg.SlowSpeedKnots
	speedDiff := a.Speed - b.Speed
	if speedDiff < 0 {
		speedDiff = -speedDiff
	}

	switch {
	case dist <= d.cfg.TightRadiusMeters && a.Speed < slow && b.Speed < slow:
		return models.EncounterTypeSTSTransfer
	case dist <= d.cfg.MediumRadiusMeters && speedDiff < rendezvousSpeedDiffKnots:
		return models.EncounterTypeRendezvous
	case dist <= d.cfg.LooseRadiusMeters:
		return models.EncounterTypeCloseApproach
	default:
		return models.EncounterTypeFormation
	}
}

// confidence scores an encounter. Distance penalties apply in sequence so both
// can stack; the slow-pair bonus models an intentional meeting.
func (d *Detector) confidence(dist float64, a, b models.PositionSample) float64 {
	c := 1.0
	if dist > d.cfg.MediumRadiusMeters {
		c *= innerTierPenalty
	}
	if dist > d.cfg.LooseRadiusMeters {
		c *= outerTierPenalty
	}
	if a.Speed < d.cfg.SlowSpeedKnots && b.Speed < d.cfg.SlowSpeedKnots {
		c *= slowPairBonus
	}
	if a.RiskScore > d.cfg.HighRiskScore || b.RiskScore > d.cfg.HighRiskScore {
		c *= highRiskBonus
	}

	if c < minConfidence {
		c = minConfidence
	}
	if c > maxConfidence {
		c = maxConfidence
	}
	return c
}

// partition splits a range into contiguous slices of the given width in
// milliseconds. A zero-width range yields a single degenerate slice so that
// point queries still evaluate.
func partition(r models.TimeRange, width int64) []models.TimeRange {
	if width <= 0 {
		width = time.Hour.Milliseconds()
	}
	if r.Width() == 0 {
		return []models.TimeRange{r}
	}

	var slices []models.TimeRange
	for lo := r.Start; lo < r.End; lo += width {
		hi := lo + width
		if hi > r.End {
			hi = r.End
		}
		slices = append(slices, models.TimeRange{Start: lo, End: hi})
	}
	return slices
}
