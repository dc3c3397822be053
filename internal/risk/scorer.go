package risk

import (
	"math/rand"
	"sync"

	"github.com/harborwatch/marinetrack/internal/spatial"
)

// Score composition constants. Each term is additive and independently
// testable; the final score is clamped to [0, 100].
const (
	BaseScore    = 20.0
	SlowBonus    = 20.0 // Speed below the slow threshold, loitering suspicion
	ZoneBonus    = 30.0 // Position inside a configured sensitive zone
	FlaggedBonus = 25.0 // Entity on the externally supplied watch list
	MaxScore     = 100.0
)

// AnomalySource supplies the stochastic anomaly term of a risk score. The
// scoring pipeline itself is deterministic; anomaly signals are injected so
// that a production deployment can plug in a real anomaly detector and tests
// can pin the term to zero.
type AnomalySource interface {
	Anomaly(entityID string, timestamp int64) float64
}

// NoAnomaly is the deterministic default anomaly source
type NoAnomaly struct{}

// Anomaly always returns zero
func (NoAnomaly) Anomaly(string, int64) float64 { return 0 }

// RandomAnomaly simulates sensor anomalies with a bounded-probability additive
// jump. Seeded explicitly so simulation runs are reproducible.
type RandomAnomaly struct {
	Probability float64 // Chance per sample of an anomaly jump
	Magnitude   float64 // Size of the jump when it fires

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomAnomaly creates a seeded simulated anomaly source
func NewRandomAnomaly(probability, magnitude float64, seed int64) *RandomAnomaly {
	return &RandomAnomaly{
		Probability: probability,
		Magnitude:   magnitude,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Anomaly returns the magnitude with the configured probability, else zero
func (r *RandomAnomaly) Anomaly(string, int64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rng.Float64() < r.Probability {
		return r.Magnitude
	}
	return 0
}

// Scorer derives a per-sample risk score from kinematic and geographic
// features. Pure with respect to its configuration: identical inputs produce
// identical scores apart from the injected anomaly term.
type Scorer struct {
	zones     []spatial.Zone
	slowKnots float64
	flagged   func(entityID string) bool
	anomaly   AnomalySource
}

// NewScorer creates a scorer. flagged may be nil (no entities flagged);
// anomaly may be nil (no anomaly term).
func NewScorer(zones []spatial.Zone, slowKnots float64, flagged func(string) bool, anomaly AnomalySource) *Scorer {
	if flagged == nil {
		flagged = func(string) bool { return false }
	}
	if anomaly == nil {
		anomaly = NoAnomaly{}
	}
	return &Scorer{
		zones:     zones,
		slowKnots: slowKnots,
		flagged:   flagged,
		anomaly:   anomaly,
	}
}

// FlagList builds a flagged-entity selector from a fixed set of entity IDs
func FlagList(ids ...string) func(string) bool {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id string) bool {
		_, ok := set[id]
		return ok
	}
}

// Score computes the risk score for one position sample
func (s *Scorer) Score(entityID string, speed, lat, lon float64, timestamp int64) float64 {
	score := BaseScore

	if speed < s.slowKnots {
		score += SlowBonus
	}
	if spatial.AnyZoneContains(s.zones, lat, lon) {
		score += ZoneBonus
	}
	if s.flagged(entityID) {
		score += FlaggedBonus
	}
	score += s.anomaly.Anomaly(entityID, timestamp)

	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}
	return score
}
