package encounter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwatch/marinetrack/internal/analysis/snapshot"
	"github.com/harborwatch/marinetrack/internal/config"
	"github.com/harborwatch/marinetrack/internal/models"
	"github.com/harborwatch/marinetrack/internal/spatial"
	"github.com/harborwatch/marinetrack/internal/store"
)

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

// Reference position in open water
const (
	refLat = 1.0
	refLon = 103.0
)

func newTestDetector(t *testing.T) (*Detector, *store.TrackStore) {
	t.Helper()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	s := store.NewTrackStore()
	ix := snapshot.NewIndex(s, cfg.SnapshotTolerance)
	return NewDetector(ix, cfg), s
}

// placePair appends one sample each for two vessels separated by the given
// distance in meters, both at the midpoint of the first detection slice
func placePair(t *testing.T, s *store.TrackStore, distMeters, speedA, speedB, riskA, riskB float64) {
	t.Helper()
	ts := baseTime + 30*time.Minute.Milliseconds()

	require.NoError(t, s.Append(models.PositionSample{
		EntityID: "va", Timestamp: ts, Latitude: refLat, Longitude: refLon,
		Speed: speedA, RiskScore: riskA,
	}))

	lat, lon := spatial.DestinationPoint(refLat, refLon, 90, distMeters)
	require.NoError(t, s.Append(models.PositionSample{
		EntityID: "vb", Timestamp: ts, Latitude: lat, Longitude: lon,
		Speed: speedB, RiskScore: riskB,
	}))
}

func detectRange() models.TimeRange {
	return models.TimeRange{Start: baseTime, End: baseTime + time.Hour.Milliseconds()}
}

func TestDetectClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		distMeters     float64
		speedA, speedB float64
		riskA, riskB   float64
		wantType       string
		wantConfidence float64
	}{
		{
			name:       "slow pair at tight range is an STS transfer",
			distMeters: 300, speedA: 1, speedB: 2,
			wantType:       models.EncounterTypeSTSTransfer,
			wantConfidence: 1.0, // 1.0 * 1.2 slow-pair bonus, clamped to 1.0
		},
		{
			name:       "matched speeds at medium range is a rendezvous",
			distMeters: 1500, speedA: 5, speedB: 6,
			wantType:       models.EncounterTypeRendezvous,
			wantConfidence: 1.0,
		},
		{
			name:       "diverging speeds at loose range is a close approach",
			distMeters: 3000, speedA: 5, speedB: 12,
			wantType:       models.EncounterTypeCloseApproach,
			wantConfidence: 0.7, // Beyond the inner tier
		},
		{
			name:       "beyond loose range is a formation",
			distMeters: 5000, speedA: 5, speedB: 12,
			wantType:       models.EncounterTypeFormation,
			wantConfidence: 0.35, // Both distance penalties stack
		},
		{
			name:       "high risk vessel boosts confidence",
			distMeters: 3000, speedA: 5, speedB: 12, riskA: 80,
			wantType:       models.EncounterTypeCloseApproach,
			wantConfidence: 0.77, // 0.7 * 1.1
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			det, s := newTestDetector(t)
			placePair(t, s, tt.distMeters, tt.speedA, tt.speedB, tt.riskA, tt.riskB)

			encounters, err := det.Detect(context.Background(), detectRange())
			require.NoError(t, err)
			require.Len(t, encounters, 1)

			e := encounters[0]
			assert.Equal(t, tt.wantType, e.EncounterType)
			assert.InDelta(t, tt.wantConfidence, e.Confidence, 1e-9)
			assert.Equal(t, []string{"va", "vb"}, e.EntityIDs)
			assert.InDelta(t, tt.distMeters, e.DistanceMeters, tt.distMeters*0.01)
			assert.Equal(t, time.Hour.Milliseconds(), e.DurationMs)
			assert.NotEmpty(t, e.ID)

			// Location is the midpoint of the pair
			half := spatial.HaversineDistance(refLat, refLon, e.Latitude, e.Longitude)
			assert.InDelta(t, tt.distMeters/2, half, tt.distMeters*0.01)
		})
	}
}

func TestDetectSlowPairHundredthDegreeApart(t *testing.T) {
	t.Parallel()

	// Two vessels 0.01 degrees of latitude apart (~1.1 km), speeds 1 and 2
	// knots, default thresholds: exactly one STS transfer at full confidence
	det, s := newTestDetector(t)
	ts := baseTime + 30*time.Minute.Milliseconds()

	require.NoError(t, s.Append(models.PositionSample{
		EntityID: "va", Timestamp: ts, Latitude: refLat, Longitude: refLon, Speed: 1,
	}))
	require.NoError(t, s.Append(models.PositionSample{
		EntityID: "vb", Timestamp: ts, Latitude: refLat + 0.01, Longitude: refLon, Speed: 2,
	}))

	encounters, err := det.Detect(context.Background(), detectRange())
	require.NoError(t, err)
	require.Len(t, encounters, 1)
	assert.Equal(t, models.EncounterTypeSTSTransfer, encounters[0].EncounterType)
	assert.Equal(t, 1.0, encounters[0].Confidence)
}

func TestDetectNoEncounters(t *testing.T) {
	t.Parallel()

	t.Run("pair beyond detect radius yields empty result", func(t *testing.T) {
		t.Parallel()
		det, s := newTestDetector(t)
		placePair(t, s, 8000, 1, 1, 0, 0)

		encounters, err := det.Detect(context.Background(), detectRange())
		require.NoError(t, err)
		assert.Empty(t, encounters)
	})

	t.Run("empty store yields empty result", func(t *testing.T) {
		t.Parallel()
		det, _ := newTestDetector(t)
		encounters, err := det.Detect(context.Background(), detectRange())
		require.NoError(t, err)
		assert.Empty(t, encounters)
	})

	t.Run("single vessel yields empty result", func(t *testing.T) {
		t.Parallel()
		det, s := newTestDetector(t)
		require.NoError(t, s.Append(models.PositionSample{
			EntityID: "va", Timestamp: baseTime + 1, Latitude: refLat, Longitude: refLon,
		}))

		encounters, err := det.Detect(context.Background(), detectRange())
		require.NoError(t, err)
		assert.Empty(t, encounters)
	})
}

func TestDetectInvalidRange(t *testing.T) {
	t.Parallel()

	det, _ := newTestDetector(t)
	_, err := det.Detect(context.Background(), models.TimeRange{Start: 100, End: 50})
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestDetectDeterministic(t *testing.T) {
	t.Parallel()

	det, s := newTestDetector(t)
	placePair(t, s, 1500, 5, 6, 0, 0)

	first, err := det.Detect(context.Background(), detectRange())
	require.NoError(t, err)
	second, err := det.Detect(context.Background(), detectRange())
	require.NoError(t, err)

	// Identical apart from the per-run IDs: encounters carry no identity
	// across invocations
	require.Equal(t, len(first), len(second))
	for i := range first {
		first[i].ID = ""
		second[i].ID = ""
	}
	assert.Equal(t, first, second)
}

func TestDetectPairOrderIndependent(t *testing.T) {
	t.Parallel()

	ts := baseTime + 30*time.Minute.Milliseconds()
	lat, lon := spatial.DestinationPoint(refLat, refLon, 90, 300)

	// Same pair, appended in opposite orders
	forward := store.NewTrackStore()
	require.NoError(t, forward.Append(models.PositionSample{EntityID: "va", Timestamp: ts, Latitude: refLat, Longitude: refLon, Speed: 1}))
	require.NoError(t, forward.Append(models.PositionSample{EntityID: "vb", Timestamp: ts, Latitude: lat, Longitude: lon, Speed: 2}))

	reverse := store.NewTrackStore()
	require.NoError(t, reverse.Append(models.PositionSample{EntityID: "vb", Timestamp: ts, Latitude: lat, Longitude: lon, Speed: 2}))
	require.NoError(t, reverse.Append(models.PositionSample{EntityID: "va", Timestamp: ts, Latitude: refLat, Longitude: refLon, Speed: 1}))

	cfg := config.Default()
	a, err := NewDetector(snapshot.NewIndex(forward, cfg.SnapshotTolerance), cfg).Detect(context.Background(), detectRange())
	require.NoError(t, err)
	b, err := NewDetector(snapshot.NewIndex(reverse, cfg.SnapshotTolerance), cfg).Detect(context.Background(), detectRange())
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].EntityIDs, b[0].EntityIDs)
	assert.Equal(t, a[0].EncounterType, b[0].EncounterType)
	assert.Equal(t, a[0].Confidence, b[0].Confidence)
}

func TestDetectMultipleSlices(t *testing.T) {
	t.Parallel()

	det, s := newTestDetector(t)
	lat, lon := spatial.DestinationPoint(refLat, refLon, 90, 300)

	// Pair present in the first and third hour, absent in the second
	for _, h := range []int64{0, 2} {
		ts := baseTime + h*time.Hour.Milliseconds() + 30*time.Minute.Milliseconds()
		require.NoError(t, s.Append(models.PositionSample{EntityID: "va", Timestamp: ts, Latitude: refLat, Longitude: refLon, Speed: 1}))
		require.NoError(t, s.Append(models.PositionSample{EntityID: "vb", Timestamp: ts, Latitude: lat, Longitude: lon, Speed: 1}))
	}

	r := models.TimeRange{Start: baseTime, End: baseTime + 3*time.Hour.Milliseconds()}
	encounters, err := det.Detect(context.Background(), r)
	require.NoError(t, err)

	require.Len(t, encounters, 2)
	assert.Equal(t, baseTime+30*time.Minute.Milliseconds(), encounters[0].Timestamp)
	assert.Equal(t, baseTime+150*time.Minute.Milliseconds(), encounters[1].Timestamp)
}

func TestDetectCancellation(t *testing.T) {
	t.Parallel()

	det, s := newTestDetector(t)
	placePair(t, s, 300, 1, 1, 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := det.Detect(ctx, detectRange())
	assert.ErrorIs(t, err, context.Canceled)
}
