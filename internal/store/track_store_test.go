package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborwatch/marinetrack/internal/models"
)

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

func hour(n int64) int64 {
	return baseTime + n*time.Hour.Milliseconds()
}

func sampleAt(entityID string, ts int64) models.PositionSample {
	return models.PositionSample{
		EntityID:  entityID,
		Timestamp: ts,
		Latitude:  1.0,
		Longitude: 103.0,
		Speed:     10,
	}
}

func TestAppendOrdering(t *testing.T) {
	t.Parallel()

	t.Run("strictly increasing timestamps accepted", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		require.NoError(t, s.Append(sampleAt("v1", hour(0))))
		require.NoError(t, s.Append(sampleAt("v1", hour(1))))
		require.NoError(t, s.Append(sampleAt("v1", hour(2))))

		track, err := s.Track("v1")
		require.NoError(t, err)
		assert.Len(t, track, 3)
	})

	t.Run("out of order append rejected and track unchanged", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		require.NoError(t, s.Append(sampleAt("v1", hour(2))))
		before, err := s.Track("v1")
		require.NoError(t, err)

		err = s.Append(sampleAt("v1", hour(1)))
		assert.ErrorIs(t, err, ErrOutOfOrderSample)

		after, err := s.Track("v1")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("equal timestamp rejected", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		require.NoError(t, s.Append(sampleAt("v1", hour(1))))
		err := s.Append(sampleAt("v1", hour(1)))
		assert.ErrorIs(t, err, ErrOutOfOrderSample)
	})

	t.Run("different entities do not interfere", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		require.NoError(t, s.Append(sampleAt("v1", hour(5))))
		require.NoError(t, s.Append(sampleAt("v2", hour(1))))
		require.NoError(t, s.Append(sampleAt("v2", hour(2))))

		assert.ElementsMatch(t, []string{"v1", "v2"}, s.EntityIDs())
	})
}

func TestSamplesInRange(t *testing.T) {
	t.Parallel()

	s := NewTrackStore()
	require.NoError(t, s.Append(sampleAt("v1", hour(0))))
	require.NoError(t, s.Append(sampleAt("v1", hour(1))))
	require.NoError(t, s.Append(sampleAt("v1", hour(2))))

	t.Run("mid range returns only contained samples", func(t *testing.T) {
		t.Parallel()
		r := models.TimeRange{Start: baseTime + 30*time.Minute.Milliseconds(), End: baseTime + 90*time.Minute.Milliseconds()}
		samples, err := s.SamplesInRange("v1", r)
		require.NoError(t, err)
		require.Len(t, samples, 1)
		assert.Equal(t, hour(1), samples[0].Timestamp)
	})

	t.Run("result is a subset of the full track", func(t *testing.T) {
		t.Parallel()
		track, err := s.Track("v1")
		require.NoError(t, err)

		ranges := []models.TimeRange{
			{Start: hour(0), End: hour(2)},
			{Start: hour(-5), End: hour(5)},
			{Start: hour(1), End: hour(1)},
			{Start: hour(3), End: hour(9)},
		}
		for _, r := range ranges {
			samples, err := s.SamplesInRange("v1", r)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(samples), len(track))
			for _, sm := range samples {
				assert.True(t, r.Contains(sm.Timestamp))
			}
		}
	})

	t.Run("empty result for existing entity is not an error", func(t *testing.T) {
		t.Parallel()
		samples, err := s.SamplesInRange("v1", models.TimeRange{Start: hour(10), End: hour(20)})
		require.NoError(t, err)
		assert.Empty(t, samples)
	})

	t.Run("unknown entity is an error", func(t *testing.T) {
		t.Parallel()
		_, err := s.SamplesInRange("ghost", models.TimeRange{Start: hour(0), End: hour(2)})
		assert.ErrorIs(t, err, ErrUnknownEntity)

		_, err = s.Track("ghost")
		assert.ErrorIs(t, err, ErrUnknownEntity)
	})
}

func TestLatestSampleAt(t *testing.T) {
	t.Parallel()

	s := NewTrackStore()
	require.NoError(t, s.Append(sampleAt("v1", hour(0))))
	require.NoError(t, s.Append(sampleAt("v1", hour(2))))

	t.Run("returns latest sample at or before ts", func(t *testing.T) {
		t.Parallel()
		got, ok := s.LatestSampleAt("v1", hour(1))
		require.True(t, ok)
		assert.Equal(t, hour(0), got.Timestamp)

		got, ok = s.LatestSampleAt("v1", hour(2))
		require.True(t, ok)
		assert.Equal(t, hour(2), got.Timestamp)
	})

	t.Run("no sample before ts", func(t *testing.T) {
		t.Parallel()
		_, ok := s.LatestSampleAt("v1", hour(-1))
		assert.False(t, ok)
	})

	t.Run("unknown entity", func(t *testing.T) {
		t.Parallel()
		_, ok := s.LatestSampleAt("ghost", hour(1))
		assert.False(t, ok)
	})
}

func TestEventLog(t *testing.T) {
	t.Parallel()

	t.Run("events keep the sample ordering discipline", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		first, err := s.AppendEvent(models.Event{
			EntityID:  "v1",
			EventType: models.EventTypeAISGap,
			Timestamp: hour(1),
			Severity:  models.SeverityHigh,
		})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)

		_, err = s.AppendEvent(models.Event{
			EntityID:  "v1",
			EventType: models.EventTypeLoitering,
			Timestamp: hour(0),
			Severity:  models.SeverityLow,
		})
		assert.ErrorIs(t, err, ErrOutOfOrderSample)
		assert.Len(t, s.Events("v1"), 1)
	})

	t.Run("events in range merge across entities in timestamp order", func(t *testing.T) {
		t.Parallel()
		s := NewTrackStore()

		for _, e := range []models.Event{
			{EntityID: "v1", EventType: models.EventTypeAISGap, Timestamp: hour(1), Severity: models.SeverityLow},
			{EntityID: "v2", EventType: models.EventTypeLoitering, Timestamp: hour(0), Severity: models.SeverityLow},
			{EntityID: "v2", EventType: models.EventTypeRendezvous, Timestamp: hour(3), Severity: models.SeverityMedium},
		} {
			_, err := s.AppendEvent(e)
			require.NoError(t, err)
		}

		got := s.EventsInRange(models.TimeRange{Start: hour(0), End: hour(2)})
		require.Len(t, got, 2)
		assert.Equal(t, hour(0), got[0].Timestamp)
		assert.Equal(t, hour(1), got[1].Timestamp)
	})
}
