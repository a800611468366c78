package usecase

import (
	"testing"
	"time"

	"flightfare-core/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse("2006-01-02T15:04", s)
	require.NoError(t, err)
	return v
}

func TestNormalize_DelhiToMumbai(t *testing.T) {
	q := entity.FlightQuery{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureTime: mustTime(t, "2024-05-01T10:00"),
		ArrivalTime:   mustTime(t, "2024-05-01T12:30"),
		TransitCount:  0,
	}

	parts, err := Normalize(q)
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, parts.TransitCount)
	assert.Equal(t, []float64{1, 5}, parts.JourneyDate)
	assert.Equal(t, []float64{10, 0}, parts.Departure)
	assert.Equal(t, []float64{12, 30}, parts.Arrival)
	assert.Equal(t, []float64{2, 30}, parts.Duration)
}

func TestNormalize_Deterministic(t *testing.T) {
	q := entity.FlightQuery{
		Origin:        "BLR",
		Destination:   "HYD",
		DepartureTime: mustTime(t, "2024-12-31T22:45"),
		ArrivalTime:   mustTime(t, "2025-01-01T01:10"),
		TransitCount:  2,
	}

	first, err := Normalize(q)
	require.NoError(t, err)
	second, err := Normalize(q)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []float64{2, 25}, first.Duration)
	assert.Equal(t, []float64{31, 12}, first.JourneyDate)
}

func TestNormalize_RejectsMissingTimes(t *testing.T) {
	_, err := Normalize(entity.FlightQuery{Origin: "DEL", Destination: "BOM", ArrivalTime: time.Now()})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = Normalize(entity.FlightQuery{Origin: "DEL", Destination: "BOM", DepartureTime: time.Now()})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestNormalize_RejectsNegativeTransit(t *testing.T) {
	_, err := Normalize(entity.FlightQuery{
		DepartureTime: mustTime(t, "2024-05-01T10:00"),
		ArrivalTime:   mustTime(t, "2024-05-01T11:00"),
		TransitCount:  -1,
	})
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestSpanToArray_MatchesWholeMinutes(t *testing.T) {
	spans := []time.Duration{
		0,
		59 * time.Second,
		time.Minute,
		2*time.Hour + 30*time.Minute + 59*time.Second,
		26*time.Hour + 5*time.Minute,
		47*time.Hour + 59*time.Minute + 999*time.Millisecond,
	}
	for _, d := range spans {
		got := SpanToArray(d)
		hours, minutes := got[0], got[1]
		assert.Equal(t, float64(int64(d/time.Minute)), hours*60+minutes, "span %s", d)
		assert.GreaterOrEqual(t, hours, 0.0)
		assert.GreaterOrEqual(t, minutes, 0.0)
		assert.Less(t, minutes, 60.0)
	}
}

func TestSpanToArray_NegativeSpanFloors(t *testing.T) {
	// -30m: floor(-1800/3600) = -1, then floor(1800/60) = 30
	assert.Equal(t, []float64{-1, 30}, SpanToArray(-30*time.Minute))
}

func TestFeatureVector_Order(t *testing.T) {
	parts := entity.FeatureParts{
		TransitCount: []float64{1},
		JourneyDate:  []float64{2, 3},
		Departure:    []float64{4, 5},
		Arrival:      []float64{6, 7},
		Duration:     []float64{8, 9},
		Source:       []float64{20, 21},
		Destination:  []float64{30, 31},
	}

	vec := FeatureVector(parts, []float64{10, 11, 12})
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 20, 21, 30, 31}, vec)
}
