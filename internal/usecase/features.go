package usecase

import (
	"flightfare-core/internal/domain/entity"
	"fmt"
	"time"
)

// JourneyDate returns [day-of-month, month] of t.
func JourneyDate(t time.Time) []float64 {
	return []float64{float64(t.Day()), float64(t.Month())}
}

// ClockTime returns [hour, minute] of t in its own location.
func ClockTime(t time.Time) []float64 {
	return []float64{float64(t.Hour()), float64(t.Minute())}
}

// SpanToArray returns [hours, minutes] of d. Sub-second precision is
// truncated toward zero, then hours and minutes are floored so that
// hours*60+minutes is always the whole-minute length of the span.
func SpanToArray(d time.Duration) []float64 {
	seconds := int64(d / time.Second)
	hours := floorDiv(seconds, 3600)
	minutes := floorDiv(seconds-hours*3600, 60)
	return []float64{float64(hours), float64(minutes)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Normalize converts the time fields of a query into model feature pieces.
// Source and destination arrays are left for the reference lookup to fill.
func Normalize(q entity.FlightQuery) (entity.FeatureParts, error) {
	if q.DepartureTime.IsZero() {
		return entity.FeatureParts{}, fmt.Errorf("%w: departure_time is required", entity.ErrInvalidRequest)
	}
	if q.ArrivalTime.IsZero() {
		return entity.FeatureParts{}, fmt.Errorf("%w: arrival_time is required", entity.ErrInvalidRequest)
	}
	if q.TransitCount < 0 {
		return entity.FeatureParts{}, fmt.Errorf("%w: transit_count must not be negative", entity.ErrInvalidRequest)
	}

	return entity.FeatureParts{
		TransitCount: []float64{float64(q.TransitCount)},
		JourneyDate:  JourneyDate(q.DepartureTime),
		Departure:    ClockTime(q.DepartureTime),
		Arrival:      ClockTime(q.ArrivalTime),
		Duration:     SpanToArray(q.ArrivalTime.Sub(q.DepartureTime)),
	}, nil
}

// FeatureVector concatenates parts and one airline array in model input order.
func FeatureVector(parts entity.FeatureParts, airline []float64) []float64 {
	size := len(parts.TransitCount) + len(parts.JourneyDate) + len(parts.Departure) +
		len(parts.Arrival) + len(parts.Duration) + len(airline) + len(parts.Source) + len(parts.Destination)

	vec := make([]float64, 0, size)
	vec = append(vec, parts.TransitCount...)
	vec = append(vec, parts.JourneyDate...)
	vec = append(vec, parts.Departure...)
	vec = append(vec, parts.Arrival...)
	vec = append(vec, parts.Duration...)
	vec = append(vec, airline...)
	vec = append(vec, parts.Source...)
	vec = append(vec, parts.Destination...)
	return vec
}
