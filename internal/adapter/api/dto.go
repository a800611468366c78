package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"flightfare-core/internal/domain/entity"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Timestamp accepts RFC 3339 and the zone-less forms clients send.
// Zone-less values are read as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

type flightQueryRequest struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime Timestamp `json:"departure_time"`
	ArrivalTime   Timestamp `json:"arrival_time"`
	TransitCount  int       `json:"transit_count"`
	Airline       string    `json:"airline"`
}

func (r flightQueryRequest) query() (entity.FlightQuery, error) {
	if r.DepartureTime.IsZero() || r.ArrivalTime.IsZero() {
		return entity.FlightQuery{}, fmt.Errorf("%w: departure_time and arrival_time are required", entity.ErrInvalidRequest)
	}
	if r.ArrivalTime.Before(r.DepartureTime.Time) {
		return entity.FlightQuery{}, fmt.Errorf("%w: arrival_time is before departure_time", entity.ErrInvalidRequest)
	}
	if r.TransitCount < 0 {
		return entity.FlightQuery{}, fmt.Errorf("%w: transit_count must not be negative", entity.ErrInvalidRequest)
	}
	return entity.FlightQuery{
		Origin:        r.Origin,
		Destination:   r.Destination,
		DepartureTime: r.DepartureTime.Time,
		ArrivalTime:   r.ArrivalTime.Time,
		TransitCount:  r.TransitCount,
	}, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type bookingRequest struct {
	FlightID    string `json:"flight_id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// referenceRequest carries one document of a bulk insert. Exactly one of the
// key fields is expected, matching the collection being written.
type referenceRequest struct {
	Key         string    `json:"key"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Airline     string    `json:"airline"`
	Array       []float64 `json:"array"`
}

func (r referenceRequest) vector(kind entity.ReferenceKind) entity.ReferenceVector {
	key := r.Key
	switch kind {
	case entity.KindSource:
		if r.Source != "" {
			key = r.Source
		}
	case entity.KindDestination:
		if r.Destination != "" {
			key = r.Destination
		}
	case entity.KindAirline:
		if r.Airline != "" {
			key = r.Airline
		}
	}
	return entity.ReferenceVector{Key: key, Array: r.Array}
}
