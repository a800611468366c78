package entity

import "time"

// FlightQuery is the transient input of the prediction pipeline.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	TransitCount  int
}

// FeatureParts holds the airline-independent pieces of a feature vector.
type FeatureParts struct {
	TransitCount []float64
	JourneyDate  []float64 // day, month
	Departure    []float64 // hour, minute
	Arrival      []float64 // hour, minute
	Duration     []float64 // hours, minutes
	Source       []float64
	Destination  []float64
}

// PredictionResult is one predicted fare for one airline.
type PredictionResult struct {
	Airline        string  `json:"airline"`
	PredictedPrice float64 `json:"predicted_price"`
}

// PricedFlight is the aggregated record returned to callers.
type PricedFlight struct {
	Airline        string    `json:"airline"`
	PredictedPrice float64   `json:"predicted_price"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	TransitCount   int       `json:"transit_count"`
}
