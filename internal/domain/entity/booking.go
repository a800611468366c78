package entity

import "time"

// FlightRecord is a saved prediction that belongs to one user.
type FlightRecord struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"user_id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	Airline        string    `json:"airline"`
	TransitCount   int       `json:"transit_count"`
	PredictedPrice float64   `json:"predicted_price"`
	Booked         bool      `json:"booked"`
	CreatedAt      time.Time `json:"created_at"`
}

type Booking struct {
	ID          string    `json:"id"`
	FlightID    string    `json:"flight_id"`
	Reference   string    `json:"reference"`
	UserName    string    `json:"user_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Cancelled   bool      `json:"cancelled"`
	CreatedAt   time.Time `json:"created_at"`
}

// BookingDetails joins a booking with its flight record for notifications.
type BookingDetails struct {
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	UserName       string    `json:"user_name"`
	PhoneNumber    string    `json:"phone_number"`
	FlightID       string    `json:"flight_id"`
	Reference      string    `json:"reference"`
	Airline        string    `json:"airline"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	TransitCount   int       `json:"transit_count"`
	PredictedPrice float64   `json:"predicted_price"`
}
