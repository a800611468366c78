package usecase

import (
	"context"
	"errors"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PricingService interface {
	PredictAirline(ctx context.Context, q entity.FlightQuery, airline string) (entity.PricedFlight, error)
}

type BookingRequest struct {
	FlightID    string
	UserName    string
	Email       string
	PhoneNumber string
}

// Bookings covers saved flight records and the bookings made against them.
type Bookings struct {
	records  repository.FlightRecordStore
	bookings repository.BookingStore
	pricing  PricingService
	mailer   repository.Mailer
	now      func() time.Time

	notifier
}

func NewBookings(records repository.FlightRecordStore, bookings repository.BookingStore, pricing PricingService, mailer repository.Mailer) *Bookings {
	return &Bookings{records: records, bookings: bookings, pricing: pricing, mailer: mailer, now: time.Now}
}

// SaveRecord prices the query for one airline and stores it for the user.
// The price is always computed here, never taken from the client.
func (b *Bookings) SaveRecord(ctx context.Context, user *entity.User, q entity.FlightQuery, airline string) (*entity.FlightRecord, error) {
	if strings.TrimSpace(airline) == "" {
		return nil, fmt.Errorf("%w: airline is required", entity.ErrInvalidRequest)
	}
	priced, err := b.pricing.PredictAirline(ctx, q, airline)
	if err != nil {
		return nil, err
	}

	record := &entity.FlightRecord{
		UserID:         user.ID,
		Origin:         priced.Origin,
		Destination:    priced.Destination,
		DepartureTime:  priced.DepartureTime,
		ArrivalTime:    priced.ArrivalTime,
		Airline:        priced.Airline,
		TransitCount:   priced.TransitCount,
		PredictedPrice: priced.PredictedPrice,
		CreatedAt:      b.now().UTC(),
	}
	if err := b.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("flight record creation failed: %w", err)
	}
	return record, nil
}

func (b *Bookings) Logs(ctx context.Context, user *entity.User) ([]entity.FlightRecord, error) {
	return b.records.ListForUser(ctx, user.ID, false)
}

func (b *Bookings) BookedLogs(ctx context.Context, user *entity.User) ([]entity.FlightRecord, error) {
	return b.records.ListForUser(ctx, user.ID, true)
}

func (b *Bookings) Info(ctx context.Context, user *entity.User, flightID string) (*entity.FlightRecord, error) {
	return b.records.FindForUser(ctx, user.ID, flightID)
}

func (b *Bookings) DeleteRecord(ctx context.Context, user *entity.User, flightID string) error {
	return b.records.Delete(ctx, user.ID, flightID)
}

func (b *Bookings) Book(ctx context.Context, user *entity.User, req BookingRequest) (*entity.Booking, error) {
	// 1. The record must exist for this user and be free
	record, err := b.records.FindForUser(ctx, user.ID, req.FlightID)
	if err != nil {
		return nil, err
	}
	if record.Booked {
		return nil, entity.ErrAlreadyBooked
	}

	// 2. Claim the record, then persist the booking; release the claim
	// if the booking cannot be written
	if err := b.records.MarkBooked(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("flight record update failed: %w", err)
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = user.Email
	}
	booking := &entity.Booking{
		FlightID:    record.ID,
		Reference:   strings.ToUpper(uuid.NewString()[:8]),
		UserName:    req.UserName,
		Email:       email,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   b.now().UTC(),
	}
	if err := b.bookings.Create(ctx, booking); err != nil {
		if uerr := b.records.UnmarkBooked(context.WithoutCancel(ctx), record.ID); uerr != nil {
			slog.ErrorContext(ctx, "flight record left booked", "flight_id", record.ID, "error", uerr)
		}
		return nil, fmt.Errorf("booking creation failed: %w", err)
	}
	record.Booked = true

	// 3. Notify in the background; the booking already stands
	details := Details(user, record, booking)
	b.send(ctx, "booking email not sent", func(ctx context.Context) error {
		return b.mailer.SendBooking(ctx, details)
	}, "flight_id", record.ID)
	return booking, nil
}

func (b *Bookings) Cancel(ctx context.Context, user *entity.User, flightID string) error {
	record, err := b.records.FindForUser(ctx, user.ID, flightID)
	if err != nil {
		return err
	}
	booking, err := b.bookings.ByFlightID(ctx, record.ID)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return fmt.Errorf("%w: no booking found", entity.ErrResourceNotFound)
		}
		return err
	}
	if booking.Cancelled {
		return entity.ErrAlreadyCancelled
	}
	if err := b.bookings.MarkCancelled(ctx, booking.ID); err != nil {
		return fmt.Errorf("booking update failed: %w", err)
	}
	booking.Cancelled = true

	details := Details(user, record, booking)
	b.send(ctx, "cancellation email not sent", func(ctx context.Context) error {
		return b.mailer.SendCancellation(ctx, details)
	}, "flight_id", record.ID)
	return nil
}

// Details builds the notification payload; the booking email wins over the
// account email when both are set.
func Details(user *entity.User, record *entity.FlightRecord, booking *entity.Booking) entity.BookingDetails {
	email := booking.Email
	if email == "" {
		email = user.Email
	}
	return entity.BookingDetails{
		UserID:         record.UserID,
		Email:          email,
		UserName:       booking.UserName,
		PhoneNumber:    booking.PhoneNumber,
		FlightID:       record.ID,
		Reference:      booking.Reference,
		Airline:        record.Airline,
		Origin:         record.Origin,
		Destination:    record.Destination,
		DepartureTime:  record.DepartureTime,
		ArrivalTime:    record.ArrivalTime,
		TransitCount:   record.TransitCount,
		PredictedPrice: record.PredictedPrice,
	}
}
