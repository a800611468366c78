package repository

import (
	"context"
	"flightfare-core/internal/domain/entity"
)

type ReferenceStore interface {
	FindSource(ctx context.Context, code string) (entity.ReferenceVector, error)
	FindDestination(ctx context.Context, code string) (entity.ReferenceVector, error)
	ListAirlines(ctx context.Context) ([]entity.ReferenceVector, error)
	ListKeys(ctx context.Context, kind entity.ReferenceKind) ([]string, error)
	InsertMany(ctx context.Context, kind entity.ReferenceKind, vectors []entity.ReferenceVector) error
}

// Model is a loaded, read-only regressor. Predict must be safe for concurrent use.
type Model interface {
	Predict(ctx context.Context, features []float64) (float64, error)
	Schema() ModelSchema
}

type ModelSchema struct {
	Version     string
	NumFeatures int
	Airline     int
	Source      int
	Destination int
}

type ModelStore interface {
	LoadModel(ctx context.Context) (Model, error)
}

type UserStore interface {
	ByEmail(ctx context.Context, email string) (*entity.User, error)
	ByID(ctx context.Context, id string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
}

type FlightRecordStore interface {
	Create(ctx context.Context, record *entity.FlightRecord) error
	FindForUser(ctx context.Context, userID, id string) (*entity.FlightRecord, error)
	ListForUser(ctx context.Context, userID string, bookedOnly bool) ([]entity.FlightRecord, error)
	MarkBooked(ctx context.Context, id string) error
	UnmarkBooked(ctx context.Context, id string) error
	Delete(ctx context.Context, userID, id string) error
}

type BookingStore interface {
	Create(ctx context.Context, booking *entity.Booking) error
	ByFlightID(ctx context.Context, flightID string) (*entity.Booking, error)
	MarkCancelled(ctx context.Context, id string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Mailer interface {
	SendVerification(ctx context.Context, email, token string) error
	SendPasswordReset(ctx context.Context, email, token string) error
	SendBooking(ctx context.Context, details entity.BookingDetails) error
	SendCancellation(ctx context.Context, details entity.BookingDetails) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

type TokenIssuer interface {
	Issue(subject string, kind TokenKind) (string, error)
	Parse(token string, kind TokenKind) (string, error)
}
