package api

import (
	"context"
	"errors"
	"log/slog"

	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"flightfare-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type PricePredictor interface {
	Predict(ctx context.Context, q entity.FlightQuery) ([]entity.PricedFlight, error)
}

type AccountService interface {
	Register(ctx context.Context, email, password string) (*entity.User, error)
	RequestVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Login(ctx context.Context, email, password string) (entity.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Delete(ctx context.Context, user *entity.User) error
}

type BookingService interface {
	SaveRecord(ctx context.Context, user *entity.User, q entity.FlightQuery, airline string) (*entity.FlightRecord, error)
	Logs(ctx context.Context, user *entity.User) ([]entity.FlightRecord, error)
	BookedLogs(ctx context.Context, user *entity.User) ([]entity.FlightRecord, error)
	Info(ctx context.Context, user *entity.User, flightID string) (*entity.FlightRecord, error)
	DeleteRecord(ctx context.Context, user *entity.User, flightID string) error
	Book(ctx context.Context, user *entity.User, req usecase.BookingRequest) (*entity.Booking, error)
	Cancel(ctx context.Context, user *entity.User, flightID string) error
}

type DatasetService interface {
	Keys(ctx context.Context, kind entity.ReferenceKind) ([]string, error)
	Add(ctx context.Context, kind entity.ReferenceKind, vectors []entity.ReferenceVector) error
}

type ModelReloader interface {
	Reload(ctx context.Context) (repository.ModelSchema, error)
}

// Handler serves every HTTP route. Services are injected from main.
type Handler struct {
	predictor PricePredictor
	accounts  AccountService
	bookings  BookingService
	datasets  DatasetService
	models    ModelReloader
}

func NewHandler(predictor PricePredictor, accounts AccountService, bookings BookingService, datasets DatasetService, models ModelReloader) *Handler {
	return &Handler{
		predictor: predictor,
		accounts:  accounts,
		bookings:  bookings,
		datasets:  datasets,
		models:    models,
	}
}

// The Delivery layer maps the business error to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidRequest),
		errors.Is(err, entity.ErrEmailNotVerified),
		errors.Is(err, entity.ErrEmailAlreadyVerified),
		errors.Is(err, entity.ErrAccountDisabled),
		errors.Is(err, entity.ErrAlreadyBooked),
		errors.Is(err, entity.ErrAlreadyCancelled):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, entity.ErrResourceNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, entity.ErrRateLimitExceeded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, entity.ErrModelUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(), "path", c.Path(), "status", status, "error", err)
		if status == fiber.StatusInternalServerError {
			msg = "internal server error"
		}
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": msg})
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": msg})
}
