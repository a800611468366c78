package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrResourceNotFound  = errors.New("the requested resource was not found")
	ErrInternalServer    = errors.New("an internal error occurred")
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many requests")

	// Prediction pipeline
	ErrModelUnavailable = errors.New("price model is unavailable")
	ErrInferenceFailure = errors.New("price inference failed")
	ErrSchemaMismatch   = errors.New("reference data does not match the model schema")

	// Accounts and bookings
	ErrUnauthorized         = errors.New("could not validate credentials")
	ErrConflict             = errors.New("resource already exists")
	ErrEmailNotVerified     = errors.New("email is not yet verified")
	ErrEmailAlreadyVerified = errors.New("email is already verified")
	ErrAccountDisabled      = errors.New("your account is disabled")
	ErrAlreadyBooked        = errors.New("flight already booked")
	ErrAlreadyCancelled     = errors.New("flight already cancelled")
)
