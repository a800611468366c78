package usecase

import (
	"context"
	"errors"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"time"
)

// ResilientMailer retries the primary mailer on transient failures and falls
// back to a secondary one (usually the console mailer) once it is exhausted.
type ResilientMailer struct {
	primary    repository.Mailer
	fallback   repository.Mailer
	maxRetries int
	baseDelay  time.Duration
	timeout    time.Duration
}

func NewResilientMailer(primary, fallback repository.Mailer) *ResilientMailer {
	return &ResilientMailer{
		primary:    primary,
		fallback:   fallback,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		timeout:    20 * time.Second,
	}
}

func (r *ResilientMailer) SendVerification(ctx context.Context, email, token string) error {
	return r.send(ctx, "verification", func(ctx context.Context, m repository.Mailer) error {
		return m.SendVerification(ctx, email, token)
	})
}

func (r *ResilientMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	return r.send(ctx, "password_reset", func(ctx context.Context, m repository.Mailer) error {
		return m.SendPasswordReset(ctx, email, token)
	})
}

func (r *ResilientMailer) SendBooking(ctx context.Context, details entity.BookingDetails) error {
	return r.send(ctx, "booking", func(ctx context.Context, m repository.Mailer) error {
		return m.SendBooking(ctx, details)
	})
}

func (r *ResilientMailer) SendCancellation(ctx context.Context, details entity.BookingDetails) error {
	return r.send(ctx, "cancellation", func(ctx context.Context, m repository.Mailer) error {
		return m.SendCancellation(ctx, details)
	})
}

func (r *ResilientMailer) send(ctx context.Context, label string, fn func(context.Context, repository.Mailer) error) error {
	// Mail goes out after the request's own work is done; a client
	// disconnect must not abort it.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	err := r.executeWithRetry(sendCtx, label, fn)
	if err == nil {
		return nil
	}
	if r.fallback == nil {
		return err
	}

	slog.WarnContext(ctx, "primary mailer exhausted, using fallback", "mail", label, "error", err)
	if ferr := fn(sendCtx, r.fallback); ferr != nil {
		return fmt.Errorf("both primary and fallback mailers failed: %w", errors.Join(err, ferr))
	}
	return nil
}

func (r *ResilientMailer) executeWithRetry(ctx context.Context, label string, fn func(context.Context, repository.Mailer) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err := fn(ctx, r.primary)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == r.maxRetries {
			break
		}

		wait := r.calculateBackoff(attempt)
		slog.DebugContext(ctx, "mail send failed, retrying", "mail", label, "attempt", attempt+1, "wait", wait)
		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// isRetryable reports transient network failures and SMTP 4xx replies.
func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var tmp interface{ IsTemp() bool }
	if errors.As(err, &tmp) && tmp.IsTemp() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func (r *ResilientMailer) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.baseDelay) * float64(int(1)<<attempt)
	jitter := (rand.Float64() * 0.2) * backoff // 20% jitter
	return time.Duration(backoff + jitter)
}
