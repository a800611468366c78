package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"flightfare-core/internal/domain/entity"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
	RootURL  string
}

// SMTPMailer delivers mail over implicit TLS.
type SMTPMailer struct {
	client  *mail.Client
	sender  string
	rootURL string
	now     func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	c, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init smtp client: %w", err)
	}
	return &SMTPMailer{client: c, sender: cfg.Sender, rootURL: cfg.RootURL, now: time.Now}, nil
}

func (m *SMTPMailer) SendVerification(ctx context.Context, email, token string) error {
	body, err := renderVerification(joinURL(m.rootURL, "/mail/verify/"+token), m.now())
	if err != nil {
		return err
	}
	return m.send(ctx, email, "Verify Your Email - "+appName, mail.TypeTextHTML, body)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	body, err := renderReset(joinURL(m.rootURL, "/register/reset-password?token="+token))
	if err != nil {
		return err
	}
	return m.send(ctx, email, appName+" Password Reset", mail.TypeTextPlain, body)
}

func (m *SMTPMailer) SendBooking(ctx context.Context, d entity.BookingDetails) error {
	body, err := renderBooking("Your flight is booked.", d, m.now())
	if err != nil {
		return err
	}
	return m.send(ctx, d.Email, "Booking Confirmed - "+d.Reference, mail.TypeTextHTML, body)
}

func (m *SMTPMailer) SendCancellation(ctx context.Context, d entity.BookingDetails) error {
	body, err := renderBooking("Your booking has been cancelled.", d, m.now())
	if err != nil {
		return err
	}
	return m.send(ctx, d.Email, "Booking Cancelled - "+d.Reference, mail.TypeTextHTML, body)
}

func (m *SMTPMailer) send(ctx context.Context, to, subject string, ct mail.ContentType, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(ct, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// ConsoleMailer logs links instead of sending mail (MAIL_CONSOLE=true).
type ConsoleMailer struct {
	rootURL string
	logger  *slog.Logger
}

func NewConsoleMailer(rootURL string, logger *slog.Logger) *ConsoleMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleMailer{rootURL: rootURL, logger: logger}
}

func (c *ConsoleMailer) SendVerification(ctx context.Context, email, token string) error {
	c.logger.InfoContext(ctx, "mail", "kind", "verification", "to", email, "url", joinURL(c.rootURL, "/mail/verify/"+token))
	return nil
}

func (c *ConsoleMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	c.logger.InfoContext(ctx, "mail", "kind", "password_reset", "to", email, "url", joinURL(c.rootURL, "/register/reset-password?token="+token))
	return nil
}

func (c *ConsoleMailer) SendBooking(ctx context.Context, d entity.BookingDetails) error {
	c.logger.InfoContext(ctx, "mail", "kind", "booking", "to", d.Email, "reference", d.Reference, "flight_id", d.FlightID)
	return nil
}

func (c *ConsoleMailer) SendCancellation(ctx context.Context, d entity.BookingDetails) error {
	c.logger.InfoContext(ctx, "mail", "kind", "cancellation", "to", d.Email, "reference", d.Reference, "flight_id", d.FlightID)
	return nil
}
