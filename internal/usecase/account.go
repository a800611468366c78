package usecase

import (
	"context"
	"errors"
	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts the first 72 bytes
	maxPasswordLength = 72
)

type Accounts struct {
	users  repository.UserStore
	hasher repository.PasswordHasher
	tokens repository.TokenIssuer
	mailer repository.Mailer
	now    func() time.Time

	notifier
}

func NewAccounts(users repository.UserStore, hasher repository.PasswordHasher, tokens repository.TokenIssuer, mailer repository.Mailer) *Accounts {
	return &Accounts{users: users, hasher: hasher, tokens: tokens, mailer: mailer, now: time.Now}
}

func (a *Accounts) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	existing, err := a.users.ByEmail(ctx, email)
	if err != nil && !errors.Is(err, entity.ErrResourceNotFound) {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with that email already exists", entity.ErrConflict)
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}
	user := &entity.User{Email: email, PasswordHash: hash, CreatedAt: a.now().UTC()}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("user creation failed: %w", err)
	}

	a.send(ctx, "verification email not sent", func(ctx context.Context) error {
		return a.RequestVerification(ctx, email)
	}, "email", email)
	return user, nil
}

// RequestVerification mails a fresh verification link.
func (a *Accounts) RequestVerification(ctx context.Context, email string) error {
	user, err := a.activeUser(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified() {
		return entity.ErrEmailAlreadyVerified
	}
	token, err := a.tokens.Issue(user.Email, repository.AccessToken)
	if err != nil {
		return fmt.Errorf("token issue failed: %w", err)
	}
	return a.mailer.SendVerification(ctx, user.Email, token)
}

func (a *Accounts) VerifyEmail(ctx context.Context, token string) error {
	user, err := a.UserFromToken(ctx, token)
	if err != nil {
		return err
	}
	if user.Verified() {
		return entity.ErrEmailAlreadyVerified
	}
	if user.Disabled {
		return entity.ErrAccountDisabled
	}
	now := a.now().UTC()
	user.EmailConfirmedAt = &now
	return a.users.Save(ctx, user)
}

func (a *Accounts) ForgotPassword(ctx context.Context, email string) error {
	user, err := a.activeUser(ctx, email)
	if err != nil {
		return err
	}
	if !user.Verified() {
		return entity.ErrEmailNotVerified
	}
	token, err := a.tokens.Issue(user.Email, repository.AccessToken)
	if err != nil {
		return fmt.Errorf("token issue failed: %w", err)
	}
	return a.mailer.SendPasswordReset(ctx, user.Email, token)
}

func (a *Accounts) ResetPassword(ctx context.Context, token, password string) error {
	if err := checkPassword(password); err != nil {
		return err
	}
	user, err := a.UserFromToken(ctx, token)
	if err != nil {
		return err
	}
	if !user.Verified() {
		return entity.ErrEmailNotVerified
	}
	if user.Disabled {
		return entity.ErrAccountDisabled
	}
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("password hashing failed: %w", err)
	}
	user.PasswordHash = hash
	return a.users.Save(ctx, user)
}

func (a *Accounts) Login(ctx context.Context, email, password string) (entity.TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return entity.TokenPair{}, entity.ErrUnauthorized
	}
	user, err := a.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return entity.TokenPair{}, fmt.Errorf("%w: bad email or password", entity.ErrUnauthorized)
		}
		return entity.TokenPair{}, fmt.Errorf("user lookup failed: %w", err)
	}
	if !a.hasher.Compare(user.PasswordHash, password) {
		return entity.TokenPair{}, fmt.Errorf("%w: bad email or password", entity.ErrUnauthorized)
	}
	if !user.Verified() {
		return entity.TokenPair{}, entity.ErrEmailNotVerified
	}
	if user.Disabled {
		return entity.TokenPair{}, entity.ErrAccountDisabled
	}
	return a.issuePair(user.Email)
}

func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (entity.TokenPair, error) {
	subject, err := a.tokens.Parse(refreshToken, repository.RefreshToken)
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("%w: %v", entity.ErrUnauthorized, err)
	}
	user, err := a.users.ByEmail(ctx, subject)
	if err != nil || user.Disabled {
		return entity.TokenPair{}, entity.ErrUnauthorized
	}
	access, err := a.tokens.Issue(user.Email, repository.AccessToken)
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("token issue failed: %w", err)
	}
	return entity.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

// UserFromToken resolves an access token to its user.
func (a *Accounts) UserFromToken(ctx context.Context, token string) (*entity.User, error) {
	subject, err := a.tokens.Parse(token, repository.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnauthorized, err)
	}
	user, err := a.users.ByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: no user found with that email", entity.ErrResourceNotFound)
		}
		return nil, err
	}
	return user, nil
}

// Authenticate is the bearer check used by protected routes.
func (a *Accounts) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	user, err := a.UserFromToken(ctx, token)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return nil, entity.ErrUnauthorized
		}
		return nil, err
	}
	if user.Disabled {
		return nil, entity.ErrAccountDisabled
	}
	return user, nil
}

func (a *Accounts) Delete(ctx context.Context, user *entity.User) error {
	return a.users.Delete(ctx, user.ID)
}

func (a *Accounts) activeUser(ctx context.Context, email string) (*entity.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := a.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrResourceNotFound) {
			return nil, fmt.Errorf("%w: no user found with that email", entity.ErrResourceNotFound)
		}
		return nil, err
	}
	if user.Disabled {
		return nil, entity.ErrAccountDisabled
	}
	return user, nil
}

func (a *Accounts) issuePair(subject string) (entity.TokenPair, error) {
	access, err := a.tokens.Issue(subject, repository.AccessToken)
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("token issue failed: %w", err)
	}
	refresh, err := a.tokens.Issue(subject, repository.RefreshToken)
	if err != nil {
		return entity.TokenPair{}, fmt.Errorf("token issue failed: %w", err)
	}
	return entity.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func checkPassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", entity.ErrInvalidRequest, minPasswordLength)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("%w: password must be at most %d bytes", entity.ErrInvalidRequest, maxPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: invalid email", entity.ErrInvalidRequest)
	}
	return strings.ToLower(addr.Address), nil
}
