package auth

import (
	"errors"
	"flightfare-core/internal/domain/repository"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

type claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// JWTIssuer signs HS256 tokens whose subject is the user's email.
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTIssuer(secret string, accessTTL, refreshTTL time.Duration) (*JWTIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}, nil
}

func (j *JWTIssuer) Issue(subject string, kind repository.TokenKind) (string, error) {
	ttl := j.accessTTL
	if kind == repository.RefreshToken {
		ttl = j.refreshTTL
	}
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Type: string(kind),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(j.secret)
}

// Parse validates the signature, expiry and token type and returns the subject.
func (j *JWTIssuer) Parse(raw string, kind repository.TokenKind) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(j.now))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if c.Type != string(kind) {
		return "", fmt.Errorf("invalid token: expected %s token", kind)
	}
	if c.Subject == "" {
		return "", errors.New("invalid token: missing subject")
	}
	return c.Subject, nil
}
