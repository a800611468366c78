package auth

import (
	"strings"
	"testing"
	"time"

	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_RoundTrip(t *testing.T) {
	j, err := NewJWTIssuer("test-secret", 0, 0)
	require.NoError(t, err)

	token, err := j.Issue("a@example.com", repository.AccessToken)
	require.NoError(t, err)

	subject, err := j.Parse(token, repository.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", subject)
}

func TestJWTIssuer_RejectsWrongKind(t *testing.T) {
	j, err := NewJWTIssuer("test-secret", 0, 0)
	require.NoError(t, err)

	refresh, err := j.Issue("a@example.com", repository.RefreshToken)
	require.NoError(t, err)

	_, err = j.Parse(refresh, repository.AccessToken)
	assert.Error(t, err)
}

func TestJWTIssuer_RejectsForeignSignature(t *testing.T) {
	a, err := NewJWTIssuer("secret-a", 0, 0)
	require.NoError(t, err)
	b, err := NewJWTIssuer("secret-b", 0, 0)
	require.NoError(t, err)

	token, err := a.Issue("a@example.com", repository.AccessToken)
	require.NoError(t, err)
	_, err = b.Parse(token, repository.AccessToken)
	assert.Error(t, err)
}

func TestJWTIssuer_Expiry(t *testing.T) {
	j, err := NewJWTIssuer("test-secret", time.Hour, 0)
	require.NoError(t, err)
	issued := time.Now()
	j.now = func() time.Time { return issued }

	token, err := j.Issue("a@example.com", repository.AccessToken)
	require.NoError(t, err)

	j.now = func() time.Time { return issued.Add(30 * time.Minute) }
	_, err = j.Parse(token, repository.AccessToken)
	assert.NoError(t, err)

	j.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = j.Parse(token, repository.AccessToken)
	assert.Error(t, err)
}

func TestJWTIssuer_RequiresSecret(t *testing.T) {
	_, err := NewJWTIssuer("", 0, 0)
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, h.Compare(hash, "secret123"))
	assert.False(t, h.Compare(hash, "secret124"))
	assert.False(t, h.Compare("not-a-hash", "secret123"))
}

func TestBcryptHasher_RejectsLongPassword(t *testing.T) {
	h := NewBcryptHasher(4)

	_, err := h.Hash(strings.Repeat("x", 80))
	assert.ErrorIs(t, err, entity.ErrInvalidRequest)

	_, err = h.Hash(strings.Repeat("x", 72))
	assert.NoError(t, err)
}
