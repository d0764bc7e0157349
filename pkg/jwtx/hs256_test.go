package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHS256SignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h, err := NewHS256("test-secret", "rag-admin")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "alice", "alice@example.com", "admin",
		time.Hour, "rag-admin", time.Now().UTC())

	raw, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "alice@example.com", got.Email)
	require.True(t, got.IsAdmin())
	require.NoError(t, got.ValidateExpiry())
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256("secret-a", "rag-admin")
	require.NoError(t, err)
	verifier, err := NewHS256("secret-b", "rag-admin")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "alice", "alice@example.com", "user",
		time.Hour, "rag-admin", time.Now().UTC())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	h, err := NewHS256("test-secret", "rag-admin")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "alice", "alice@example.com", "user",
		time.Hour, "rag-admin", time.Now().UTC().Add(-2*time.Hour))
	raw, err := h.Sign(claims)
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256("test-secret", "some-other-service")
	require.NoError(t, err)
	verifier, err := NewHS256("test-secret", "rag-admin")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "alice", "alice@example.com", "user",
		time.Hour, "some-other-service", time.Now().UTC())
	raw, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsMalformedToken(t *testing.T) {
	t.Parallel()

	h, err := NewHS256("test-secret", "rag-admin")
	require.NoError(t, err)

	_, err = h.Verify("not.a.token")
	require.Error(t, err)
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256("", "rag-admin")
	require.Error(t, err)
}
