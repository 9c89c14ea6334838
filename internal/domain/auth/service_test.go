package auth

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/ymori/visafaq/pkg/errors"
)

func newTestService(t *testing.T, ttl time.Duration) Service {
	t.Helper()
	hash, err := HashAdminKey("correct-key")
	require.NoError(t, err)
	return NewService(Config{
		AdminKeyHash: hash,
		JWTSecret:    "test-secret",
		TokenTTL:     ttl,
	}, slog.Default())
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, expiresAt, err := svc.IssueToken("correct-key")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.True(t, expiresAt.After(time.Now()))

	require.NoError(t, svc.ValidateToken(token))
}

func TestIssueTokenWrongKey(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, _, err := svc.IssueToken("wrong-key")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)
	require.Error(t, svc.ValidateToken("not-a-token"))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	issuer := newTestService(t, time.Hour)
	token, _, err := issuer.IssueToken("correct-key")
	require.NoError(t, err)

	hash, err := HashAdminKey("correct-key")
	require.NoError(t, err)
	other := NewService(Config{
		AdminKeyHash: hash,
		JWTSecret:    "different-secret",
		TokenTTL:     time.Hour,
	}, slog.Default())
	require.Error(t, other.ValidateToken(token))
}

func TestDisabledService(t *testing.T) {
	svc := NewService(Config{}, slog.Default())
	require.False(t, svc.Enabled())

	_, _, err := svc.IssueToken("anything")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	require.Error(t, svc.ValidateToken("anything"))
}
