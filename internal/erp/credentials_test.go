package erp

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taller/internal/core/apperror"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "gateway",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStaticToken_OpaquePassesThrough(t *testing.T) {
	got, err := NewStaticToken("not-a-jwt").Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "not-a-jwt", got)
}

func TestStaticToken_EmptyMeansNoAuth(t *testing.T) {
	got, err := NewStaticToken("").Token(context.Background())

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStaticToken_ValidJWT(t *testing.T) {
	raw := signedToken(t, time.Now().Add(time.Hour))

	got, err := NewStaticToken(raw).Token(context.Background())

	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestStaticToken_ExpiredJWTFailsFast(t *testing.T) {
	raw := signedToken(t, time.Now().Add(-time.Minute))

	_, err := NewStaticToken(raw).Token(context.Background())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	assert.Contains(t, appErr.Details, "expired_at")
}
