package erp

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taller/internal/core/apperror"
)

// CredentialProvider supplies the bearer token attached to outbound ERP calls.
// Injected rather than read from ambient process state, so tests and future
// refresh flows can swap implementations.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken holds a fixed bearer token, typically issued to the gateway as a
// service account by the ERP's auth service.
type StaticToken struct {
	raw string
}

// NewStaticToken wraps a raw token string.
func NewStaticToken(raw string) *StaticToken {
	return &StaticToken{raw: raw}
}

// Token returns the configured token. When the token is a JWT its expiry claim
// is checked locally first, so an expired credential fails fast instead of
// producing an opaque upstream 401. Signature verification belongs to the auth
// service, not here.
func (t *StaticToken) Token(_ context.Context) (string, error) {
	if t.raw == "" {
		return "", nil
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(t.raw, claims); err != nil {
		// Opaque (non-JWT) tokens pass through untouched.
		return t.raw, nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return t.raw, nil
	}
	if exp.Before(time.Now()) {
		return "", apperror.NewUnauthorized("ERP credential has expired").
			WithDetail("expired_at", exp.Format(time.RFC3339))
	}
	return t.raw, nil
}
