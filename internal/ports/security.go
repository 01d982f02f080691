package ports

import (
	"context"
	"time"
)

type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IdentityVerifier validates a credential issued by the external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

type SessionClaims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionSigner interface {
	Sign(claims SessionClaims) (string, error)
	ParseAndValidate(raw string) (SessionClaims, error)
}
