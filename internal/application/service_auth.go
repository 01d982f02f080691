package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

// AuthRequired reports whether API callers must present a session token.
func (s *Service) AuthRequired() bool {
	return !s.cfg.AuthDisabled
}

// SignIn exchanges an identity provider credential for a session token. Only the single
// allow-listed account receives a session.
func (s *Service) SignIn(ctx context.Context, credential string) (Session, error) {
	if strings.TrimSpace(credential) == "" {
		return Session{}, fmt.Errorf("%w: credential is required", domain.ErrUnauthorized)
	}
	if s.identity == nil || s.sessions == nil {
		return Session{}, fmt.Errorf("%w: sign-in is not configured", domain.ErrUnauthorized)
	}
	identity, err := s.identity.Verify(ctx, credential)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !s.isAllowed(identity.Email) || !identity.EmailVerified {
		s.logger().WarnContext(ctx, "sign-in rejected for account outside allowlist",
			"operation", "sign_in",
			"outcome", "denied",
		)
		return Session{}, fmt.Errorf("%w: account is not allowed to use this timeline", domain.ErrForbidden)
	}

	now := s.nowFn()
	claims := ports.SessionClaims{
		Subject:   identity.Subject,
		Email:     strings.ToLower(identity.Email),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	token, err := s.sessions.Sign(claims)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}
	return Session{Token: token, Email: claims.Email, ExpiresAt: claims.ExpiresAt}, nil
}

// Authorize validates a session token. The allowlist is re-checked so that changing the
// configured account invalidates outstanding sessions.
func (s *Service) Authorize(_ context.Context, raw string) (ports.SessionClaims, error) {
	if s.cfg.AuthDisabled {
		return ports.SessionClaims{Subject: "local"}, nil
	}
	if s.sessions == nil {
		return ports.SessionClaims{}, domain.ErrUnauthorized
	}
	claims, err := s.sessions.ParseAndValidate(raw)
	if err != nil {
		return ports.SessionClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !s.isAllowed(claims.Email) {
		return ports.SessionClaims{}, fmt.Errorf("%w: account is not allowed to use this timeline", domain.ErrForbidden)
	}
	return claims, nil
}

func (s *Service) isAllowed(email string) bool {
	allowed := strings.TrimSpace(s.cfg.AllowedEmail)
	return allowed != "" && strings.EqualFold(strings.TrimSpace(email), allowed)
}
