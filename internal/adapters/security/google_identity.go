package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/inkinno/projects/internal/ports"
	"google.golang.org/api/idtoken"
)

// GoogleIdentityVerifier validates Google ID tokens issued for the configured OAuth client.
type GoogleIdentityVerifier struct {
	validator *idtoken.Validator
	clientID  string
}

func NewGoogleIdentityVerifier(ctx context.Context, clientID string) (*GoogleIdentityVerifier, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, errors.New("google client id is required")
	}
	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("create id token validator: %w", err)
	}
	return &GoogleIdentityVerifier{validator: validator, clientID: clientID}, nil
}

func (v *GoogleIdentityVerifier) Verify(ctx context.Context, credential string) (ports.Identity, error) {
	payload, err := v.validator.Validate(ctx, credential, v.clientID)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("validate id token: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(payload *idtoken.Payload) (ports.Identity, error) {
	if payload == nil || payload.Subject == "" {
		return ports.Identity{}, errors.New("id token has no subject")
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return ports.Identity{}, errors.New("id token has no email claim")
	}
	var verified bool
	switch v := payload.Claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = strings.EqualFold(v, "true")
	}
	name, _ := payload.Claims["name"].(string)
	return ports.Identity{
		Subject:       payload.Subject,
		Email:         strings.ToLower(strings.TrimSpace(email)),
		EmailVerified: verified,
		Name:          name,
	}, nil
}
