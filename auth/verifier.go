package auth

import (
	"context"

	"google.golang.org/api/idtoken"
)

// Claims is the subset of identity token claims the service keeps.
type Claims struct {
	Subject string
	Name    string
}

// TokenVerifier checks an identity token's signature and audience.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken, audience string) (*Claims, error)
}

// GoogleVerifier validates tokens against Google's published keys.
type GoogleVerifier struct{}

func (GoogleVerifier) Verify(ctx context.Context, rawToken, audience string) (*Claims, error) {
	payload, err := idtoken.Validate(ctx, rawToken, audience)
	if err != nil {
		return nil, err
	}
	name, _ := payload.Claims["name"].(string)
	return &Claims{Subject: payload.Subject, Name: name}, nil
}
