package auth

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var oauthScopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"openid",
}

// Flow is the immutable OAuth2 authorization-code flow configuration.
// It is built once at startup and shared by all callback handlers, it
// carries no per-session data.
type Flow struct {
	config   *oauth2.Config
	audience string
	verifier TokenVerifier
}

// FlowProvider is what the HTTP handlers need from an OAuth2 flow.
type FlowProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Claims, error)
}

type FlowConfig struct {
	// SecretsFile is a Google client_secret.json bundle.
	SecretsFile string
	// ClientID overrides the token audience, defaults to the bundle's
	// client id.
	ClientID    string
	RedirectURL string
	Verifier    TokenVerifier
}

// LoadFlow reads a client secrets bundle and builds the flow config.
func LoadFlow(cfg FlowConfig) (*Flow, error) {
	b, err := os.ReadFile(cfg.SecretsFile)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read client secrets file")
	}
	oc, err := google.ConfigFromJSON(b, oauthScopes...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse client secrets file")
	}
	if cfg.RedirectURL != "" {
		oc.RedirectURL = cfg.RedirectURL
	}

	audience := cfg.ClientID
	if audience == "" {
		audience = oc.ClientID
	}

	verifier := cfg.Verifier
	if verifier == nil {
		verifier = GoogleVerifier{}
	}

	return &Flow{config: oc, audience: audience, verifier: verifier}, nil
}

func (f *Flow) AuthCodeURL(state string) string {
	return f.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for tokens and verifies the
// identity token signature and audience. No partial success: either
// verified claims come back or an error.
func (f *Flow) Exchange(ctx context.Context, code string) (*Claims, error) {
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "code exchange failed")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrNoIDToken
	}

	claims, err := f.verifier.Verify(ctx, rawIDToken, f.audience)
	if err != nil {
		return nil, errors.Wrap(ErrTokenInvalid, err.Error())
	}
	return claims, nil
}
