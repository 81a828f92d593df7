package auth

import (
	"context"
	"errors"
	"fmt"
	"go-blog-app/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Authenticator signs readers and admins in through an OIDC provider.
type Authenticator struct {
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewAuthenticator discovers the provider and prepares the OAuth2 client.
func NewAuthenticator(ctx context.Context, cfg config.OIDCConfig) (*Authenticator, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc provider: %w", err)
	}

	return &Authenticator{
		oauth2: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL returns the provider login URL carrying state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.oauth2.AuthCodeURL(state)
}

// Subject exchanges an authorization code, verifies the returned ID token
// and yields the token subject.
func (a *Authenticator) Subject(ctx context.Context, code string) (string, error) {
	token, err := a.oauth2.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("no id_token field in oauth2 token")
	}

	// Verify checks signature, issuer, audience and expiry.
	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("failed to verify ID token: %w", err)
	}
	if idToken.Subject == "" {
		return "", errors.New("id token has no subject")
	}
	return idToken.Subject, nil
}
