// file: internal/auth/token.go

package auth

import (
	"context"
	"fmt"

	"pbi-refresh/config"
)

// Token is a short-lived bearer credential. It is produced by a
// TokenSource and consumed immediately by the refresh call in the same
// process invocation; nothing caches or persists it.
type Token struct {
	Value     string
	TokenType string // normally "Bearer"
	ExpiresIn int64  // seconds until expiry, 0 when the provider omitted it
}

// TokenSource acquires an access token from the identity provider.
// Every call performs a full authentication round trip.
type TokenSource interface {
	// GrantType returns the OAuth2 grant this source implements
	GrantType() string

	// Acquire exchanges the configured credentials for a token
	Acquire(ctx context.Context) (*Token, error)
}

// NewTokenSource builds the token source matching the configured grant
// type. Credentials must already be validated.
func NewTokenSource(creds *config.Credentials, httpCfg *config.HTTPClientConfig) (TokenSource, error) {
	switch creds.GrantType {
	case config.GrantPassword:
		return NewPasswordGrant(creds, httpCfg), nil
	case config.GrantClientCredentials:
		return NewClientCredentialsGrant(creds, httpCfg), nil
	default:
		return nil, fmt.Errorf("unknown grant_type %q", creds.GrantType)
	}
}

// AuthenticationError means the identity provider rejected the request
// or answered with an unexpected shape. Body is the provider's response
// verbatim so the failure can be diagnosed without a rerun.
type AuthenticationError struct {
	StatusCode int
	Body       string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed with status %d: %s", e.StatusCode, e.Body)
}

// NetworkError is a transport-level failure (connection refused,
// timeout, DNS) on either outbound call, as opposed to an HTTP-level
// rejection by the remote side.
type NetworkError struct {
	Op  string // "token" or "refresh"
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
