// file: internal/auth/client_credentials.go

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"pbi-refresh/config"
)

// ClientCredentialsGrant implements the OAuth2 client credentials flow
// for service principals. The library handles the exchange; the v1
// "resource" audience parameter rides along as an endpoint param.
type ClientCredentialsGrant struct {
	config     *clientcredentials.Config
	tokenURL   string
	httpClient *http.Client
}

// NewClientCredentialsGrant creates a client-credentials token source
func NewClientCredentialsGrant(creds *config.Credentials, httpCfg *config.HTTPClientConfig) *ClientCredentialsGrant {
	return &ClientCredentialsGrant{
		config: &clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			EndpointParams: url.Values{
				"resource": {creds.Resource},
			},
		},
		tokenURL:   creds.TokenURL,
		httpClient: newHTTPClient(httpCfg),
	}
}

// GrantType returns the grant identifier
func (c *ClientCredentialsGrant) GrantType() string {
	return config.GrantClientCredentials
}

// Acquire authenticates and returns an access token
func (c *ClientCredentialsGrant) Acquire(ctx context.Context) (*Token, error) {
	// The library picks its HTTP client out of the context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, &AuthenticationError{StatusCode: re.Response.StatusCode, Body: string(re.Body)}
		}
		return nil, &NetworkError{Op: "token", URL: c.tokenURL, Err: err}
	}

	if token.AccessToken == "" {
		return nil, &AuthenticationError{StatusCode: 200, Body: "received empty access token"}
	}

	var expiresIn int64
	if !token.Expiry.IsZero() {
		if remaining := time.Until(token.Expiry); remaining > 0 {
			expiresIn = int64(remaining.Seconds())
		}
	}

	return &Token{
		Value:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresIn: expiresIn,
	}, nil
}
