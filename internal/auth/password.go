// file: internal/auth/password.go

package auth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"pbi-refresh/config"
)

// maxTokenResponseSize is the maximum size of a token response body to read (1MB).
const maxTokenResponseSize = 1024 * 1024

// PasswordGrant implements the OAuth2 resource-owner-password flow
// against an Azure AD v1 style token endpoint. The v1 endpoint takes a
// "resource" form parameter that golang.org/x/oauth2 cannot send on the
// password flow, so the exchange is a plain form POST.
type PasswordGrant struct {
	creds      *config.Credentials
	httpClient *http.Client
}

// NewPasswordGrant creates a password-grant token source
func NewPasswordGrant(creds *config.Credentials, httpCfg *config.HTTPClientConfig) *PasswordGrant {
	return &PasswordGrant{
		creds:      creds,
		httpClient: newHTTPClient(httpCfg),
	}
}

// GrantType returns the grant identifier
func (p *PasswordGrant) GrantType() string {
	return config.GrantPassword
}

// Acquire performs the token exchange. Exactly one outbound call, no
// retries: transport failures surface as *NetworkError, HTTP-level
// rejections and malformed bodies as *AuthenticationError.
func (p *PasswordGrant) Acquire(ctx context.Context) (*Token, error) {
	form := url.Values{
		"grant_type": {p.creds.GrantType},
		"client_id":  {p.creds.ClientID},
		"resource":   {p.creds.Resource},
		"username":   {p.creds.Username},
		"password":   {p.creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.creds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &NetworkError{Op: "token", URL: p.creds.TokenURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "token", URL: p.creds.TokenURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return nil, &NetworkError{Op: "token", URL: p.creds.TokenURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if tr.AccessToken == "" {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return &Token{
		Value:     tr.AccessToken,
		TokenType: tr.TokenType,
		ExpiresIn: tr.expirySeconds(time.Now()),
	}, nil
}

// tokenResponse is the identity provider's token payload. The v1
// endpoint returns expires_in and expires_on as JSON strings; newer
// endpoints return expires_in as a number. Raw messages absorb both.
type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   json.RawMessage `json:"expires_in"`
	ExpiresOn   json.RawMessage `json:"expires_on"`
}

// expirySeconds normalizes the provider's expiry fields to seconds
// remaining. expires_in wins when present; expires_on is a unix
// timestamp. Missing or unparseable values yield 0 rather than failing
// the grant, since the token is used once immediately anyway.
func (tr *tokenResponse) expirySeconds(now time.Time) int64 {
	if secs, ok := parseJSONInt(tr.ExpiresIn); ok {
		return secs
	}
	if ts, ok := parseJSONInt(tr.ExpiresOn); ok {
		remaining := ts - now.Unix()
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return 0
}

// parseJSONInt reads an integer that may be encoded as a JSON number
// or a quoted numeric string
func parseJSONInt(raw json.RawMessage) (int64, bool) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// newHTTPClient builds the outbound client shared by both grant flows
func newHTTPClient(cfg *config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	}
}
