//file: config/credentials.go

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Grant types accepted in the secrets file.
const (
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
)

// DefaultTokenURL is the identity provider's v1 token endpoint.
const DefaultTokenURL = "https://login.windows.net/common/oauth2/token"

// Credentials holds the identity parameters for the token exchange.
// Loaded once at process start and held in memory only for the duration
// of the token request. Never persisted, never logged.
type Credentials struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"` // client_credentials grant only
	GrantType    string `mapstructure:"grant_type"`
	Resource     string `mapstructure:"resource"` // URI of the target API audience
	Username     string `mapstructure:"username"` // password grant only
	Password     string `mapstructure:"password"` // password grant only
	TokenURL     string `mapstructure:"token_url"`
}

// LoadCredentials reads the secrets file using Viper. Any key can be
// overridden through the environment with the PBI_REFRESH prefix, e.g.
// PBI_REFRESH_PASSWORD.
func LoadCredentials(path string) (*Credentials, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable support
	v.SetEnvPrefix("PBI_REFRESH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{File: path, Err: fmt.Errorf("failed to read secrets: %w", err)}
	}

	var creds Credentials
	if err := v.Unmarshal(&creds); err != nil {
		return nil, &ConfigError{File: path, Err: fmt.Errorf("failed to unmarshal secrets: %w", err)}
	}

	setCredentialDefaults(&creds)

	if err := creds.Validate(); err != nil {
		return nil, &ConfigError{File: path, Err: err}
	}

	return &creds, nil
}

// setCredentialDefaults applies sensible defaults
func setCredentialDefaults(creds *Credentials) {
	if creds.GrantType == "" {
		creds.GrantType = GrantPassword
	}
	if creds.TokenURL == "" {
		creds.TokenURL = DefaultTokenURL
	}
}

// Validate ensures every field required by the configured grant type is
// non-empty before any network call is attempted.
func (c *Credentials) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.Resource == "" {
		return fmt.Errorf("resource is required")
	}
	if !strings.HasPrefix(c.TokenURL, "http://") && !strings.HasPrefix(c.TokenURL, "https://") {
		return fmt.Errorf("token_url must be an http(s) URL, got %q", c.TokenURL)
	}

	switch c.GrantType {
	case GrantPassword:
		if c.Username == "" {
			return fmt.Errorf("username is required for the password grant")
		}
		if c.Password == "" {
			return fmt.Errorf("password is required for the password grant")
		}
	case GrantClientCredentials:
		if c.ClientSecret == "" {
			return fmt.Errorf("client_secret is required for the client_credentials grant")
		}
	default:
		return fmt.Errorf("unknown grant_type %q (want %s or %s)", c.GrantType, GrantPassword, GrantClientCredentials)
	}

	return nil
}
