//file: config/config.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration loaded from the dataset file.
// Credentials are deliberately kept out of it; they come from the
// separate secrets file (see LoadCredentials).
type Config struct {
	Dataset DatasetTarget    `json:"dataset" yaml:"dataset"`
	HTTP    HTTPClientConfig `json:"http" yaml:"http"`
	Logging LogConfig        `json:"logging" yaml:"logging"`
}

// DatasetTarget identifies the report to refresh. Immutable after load.
type DatasetTarget struct {
	GroupID   string `json:"groupId" yaml:"groupId"`     // optional workspace id; empty = my-workspace
	DatasetID string `json:"datasetId" yaml:"datasetId"` // required
	APIURL    string `json:"apiUrl" yaml:"apiUrl"`       // reporting API base URL
}

// HTTPClientConfig configures the outbound HTTP client used for both
// the token request and the refresh request.
type HTTPClientConfig struct {
	Timeout             time.Duration `json:"timeout" yaml:"timeout"`
	MaxIdleConns        int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	MaxIdleConnsPerHost int           `json:"maxIdleConnsPerHost" yaml:"maxIdleConnsPerHost"`
	IdleConnTimeout     time.Duration `json:"idleConnTimeout" yaml:"idleConnTimeout"`
}

type LogConfig struct {
	Level      string `json:"level" yaml:"level"`           // debug, info, warn, error
	OutputPath string `json:"outputPath" yaml:"outputPath"` // file path, "stdout" or "stderr"
	Encoding   string `json:"encoding" yaml:"encoding"`     // json or console
}

// ConfigError marks a missing or malformed configuration file. The
// workflow must not reach the network once one of these is returned.
type ConfigError struct {
	File string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %v", e.File, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads and parses the dataset configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{File: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	var config Config

	// Determine file type by extension
	ext := strings.ToLower(filepath.Ext(path))
	var parseErr error

	switch ext {
	case ".yaml", ".yml":
		parseErr = yaml.Unmarshal(data, &config)
	case ".json":
		parseErr = json.Unmarshal(data, &config)
	default:
		// Try JSON first, then YAML if JSON fails
		parseErr = json.Unmarshal(data, &config)
		if parseErr != nil {
			yamlErr := yaml.Unmarshal(data, &config)
			if yamlErr != nil {
				return nil, &ConfigError{File: path, Err: fmt.Errorf("failed to parse config file (tried JSON and YAML): %w", parseErr)}
			}
			parseErr = nil
		}
	}

	if parseErr != nil {
		return nil, &ConfigError{File: path, Err: fmt.Errorf("failed to parse config file: %w", parseErr)}
	}

	setDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, &ConfigError{File: path, Err: err}
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(cfg *Config) {
	if cfg.Dataset.APIURL == "" {
		cfg.Dataset.APIURL = "https://api.powerbi.com"
	}

	// HTTP client defaults
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.HTTP.MaxIdleConns == 0 {
		cfg.HTTP.MaxIdleConns = 10
	}
	if cfg.HTTP.MaxIdleConnsPerHost == 0 {
		cfg.HTTP.MaxIdleConnsPerHost = 2
	}
	if cfg.HTTP.IdleConnTimeout == 0 {
		cfg.HTTP.IdleConnTimeout = 90 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.OutputPath == "" {
		cfg.Logging.OutputPath = "stderr"
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = "console"
	}
}

// validateConfig ensures the loaded configuration is usable
func validateConfig(cfg *Config) error {
	if cfg.Dataset.DatasetID == "" {
		return fmt.Errorf("dataset.datasetId is required")
	}
	if !strings.HasPrefix(cfg.Dataset.APIURL, "http://") && !strings.HasPrefix(cfg.Dataset.APIURL, "https://") {
		return fmt.Errorf("dataset.apiUrl must be an http(s) URL, got %q", cfg.Dataset.APIURL)
	}
	if cfg.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("logging.encoding must be json or console, got %q", cfg.Logging.Encoding)
	}

	return nil
}
