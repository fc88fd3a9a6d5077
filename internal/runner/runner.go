// file: internal/runner/runner.go

package runner

import (
	"context"
	"errors"

	"pbi-refresh/config"
	"pbi-refresh/internal/auth"
	"pbi-refresh/internal/logger"
	"pbi-refresh/internal/powerbi"
)

// RefreshSubmitter is the reporting-API side of the workflow. Satisfied
// by *powerbi.Client; tests substitute fakes.
type RefreshSubmitter interface {
	TriggerRefresh(ctx context.Context, tok *auth.Token, target config.DatasetTarget) (int, error)
}

// Result is the terminal outcome of one workflow run
type Result struct {
	Queued     bool
	StatusCode int // HTTP status from the refresh endpoint when Queued
	Err        error
}

// Runner sequences token acquisition and refresh submission. It
// receives already-validated records and both collaborators, so it
// never touches the filesystem itself.
type Runner struct {
	source    auth.TokenSource
	submitter RefreshSubmitter
	target    config.DatasetTarget
	logger    *logger.Logger
}

// New creates a workflow runner
func New(source auth.TokenSource, submitter RefreshSubmitter, target config.DatasetTarget, log *logger.Logger) *Runner {
	return &Runner{
		source:    source,
		submitter: submitter,
		target:    target,
		logger:    log,
	}
}

// Run executes the two-step workflow: acquire a token, then submit the
// refresh. A token failure aborts before the reporting API is touched.
// The token value itself is never logged.
func (r *Runner) Run(ctx context.Context) Result {
	tok, err := r.source.Acquire(ctx)
	if err != nil {
		r.logger.Error("token acquisition failed",
			"grantType", r.source.GrantType(),
			"error", err)
		return Result{Err: err}
	}

	r.logger.Info("token acquired",
		"grantType", r.source.GrantType(),
		"tokenType", tok.TokenType,
		"expiresInSeconds", tok.ExpiresIn)

	status, err := r.submitter.TriggerRefresh(ctx, tok, r.target)
	if err != nil {
		r.logger.Error("refresh submission failed",
			"datasetId", r.target.DatasetID,
			"error", err)
		return Result{Err: err}
	}

	return Result{Queued: true, StatusCode: status}
}

// Kind labels for the error taxonomy, used in console status lines.
const (
	KindConfig         = "config error"
	KindNetwork        = "network error"
	KindAuthentication = "authentication error"
	KindRefresh        = "refresh error"
	KindUnknown        = "error"
)

// Classify maps an error onto the workflow's taxonomy
func Classify(err error) string {
	var cfgErr *config.ConfigError
	var netErr *auth.NetworkError
	var authErr *auth.AuthenticationError
	var refreshErr *powerbi.RefreshError

	switch {
	case errors.As(err, &cfgErr):
		return KindConfig
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &authErr):
		return KindAuthentication
	case errors.As(err, &refreshErr):
		return KindRefresh
	default:
		return KindUnknown
	}
}
