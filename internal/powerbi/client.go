// file: internal/powerbi/client.go

package powerbi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"pbi-refresh/config"
	"pbi-refresh/internal/auth"
	"pbi-refresh/internal/logger"
)

// MaxResponseSize is the maximum size of an API response body to read (1MB).
const MaxResponseSize = 1024 * 1024

// Client submits dataset-refresh requests to the reporting API. It does
// not poll for completion: a 2xx answer (typically 202) means the
// refresh job was queued on the vendor side.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a reporting API client
func NewClient(baseURL string, httpCfg *config.HTTPClientConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		logger:  log,
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        httpCfg.MaxIdleConns,
				MaxIdleConnsPerHost: httpCfg.MaxIdleConnsPerHost,
				IdleConnTimeout:     httpCfg.IdleConnTimeout,
			},
		},
	}
}

// RefreshError means the reporting API rejected the refresh call.
// Body carries the API's answer verbatim.
type RefreshError struct {
	StatusCode int
	Body       string
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh request failed with status %d: %s", e.StatusCode, e.Body)
}

// TriggerRefresh asks the API to reload the target dataset. Returns the
// HTTP status on success (2xx). One outbound call, no retries; the
// Authorization header is exactly "Bearer " plus the token value.
func (c *Client) TriggerRefresh(ctx context.Context, tok *auth.Token, target config.DatasetTarget) (int, error) {
	refreshURL := c.refreshURL(target)
	activityID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, refreshURL, nil)
	if err != nil {
		return 0, &auth.NetworkError{Op: "refresh", URL: refreshURL, Err: err}
	}

	// The API rejects chunked empty bodies; pin Content-Length to 0
	req.ContentLength = 0
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("ActivityId", activityID)

	c.logger.Debug("submitting refresh request",
		"url", refreshURL,
		"activityId", activityID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &auth.NetworkError{Op: "refresh", URL: refreshURL, Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("refresh queued",
			"datasetId", target.DatasetID,
			"statusCode", resp.StatusCode,
			"requestId", resp.Header.Get("RequestId"),
			"activityId", activityID)
		return resp.StatusCode, nil
	}

	return 0, &RefreshError{StatusCode: resp.StatusCode, Body: string(body)}
}

// refreshURL builds the refresh endpoint path. Datasets in a shared
// workspace are addressed through the group-scoped route.
func (c *Client) refreshURL(target config.DatasetTarget) string {
	if target.GroupID != "" {
		return fmt.Sprintf("%s/v1.0/myorg/groups/%s/datasets/%s/refreshes", c.baseURL, target.GroupID, target.DatasetID)
	}
	return fmt.Sprintf("%s/v1.0/myorg/datasets/%s/refreshes", c.baseURL, target.DatasetID)
}
