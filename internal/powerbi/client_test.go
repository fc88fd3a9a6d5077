// file: internal/powerbi/client_test.go

package powerbi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pbi-refresh/config"
	"pbi-refresh/internal/auth"
	"pbi-refresh/internal/logger"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, &config.HTTPClientConfig{Timeout: 5 * time.Second}, logger.NewNopLogger())
}

func bearerToken(value string) *auth.Token {
	return &auth.Token{Value: value, TokenType: "Bearer", ExpiresIn: 3600}
}

func TestTriggerRefreshQueued(t *testing.T) {
	var gotPath, gotAuth, gotActivityID string
	var gotContentLength int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotActivityID = r.Header.Get("ActivityId")
		gotContentLength = r.ContentLength

		w.Header().Set("RequestId", "req-42")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := testClient(server.URL)
	target := config.DatasetTarget{GroupID: "g1", DatasetID: "d1"}

	status, err := client.TriggerRefresh(context.Background(), bearerToken("abc123"), target)
	if err != nil {
		t.Fatalf("TriggerRefresh() error = %v", err)
	}

	if status != http.StatusAccepted {
		t.Errorf("status = %d, want 202", status)
	}
	if gotPath != "/v1.0/myorg/groups/g1/datasets/d1/refreshes" {
		t.Errorf("path = %s, want group-scoped refresh path", gotPath)
	}
	// Exact scheme and spacing, case-sensitive
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc123")
	}
	if gotActivityID == "" {
		t.Error("ActivityId header missing")
	}
	if gotContentLength != 0 {
		t.Errorf("Content-Length = %d, want 0", gotContentLength)
	}
}

func TestTriggerRefreshMyWorkspacePath(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := testClient(server.URL)
	target := config.DatasetTarget{DatasetID: "d1"}

	if _, err := client.TriggerRefresh(context.Background(), bearerToken("t"), target); err != nil {
		t.Fatalf("TriggerRefresh() error = %v", err)
	}
	if gotPath != "/v1.0/myorg/datasets/d1/refreshes" {
		t.Errorf("path = %s, want my-workspace refresh path", gotPath)
	}
}

func TestTriggerRefreshRejected(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{
			name:       "dataset not found",
			statusCode: http.StatusNotFound,
			body:       `{"error":{"code":"ItemNotFound"}}`,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			body:       `{"error":{"code":"TooManyRequests"}}`,
		},
		{
			name:       "expired token",
			statusCode: http.StatusForbidden,
			body:       `{"error":{"code":"TokenExpired"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := testClient(server.URL)
			target := config.DatasetTarget{DatasetID: "d1"}

			_, err := client.TriggerRefresh(context.Background(), bearerToken("t"), target)
			var refreshErr *RefreshError
			if !errors.As(err, &refreshErr) {
				t.Fatalf("TriggerRefresh() error = %v, want *RefreshError", err)
			}
			if refreshErr.StatusCode != tt.statusCode {
				t.Errorf("status = %d, want %d", refreshErr.StatusCode, tt.statusCode)
			}
			if refreshErr.Body != tt.body {
				t.Errorf("body = %q, want %q", refreshErr.Body, tt.body)
			}
		})
	}
}

func TestTriggerRefreshConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := testClient(baseURL)
	target := config.DatasetTarget{DatasetID: "d1"}

	_, err := client.TriggerRefresh(context.Background(), bearerToken("t"), target)
	var netErr *auth.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("TriggerRefresh() error = %v, want *NetworkError", err)
	}
	if netErr.Op != "refresh" {
		t.Errorf("Op = %q, want refresh", netErr.Op)
	}
}

func TestRefreshURL(t *testing.T) {
	client := testClient("https://api.powerbi.com")

	tests := []struct {
		name   string
		target config.DatasetTarget
		want   string
	}{
		{
			name:   "my workspace",
			target: config.DatasetTarget{DatasetID: "d1"},
			want:   "https://api.powerbi.com/v1.0/myorg/datasets/d1/refreshes",
		},
		{
			name:   "shared workspace",
			target: config.DatasetTarget{GroupID: "g1", DatasetID: "d1"},
			want:   "https://api.powerbi.com/v1.0/myorg/groups/g1/datasets/d1/refreshes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := client.refreshURL(tt.target); got != tt.want {
				t.Errorf("refreshURL() = %s, want %s", got, tt.want)
			}
		})
	}
}
