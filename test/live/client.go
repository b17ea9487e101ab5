//go:build live

// Package live provides a test client for the rootcheck REST API running on
// a real device.
package live

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/txn2/rootcheck/pkg/rootapi/types"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// Client is an HTTP client for the rootcheck REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new test client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			// package listing on a cold device can take several seconds
			Timeout: 60 * time.Second,
		},
	}
}

// Response wraps API responses for easier testing.
type Response struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data,omitempty"`
	Error   *types.ErrorInfo `json:"error,omitempty"`
}

// fetch performs a GET request and returns the raw body.
func (c *Client) fetch(t *testing.T, path string) []byte {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return respBody
}

// get performs a GET request and decodes the response envelope.
func (c *Client) get(t *testing.T, path string) *Response {
	t.Helper()

	respBody := c.fetch(t, path)

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("Failed to unmarshal response: %v (body: %s)", err, string(respBody))
	}

	if !result.Success {
		msg := "unknown error"
		if result.Error != nil {
			msg = result.Error.Message
		}
		t.Fatalf("GET %s failed: %s", path, msg)
	}

	return &result
}

func decode(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
}

// GetHealth returns the API health.
func (c *Client) GetHealth(t *testing.T) types.HealthResponse {
	t.Helper()
	// health is served without the response envelope
	var health types.HealthResponse
	decode(t, c.fetch(t, "/health"), &health)
	return health
}

// GetVerdict returns the short-circuited verdict.
func (c *Client) GetVerdict(t *testing.T) types.VerdictResponse {
	t.Helper()
	var verdict types.VerdictResponse
	decode(t, c.get(t, "/v1/verdict").Data, &verdict)
	return verdict
}

// GetReport returns the full evaluation, optionally only detected findings.
func (c *Client) GetReport(t *testing.T, detectedOnly bool) rootcheck.Report {
	t.Helper()
	path := "/v1/report"
	if detectedOnly {
		path += "?detected=true"
	}
	var report rootcheck.Report
	decode(t, c.get(t, path).Data, &report)
	return report
}

// GetDetectors returns detector names in run order.
func (c *Client) GetDetectors(t *testing.T) []string {
	t.Helper()
	var resp types.DetectorsResponse
	decode(t, c.get(t, "/v1/detectors").Data, &resp)
	return resp.Detectors
}
