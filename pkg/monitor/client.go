package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClientOption configures a Client via functional options.
type ClientOption func(*Client)

// Client is an HTTP client for the monitor server's snapshot
// endpoints. Defaults are usable as is, so callers can write
// NewClient(url) with zero options.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client targeting the given base URL, for
// example "http://127.0.0.1:8077".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// Dashboard fetches the current dashboard snapshot.
func (c *Client) Dashboard(
	ctx context.Context,
) (*DashboardSnapshot, error) {
	status, data, err := c.get(ctx, "/dashboard")
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf(
			"dashboard returned HTTP %d: %s", status, data,
		)
	}

	var snap DashboardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf(
			"parse dashboard response: %w", err,
		)
	}
	return &snap, nil
}

// Metrics fetches the Prometheus text exposition.
func (c *Client) Metrics(ctx context.Context) (string, error) {
	status, data, err := c.get(ctx, "/metrics")
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf(
			"metrics returned HTTP %d: %s", status, data,
		)
	}
	return string(data), nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	status, data, err := c.get(ctx, "/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf(
			"health returned HTTP %d: %s", status, data,
		)
	}
	return nil
}

// get performs a GET request and returns the status code and raw
// body bytes.
func (c *Client) get(
	ctx context.Context, path string,
) (int, []byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf(
			"read response: %w", err,
		)
	}
	return resp.StatusCode, data, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
