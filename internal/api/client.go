// Package api is the HTTP gateway to the remote coverage analytics service.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/n-forsell/apicov-dashboard-tui/internal/daterange"
	"github.com/n-forsell/apicov-dashboard-tui/internal/logger"
	"github.com/n-forsell/apicov-dashboard-tui/internal/models"
)

// DefaultTimeout is the per-request deadline when none is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to the coverage service. All methods are safe for concurrent
// use and return a *Error on failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a gateway client for the given base URL (e.g.
// "https://coverage.example.com/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the optional structured payload of a non-2xx response.
type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// dataEnvelope wraps the list endpoints' `{"data": [...]}` responses.
type dataEnvelope[T any] struct {
	Data []T `json:"data"`
}

// GetSummary fetches the aggregate metrics for a date range.
func (c *Client) GetSummary(ctx context.Context, r daterange.Range) (models.Summary, error) {
	q := url.Values{}
	q.Set("start", r.Start)
	q.Set("end", r.End)

	var out models.Summary
	if err := c.getJSON(ctx, "/summary", q, &out); err != nil {
		return models.Summary{}, err
	}
	return out, nil
}

// GetCoverageUsage fetches the coverage-vs-usage scatter points for one date.
func (c *Client) GetCoverageUsage(ctx context.Context, date string) ([]models.UsagePoint, error) {
	q := url.Values{}
	q.Set("date", date)

	var out dataEnvelope[models.UsagePoint]
	if err := c.getJSON(ctx, "/coverage-usage", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetCoverageTrends fetches the per-day average coverage for a date range.
func (c *Client) GetCoverageTrends(ctx context.Context, r daterange.Range) ([]models.TrendPoint, error) {
	q := url.Values{}
	q.Set("start", r.Start)
	q.Set("end", r.End)

	var out dataEnvelope[models.TrendPoint]
	if err := c.getJSON(ctx, "/coverage-trends", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetAPIList fetches the per-API detail records for one date.
func (c *Client) GetAPIList(ctx context.Context, date string) ([]models.APIRecord, error) {
	q := url.Values{}
	q.Set("date", date)

	var out dataEnvelope[models.APIRecord]
	if err := c.getJSON(ctx, "/apis", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// getJSON performs a GET with the client deadline and decodes the response
// into out. Transport failures are normalized into the error taxonomy.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "path", path, "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransportError(path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		eb := errorBody{}
		_ = json.Unmarshal(body, &eb)
		if eb.Message == "" {
			eb.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		logger.Warn("coverage service error", "path", path, "status", resp.StatusCode, "code", eb.Code)
		return &Error{
			Kind:    KindAPI,
			Status:  resp.StatusCode,
			Code:    eb.Code,
			Message: eb.Message,
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// classifyTransportError maps a failed round trip onto the error taxonomy.
func classifyTransportError(path string, err error) error {
	logger.Warn("request failed", "path", path, "error", err)

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}
