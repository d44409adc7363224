// ABOUTME: HTTP client for the Oura v2 API with bearer token auth.
// ABOUTME: Fetches daily scores and sleep periods, or raw bodies for the proxy.
package oura

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Oura usercollection root.
	DefaultBaseURL = "https://api.ouraring.com/v2/usercollection"

	defaultTimeout = 30 * time.Second
)

// Endpoint names accepted by FetchRaw and the proxy.
const (
	EndpointDailySleep     = "daily_sleep"
	EndpointDailyReadiness = "daily_readiness"
	EndpointSleep          = "sleep"
)

// AllowedEndpoints lists the endpoints that may be fetched, in display order.
var AllowedEndpoints = []string{EndpointDailySleep, EndpointDailyReadiness, EndpointSleep}

// ErrNoToken is returned when the client has no access token.
var ErrNoToken = errors.New("oura token not configured")

// APIError is a non-2xx response from Oura.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oura API error: %d", e.Status)
}

// IsAllowedEndpoint reports whether endpoint is in AllowedEndpoints.
func IsAllowedEndpoint(endpoint string) bool {
	for _, e := range AllowedEndpoints {
		if e == endpoint {
			return true
		}
	}
	return false
}

// Client talks to the Oura API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another server, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client using token for every request.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasToken reports whether a token was configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// DailySleep returns daily sleep scores for [start, end].
func (c *Client) DailySleep(ctx context.Context, start, end string) ([]DailyScore, error) {
	return fetchData[DailyScore](ctx, c, EndpointDailySleep, start, end)
}

// DailyReadiness returns daily readiness scores for [start, end].
func (c *Client) DailyReadiness(ctx context.Context, start, end string) ([]DailyScore, error) {
	return fetchData[DailyScore](ctx, c, EndpointDailyReadiness, start, end)
}

// SleepPeriods returns sleep periods whose day falls in [start, end].
func (c *Client) SleepPeriods(ctx context.Context, start, end string) ([]SleepPeriod, error) {
	return fetchData[SleepPeriod](ctx, c, EndpointSleep, start, end)
}

// FetchRaw performs one GET and returns the upstream status and body unparsed.
// A non-2xx status is not an error here; callers decide what to do with it.
func (c *Client) FetchRaw(ctx context.Context, endpoint, start, end string) (int, []byte, error) {
	if c.token == "" {
		return 0, nil, ErrNoToken
	}

	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(endpoint), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	c.logger.Debug("oura request",
		zap.String("endpoint", endpoint),
		zap.String("start_date", start),
		zap.String("end_date", end),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	return resp.StatusCode, body, nil
}

func fetchData[T any](ctx context.Context, c *Client, endpoint, start, end string) ([]T, error) {
	status, body, err := c.FetchRaw(ctx, endpoint, start, end)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &APIError{Status: status, Body: string(body)}
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}
