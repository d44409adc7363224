// ABOUTME: Tests for the Oura proxy handlers.
// ABOUTME: Exercises validation order, upstream passthrough, and the request counter.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harperreed/nightly/internal/oura"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockUpstream implements Upstream for testing.
type mockUpstream struct {
	token     bool
	FetchFunc func(ctx context.Context, endpoint, start, end string) (int, []byte, error)
	calls     int
}

func (m *mockUpstream) HasToken() bool { return m.token }

func (m *mockUpstream) FetchRaw(ctx context.Context, endpoint, start, end string) (int, []byte, error) {
	m.calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, endpoint, start, end)
	}
	return http.StatusOK, []byte(`{"data":[]}`), nil
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const validQuery = "/api/oura?endpoint=daily_sleep&start_date=2024-01-01&end_date=2024-01-02"

func TestProxySuccessPassesBodyThrough(t *testing.T) {
	var gotEndpoint, gotStart, gotEnd string
	up := &mockUpstream{token: true, FetchFunc: func(_ context.Context, endpoint, start, end string) (int, []byte, error) {
		gotEndpoint, gotStart, gotEnd = endpoint, start, end
		return http.StatusOK, []byte(`{"data":[{"day":"2024-01-02","score":81}],"next_token":null}`), nil
	}}
	s := NewServer(up, nil)

	w := do(t, s, http.MethodGet, validQuery)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":[{"day":"2024-01-02","score":81}],"next_token":null}`, w.Body.String())
	assert.Equal(t, "daily_sleep", gotEndpoint)
	assert.Equal(t, "2024-01-01", gotStart)
	assert.Equal(t, "2024-01-02", gotEnd)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("daily_sleep", "200")))
}

func TestProxyNoToken(t *testing.T) {
	up := &mockUpstream{token: false}
	s := NewServer(up, nil)

	w := do(t, s, http.MethodGet, validQuery)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeError(t, w)["error"], "not configured")
	assert.Equal(t, 0, up.calls)
}

func TestProxyMethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			up := &mockUpstream{token: true}
			s := NewServer(up, nil)

			w := do(t, s, method, validQuery)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, "Method not allowed", decodeError(t, w)["error"])
			assert.Equal(t, 0, up.calls)
		})
	}
}

func TestProxyMissingParams(t *testing.T) {
	tests := []string{
		"/api/oura",
		"/api/oura?endpoint=sleep&start_date=2024-01-01",
		"/api/oura?endpoint=sleep&end_date=2024-01-01",
		"/api/oura?start_date=2024-01-01&end_date=2024-01-02",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			up := &mockUpstream{token: true}
			w := do(t, NewServer(up, nil), http.MethodGet, target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w)["error"], "Missing required params")
			assert.Equal(t, 0, up.calls)
		})
	}
}

func TestProxyInvalidEndpoint(t *testing.T) {
	up := &mockUpstream{token: true}
	s := NewServer(up, nil)

	w := do(t, s, http.MethodGet, "/api/oura?endpoint=heartrate&start_date=2024-01-01&end_date=2024-01-02")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	msg := decodeError(t, w)["error"]
	for _, e := range oura.AllowedEndpoints {
		assert.Contains(t, msg, e)
	}
	assert.Equal(t, 0, up.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("invalid", "400")))
}

func TestProxyUpstreamErrorStatus(t *testing.T) {
	up := &mockUpstream{token: true, FetchFunc: func(context.Context, string, string, string) (int, []byte, error) {
		return http.StatusUnauthorized, []byte(`{"detail":"Invalid token"}`), nil
	}}

	w := do(t, NewServer(up, nil), http.MethodGet, validQuery)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Oura API error: 401", body["error"])
	assert.Equal(t, `{"detail":"Invalid token"}`, body["details"])
}

func TestProxyTransportError(t *testing.T) {
	up := &mockUpstream{token: true, FetchFunc: func(context.Context, string, string, string) (int, []byte, error) {
		return 0, nil, errors.New("connection refused")
	}}

	w := do(t, NewServer(up, nil), http.MethodGet, validQuery)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "Failed to fetch from Oura API", body["error"])
	assert.Contains(t, body["details"], "connection refused")
}

func TestProxyAgainstRealClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/sleep", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer upstream.Close()

	client := oura.NewClient("tok", oura.WithBaseURL(upstream.URL))
	w := do(t, NewServer(client, nil), http.MethodGet,
		"/api/oura?endpoint=sleep&start_date=2024-01-01&end_date=2024-01-02")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"data":[]}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	w := do(t, NewServer(&mockUpstream{token: true}, nil), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(&mockUpstream{token: true}, nil)
	do(t, s, http.MethodGet, validQuery)

	w := do(t, s, http.MethodGet, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `nightly_proxy_requests_total{code="200",endpoint="daily_sleep"} 1`))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewServer(&mockUpstream{token: true}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}
