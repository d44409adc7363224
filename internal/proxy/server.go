// ABOUTME: HTTP proxy that forwards allow-listed Oura requests with the server-side token.
// ABOUTME: Exposes /api/oura, /healthz, and Prometheus metrics on /metrics.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/nightly/internal/oura"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Upstream is the part of the Oura client the proxy uses.
type Upstream interface {
	HasToken() bool
	FetchRaw(ctx context.Context, endpoint, start, end string) (int, []byte, error)
}

// Server is the proxy web server.
type Server struct {
	upstream Upstream
	router   *gin.Engine
	logger   *zap.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// NewServer creates a proxy for upstream.
func NewServer(upstream Upstream, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nightly_proxy_requests_total",
		Help: "Oura proxy requests by endpoint and response code.",
	}, []string{"endpoint", "code"})
	registry.MustRegister(requests, prometheus.NewGoCollector())

	s := &Server{
		upstream: upstream,
		router:   router,
		logger:   logger,
		registry: registry,
		requests: requests,
	}

	router.Use(s.logRequests)
	router.Any("/api/oura", s.handleOura)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return s
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("proxy listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown proxy: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("proxy request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) respond(c *gin.Context, endpoint string, status int, body gin.H) {
	s.requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	c.JSON(status, body)
}

func (s *Server) handleOura(c *gin.Context) {
	endpoint := c.Query("endpoint")
	label := endpoint
	if !oura.IsAllowedEndpoint(endpoint) {
		label = "invalid"
	}

	if !s.upstream.HasToken() {
		s.respond(c, label, http.StatusInternalServerError, gin.H{"error": "Oura token not configured"})
		return
	}

	if c.Request.Method != http.MethodGet {
		s.respond(c, label, http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	start, end := c.Query("start_date"), c.Query("end_date")
	if endpoint == "" || start == "" || end == "" {
		s.respond(c, label, http.StatusBadRequest, gin.H{"error": "Missing required params: endpoint, start_date, end_date"})
		return
	}

	if !oura.IsAllowedEndpoint(endpoint) {
		s.respond(c, label, http.StatusBadRequest, gin.H{
			"error": "Invalid endpoint. Allowed: " + strings.Join(oura.AllowedEndpoints, ", "),
		})
		return
	}

	status, body, err := s.upstream.FetchRaw(c.Request.Context(), endpoint, start, end)
	if err != nil {
		s.logger.Warn("oura fetch failed", zap.String("endpoint", endpoint), zap.Error(err))
		s.respond(c, label, http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch from Oura API",
			"details": err.Error(),
		})
		return
	}

	if status < 200 || status > 299 {
		s.respond(c, label, status, gin.H{
			"error":   fmt.Sprintf("Oura API error: %d", status),
			"details": string(body),
		})
		return
	}

	s.requests.WithLabelValues(label, strconv.Itoa(http.StatusOK)).Inc()
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "token_configured": s.upstream.HasToken()})
}
