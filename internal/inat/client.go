// Package inat provides a rate-limited client for the iNaturalist API v1
// with place resolution, taxa search and species count aggregation.
package inat

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/errors"
	"github.com/tphakala/inatdiff-go/internal/logging"
)

// Package-level logger specific to the inat service
var (
	logger          *slog.Logger
	serviceLevelVar = new(slog.LevelVar) // Dynamic level control
	closeLogger     func() error
)

func init() {
	var err error
	// Define log file path relative to working directory
	logFilePath := filepath.Join("logs", "inat-api.log")
	initialLevel := slog.LevelDebug
	serviceLevelVar.Set(initialLevel)

	// Initialize the service-specific file logger
	logger, closeLogger, err = logging.NewFileLogger(logFilePath, "inat", serviceLevelVar)
	if err != nil {
		// Fallback: log the error and disable service file logging
		log.Printf("FATAL: Failed to initialize inat file logger at %s: %v. Service logging disabled.", logFilePath, err)
		fbHandler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: serviceLevelVar})
		logger = slog.New(fbHandler).With("service", "inat")
		closeLogger = func() error { return nil }
	}
}

// Client provides methods for interacting with the iNaturalist API.
// All requests pass through a shared rate limiter, so one client serializes
// its request pacing even when called from multiple goroutines.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    time.Duration // base retry backoff, doubled per attempt
	debug      bool

	// Metrics
	metrics struct {
		apiCalls      int64
		apiErrors     int64
		retries       int64
		totalDuration time.Duration
		mu            sync.RWMutex
	}
}

// NewClient creates a new iNaturalist API client
func NewClient(config Config) (*Client, error) {
	// Use defaults for missing config values
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.RateLimit == 0 {
		config.RateLimit = DefaultConfig().RateLimit
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = DefaultConfig().MaxAttempts
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if _, err := url.ParseRequestURI(config.BaseURL); err != nil {
		return nil, errors.Newf("invalid iNaturalist base URL %q: %w", config.BaseURL, err).
			Category(errors.CategoryConfiguration).
			Component("inat").
			Build()
	}
	if config.RateLimit < 0 || config.MaxAttempts < 1 {
		return nil, errors.Newf("invalid iNaturalist client configuration").
			Category(errors.CategoryConfiguration).
			Context("rate_limit", config.RateLimit.String()).
			Context("max_attempts", config.MaxAttempts).
			Component("inat").
			Build()
	}

	// Get global debug setting
	settings := conf.GetSettings()
	debug := settings != nil && settings.Debug

	client := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(config.RateLimit), 1),
		backoff: time.Second,
		debug:   debug,
	}

	logger.Info("iNaturalist client initialized",
		"base_url", config.BaseURL,
		"rate_limit", config.RateLimit.String(),
		"max_attempts", config.MaxAttempts,
		"debug", debug)

	return client, nil
}

// ConfigFromSettings builds a client Config from loaded application settings
func ConfigFromSettings(settings *conf.Settings) Config {
	config := DefaultConfig()
	if settings == nil {
		return config
	}
	if settings.INat.BaseURL != "" {
		config.BaseURL = settings.INat.BaseURL
	}
	if settings.INat.UserAgent != "" {
		config.UserAgent = settings.INat.UserAgent
	}
	if settings.INat.Timeout > 0 {
		config.Timeout = time.Duration(settings.INat.Timeout) * time.Second
	}
	if settings.INat.RateLimit > 0 {
		config.RateLimit = time.Duration(settings.INat.RateLimit * float64(time.Second))
	}
	if settings.INat.MaxAttempts > 0 {
		config.MaxAttempts = settings.INat.MaxAttempts
	}
	return config
}

// RateLimit returns the configured minimum interval between requests
func (c *Client) RateLimit() time.Duration {
	return c.config.RateLimit
}

// Close releases the service log file
func (c *Client) Close() {
	logger.Info("Closing iNaturalist client")
	if closeLogger != nil {
		if err := closeLogger(); err != nil {
			log.Printf("Error closing inat logger: %v", err)
		}
	}
}

// get performs a rate-limited GET request against an API path, retrying
// transient failures. The limiter is waited on before every attempt so
// retries still respect the request interval.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	reqID := uuid.New().String()[:8] // Using first 8 chars for brevity

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	reqLogger := logger.With("request_id", reqID, "url", endpoint)

	var lastErr error
	for attempt := 0; attempt < c.config.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Newf("request cancelled while waiting for rate limiter: %w", err).
				Category(errors.CategoryCancellation).
				Context("request_id", reqID).
				Context("url", endpoint).
				Component("inat").
				Build()
		}

		err := c.doRequest(ctx, endpoint, result, reqLogger)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if attempt == c.config.MaxAttempts-1 {
			break
		}

		// Exponential backoff, overridden by a larger Retry-After hint
		delay := c.backoff * time.Duration(1<<attempt)
		if hinted := retryAfterHint(err); hinted > delay {
			delay = hinted
		}

		c.metrics.mu.Lock()
		c.metrics.retries++
		c.metrics.mu.Unlock()

		reqLogger.Warn("iNaturalist API request failed, retrying",
			"attempt", attempt+1,
			"max_attempts", c.config.MaxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err.Error())

		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			return errors.Newf("request cancelled during retry backoff: %w", ctx.Err()).
				Category(errors.CategoryCancellation).
				Context("request_id", reqID).
				Context("url", endpoint).
				Component("inat").
				Build()
		}
	}

	reqLogger.Error("iNaturalist API request failed, retries exhausted",
		"attempts", c.config.MaxAttempts,
		"error", lastErr.Error())
	return lastErr
}

// doRequest performs a single HTTP GET attempt and decodes the JSON response
func (c *Client) doRequest(ctx context.Context, endpoint string, result any, reqLogger *slog.Logger) error {
	start := time.Now()

	c.metrics.mu.Lock()
	c.metrics.apiCalls++
	c.metrics.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()
		return errors.Newf("failed to create HTTP request: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", endpoint).
			Component("inat").
			Build()
	}
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if c.debug {
		reqLogger.Debug("iNaturalist API request", "method", http.MethodGet)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		category := errors.CategoryNetwork
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			category = errors.CategoryTimeout
		}
		reqLogger.Error("iNaturalist API request failed", "error", err)
		return errors.Newf("HTTP request failed: %w", err).
			Category(category).
			Context("url", endpoint).
			Component("inat").
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()
		return errors.Newf("failed to read response body: %w", err).
			Category(errors.CategoryNetwork).
			Context("url", endpoint).
			Context("status_code", resp.StatusCode).
			Component("inat").
			Build()
	}

	if resp.StatusCode >= 400 {
		c.metrics.mu.Lock()
		c.metrics.apiErrors++
		c.metrics.mu.Unlock()

		apiErr := &APIError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(bodyBytes)),
		}
		reqLogger.Warn("iNaturalist API error response",
			"status_code", resp.StatusCode,
			"body", apiErr.Body)

		builder := errors.New(apiErr).
			Category(statusCategory(resp.StatusCode)).
			Context("status_code", resp.StatusCode).
			Context("url", endpoint).
			Component("inat")
		if hint := parseRetryAfter(resp.Header.Get("Retry-After")); hint > 0 {
			builder = builder.Context("retry_after", hint)
		}
		return builder.Build()
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			responsePreview := string(bodyBytes)
			if len(responsePreview) > 500 {
				responsePreview = responsePreview[:500] + "..."
			}
			reqLogger.Error("Failed to parse iNaturalist API response",
				"error", err,
				"response_size", len(bodyBytes),
				"response_preview", responsePreview)
			return errors.Newf("failed to parse response: %w", err).
				Category(errors.CategoryGeneric).
				Context("url", endpoint).
				Context("response_size", len(bodyBytes)).
				Component("inat").
				Build()
		}
	}

	duration := time.Since(start)
	c.metrics.mu.Lock()
	c.metrics.totalDuration += duration
	c.metrics.mu.Unlock()

	if c.debug {
		reqLogger.Debug("iNaturalist API response",
			"status_code", resp.StatusCode,
			"duration_ms", duration.Milliseconds(),
			"response_size", len(bodyBytes))
	}

	return nil
}

// retryable reports whether another attempt could succeed. Rate limiting,
// server errors and transport failures are transient; all other client
// errors are final.
func retryable(err error) bool {
	var enhancedErr *errors.EnhancedError
	if !errors.As(err, &enhancedErr) {
		return false
	}
	// A status code below 400 means the failure happened after a success
	// response, e.g. mid-body, which is a transport problem like any other.
	if statusCode, ok := enhancedErr.Context["status_code"].(int); ok && statusCode >= 400 {
		return statusCode == http.StatusTooManyRequests || statusCode >= 500
	}
	return enhancedErr.Category == errors.CategoryNetwork ||
		enhancedErr.Category == errors.CategoryTimeout
}

// retryAfterHint extracts a server-provided retry delay from an error, if any
func retryAfterHint(err error) time.Duration {
	var enhancedErr *errors.EnhancedError
	if errors.As(err, &enhancedErr) {
		if hint, ok := enhancedErr.Context["retry_after"].(time.Duration); ok {
			return hint
		}
	}
	return 0
}

// parseRetryAfter parses a Retry-After header value, either delay seconds
// or an HTTP date
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// statusCategory maps an HTTP status code to an error category
func statusCategory(statusCode int) errors.ErrorCategory {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return errors.CategoryLimit
	case statusCode == http.StatusNotFound:
		return errors.CategoryNotFound
	default:
		return errors.CategoryHTTP
	}
}

// Metrics represents client performance metrics
type Metrics struct {
	APICalls      int64         `json:"api_calls"`
	APIErrors     int64         `json:"api_errors"`
	Retries       int64         `json:"retries"`
	TotalDuration time.Duration `json:"total_duration"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// GetMetrics returns current client metrics
func (c *Client) GetMetrics() Metrics {
	c.metrics.mu.RLock()
	defer c.metrics.mu.RUnlock()

	metrics := Metrics{
		APICalls:      c.metrics.apiCalls,
		APIErrors:     c.metrics.apiErrors,
		Retries:       c.metrics.retries,
		TotalDuration: c.metrics.totalDuration,
	}
	if metrics.APICalls > 0 {
		metrics.AvgDuration = time.Duration(int64(metrics.TotalDuration) / metrics.APICalls)
	}
	return metrics
}
