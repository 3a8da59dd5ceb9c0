package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"integration-hub/internal/domain/entity"
	"integration-hub/internal/domain/repository"
	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 4 << 20

// ErrNotConfigured is returned when a provider's credentials are missing
var ErrNotConfigured = errors.New("provider not configured")

// StatusError is returned when an upstream API answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Options configures outbound throttling and timeouts
type Options struct {
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client performs rate-limited outbound calls for one provider and records
// each call in metrics and the relay audit log.
type Client struct {
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	audit      repository.RelayLogRepository
	logger     logger.Logger
}

// NewClient creates a relay client for provider. audit may be nil.
func NewClient(provider string, opts Options, m *metrics.Metrics, audit repository.RelayLogRepository, log logger.Logger) *Client {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		provider:   provider,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		metrics:    m,
		audit:      audit,
		logger:     log.With("provider", provider),
	}
}

// Track waits for the rate limiter, runs call and records its outcome.
// call returns the upstream HTTP status code, or 0 if none was received.
func (c *Client) Track(ctx context.Context, operation string, call func(ctx context.Context) (int, error)) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	code, err := call(ctx)
	elapsed := time.Since(start)

	status := entity.RelayStatusSuccess
	if err != nil {
		status = entity.RelayStatusFailed
	}

	if c.metrics != nil {
		c.metrics.RelayCalls.WithLabelValues(c.provider, operation, status).Inc()
		c.metrics.RelayDuration.WithLabelValues(c.provider).Observe(elapsed.Seconds())
	}

	entry := &entity.RelayLog{
		ID:         uuid.NewString(),
		RequestID:  RequestIDFromContext(ctx),
		Provider:   c.provider,
		Operation:  operation,
		Status:     status,
		StatusCode: code,
		Duration:   elapsed,
		CreatedAt:  start.UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
		c.logger.Error("Relay call failed",
			"operation", operation,
			"statusCode", code,
			"duration", elapsed,
			"error", err)
	} else {
		c.logger.Debug("Relay call completed",
			"operation", operation,
			"statusCode", code,
			"duration", elapsed)
	}
	c.record(ctx, entry)

	return err
}

func (c *Client) record(ctx context.Context, entry *entity.RelayLog) {
	if c.audit == nil {
		return
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := c.audit.Save(auditCtx, entry); err != nil {
		c.logger.Warn("Failed to save relay log", "id", entry.ID, "error", err)
	}
}

// Request describes one JSON call
type Request struct {
	Operation string
	Method    string
	URL       string
	Header    http.Header
	Body      interface{}
}

// DoJSON sends req with a JSON body (if any) and decodes a 2xx JSON
// response into out (if non-nil).
func (c *Client) DoJSON(ctx context.Context, req Request, out interface{}) error {
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", req.Operation, err)
		}
	}

	return c.Track(ctx, req.Operation, func(ctx context.Context) (int, error) {
		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
		if err != nil {
			return 0, fmt.Errorf("failed to create request: %w", err)
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
		if payload != nil && httpReq.Header.Get("Content-Type") == "" {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if id := RequestIDFromContext(ctx); id != "" {
			httpReq.Header.Set(RequestIDHeader, id)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return 0, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return resp.StatusCode, &StatusError{
				Provider:   c.provider,
				StatusCode: resp.StatusCode,
				Body:       string(raw),
			}
		}

		if out != nil && len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return resp.StatusCode, nil
	})
}

// StatusCodeOf returns the upstream status carried by err, or 0
func StatusCodeOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
