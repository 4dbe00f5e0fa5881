package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"uza-logistics/internal/core/logger"

	"go.uber.org/zap"
)

// APIError is a failure reported by the remote backend, carrying the
// HTTP-like status code so callers can react to specific conditions.
type APIError struct {
	// Status is the HTTP status code returned by the backend.
	Status int
	// Op is the operation name that failed.
	Op string
	// Message is the backend-provided error description, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote api %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("remote api %s: status %d", e.Op, e.Status)
}

// IsNotFound reports whether err is a remote "not found" failure.
// Several flows treat it as "no data yet" rather than a hard error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Get().Debug("Remote API request started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("Remote API request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("Remote API request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// Client is a thin wrapper over the remote backend API. Operations are named
// per resource with dots ("client.shipments.create", "admin.pricing.update")
// and mapped onto POST paths; payloads and results are plain JSON documents.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &LoggingRoundTripper{
				Proxied: http.DefaultTransport,
			},
			Timeout: timeout,
		},
	}
}

// Call executes the named operation with the given payload and decodes the
// response into result when result is non-nil. A non-2xx response is returned
// as an *APIError carrying the status code.
func (c *Client) Call(ctx context.Context, op string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload for %s: %w", op, err)
	}

	url := c.baseURL + "/" + strings.ReplaceAll(op, ".", "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote api %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Op: op}

		var remote struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&remote); decodeErr == nil {
			apiErr.Message = remote.Message
		}
		return apiErr
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", op, err)
	}
	return nil
}
