// Package erp is the HTTP/JSON client for the ERP backend. It covers exactly
// the surface the reception workflow consumes: the material/provider catalog
// and the inventory reception endpoints. Stock mutation, cost averaging and
// cancellation reversal happen server-side; this client treats them as an
// opaque, already-correct dependency.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"taller/internal/core/apperror"
	"taller/pkg/logger"
)

var tracer = otel.Tracer("taller/erp")

// Config holds client settings.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	Credentials CredentialProvider
}

// Client talks to the ERP backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialProvider
}

// NewClient creates a client for the given backend.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		creds:      cfg.Credentials,
	}
}

// Ping verifies the backend is reachable. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/foundations/providers", nil, nil)
}

// do executes one request against the backend: attaches credentials, encodes
// the body, decodes the response and maps failures to AppError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, span := tracer.Start(ctx, "erp."+method+" "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperror.NewInternal(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.creds != nil {
		token, err := c.creds.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return apperror.NewUpstream(0, "", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	logger.Debug(ctx, "erp request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := readErrorDetail(resp.Body)
		err := apperror.NewUpstream(resp.StatusCode, detail, nil)
		span.RecordError(err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewUpstream(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// readErrorDetail extracts the server-provided message from an error body.
// The backend reports either {"detail": "..."} or {"message": "..."}.
func readErrorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Message
}

// upstreamStatus extracts the backend status code from an AppError, 0 otherwise.
func upstreamStatus(err error) int {
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return 0
	}
	status, ok := appErr.Details["upstream_status"].(int)
	if !ok {
		return 0
	}
	return status
}
