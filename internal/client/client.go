// Package client is an HTTP client for the envelope API. Transient failures
// (connection errors, 429 and 5xx) are retried with backoff that honours
// Retry-After.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	clipDomain "github.com/allisson/clip/internal/clip/domain"
	apperrors "github.com/allisson/clip/internal/errors"
	"github.com/allisson/clip/internal/httputil"
)

// Config configures a Client.
type Config struct {
	BaseURL string
	// Timeout bounds each attempt.
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Logger receives retry attempts. Nil silences them.
	Logger *slog.Logger
}

// Client talks to the envelope API.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

type createRequest struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
	TTL        *int   `json:"ttl,omitempty"`
}

type createResponse struct {
	ID  string `json:"id"`
	TTL int    `json:"ttl"`
}

type envelopeResponse struct {
	Ciphertext string `json:"ciphertext"`
	IV         string `json:"iv"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Backend   string    `json:"backend"`
	Driver    string    `json:"driver"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a Client.
func New(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if cfg.Logger != nil {
		rc.Logger = cfg.Logger
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    rc,
	}
}

// BaseURL returns the server base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Create stores an envelope. A nil ttl lets the server apply its default.
func (c *Client) Create(
	ctx context.Context,
	envelope clipDomain.Envelope,
	ttl *int,
) (*clipDomain.CreateResult, error) {
	body, err := json.Marshal(createRequest{Ciphertext: envelope.Ciphertext, IV: envelope.IV, TTL: ttl})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode request")
	}

	var response createResponse
	if err := c.do(ctx, http.MethodPost, "/api/create", body, http.StatusCreated, &response); err != nil {
		return nil, err
	}

	id, err := clipDomain.ParseID(response.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "server returned an invalid id")
	}

	return &clipDomain.CreateResult{ID: id, TTL: response.TTL}, nil
}

// Fetch returns the envelope stored under id.
func (c *Client) Fetch(ctx context.Context, id clipDomain.SecretID) (*clipDomain.Envelope, error) {
	var response envelopeResponse
	if err := c.do(ctx, http.MethodGet, "/api/secret/"+id.String(), nil, http.StatusOK, &response); err != nil {
		return nil, err
	}
	return &clipDomain.Envelope{Ciphertext: response.Ciphertext, IV: response.IV}, nil
}

// Delete removes the envelope stored under id.
func (c *Client) Delete(ctx context.Context, id clipDomain.SecretID) error {
	return c.do(ctx, http.MethodDelete, "/api/secret/"+id.String(), nil, http.StatusOK, nil)
}

// Health returns the server health report.
func (c *Client) Health(ctx context.Context) (*clipDomain.Health, error) {
	var response healthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, http.StatusOK, &response); err != nil {
		return nil, err
	}
	return &clipDomain.Health{
		Status:    response.Status,
		Backend:   clipDomain.Durability(response.Backend),
		Driver:    response.Driver,
		Timestamp: response.Timestamp,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, expected int, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w: %w", apperrors.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != expected {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, "failed to decode response")
	}
	return nil
}

// statusError maps a non-success response to the matching domain error.
func statusError(resp *http.Response) error {
	var errorResponse httputil.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&errorResponse)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return clipDomain.ErrSecretNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return apperrors.Wrap(apperrors.ErrTooManyRequests, errorResponse.Message)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return clipDomain.ErrStoreUnavailable
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		message := errorResponse.Message
		if message == "" {
			message = resp.Status
		}
		return apperrors.Wrap(apperrors.ErrInvalidInput, message)
	default:
		return fmt.Errorf("unexpected status %d from server", resp.StatusCode)
	}
}
