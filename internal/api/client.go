// Package api is the REST client for the Reciplore backend.
//
// Authenticated endpoints take the access token explicitly. The backend
// expects it in a custom header, `accessToken: accessToken_<token>`, not
// a bearer Authorization header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/reciplore/reciplore/internal/errors"
	"github.com/reciplore/reciplore/internal/metrics"
	"github.com/reciplore/reciplore/internal/telemetry"
	"github.com/reciplore/reciplore/internal/version"
)

const (
	// AccessTokenHeader carries the access token on authenticated calls.
	AccessTokenHeader = "accessToken"
	// AccessTokenPrefix is prepended to the token value in AccessTokenHeader.
	AccessTokenPrefix = "accessToken_"
	// RefreshTokenHeader carries the refresh token on GET /auth/refresh-token.
	RefreshTokenHeader = "refreshtoken"
	// RequestIDHeader correlates a call with backend logs.
	RequestIDHeader = "X-Request-Id"
)

// Client is the Reciplore backend API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithTimeout sets the HTTP client timeout
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.HTTPClient.Timeout = d
	return c
}

// WithMetrics records per-endpoint metrics for every call
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.Metrics = m
	return c
}

// request describes one backend call.
type request struct {
	method      string
	path        string
	query       map[string]string
	body        interface{}
	raw         io.Reader
	contentType string
	headers     map[string]string
}

func (r request) withAccessToken(token string) request {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[AccessTokenHeader] = AccessTokenPrefix + token
	return r
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs the request and decodes a 2xx body into target.
func (c *Client) do(ctx context.Context, r request, target interface{}) (err error) {
	ctx, span := telemetry.StartAPISpan(ctx, r.method, r.path)
	defer func() { telemetry.End(span, err) }()

	endpoint := r.method + " " + r.path
	start := time.Now()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Metrics.ObserveRequest(endpoint, start, 0)
		return apperrors.Wrap(apperrors.ErrCodeTransportFailed, apperrors.KindNetworkFailure,
			transportMessage(err), err)
	}
	defer resp.Body.Close()

	c.Metrics.ObserveRequest(endpoint, start, resp.StatusCode)
	return parseResponse(resp, target)
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	body := r.raw
	contentType := r.contentType
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeEncodeFailed, apperrors.KindUnknown,
				"failed to marshal request body", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.BaseURL+r.path, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeEncodeFailed, apperrors.KindUnknown,
			"failed to create request", err)
	}

	if len(r.query) > 0 {
		q := req.URL.Query()
		for k, v := range r.query {
			if v != "" {
				q.Set(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.GetInfo().UserAgent())
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range r.headers {
		// the backend reads these names verbatim, so bypass canonicalization
		req.Header[k] = []string{v}
	}

	return req, nil
}

// parseResponse parses the response body into the target struct
func parseResponse(resp *http.Response, target interface{}) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeTransportFailed, apperrors.KindNetworkFailure,
			"failed to read response body", err).WithStatus(resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.New(apperrors.ErrCodeRequestFailed, apperrors.KindNetworkFailure,
			errorMessage(resp.StatusCode, body)).WithStatus(resp.StatusCode)
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if raw, ok := target.(*[]byte); ok {
		*raw = body
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeDecodeFailed, apperrors.KindResponseShape,
			"failed to decode response", err).WithStatus(resp.StatusCode)
	}
	return nil
}

// errorMessage prefers the backend's message field, then error, then the raw body.
func errorMessage(status int, body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Error != "" {
			return errResp.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" || len(text) > 200 {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return fmt.Sprintf("request failed with status %d: %s", status, text)
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}
	return fmt.Sprintf("network error: %v", err)
}
