package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

// AuthClient makes LinkedIn API calls on behalf of a member.
type AuthClient struct {
	transport   Transport
	logger      *slog.Logger
	accessToken string
}

// NewAuthClient creates a client that sends accessToken as a bearer token.
func NewAuthClient(accessToken string, opts ...Option) *AuthClient {
	o := newOptions(opts...)
	return &AuthClient{
		accessToken: accessToken,
		transport:   o.transport,
		logger:      o.logger,
	}
}

// RequestOption customizes an outbound API request.
type RequestOption func(*http.Request)

// WithHeader sets a request header. Authorization cannot be overridden.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithQuery merges values into the request query string.
func WithQuery(values url.Values) RequestOption {
	return func(r *http.Request) {
		q := r.URL.Query()
		for k, vs := range values {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		r.URL.RawQuery = q.Encode()
	}
}

// WithContentType sets the Content-Type header.
func WithContentType(ct string) RequestOption {
	return WithHeader("Content-Type", ct)
}

// Get performs an authenticated GET request.
func (c *AuthClient) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, rawURL, nil, opts...)
}

// Post performs an authenticated POST request.
func (c *AuthClient) Post(ctx context.Context, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, rawURL, body, opts...)
}

// Do performs an authenticated request.
// A serviceErrorCode in the body fails with *APIError regardless of the
// status; otherwise a non-2xx status fails with *HTTPError.
// Failed requests are not retried.
func (c *AuthClient) Do(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequest(method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("linkedin: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if apiErr := parseAPIError(resp); apiErr != nil {
		c.logger.InfoContext(ctx, "linkedin: api error",
			slog.String("url", req.URL.Redacted()),
			slog.String("service_error_code", apiErr.ServiceErrorCode),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apiErr
	}
	if !resp.OK() {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	return resp, nil
}

// DecodeJSON decodes a response body into v.
func DecodeJSON(resp *Response, v any) error {
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return errors.Join(ErrMalformedResponse, err)
	}
	return nil
}

func parseAPIError(resp *Response) *APIError {
	if len(resp.Body) == 0 || resp.Body[0] != '{' {
		return nil
	}
	var body struct {
		ServiceErrorCode json.RawMessage `json:"serviceErrorCode"`
		Message          string          `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil
	}
	code := serviceErrorCode(body.ServiceErrorCode)
	if code == "" {
		return nil
	}
	return &APIError{
		ServiceErrorCode: code,
		Message:          body.Message,
		StatusCode:       resp.StatusCode,
		Body:             resp.Body,
	}
}
