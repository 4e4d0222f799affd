package linkedin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Response is a fully read provider response.
type Response struct {
	Header     http.Header
	Body       []byte
	StatusCode int
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs a single HTTP request and reads the whole response.
// Implementations return an error only when no response was obtained;
// status codes are classified by the caller.
type Transport interface {
	Do(ctx context.Context, req *http.Request) (*Response, error)
}

// HTTPTransport is a Transport backed by an *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps client. A nil client means http.DefaultClient.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// Do sends req with ctx attached.
func (t *HTTPTransport) Do(ctx context.Context, req *http.Request) (*Response, error) {
	resp, err := t.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Join(ErrTransport, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err))
	}
	if resp == nil {
		return nil, errors.Join(ErrTransport, errors.New("unexpected nil response"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrTransport, fmt.Errorf("read body: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

var _ Transport = (*HTTPTransport)(nil)
