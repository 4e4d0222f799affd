package linkedin

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dropin/pkg/logger"
)

// Option configures a Client, Processor or AuthClient.
type Option func(*options)

type options struct {
	transport Transport
	logger    *slog.Logger
}

func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(nil)
	}
	if o.logger == nil {
		o.logger = logger.NewNope()
	}
	return o
}

// WithHTTPClient sets a custom HTTP client for provider requests.
// This is useful for testing with httptest servers or injecting
// custom transports (e.g., logging, timeouts).
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.transport = NewHTTPTransport(client)
	}
}

// WithTransport replaces the transport used for provider requests.
func WithTransport(t Transport) Option {
	return func(o *options) {
		if t != nil {
			o.transport = t
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
