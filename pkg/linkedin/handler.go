package linkedin

import (
	"context"
	"net/http"
)

// StateFunc returns the state for a new authorization request.
// It may persist the value (e.g. in a cookie) so the finish step can check it.
type StateFunc func(w http.ResponseWriter, r *http.Request) (string, error)

// HTTPFinishFunc completes the login inside an HTTP handler, typically by
// redirecting the browser. cred is nil when the member declined.
type HTTPFinishFunc func(w http.ResponseWriter, r *http.Request, cred *Credential, state string) error

// ErrorHandler renders an error returned by the flow.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// StartConfig configures StartHandler.
type StartConfig struct {
	State StateFunc
	// RedirectURI is the absolute callback URL. When empty it is derived
	// from the inbound request and CallbackPath.
	RedirectURI  string
	CallbackPath string
	Scope        string
}

// StartHandler redirects the browser to the LinkedIn authorization page.
func StartHandler(c *Client, cfg StartConfig, onError ErrorHandler) http.HandlerFunc {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var state string
		if cfg.State != nil {
			s, err := cfg.State(w, r)
			if err != nil {
				onError(w, r, err)
				return
			}
			state = s
		}

		redirectURI := cfg.RedirectURI
		if redirectURI == "" {
			redirectURI = requestURL(r, cfg.CallbackPath)
		}

		target, err := c.AuthCodeURL(redirectURI, state, cfg.Scope)
		if err != nil {
			onError(w, r, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// CallbackConfig configures CallbackHandler.
type CallbackConfig struct {
	Finish HTTPFinishFunc
	// RedirectURI is sent as redirect_uri in the token exchange and must
	// equal StartConfig.RedirectURI. When empty it is derived from the
	// inbound request.
	RedirectURI string
}

// CallbackHandler runs the Processor for the provider redirect.
func CallbackHandler(p *Processor, cfg CallbackConfig, onError ErrorHandler) http.HandlerFunc {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		done := func(ctx context.Context, cred *Credential, state string) error {
			return cfg.Finish(w, r.WithContext(ctx), cred, state)
		}
		req := ParseCallback(r)
		if cfg.RedirectURI != "" {
			req.CallbackURL = cfg.RedirectURI
		}
		if err := p.Process(r.Context(), req, done); err != nil {
			onError(w, r, err)
		}
	}
}

// DefaultErrorHandler writes the error with the status from StatusCode.
// Client errors carry the message, which embeds the provider's error code
// and description; server errors only carry the status text.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	http.Error(w, msg, status)
}
