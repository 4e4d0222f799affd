package linkedin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Callback error codes LinkedIn sends when the member backs out.
const (
	ErrorUserCancelledLogin     = "user_cancelled_login"
	ErrorUserCancelledAuthorize = "user_cancelled_authorize"
)

// FinishFunc receives the outcome of a callback: the stored credential, or
// nil when the member declined, plus the state passed to AuthCodeURL.
type FinishFunc func(ctx context.Context, cred *Credential, state string) error

// CallbackRequest is the provider redirect the Processor acts on.
type CallbackRequest struct {
	Query url.Values
	// CallbackURL is sent back as redirect_uri in the token exchange.
	CallbackURL string
}

// ParseCallback extracts a CallbackRequest from an inbound HTTP request.
// The callback URL is the request URL without its query string.
func ParseCallback(r *http.Request) CallbackRequest {
	return CallbackRequest{
		Query:       r.URL.Query(),
		CallbackURL: requestURL(r, r.URL.Path),
	}
}

// requestURL builds an absolute URL for path on the host r was sent to.
// X-Forwarded-Proto is honored only when it names http or https.
func requestURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch fwd := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); fwd {
	case "http", "https":
		scheme = fwd
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: path}
	return u.String()
}

// Processor handles the OAuth callback: it validates the provider
// response, exchanges the code, fetches the profile and stores the credential.
type Processor struct {
	client    *Client
	store     Store
	transport Transport
	logger    *slog.Logger
}

// NewProcessor creates a callback processor.
// Transport and logger default to the client's.
func NewProcessor(client *Client, store Store, opts ...Option) *Processor {
	o := &options{transport: client.transport, logger: client.logger}
	for _, opt := range opts {
		opt(o)
	}
	return &Processor{
		client:    client,
		store:     store,
		transport: o.transport,
		logger:    o.logger,
	}
}

// Process runs the callback state machine.
// finish is called exactly once when the member declined (with a nil
// credential) or when a credential was stored; every other outcome is
// returned as an error and finish is not called.
func (p *Processor) Process(ctx context.Context, req CallbackRequest, finish FinishFunc) error {
	q := req.Query
	if !q.Has("state") {
		return ErrMissingState
	}
	state := q.Get("state")

	if code := q.Get("error"); code != "" {
		desc := q.Get("error_description")
		if isDecline(code) {
			p.logger.InfoContext(ctx, "linkedin: user declined", slog.String("error_description", desc))
			return finish(ctx, nil, state)
		}
		err := &ProviderError{Code: code, Description: desc}
		p.logger.InfoContext(ctx, err.Error())
		return err
	}

	cred, err := p.login(ctx, q.Get("code"), req.CallbackURL)
	if err != nil {
		return err
	}
	return finish(ctx, cred, state)
}

func (p *Processor) login(ctx context.Context, code, callbackURL string) (*Credential, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	// LinkedIn requires the same redirect_uri as the authorization request.
	// It is not verified in practice since the exchange happens server side.
	token, err := p.client.Exchange(ctx, code, callbackURL)
	if err != nil {
		return nil, err
	}

	cred, err := p.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := p.store.Put(ctx, cred); err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "linkedin: credential stored", slog.String("credential_id", cred.ID))
	return cred, nil
}

// FetchProfile loads the member profile with accessToken and builds the Credential.
func (p *Processor) FetchProfile(ctx context.Context, accessToken string) (*Credential, error) {
	resp, err := NewAuthClient(accessToken, WithTransport(p.transport), WithLogger(p.logger)).Get(ctx, p.client.cfg.ProfileURL)
	if err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	p.logger.DebugContext(ctx, "linkedin: profile response", slog.Int("bytes", len(resp.Body)))

	profile, err := ParseProfile(resp.Body)
	if err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	id, ok := profile.ID()
	if !ok {
		return nil, errors.Join(ErrProfileFetch, ErrMalformedResponse, errors.New("profile has no id"))
	}
	return NewCredential(id, accessToken, string(resp.Body)), nil
}

func isDecline(code string) bool {
	return slices.Contains([]string{ErrorUserCancelledLogin, ErrorUserCancelledAuthorize}, code)
}
