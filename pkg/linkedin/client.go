package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Client holds the LinkedIn provider configuration and implements
// the two protocol steps: building the authorization URL and
// exchanging an authorization code for an access token.
type Client struct {
	transport Transport
	logger    *slog.Logger
	cfg       Config
}

// New creates a LinkedIn OAuth client.
// Credentials are validated lazily by AuthCodeURL and Exchange, so a
// misconfigured client fails before any network call rather than at startup.
func New(cfg Config, opts ...Option) *Client {
	o := newOptions(opts...)
	return &Client{
		cfg:       cfg.withDefaults(),
		transport: o.transport,
		logger:    o.logger,
	}
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// AuthCodeURL builds the URL the browser is redirected to in order to start the flow.
// An empty scope falls back to the configured one.
func (c *Client) AuthCodeURL(redirectURI, state, scope string) (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}
	if scope == "" {
		scope = c.cfg.Scope
	}
	if state == "" {
		c.logger.Warn("linkedin: authorization started without state")
	}

	// The state parameter is always sent, even when empty, so the callback can
	// tell a round trip through LinkedIn from a forged request.
	return c.oauthConfig(redirectURI, scope).AuthCodeURL(state, oauth2.SetAuthURLParam("state", state)), nil
}

// Exchange trades an authorization code for an access token.
// redirectURI must be the one used to build the authorization URL.
// The code is single use, so Exchange never retries.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrMissingCode
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"redirect_uri":  {redirectURI},
	}
	req, err := http.NewRequest(http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("linkedin: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "linkedin: access token response", slog.Int("status", resp.StatusCode))

	return c.parseToken(ctx, resp)
}

// HTTPClient returns an *http.Client that authenticates every request with token.
func (c *Client) HTTPClient(ctx context.Context, token *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
}

func (c *Client) oauthConfig(redirectURI, scope string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.cfg.AuthURL,
			TokenURL:  c.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

type tokenResponse struct {
	AccessToken      string          `json:"access_token"`
	TokenType        string          `json:"token_type"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ServiceErrorCode json.RawMessage `json:"serviceErrorCode"`
	Message          string          `json:"message"`
	ExpiresIn        int64           `json:"expires_in"`
}

func (c *Client) parseToken(ctx context.Context, resp *Response) (*oauth2.Token, error) {
	var tr tokenResponse
	decodeErr := json.Unmarshal(resp.Body, &tr)

	if decodeErr == nil {
		if code := serviceErrorCode(tr.ServiceErrorCode); code != "" || tr.Error != "" {
			if code == "" {
				code = tr.Error
			}
			desc := tr.ErrorDescription
			if desc == "" {
				desc = tr.Message
			}
			err := &TokenError{
				Code:        code,
				Description: desc,
				Raw:         resp.Body,
				StatusCode:  resp.StatusCode,
			}
			c.logger.InfoContext(ctx, err.Error())
			return nil, err
		}
	}

	if !resp.OK() {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if decodeErr != nil {
		return nil, errors.Join(ErrMalformedResponse, fmt.Errorf("decode token response: %w", decodeErr))
	}
	if tr.AccessToken == "" {
		return nil, errors.Join(ErrMalformedResponse, errors.New("token response has no access_token"))
	}

	var raw map[string]any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, errors.Join(ErrMalformedResponse, fmt.Errorf("decode token response: %w", err))
	}

	token := &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   tr.TokenType,
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	if tr.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return token.WithExtra(raw), nil
}

// serviceErrorCode normalizes the LinkedIn serviceErrorCode field,
// which is numeric in API responses but may arrive as a string.
// Zero and empty values mean no error.
func serviceErrorCode(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil && n.String() != "0" {
		return n.String()
	}
	return ""
}
