package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dropin/internal/server"
	"github.com/dmitrymomot/dropin/pkg/credential"
	"github.com/dmitrymomot/dropin/pkg/health"
	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

const profileJSON = `{"id":"urn:li:person:42","firstName":{"localized":{"en_US":"Ada"}},"lastName":{"localized":{"en_US":"Lovelace"}}}`

func newLinkedIn(t *testing.T, exchanged *atomic.Value) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		exchanged.Store(r.PostFormValue("redirect_uri"))
		if r.PostFormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"bad code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok123","expires_in":5184000}`))
	})
	mux.HandleFunc("/v2/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"serviceErrorCode":65600,"message":"Invalid access token","status":401}`))
			return
		}
		_, _ = w.Write([]byte(profileJSON))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

type env struct {
	handler   http.Handler
	store     *credential.Memory
	exchanged *atomic.Value
}

func newEnv(t *testing.T, checks health.Checks) *env {
	t.Helper()
	return newEnvWith(t, func(cfg *server.Config) { cfg.Checks = checks })
}

func newEnvWith(t *testing.T, configure func(*server.Config)) *env {
	t.Helper()

	exchanged := &atomic.Value{}
	li := newLinkedIn(t, exchanged)
	client := linkedin.New(linkedin.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     li.URL + "/oauth/v2/accessToken",
		ProfileURL:   li.URL + "/v2/me",
	}, linkedin.WithHTTPClient(li.Client()))
	store := credential.NewMemory()

	cfg := server.Config{
		Client:       client,
		Store:        store,
		CookieSecret: testSecret,
		APIOptions:   []linkedin.Option{linkedin.WithHTTPClient(li.Client())},
		NewNonce:     func() string { return "nonce-1" },
	}
	configure(&cfg)
	srv, err := server.New(cfg)
	require.NoError(t, err)
	return &env{handler: srv.Router(), store: store, exchanged: exchanged}
}

func (e *env) do(r *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			r.AddCookie(c)
		}
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, r)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func get(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "http://example.com"+target, nil)
}

func (e *env) start(t *testing.T, returnTo string) *http.Cookie {
	t.Helper()

	rec := e.do(get(server.StartPath + "?return_to=" + url.QueryEscape(returnTo)))
	require.Equal(t, http.StatusFound, rec.Code)
	pending := cookieNamed(rec, server.PendingCookie)
	require.NotNil(t, pending)
	return pending
}

func TestServer_LoginFlow(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)

	rec := e.do(get(server.StartPath + "?return_to=/dashboard"))
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "nonce-1", loc.Query().Get("state"))
	require.Equal(t, "http://example.com/auth/linkedin/callback", loc.Query().Get("redirect_uri"))
	pending := cookieNamed(rec, server.PendingCookie)
	require.NotNil(t, pending)

	rec = e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"), pending)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.Equal(t, -1, cookieNamed(rec, server.PendingCookie).MaxAge)
	member := cookieNamed(rec, server.MemberCookie)
	require.NotNil(t, member)

	stored, err := e.store.Get(context.Background(), "urn:li:person:42")
	require.NoError(t, err)
	require.Equal(t, "tok123", stored.AccessToken)
	require.JSONEq(t, profileJSON, stored.ProfileJSON)

	rec = e.do(get(server.MePath), member)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "urn:li:person:42", me["id"])
	require.Equal(t, "LinkedIn", me["site_name"])
	require.Equal(t, "Ada Lovelace", me["display_name"])

	rec = e.do(httptest.NewRequest(http.MethodPost, "http://example.com"+server.LogoutPath, nil), member)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, -1, cookieNamed(rec, server.MemberCookie).MaxAge)
}

func TestServer_BaseURLRedirectURI(t *testing.T) {
	t.Parallel()

	const callback = "https://login.example.com/auth/linkedin/callback"
	e := newEnvWith(t, func(cfg *server.Config) { cfg.BaseURL = "https://login.example.com" })

	rec := e.do(get(server.StartPath))
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, callback, loc.Query().Get("redirect_uri"))
	pending := cookieNamed(rec, server.PendingCookie)
	require.NotNil(t, pending)

	r := httptest.NewRequest(http.MethodGet, "http://10.0.0.5:8080/auth/linkedin/callback?code=good-code&state=nonce-1", nil)
	rec = e.do(r, pending)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, callback, e.exchanged.Load())
}

func TestServer_Callback(t *testing.T) {
	t.Parallel()

	t.Run("state mismatch", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=good-code&state=forged"), e.start(t, "/me"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Nil(t, cookieNamed(rec, server.MemberCookie))
	})

	t.Run("no pending login", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?error=user_cancelled_login&state=nonce-1"), e.start(t, "/me"))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/?login=cancelled", rec.Header().Get("Location"))
		require.Nil(t, cookieNamed(rec, server.MemberCookie))
		require.Zero(t, e.store.Len())
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?error=access_denied&error_description=denied&state=nonce-1"), e.start(t, "/me"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "access_denied")
	})

	t.Run("token error", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=bad-code&state=nonce-1"), e.start(t, "/me"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_grant")
		require.Zero(t, e.store.Len())
	})

	t.Run("open redirect falls back to /me", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"), e.start(t, "//evil.example.com"))
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, server.MePath, rec.Header().Get("Location"))
	})
}

func TestServer_Me(t *testing.T) {
	t.Parallel()

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get(server.MePath))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"), e.start(t, "/me"))
		member := cookieNamed(rec, server.MemberCookie)
		require.NotNil(t, member)

		require.NoError(t, e.store.Put(context.Background(), linkedin.NewCredential("urn:li:person:42", "revoked", profileJSON)))
		rec = e.do(get(server.MePath), member)
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("credential removed", func(t *testing.T) {
		t.Parallel()

		e := newEnv(t, nil)
		rec := e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"), e.start(t, "/me"))
		member := cookieNamed(rec, server.MemberCookie)

		require.NoError(t, e.store.Delete(context.Background(), "urn:li:person:42"))
		rec = e.do(get(server.MePath), member)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, -1, cookieNamed(rec, server.MemberCookie).MaxAge)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	e := newEnv(t, health.Checks{"store": func(context.Context) error { return errors.New("down") }})

	rec := e.do(get(server.HealthPath))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = e.do(get(server.LivePath))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	t.Parallel()

	e := newEnv(t, nil)
	e.do(get("/auth/linkedin/callback?code=good-code&state=nonce-1"), e.start(t, "/me"))
	e.do(get("/auth/linkedin/callback?error=user_cancelled_login&state=nonce-1"), e.start(t, "/me"))
	e.do(get("/auth/linkedin/callback?code=bad-code&state=nonce-1"), e.start(t, "/me"))

	rec := e.do(get(server.MetricsPath))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `linkedin_logins_total{outcome="success"} 1`)
	require.Contains(t, body, `linkedin_logins_total{outcome="declined"} 1`)
	require.Contains(t, body, `linkedin_logins_total{outcome="error"} 1`)
}

func TestNew_BadSecret(t *testing.T) {
	t.Parallel()

	_, err := server.New(server.Config{Client: linkedin.New(linkedin.Config{}), Store: credential.NewMemory(), CookieSecret: "short"})
	require.Error(t, err)
}
