package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dropin/pkg/cookie"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

type pending struct {
	Nonce    string `json:"n"`
	ReturnTo string `json:"r"`
}

func roundTrip(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	r := httptest.NewRequest(http.MethodGet, "/auth/linkedin/callback", nil)
	r.AddCookie(cookies[0])
	return r
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New[string]("c", "")
	require.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New[string]("c", "short")
	require.ErrorIs(t, err, cookie.ErrBadSecret)

	c, err := cookie.New[string]("c", testSecret)
	require.NoError(t, err)
	require.Equal(t, "c", c.Name())
}

func TestSigned(t *testing.T) {
	t.Parallel()

	t.Run("save and load", func(t *testing.T) {
		t.Parallel()

		c, err := cookie.New[pending]("linkedin_state", testSecret, cookie.WithSecure(true))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, c.Save(w, pending{Nonce: "n-1", ReturnTo: "/me"}))

		raw := w.Result().Cookies()[0]
		require.Equal(t, "linkedin_state", raw.Name)
		require.True(t, raw.HttpOnly)
		require.True(t, raw.Secure)
		require.Equal(t, http.SameSiteLaxMode, raw.SameSite)
		require.Equal(t, 600, raw.MaxAge)

		got, err := c.Load(roundTrip(t, w))
		require.NoError(t, err)
		require.Equal(t, pending{Nonce: "n-1", ReturnTo: "/me"}, got)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		c, err := cookie.New[string]("member", testSecret)
		require.NoError(t, err)

		_, err = c.Load(httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		t.Parallel()

		c, err := cookie.New[string]("member", testSecret)
		require.NoError(t, err)

		for _, v := range []string{"dGFtcGVyZWQ.invalid", "no-dot", "!!.!!"} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: "member", Value: v})
			_, err = c.Load(r)
			require.ErrorIs(t, err, cookie.ErrBadSig, v)
		}
	})

	t.Run("different secret", func(t *testing.T) {
		t.Parallel()

		a, err := cookie.New[string]("member", testSecret)
		require.NoError(t, err)
		b, err := cookie.New[string]("member", "another-32-byte-or-longer-secret-key")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, a.Save(w, "urn:li:person:42"))
		_, err = b.Load(roundTrip(t, w))
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("value bound to cookie name", func(t *testing.T) {
		t.Parallel()

		a, err := cookie.New[string]("a", testSecret)
		require.NoError(t, err)
		b, err := cookie.New[string]("b", testSecret)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, a.Save(w, "value"))
		moved := w.Result().Cookies()[0]

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "b", Value: moved.Value})
		_, err = b.Load(r)
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		c, err := cookie.New[string]("member", testSecret,
			cookie.WithMaxAge(time.Minute),
			cookie.WithClock(func() time.Time { return now }),
		)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		require.NoError(t, c.Save(w, "id"))
		r := roundTrip(t, w)

		now = now.Add(2 * time.Minute)
		_, err = c.Load(r)
		require.ErrorIs(t, err, cookie.ErrExpired)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()

		c, err := cookie.New[string]("pending", testSecret, cookie.WithPath("/auth"))
		require.NoError(t, err)

		w := httptest.NewRecorder()
		c.Clear(w)
		raw := w.Result().Cookies()[0]
		require.Equal(t, "pending", raw.Name)
		require.Equal(t, "/auth", raw.Path)
		require.Equal(t, -1, raw.MaxAge)
	})
}
