package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrExpired   = errors.New("cookie: expired")
)

const defaultMaxAge = 10 * time.Minute

type envelope[T any] struct {
	Value   T     `json:"v"`
	Expires int64 `json:"e"`
}

// Signed stores a JSON encoded value of type T in a signed, expiring cookie.
type Signed[T any] struct {
	settings
	secret []byte
	name   string
}

type settings struct {
	now      func() time.Time
	path     string
	maxAge   time.Duration
	secure   bool
	sameSite http.SameSite
}

// Option configures a Signed cookie.
type Option func(*settings)

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(c *settings) {
		c.path = path
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(c *settings) {
		c.secure = secure
	}
}

// WithMaxAge sets how long a saved value stays valid. Defaults to 10 minutes.
func WithMaxAge(d time.Duration) Option {
	return func(c *settings) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *settings) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a cookie named name signing values with secret.
// SameSite is Lax so the cookie survives the top-level redirect back from LinkedIn.
func New[T any](name, secret string, opts ...Option) (*Signed[T], error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < 32 {
		return nil, ErrBadSecret
	}
	c := &Signed[T]{
		settings: settings{
			now:      time.Now,
			path:     "/",
			maxAge:   defaultMaxAge,
			sameSite: http.SameSiteLaxMode,
		},
		secret: []byte(secret),
		name:   name,
	}
	for _, opt := range opts {
		opt(&c.settings)
	}
	return c, nil
}

// Name returns the cookie name.
func (c *Signed[T]) Name() string {
	return c.name
}

// Save writes v to the response, valid for the configured max age.
func (c *Signed[T]) Save(w http.ResponseWriter, v T) error {
	data, err := json.Marshal(envelope[T]{Value: v, Expires: c.now().Add(c.maxAge).Unix()})
	if err != nil {
		return err
	}

	// Format: base64(value).base64(signature)
	encoded := base64.RawURLEncoding.EncodeToString(data) +
		"." + base64.RawURLEncoding.EncodeToString(c.sign(data))

	http.SetCookie(w, c.cookie(encoded, int(c.maxAge.Seconds())))
	return nil
}

// Load reads and verifies the value.
func (c *Signed[T]) Load(r *http.Request) (T, error) {
	var zero T
	raw, err := r.Cookie(c.name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	parts := strings.SplitN(raw.Value, ".", 2)
	if len(parts) != 2 {
		return zero, ErrBadSig
	}
	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return zero, ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return zero, ErrBadSig
	}
	if !hmac.Equal(sig, c.sign(data)) {
		return zero, ErrBadSig
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, ErrBadSig
	}
	if c.now().Unix() > env.Expires {
		return zero, ErrExpired
	}
	return env.Value, nil
}

// Clear removes the cookie.
func (c *Signed[T]) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", -1))
}

// sign covers the cookie name so values cannot be moved between cookies.
func (c *Signed[T]) sign(data []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(c.name))
	mac.Write([]byte{0})
	mac.Write(data)
	return mac.Sum(nil)
}

func (c *Signed[T]) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Value:    value,
		Path:     c.path,
		MaxAge:   maxAge,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: c.sameSite,
	}
}
