// Package server is the HTTP host for the LinkedIn login flow.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/dropin/pkg/cookie"
	"github.com/dmitrymomot/dropin/pkg/health"
	"github.com/dmitrymomot/dropin/pkg/linkedin"
	"github.com/dmitrymomot/dropin/pkg/logger"
)

// Cookie names.
const (
	PendingCookie = "linkedin_state"
	MemberCookie  = "linkedin_member"
)

// Routes.
const (
	StartPath      = "/auth/linkedin/start"
	LogoutPath     = "/auth/logout"
	MePath         = "/me"
	HealthPath     = "/health"
	LivePath       = "/health/live"
	defaultReturn  = MePath
	cancelledLogin = "/?login=cancelled"
)

// ErrStateMismatch is returned when the callback state does not match the
// pending login saved at start.
var ErrStateMismatch = errors.New("server: login state mismatch")

// PendingLogin is kept in a cookie between start and callback.
type PendingLogin struct {
	Nonce    string `json:"n"`
	ReturnTo string `json:"r,omitempty"`
}

// Config wires the server.
type Config struct {
	Client *linkedin.Client
	Store  linkedin.Store
	Logger *slog.Logger
	Checks health.Checks

	// BaseURL is the public origin; the callback URL is derived per request when empty.
	BaseURL      string
	CallbackPath string

	CookieSecret string
	CookieSecure bool
	SessionTTL   time.Duration

	// APIOptions configure the member API client used by /me.
	APIOptions []linkedin.Option
	// NewNonce defaults to uuid.NewString.
	NewNonce func() string
}

// Server holds the handlers of the login host.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	processor *linkedin.Processor
	pending   *cookie.Signed[PendingLogin]
	member    *cookie.Signed[string]
	metrics   *metrics
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNope()
	}
	if cfg.NewNonce == nil {
		cfg.NewNonce = uuid.NewString
	}
	if cfg.CallbackPath == "" {
		cfg.CallbackPath = "/auth/linkedin/callback"
	}

	pending, err := cookie.New[PendingLogin](PendingCookie, cfg.CookieSecret, cookie.WithSecure(cfg.CookieSecure))
	if err != nil {
		return nil, err
	}
	member, err := cookie.New[string](MemberCookie, cfg.CookieSecret,
		cookie.WithSecure(cfg.CookieSecure),
		cookie.WithMaxAge(cfg.SessionTTL),
	)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		processor: linkedin.NewProcessor(cfg.Client, cfg.Store, linkedin.WithLogger(cfg.Logger)),
		pending:   pending,
		member:    member,
		metrics:   newMetrics(),
	}, nil
}

// Router mounts every route of the login host.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get(StartPath, linkedin.StartHandler(s.cfg.Client, linkedin.StartConfig{
		State:        s.startState,
		RedirectURI:  s.redirectURI(),
		CallbackPath: s.cfg.CallbackPath,
	}, s.handleError))
	r.Get(s.cfg.CallbackPath, linkedin.CallbackHandler(s.processor, linkedin.CallbackConfig{
		Finish:      s.finish,
		RedirectURI: s.redirectURI(),
	}, s.callbackError))
	r.Post(LogoutPath, s.logout)
	r.Get(MePath, s.me)

	r.Get(LivePath, health.LivenessHandler())
	r.Get(HealthPath, health.ReadinessHandler(s.cfg.Checks, health.WithLogger(s.logger)))
	r.Method(http.MethodGet, MetricsPath, s.metrics.handler())
	return r
}

func (s *Server) redirectURI() string {
	if s.cfg.BaseURL == "" {
		return ""
	}
	return s.cfg.BaseURL + s.cfg.CallbackPath
}

// handleError renders errors from the login flow and logs server side failures.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(status), status)
		return
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) callbackError(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.login(outcomeError)
	s.handleError(w, r, err)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrStateMismatch),
		errors.Is(err, cookie.ErrNotFound),
		errors.Is(err, cookie.ErrBadSig),
		errors.Is(err, cookie.ErrExpired):
		return http.StatusBadRequest
	case errors.Is(err, linkedin.ErrCredentialNotFound):
		return http.StatusUnauthorized
	default:
		return linkedin.StatusCode(err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// RequestIDExtractor adds the chi request ID to log records as "request_id".
func RequestIDExtractor() logger.ContextExtractor {
	return logger.StringValue("request_id", middleware.GetReqID)
}
