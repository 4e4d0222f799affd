package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
	"github.com/dmitrymomot/dropin/pkg/logger"
)

// startState issues a nonce for the authorization request and remembers it,
// with the page to return to, in the pending cookie.
func (s *Server) startState(w http.ResponseWriter, r *http.Request) (string, error) {
	nonce := s.cfg.NewNonce()
	p := PendingLogin{Nonce: nonce, ReturnTo: localPath(r.URL.Query().Get("return_to"))}
	if err := s.pending.Save(w, p); err != nil {
		return "", err
	}
	return nonce, nil
}

// finish checks the returned state against the pending cookie, then signs
// the member in and redirects.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, cred *linkedin.Credential, state string) error {
	p, err := s.pending.Load(r)
	s.pending.Clear(w)
	if err != nil {
		return err
	}
	if p.Nonce != state {
		return ErrStateMismatch
	}

	if cred == nil {
		s.metrics.login(outcomeDeclined)
		http.Redirect(w, r, cancelledLogin, http.StatusFound)
		return nil
	}

	if err := s.member.Save(w, cred.ID); err != nil {
		return err
	}
	s.metrics.login(outcomeSuccess)
	s.logger.InfoContext(logger.WithCredentialID(r.Context(), cred.ID), "member signed in",
		slog.String("display_name", cred.DisplayName()),
	)
	http.Redirect(w, r, p.ReturnTo, http.StatusFound)
	return nil
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.member.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	ID          string         `json:"id"`
	SiteName    string         `json:"site_name"`
	DisplayName string         `json:"display_name"`
	Profile     map[string]any `json:"profile"`
}

// me calls the LinkedIn profile endpoint with the stored access token.
func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, err := s.member.Load(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	ctx := logger.WithCredentialID(r.Context(), id)

	cred, err := s.cfg.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, linkedin.ErrCredentialNotFound) {
			s.member.Clear(w)
		}
		s.handleError(w, r.WithContext(ctx), err)
		return
	}

	resp, err := cred.Client(s.cfg.APIOptions...).Get(ctx, s.cfg.Client.Config().ProfileURL)
	if err != nil {
		s.handleError(w, r.WithContext(ctx), err)
		return
	}
	var profile map[string]any
	if err := linkedin.DecodeJSON(resp, &profile); err != nil {
		s.handleError(w, r.WithContext(ctx), err)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		ID:          cred.ID,
		SiteName:    cred.SiteName(),
		DisplayName: linkedin.Profile(profile).DisplayName(),
		Profile:     profile,
	})
}

// localPath keeps return targets on this host.
func localPath(p string) string {
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return defaultReturn
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
