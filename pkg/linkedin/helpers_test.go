package linkedin_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

// fakeLinkedIn serves the token and profile endpoints.
type fakeLinkedIn struct {
	token   http.HandlerFunc
	profile http.HandlerFunc

	tokenCalls   atomic.Int32
	profileCalls atomic.Int32

	mu        sync.Mutex
	tokenForm map[string]string
	authz     string
}

func newFakeLinkedIn(t *testing.T, token, profile http.HandlerFunc) (*fakeLinkedIn, *httptest.Server) {
	t.Helper()

	f := &fakeLinkedIn{token: token, profile: profile}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v2/accessToken", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		_ = r.ParseForm()
		f.mu.Lock()
		f.tokenForm = map[string]string{}
		for k := range r.PostForm {
			f.tokenForm[k] = r.PostForm.Get(k)
		}
		f.mu.Unlock()
		f.token(w, r)
	})
	mux.HandleFunc("/v2/me", func(w http.ResponseWriter, r *http.Request) {
		f.profileCalls.Add(1)
		f.mu.Lock()
		f.authz = r.Header.Get("Authorization")
		f.mu.Unlock()
		f.profile(w, r)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return f, ts
}

func (f *fakeLinkedIn) form() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenForm
}

func (f *fakeLinkedIn) authorization() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authz
}

func testConfig(baseURL string) linkedin.Config {
	return linkedin.Config{
		ClientID:     "test-id",
		ClientSecret: "test-secret",
		TokenURL:     baseURL + "/oauth/v2/accessToken",
		ProfileURL:   baseURL + "/v2/me",
	}
}

func writeJSON(v any) http.HandlerFunc {
	return writeJSONStatus(http.StatusOK, v)
}

func writeJSONStatus(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func unexpected(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	}
}

// recordingStore counts writes on top of an in-memory map.
type recordingStore struct {
	err  error
	puts atomic.Int32
	mu   sync.Mutex
	data map[string]linkedin.Credential
}

func newRecordingStore() *recordingStore {
	return &recordingStore{data: map[string]linkedin.Credential{}}
}

func (s *recordingStore) Put(_ context.Context, cred *linkedin.Credential) error {
	s.puts.Add(1)
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[cred.ID] = *cred
	return nil
}

func (s *recordingStore) Get(_ context.Context, id string) (*linkedin.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.data[id]
	if !ok {
		return nil, linkedin.ErrCredentialNotFound
	}
	return &cred, nil
}

// failingTransport fails every request.
type failingTransport struct{}

func (failingTransport) Do(context.Context, *http.Request) (*linkedin.Response, error) {
	return nil, errors.Join(linkedin.ErrTransport, errors.New("connection refused"))
}

var _ linkedin.Store = (*recordingStore)(nil)
