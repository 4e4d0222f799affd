package credential

import (
	"context"
	"sync"

	"github.com/dmitrymomot/dropin/pkg/linkedin"
)

// Memory is an in-process credential store.
// Values are copied in and out, so callers cannot mutate stored records.
type Memory struct {
	items map[string]linkedin.Credential
	mu    sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]linkedin.Credential)}
}

// Put replaces the credential stored under cred.ID.
func (m *Memory) Put(_ context.Context, cred *linkedin.Credential) error {
	if err := validate(cred); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[cred.ID] = *cred
	return nil
}

// Get returns linkedin.ErrCredentialNotFound for unknown IDs.
func (m *Memory) Get(_ context.Context, id string) (*linkedin.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cred, ok := m.items[id]
	if !ok {
		return nil, linkedin.ErrCredentialNotFound
	}
	return &cred, nil
}

// Delete removes the credential. Unknown IDs are ignored.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Len returns the number of stored credentials.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ linkedin.Store = (*Memory)(nil)
