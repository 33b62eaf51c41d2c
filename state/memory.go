package state

import (
	"sync"

	"github.com/opd-ai/storagep2p/protocol"
)

// MemoryStore keeps connection states in a map behind a reader-writer
// lock. Counters are lost when the process exits; use FileStore when the
// endpoint must survive restarts.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[protocol.ConnectionID]protocol.ConnectionState
}

// NewMemoryStore creates an empty in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[protocol.ConnectionID]protocol.ConnectionState),
	}
}

// List returns all connections with stored state.
func (m *MemoryStore) List() ([]protocol.ConnectionID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]protocol.ConnectionID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	return ids, nil
}

// Load returns the stored state, or the zero state if absent.
func (m *MemoryStore) Load(id protocol.ConnectionID) (protocol.ConnectionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[id], nil
}

// Store overwrites the state for a connection.
func (m *MemoryStore) Store(id protocol.ConnectionID, s protocol.ConnectionState) error {
	m.mu.Lock()
	m.states[id] = s
	m.mu.Unlock()
	return nil
}

// Delete removes a connection's state.
func (m *MemoryStore) Delete(id protocol.ConnectionID) error {
	m.mu.Lock()
	delete(m.states, id)
	m.mu.Unlock()
	return nil
}
