package storage

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// MemoryStorage is a process-local Storage keeping all entries in a map
// behind a reader-writer lock. A single instance is typically shared by
// every endpoint of a test or fuzz run, standing in for the cloud folder
// the endpoints would share in production. Names are raw binary.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string][]byte),
	}
}

// List returns the names of all stored entries.
func (m *MemoryStorage) List() ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([][]byte, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, []byte(name))
	}
	return names, nil
}

// Read returns a copy of the entry data, or ErrEntryNotFound.
func (m *MemoryStorage) Read(name []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.entries[string(name)]
	if !ok {
		return nil, ErrEntryNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write atomically creates or replaces an entry. The data is copied.
func (m *MemoryStorage) Write(name, data []byte) error {
	if len(name) > MaxNameSize {
		return ErrNameTooLong
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	m.entries[string(name)] = stored
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "MemoryStorage.Write",
		"name_len": len(name),
		"data_len": len(data),
	}).Trace("Stored entry")
	return nil
}

// Delete removes an entry; deleting an absent entry is a no-op.
func (m *MemoryStorage) Delete(name []byte) error {
	m.mu.Lock()
	delete(m.entries, string(name))
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
