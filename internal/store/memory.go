package store

import (
	"sync"

	"github.com/MihkelHunter/mktodo/internal/todo"
)

// MemoryStore keeps snapshots in a map. Useful for tests and throwaway sessions.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]todo.Record

	// SaveErr, when set, is returned by every Save.
	SaveErr error
	// LoadErr, when set, is returned by every Load.
	LoadErr error
}

var _ todo.Repository = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{recs: make(map[string]todo.Record)}
}

func (m *MemoryStore) Load(key string) (todo.Record, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LoadErr != nil {
		return todo.Record{}, false, m.LoadErr
	}
	rec, ok := m.recs[key]
	if !ok {
		return todo.Record{}, false, nil
	}
	rec.Data = append([]byte(nil), rec.Data...)
	return rec, true, nil
}

func (m *MemoryStore) Save(key string, rec todo.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	rec.Data = append([]byte(nil), rec.Data...)
	m.recs[key] = rec
	return nil
}

// Put stores raw data under key, bypassing the service. Handy for seeding old snapshots.
func (m *MemoryStore) Put(key string, version int, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[key] = todo.Record{Version: version, Data: []byte(data)}
}

func (m *MemoryStore) Close() error { return nil }
