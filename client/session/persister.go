package session

import (
	"context"
	"encoding/json"
	"sync"
)

// Persister mirrors the session to durable storage so it survives a restart.
// Load returns nil, nil when nothing was persisted.
type Persister interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context) error
}

// record is the single named entry written by every backend.
type record struct {
	Session *Session `json:"session"`
}

func encode(session *Session) ([]byte, error) {
	persisted := *session
	persisted.Status = ""
	return json.Marshal(&record{Session: &persisted})
}

func decode(data []byte) (*Session, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec.Session, nil
}

// MemoryPersister keeps the encoded record in memory. Handy for tests.
type MemoryPersister struct {
	mu   sync.RWMutex
	data []byte
}

func (m *MemoryPersister) Load(ctx context.Context) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return decode(m.data)
}

func (m *MemoryPersister) Save(ctx context.Context, session *Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *MemoryPersister) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

// NewMemoryPersister creates an empty in-memory persister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}
