package wikiquiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrViewNotFound is returned by Load for an unknown view id.
var ErrViewNotFound = errors.New("view not found")

// ViewStore keeps the Shell of every visitor.
//
// Update runs fn on the stored shell, or on a NewShell when id is unknown,
// and saves the result atomically. When fn returns an error nothing is saved.
// fn may run more than once if a concurrent update wins the race.
type ViewStore interface {
	Load(ctx context.Context, id string) (*Shell, error)
	Update(ctx context.Context, id string, fn func(*Shell) error) error
	Prune(ctx context.Context, before time.Time) (int, error)
	Close() error
}

func encodeShell(s *Shell) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode view: %w", err)
	}
	return data, nil
}

func decodeShell(data []byte) (*Shell, error) {
	var s Shell
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode view: %w", err)
	}
	return &s, nil
}

// MemoryStore keeps views in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	views map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		views: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Shell, error) {
	m.mu.Lock()
	e, ok := m.views[id]
	m.mu.Unlock()
	if !ok {
		return nil, ErrViewNotFound
	}
	return decodeShell(e.data)
}

func (m *MemoryStore) Update(_ context.Context, id string, fn func(*Shell) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shell := NewShell()
	if e, ok := m.views[id]; ok {
		s, err := decodeShell(e.data)
		if err != nil {
			return err
		}
		shell = s
	}
	if err := fn(shell); err != nil {
		return err
	}
	now := m.now()
	shell.UpdatedAt = now
	data, err := encodeShell(shell)
	if err != nil {
		return err
	}
	m.views[id] = memoryEntry{data: data, updatedAt: now}
	return nil
}

// Prune removes views last updated before the given time.
func (m *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.views {
		if e.updatedAt.Before(before) {
			delete(m.views, id)
			n++
		}
	}
	return n, nil
}

// Size returns the number of stored views.
func (m *MemoryStore) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.views)
}

func (m *MemoryStore) Close() error {
	return nil
}

// OpenViewStore creates the store selected by cfg.ViewStore.
func OpenViewStore(cfg Config) (ViewStore, error) {
	switch cfg.ViewStore {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreSQLite:
		return OpenSQLiteStore(cfg.SQLitePath)
	case StoreRedis:
		return NewRedisStore(cfg.RedisAddr, cfg.ViewTTL)
	default:
		return nil, fmt.Errorf("unknown view store %q", cfg.ViewStore)
	}
}
