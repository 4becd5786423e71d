package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/pitwall/tourney-system/internal/core/domain"
)

// memStore is an in-memory ports.Store double.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	// failWrites makes every Set return an error; failKeys fails only the
	// named keys, for partial-persist paths.
	failWrites bool
	failKeys   map[string]bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte), failKeys: make(map[string]bool)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.failWrites || m.failKeys[key] {
		return errors.New("store unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memStore) snapshot(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// recordingNotifier captures emitted audit events synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (n *recordingNotifier) Emit(event domain.AuditEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) recorded() []domain.AuditEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.AuditEvent, len(n.events))
	copy(out, n.events)
	return out
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
