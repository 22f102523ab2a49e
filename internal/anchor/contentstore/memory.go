package contentstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put stores data and returns its id. Storing the same bytes twice is a no-op.
func (m *Memory) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := ComputeID(data)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[id]; !ok {
		m.objects[id] = append([]byte(nil), data...)
	}
	return id, nil
}

// Get returns a copy of the bytes stored under id.
func (m *Memory) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	data, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// SizeOf returns the length of the bytes stored under id.
func (m *Memory) SizeOf(ctx context.Context, id string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := ParseID(id)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	data, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return 0, ErrNotFound
	}
	return uint64(len(data)), nil
}

// Delete drops id. Used to simulate content loss.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, id)
}
