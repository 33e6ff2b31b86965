package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
)

// Compile-time check that MemoryAssets implements Assets.
var _ Assets = (*MemoryAssets)(nil)

// MemoryAssets is an in-memory implementation of Assets.
// It uses a map with RWMutex for thread-safe access and copies data on the
// way in and out so callers cannot mutate stored assets.
type MemoryAssets struct {
	mu     sync.RWMutex
	assets map[string][]byte
}

// NewMemoryAssets creates an empty in-memory asset store.
func NewMemoryAssets() *MemoryAssets {
	return &MemoryAssets{
		assets: make(map[string][]byte),
	}
}

// Write stores a copy of data under name.
func (m *MemoryAssets) Write(ctx context.Context, name string, data []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[name] = bytes.Clone(data)
	return nil
}

// Read returns a copy of the named asset.
func (m *MemoryAssets) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.assets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return bytes.Clone(data), nil
}

// Delete removes the named asset.
func (m *MemoryAssets) Delete(ctx context.Context, name string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.assets[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(m.assets, name)
	return nil
}

// List returns all entries sorted by name. MemoryAssets never holds directories.
func (m *MemoryAssets) List(ctx context.Context) ([]Entry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]Entry, 0, len(m.assets))
	for name := range m.assets {
		entries = append(entries, Entry{Name: name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Len returns the number of stored assets.
func (m *MemoryAssets) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assets)
}
