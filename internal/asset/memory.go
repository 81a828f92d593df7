package asset

import (
	"context"
	"io"
	"sync"
)

// MemoryStore is an in-memory Store, used where no disk is wanted.
type MemoryStore struct {
	mu        sync.RWMutex
	urlPrefix string
	objects   map[string][]byte

	// FailWrites makes every Save fail with the given error.
	FailWrites error
	// FailDeletes makes every Delete of a present asset fail with the given error.
	FailDeletes error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(urlPrefix string) *MemoryStore {
	if urlPrefix == "" {
		urlPrefix = "/images"
	}
	return &MemoryStore{
		urlPrefix: urlPrefix,
		objects:   make(map[string][]byte),
	}
}

// Save stores the content under a generated name.
func (m *MemoryStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if m.FailWrites != nil {
		return "", &WriteError{Name: originalName, Err: m.FailWrites}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &WriteError{Name: originalName, Err: err}
	}

	name := generateName(originalName)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	return referencePath(m.urlPrefix, name), nil
}

// Delete removes the asset; absent assets are ignored.
func (m *MemoryStore) Delete(ctx context.Context, assetPath string) error {
	name := fileName(assetPath)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		return nil
	}
	if m.FailDeletes != nil {
		return &DeleteError{Path: assetPath, Err: m.FailDeletes}
	}
	delete(m.objects, name)
	return nil
}

// Exists reports whether the asset is stored.
func (m *MemoryStore) Exists(ctx context.Context, assetPath string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[fileName(assetPath)]
	return ok, nil
}

// Len returns the number of stored assets.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
