// Package store persists a finovate ledger in a key-value backend.
//
// The ledger is kept in four independent slots, one json document each: the
// user, the items, the reminders and the bank accounts. A backend only needs
// to get, put and delete a document by key.
package store

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Backend is a key-value storage for json documents.
//
// Get returns an error wrapping fs.ErrNotExist when the key has never been written.
type Backend interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

// Backend kinds, as named in the configuration.
const (
	KindDir    = "dir"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open returns the backend of the given kind rooted at path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindDir, "":
		return NewDir(path), nil
	case KindSQLite:
		return OpenSQLite(path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q, want one of %q", kind, []string{KindDir, KindSQLite, KindMemory})
	}
}

// Dir stores each key in a "<key>.json" file of a directory.
type Dir struct {
	path string
}

// NewDir returns a backend storing files in path. The directory is created on first write.
func NewDir(path string) *Dir { return &Dir{path: path} }

func (d *Dir) file(key string) string { return filepath.Join(d.path, key+".json") }

func (d *Dir) Get(key string) ([]byte, error) {
	// os errors already wrap fs.ErrNotExist.
	return os.ReadFile(d.file(key))
}

func (d *Dir) Put(key string, data []byte) error {
	if err := os.MkdirAll(d.path, 0755); err != nil {
		return fmt.Errorf("could not create store directory %q: %w", d.path, err)
	}
	// write then rename, so that a failed write never leaves a truncated slot.
	tmp := d.file(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, d.file(key))
}

func (d *Dir) Delete(key string) error {
	err := os.Remove(d.file(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Memory keeps documents in memory. It is safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemory returns an empty in memory backend.
func NewMemory() *Memory { return &Memory{docs: make(map[string][]byte)} }

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, fs.ErrNotExist)
	}
	return slices.Clone(data), nil
}

func (m *Memory) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = slices.Clone(data)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

// Keys returns the stored keys, sorted.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.docs))
}
