// Package assets resolves, decodes and caches model and texture files.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
)

// ErrNotFound is returned when no asset root contains the requested path.
var ErrNotFound = errors.New("asset not found")

// Manager handles asset loading from directory roots.
type Manager struct {
	roots  []string
	files  *Cache[[]byte]
	meshes *Cache[*mesh.Mesh]
	mu     sync.RWMutex
}

// NewManager creates a new asset manager over the given roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{
		files:  NewCache[[]byte](),
		meshes: NewCache[*mesh.Mesh](),
	}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a directory to search.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Resolve returns the on-disk path for an asset path.
func (m *Manager) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		full := filepath.Join(m.roots[i], filepath.FromSlash(path))
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrNotFound)
}

// Read returns the raw bytes of an asset.
func (m *Manager) Read(path string) ([]byte, error) {
	if data, ok := m.files.Get(path); ok {
		return data, nil
	}
	full, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m.files.Set(path, data)
	return data, nil
}

// LoadMesh decodes an STL asset. Every call returns a private copy, so
// callers may center or otherwise mutate the result.
func (m *Manager) LoadMesh(path string) (*mesh.Mesh, error) {
	if cached, ok := m.meshes.Get(path); ok {
		return cached.Clone(), nil
	}
	full, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	mm, err := mesh.Load(full)
	if err != nil {
		return nil, err
	}
	m.meshes.Set(path, mm)
	return mm.Clone(), nil
}

// Close drops all cached data.
func (m *Manager) Close() {
	m.files.Clear()
	m.meshes.Clear()
}

// MeshStats returns the mesh cache hit and miss counts.
func (m *Manager) MeshStats() (hits, misses int) {
	return m.meshes.Stats()
}

// Cache is a simple in-memory cache keyed by asset path.
type Cache[T any] struct {
	data map[string]T
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		data: make(map[string]T),
	}
}

// Get retrieves an item from cache.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Clear clears the cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]T)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
