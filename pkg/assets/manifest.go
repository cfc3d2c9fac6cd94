package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ManifestName is the build manifest the front-end bundler writes next to
// the shell document. It maps source names to fingerprinted file names:
//
//	{"app.js": "assets/app.3f9c2a.js", "app.css": "assets/app.81d0be.css"}
const ManifestName = "manifest.json"

// Manifest holds the mapping from source asset names to fingerprinted names.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	hashed  map[string]struct{}
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		hashed:  make(map[string]struct{}),
	}
}

// ParseManifest decodes manifest JSON.
func ParseManifest(data []byte) (*Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m := NewManifest()
	for src, out := range entries {
		m.Set(src, out)
	}
	return m, nil
}

// LoadManifest reads ManifestName from the store. A missing manifest yields
// an empty one, since development builds do not fingerprint.
func LoadManifest(ctx context.Context, store Store) (*Manifest, error) {
	rc, _, err := store.Open(ctx, ManifestName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return NewManifest(), nil
		}
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Resolve returns the fingerprinted name for source, or source unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if out, ok := m.entries[source]; ok {
		return out
	}
	return source
}

// Fingerprinted reports whether name is the output side of a manifest entry.
// Such files never change content and can be cached indefinitely.
func (m *Manifest) Fingerprinted(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.hashed[name]
	return ok
}

// Set adds or replaces a mapping.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[source]; ok {
		delete(m.hashed, old)
	}
	m.entries[source] = resolved
	if resolved != source {
		m.hashed[resolved] = struct{}{}
	}
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
