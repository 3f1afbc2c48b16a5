// Package pk maps external string item identifiers to dense uint32 keys.
//
// External providers hand out opaque string IDs; the ranker's exclusion set
// is a Roaring bitmap over uint32. The Interner owns the bidirectional
// mapping. Keys are assigned in first-seen order and stay stable for the
// lifetime of the Interner.
package pk

import (
	"sync"
)

// Interner assigns dense uint32 keys to string identifiers.
// Safe for concurrent use.
type Interner struct {
	mu   sync.RWMutex
	keys map[string]uint32
	ids  []string
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{
		keys: make(map[string]uint32),
	}
}

// Key returns the dense key for id, assigning the next free key on first
// sight. The same id always maps to the same key.
func (in *Interner) Key(id string) uint32 {
	in.mu.RLock()
	k, ok := in.keys[id]
	in.mu.RUnlock()
	if ok {
		return k
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if k, ok := in.keys[id]; ok {
		return k
	}
	k = uint32(len(in.ids))
	in.keys[id] = k
	in.ids = append(in.ids, id)
	return k
}

// Lookup returns the key for id without assigning one.
func (in *Interner) Lookup(id string) (uint32, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	k, ok := in.keys[id]
	return k, ok
}

// ID resolves a key back to its string identifier.
func (in *Interner) ID(key uint32) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(key) >= len(in.ids) {
		return "", false
	}
	return in.ids[key], true
}

// Len returns the number of interned identifiers.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.ids)
}
