package repository

import (
	"errors"
	"sync"
)

// Sentinel errors returned by stores. Services translate these into
// typed API errors, the same way the upstream layers treat a row miss.
var (
	ErrNotFound      = errors.New("repository: entity not found")
	ErrAlreadyExists = errors.New("repository: entity already exists")
)

// Store is a mutex-guarded in-memory map keyed by the entity's natural
// identifier. There are no surrogate keys; the key function extracts
// the identifier from the entity itself. The clone function isolates
// snapshots returned to callers from the stored values.
type Store[E any] struct {
	mu    sync.RWMutex
	items map[string]E
	key   func(E) string
	clone func(E) E
}

// NewStore builds an empty store. clone may be nil for entities whose
// value copy is already independent (no reference fields).
func NewStore[E any](key func(E) string, clone func(E) E) *Store[E] {
	if clone == nil {
		clone = func(e E) E { return e }
	}
	return &Store[E]{
		items: make(map[string]E),
		key:   key,
		clone: clone,
	}
}

// Create inserts the entity, failing with ErrAlreadyExists when its
// key is taken.
func (s *Store[E]) Create(e E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(e)
	if _, ok := s.items[k]; ok {
		return ErrAlreadyExists
	}
	s.items[k] = s.clone(e)
	return nil
}

// FindByID returns a copy of the entity and whether it was present.
// A miss is not an error.
func (s *Store[E]) FindByID(id string) (E, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		var zero E
		return zero, false
	}
	return s.clone(e), true
}

// FindAll returns a snapshot of every stored entity. Mutating the
// returned slice or its elements does not affect the store.
func (s *Store[E]) FindAll() []E {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]E, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, s.clone(e))
	}
	return out
}

// Update replaces the stored entity, failing with ErrNotFound when its
// key is absent. It never creates.
func (s *Store[E]) Update(e E) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(e)
	if _, ok := s.items[k]; !ok {
		return ErrNotFound
	}
	s.items[k] = s.clone(e)
	return nil
}

// Delete removes the entity, failing with ErrNotFound when absent.
func (s *Store[E]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Exists reports whether the key is present.
func (s *Store[E]) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Len returns the number of stored entities.
func (s *Store[E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
