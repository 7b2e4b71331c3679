package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]schema.Schema
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]schema.Schema),
	}
}

// Save keeps a deep copy of s, so later changes by the caller are not seen.
func (s *Store) Save(ctx context.Context, name string, sch schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	copied := schema.Clone(sch)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = copied
	return nil
}

// Load returns a copy so the caller can't mutate the stored tree.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sch, ok := s.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return schema.Clone(sch), nil
}

// Delete removes the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns the stored names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}
