package middleware

import (
	"context"
	"maps"
	"slices"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

// MockStore is a simple map-based store that counts loads. When set,
// afterRead runs inside Load once the stored schema has been read.
type MockStore struct {
	data      map[string]schema.Schema
	loads     int
	afterRead func()
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]schema.Schema),
	}
}

func (s *MockStore) Save(ctx context.Context, name string, sch schema.Schema) error {
	s.data[name] = sch
	return nil
}

func (s *MockStore) Load(ctx context.Context, name string) (schema.Schema, error) {
	s.loads++
	sch, ok := s.data[name]
	if s.afterRead != nil {
		s.afterRead()
	}
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return sch, nil
}

func (s *MockStore) Delete(ctx context.Context, name string) error {
	delete(s.data, name)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	return slices.Sorted(maps.Keys(s.data)), nil
}

var _ ports.SchemaStore = (*MockStore)(nil)
