package ports_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
)

// MockStore is a minimal SchemaStore used to exercise the contract suite itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]schema.Schema
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]schema.Schema)}
}

func (m *MockStore) Save(ctx context.Context, name string, s schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = schema.Clone(s)
	return nil
}

func (m *MockStore) Load(ctx context.Context, name string) (schema.Schema, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return schema.Clone(s), nil
}

func (m *MockStore) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, name)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.data)), nil
}

func TestMockStore_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, NewMockStore())
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"signup", "user.v2", "a", "Order_Form-1"} {
		assert.NoError(t, ports.ValidateName(name), name)
	}
	for _, name := range []string{"", ".hidden", "../x", "a/b", "with space", "-flag", string(make([]byte, 129))} {
		assert.ErrorIs(t, ports.ValidateName(name), ports.ErrInvalidName, name)
	}
}
