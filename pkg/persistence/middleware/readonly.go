package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

// ErrReadOnly is returned by writes through a read-only store.
var ErrReadOnly = errors.New("schema store is read-only")

type readOnlyMiddleware struct {
	next ports.SchemaStore
}

// NewReadOnlyMiddleware rejects Save and Delete. Useful when a server
// validates against a registry managed elsewhere.
func NewReadOnlyMiddleware() Middleware {
	return func(next ports.SchemaStore) ports.SchemaStore {
		return &readOnlyMiddleware{next: next}
	}
}

func (m *readOnlyMiddleware) Save(ctx context.Context, name string, s schema.Schema) error {
	return fmt.Errorf("save %q: %w", name, ErrReadOnly)
}

func (m *readOnlyMiddleware) Load(ctx context.Context, name string) (schema.Schema, error) {
	return m.next.Load(ctx, name)
}

func (m *readOnlyMiddleware) Delete(ctx context.Context, name string) error {
	return fmt.Errorf("delete %q: %w", name, ErrReadOnly)
}

func (m *readOnlyMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
