package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/formcheck/pkg/schema"
)

// ErrSchemaNotFound is returned by SchemaStore.Load for unknown names.
var ErrSchemaNotFound = errors.New("schema not found")

// ErrInvalidName is returned for names that cannot be stored.
var ErrInvalidName = errors.New("invalid schema name")

// SchemaStore persists named schemas so values can be validated against
// them later by name.
type SchemaStore interface {
	// Save stores s under name, replacing any previous schema.
	Save(ctx context.Context, name string, s schema.Schema) error

	// Load retrieves the schema stored under name.
	// Returns ErrSchemaNotFound if the name does not exist.
	Load(ctx context.Context, name string) (schema.Schema, error)

	// Delete removes name. Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the stored names in ascending order.
	List(ctx context.Context) ([]string, error)
}

// ValidateName accepts names made of letters, digits, '.', '_' and '-',
// starting with a letter or digit and at most 128 bytes long. Such names are
// safe as file names and Redis key suffixes.
func ValidateName(name string) error {
	if name == "" || len(name) > 128 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case i > 0 && (r == '.' || r == '_' || r == '-'):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
