package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

// extensions lists the accepted schema file extensions in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// Store implements ports.SchemaStore using the local filesystem.
// Schemas are written as indented JSON; hand-written YAML files placed in
// the same directory are read as well.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".formcheck/schemas".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".formcheck", "schemas")
	}
	return &Store{BasePath: basePath}
}

// Save writes the schema atomically: a temp file in the same directory is
// written, synced and renamed over the destination.
func (s *Store) Save(ctx context.Context, name string, sch schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	data, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Keep a single file per name.
	for _, ext := range extensions[1:] {
		if err := os.Remove(s.path(name, ext)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove stale schema file: %w", err)
		}
	}

	if err := os.Rename(tmpPath, s.path(name, ".json")); err != nil {
		return fmt.Errorf("failed to rename temp file to schema file: %w", err)
	}
	return nil
}

// Load reads name.json, name.yaml or name.yml, in that order.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, err
	}

	for _, ext := range extensions {
		path := s.path(name, ext)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to stat schema file: %w", err)
		}
		sch, err := schema.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema %q: %w", name, err)
		}
		return sch, nil
	}
	return nil, ports.ErrSchemaNotFound
}

// Delete removes every file stored for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	for _, ext := range extensions {
		err := os.Remove(s.path(name, ext))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete schema file: %w", err)
		}
	}
	return nil
}

// List returns the names of all schema files, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !slices.Contains(extensions, ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if ports.ValidateName(name) != nil || slices.Contains(names, name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *Store) path(name, ext string) string {
	return filepath.Join(s.BasePath, name+ext)
}
