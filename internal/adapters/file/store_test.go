package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formcheck/internal/adapters/file"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yamlDoc := "type: object\nshape:\n  email:\n    type: string\n    email: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(yamlDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	store := file.New(dir)
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"contact"}, names)

	s, err := store.Load(ctx, "contact")
	require.NoError(t, err)
	assert.True(t, s.(*schema.Object).Shape["email"].(*schema.String).Email)

	// Saving over a YAML schema leaves a single JSON file behind.
	require.NoError(t, store.Save(ctx, "contact", &schema.Boolean{}))
	_, err = os.Stat(filepath.Join(dir, "contact.yaml"))
	assert.True(t, os.IsNotExist(err))

	s, err = store.Load(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, schema.KindBoolean, s.Kind())
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"type": "nope"}`), 0644))

	_, err := file.New(dir).Load(context.Background(), "broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrParse)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	names, err := file.New(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	require.NoError(t, store.Save(context.Background(), "a", &schema.String{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.json", entries[0].Name())
}
