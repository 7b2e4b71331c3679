package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore
// implementation adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	signup := &schema.Object{
		Messages: &schema.ObjectMessages{Required: "Required"},
		Shape: map[string]schema.Schema{
			"email": &schema.String{Email: true, UI: &schema.UI{Label: "Email"}},
			"age":   &schema.Number{Min: schema.Ptr(18.0), Integer: true},
			"terms": &schema.Boolean{},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, signup), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, schema.Schema(signup), loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		replacement := &schema.String{Min: schema.Ptr(2)}
		require.NoError(t, store.Save(ctx, name, replacement))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, schema.Schema(replacement), loaded)
	})

	t.Run("Loaded Schema Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, signup))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		loaded.(*schema.Object).Shape["extra"] = &schema.Boolean{}

		again, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.NotContains(t, again.(*schema.Object).Shape, "extra")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-"+name)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, "../escape", signup), ErrInvalidName)
		_, err := store.Load(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidName)
		assert.ErrorIs(t, store.Delete(ctx, "a/b"), ErrInvalidName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, signup))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")
		assert.NoError(t, store.Delete(ctx, name), "Delete of a missing name is a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		require.NoError(t, store.Save(ctx, id1, signup))
		require.NoError(t, store.Save(ctx, id2, signup))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := name + "-c" + string(rune('0'+i))
				assert.NoError(t, store.Save(ctx, id, signup))
				_, err := store.Load(ctx, id)
				assert.NoError(t, err)
				assert.NoError(t, store.Delete(ctx, id))
			}()
		}
		wg.Wait()
	})
}
