package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formcheck/pkg/adapters/memory"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

func TestCacheMiddleware_ReadThrough(t *testing.T) {
	underlying := NewMockStore()
	store := NewCacheMiddleware(time.Minute)(underlying)
	cache := store.(*cacheMiddleware)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	ctx := context.Background()
	if err := store.Save(ctx, "flag", &schema.Boolean{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.Load(ctx, "flag"); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if underlying.loads != 1 {
		t.Errorf("Expected 1 underlying load, got %d", underlying.loads)
	}

	// Expired entries are reloaded.
	clock = clock.Add(2 * time.Minute)
	if _, err := store.Load(ctx, "flag"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if underlying.loads != 2 {
		t.Errorf("Expected reload after expiry, got %d loads", underlying.loads)
	}
}

func TestCacheMiddleware_Invalidation(t *testing.T) {
	underlying := NewMockStore()
	store := NewCacheMiddleware(time.Hour)(underlying)
	ctx := context.Background()

	_ = store.Save(ctx, "field", &schema.String{})
	if _, err := store.Load(ctx, "field"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Save replaces the cached version.
	_ = store.Save(ctx, "field", &schema.Number{})
	got, err := store.Load(ctx, "field")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Kind() != schema.KindNumber {
		t.Errorf("Expected number after overwrite, got %s", got.Kind())
	}

	// Delete evicts it.
	_ = store.Delete(ctx, "field")
	if _, err := store.Load(ctx, "field"); !errors.Is(err, ports.ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound after delete, got %v", err)
	}
}

func TestCacheMiddleware_WriteDuringLoad(t *testing.T) {
	underlying := NewMockStore()
	store := NewCacheMiddleware(time.Hour)(underlying)
	ctx := context.Background()
	_ = store.Save(ctx, "field", &schema.String{})

	// The write lands after the backend read the old schema.
	underlying.afterRead = func() {
		underlying.afterRead = nil
		if err := store.Save(ctx, "field", &schema.Number{}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	got, err := store.Load(ctx, "field")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Kind() != schema.KindString {
		t.Fatalf("Expected the schema read before the write, got %s", got.Kind())
	}

	got, err = store.Load(ctx, "field")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Kind() != schema.KindNumber {
		t.Errorf("Expected the overlapping write to win, got stale %s", got.Kind())
	}
	if underlying.loads != 2 {
		t.Errorf("Expected the stale read not to be cached, got %d loads", underlying.loads)
	}
}

func TestCacheMiddleware_DeleteDuringLoad(t *testing.T) {
	underlying := NewMockStore()
	store := NewCacheMiddleware(time.Hour)(underlying)
	ctx := context.Background()
	_ = store.Save(ctx, "field", &schema.Boolean{})

	underlying.afterRead = func() {
		underlying.afterRead = nil
		_ = store.Delete(ctx, "field")
	}
	if _, err := store.Load(ctx, "field"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := store.Load(ctx, "field"); !errors.Is(err, ports.ErrSchemaNotFound) {
		t.Errorf("Expected ErrSchemaNotFound after overlapping delete, got %v", err)
	}
}

func TestCacheMiddleware_ReturnsCopies(t *testing.T) {
	store := NewCacheMiddleware(time.Hour)(NewMockStore())
	ctx := context.Background()
	_ = store.Save(ctx, "name", &schema.String{Min: schema.Ptr(1)})

	first, _ := store.Load(ctx, "name")
	*first.(*schema.String).Min = 99

	second, _ := store.Load(ctx, "name")
	if *second.(*schema.String).Min != 1 {
		t.Errorf("Expected cached schema to be unaffected, got min %d", *second.(*schema.String).Min)
	}
}

func TestReadOnlyMiddleware(t *testing.T) {
	underlying := NewMockStore()
	_ = underlying.Save(context.Background(), "flag", &schema.Boolean{})
	store := NewReadOnlyMiddleware()(underlying)
	ctx := context.Background()

	if err := store.Save(ctx, "other", &schema.Boolean{}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly on save, got %v", err)
	}
	if err := store.Delete(ctx, "flag"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly on delete, got %v", err)
	}
	if _, err := store.Load(ctx, "flag"); err != nil {
		t.Errorf("Expected load to pass through, got %v", err)
	}
	names, _ := store.List(ctx)
	if len(names) != 1 || names[0] != "flag" {
		t.Errorf("Expected [flag], got %v", names)
	}
}

func TestWrap_SatisfiesContract(t *testing.T) {
	store := Wrap(memory.NewStore(), NewCacheMiddleware(time.Hour))
	ports.RunSchemaStoreContract(t, store)
}

func TestWrap_Order(t *testing.T) {
	store := Wrap(NewMockStore(), NewReadOnlyMiddleware(), NewCacheMiddleware(time.Hour))
	if _, ok := store.(*readOnlyMiddleware); !ok {
		t.Errorf("Expected the first middleware to be outermost, got %T", store)
	}
}
