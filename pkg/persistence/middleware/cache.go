package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
)

type cacheEntry struct {
	schema  schema.Schema
	expires time.Time
}

type cacheMiddleware struct {
	next ports.SchemaStore
	ttl  time.Duration
	now  func() time.Time

	mu       sync.Mutex
	entries  map[string]cacheEntry
	versions map[string]uint64 // bumped by every write through the middleware
}

// NewCacheMiddleware keeps loaded schemas in memory for ttl, so repeated
// named validations skip the backing store. Writes through the middleware
// invalidate the entry; writes made by other processes are seen once the
// entry expires.
func NewCacheMiddleware(ttl time.Duration) Middleware {
	return func(next ports.SchemaStore) ports.SchemaStore {
		return &cacheMiddleware{
			next:    next,
			ttl:     ttl,
			now:      time.Now,
			entries:  make(map[string]cacheEntry),
			versions: make(map[string]uint64),
		}
	}
}

func (m *cacheMiddleware) Save(ctx context.Context, name string, s schema.Schema) error {
	m.forget(name)
	defer m.forget(name)
	return m.next.Save(ctx, name, s)
}

func (m *cacheMiddleware) Load(ctx context.Context, name string) (schema.Schema, error) {
	m.mu.Lock()
	entry, ok := m.entries[name]
	version := m.versions[name]
	m.mu.Unlock()
	if ok && m.now().Before(entry.expires) {
		return schema.Clone(entry.schema), nil
	}

	s, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A write that overlapped the load may have made s stale.
	if m.versions[name] == version {
		m.entries[name] = cacheEntry{schema: schema.Clone(s), expires: m.now().Add(m.ttl)}
	}
	m.mu.Unlock()
	return s, nil
}

func (m *cacheMiddleware) Delete(ctx context.Context, name string) error {
	m.forget(name)
	defer m.forget(name)
	return m.next.Delete(ctx, name)
}

func (m *cacheMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *cacheMiddleware) forget(name string) {
	m.mu.Lock()
	delete(m.entries, name)
	m.versions[name]++
	m.mu.Unlock()
}
