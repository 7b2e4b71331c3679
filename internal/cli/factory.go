package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/adapters/file"
	"github.com/aretw0/formcheck/internal/adapters/redis"
	"github.com/aretw0/formcheck/internal/config"
	"github.com/aretw0/formcheck/pkg/adapters/memory"
	"github.com/aretw0/formcheck/pkg/observability"
	"github.com/aretw0/formcheck/pkg/persistence/middleware"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/validate"
)

// NewStore builds the schema store selected by cfg, wrapped in the
// configured middlewares. The returned close function releases its
// connections.
func NewStore(ctx context.Context, cfg config.Config) (ports.SchemaStore, func() error, error) {
	store, closeStore, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, closeStore, err
	}

	var mws []middleware.Middleware
	if cfg.Store.ReadOnly {
		mws = append(mws, middleware.NewReadOnlyMiddleware())
	}
	if cfg.Store.CacheTTL > 0 {
		mws = append(mws, middleware.NewCacheMiddleware(cfg.Store.CacheTTL))
	}
	return middleware.Wrap(store, mws...), closeStore, nil
}

func newBackend(ctx context.Context, cfg config.Config) (ports.SchemaStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Kind {
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.Store.Dir), noop, nil
	case config.StoreRedis:
		rc := cfg.Store.Redis
		opts := []redis.Option{redis.WithTTL(rc.TTL)}
		if rc.Prefix != "" {
			opts = append(opts, redis.WithPrefix(rc.Prefix))
		}
		store := redis.New(rc.Addr, rc.Password, rc.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("redis store unreachable at %s: %w", rc.Addr, err)
		}
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
}

// NewMatcher returns the pattern matcher selected by cfg.
func NewMatcher(cfg config.Config) validate.PatternMatcher {
	if cfg.Pattern == config.PatternSubstring {
		return validate.SubstringMatcher{}
	}
	return validate.NewRegexMatcher(validate.DefaultMatchTimeout)
}

// NewValidator wires a Validator with the configured store and matcher.
// Validation events are logged through logger, and extra hooks run after
// the logging ones.
func NewValidator(ctx context.Context, cfg config.Config, logger *slog.Logger, hooks ...observability.Hooks) (*formcheck.Validator, func() error, error) {
	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, closeStore, err
	}

	all := append([]observability.Hooks{observability.LogHooks(logger)}, hooks...)
	v := formcheck.New(
		formcheck.WithLogger(logger),
		formcheck.WithStore(store),
		formcheck.WithPatternMatcher(NewMatcher(cfg)),
		formcheck.WithHooks(observability.Chain(all...)),
	)
	return v, closeStore, nil
}
