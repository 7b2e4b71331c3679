package formcheck

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/adapters/memory"
	"github.com/aretw0/formcheck/pkg/observability"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
)

// Validator is the high-level entry point of the library. It wraps the
// validation engine with logging, lifecycle hooks and a schema registry.
// Safe for concurrent use.
type Validator struct {
	engine  *validate.Engine
	matcher validate.PatternMatcher
	store   ports.SchemaStore
	hooks   observability.Hooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Validator.
type Option func(*Validator)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithPatternMatcher replaces the regex matcher used for pattern constraints.
func WithPatternMatcher(m validate.PatternMatcher) Option {
	return func(v *Validator) {
		v.matcher = m
	}
}

// WithStore sets the registry used by the named-schema methods.
// Defaults to an in-memory store.
func WithStore(store ports.SchemaStore) Option {
	return func(v *Validator) {
		v.store = store
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks observability.Hooks) Option {
	return func(v *Validator) {
		v.hooks = hooks
	}
}

// New initializes a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}

	if v.logger == nil {
		v.logger = logging.NewNop()
	}
	if v.store == nil {
		v.store = memory.NewStore()
	}

	engineOpts := []validate.Option{validate.WithLogger(v.logger)}
	if v.matcher != nil {
		engineOpts = append(engineOpts, validate.WithPatternMatcher(v.matcher))
	}
	v.engine = validate.New(engineOpts...)
	return v
}

// Engine exposes the underlying validation engine.
func (v *Validator) Engine() *validate.Engine {
	return v.engine
}

// Store exposes the schema registry.
func (v *Validator) Store() ports.SchemaStore {
	return v.store
}

// Validate checks value against s.
func (v *Validator) Validate(ctx context.Context, s schema.Schema, value any) schema.Result {
	start := time.Now()
	res := v.engine.Validate(s, value)
	v.emit(ctx, observability.OpValidate, "", nil, res, nil, start)
	return res
}

// ValidateAtPath checks the sub-tree of s at path. A path missing from s
// returns a *validate.PathError alongside its invalid_path result.
func (v *Validator) ValidateAtPath(ctx context.Context, s schema.Schema, value any, path []string) (schema.Result, error) {
	start := time.Now()
	res, err := v.engine.ValidateAtPath(s, value, path)
	v.emit(ctx, observability.OpValidateAtPath, "", path, res, err, start)
	return res, err
}

// Parse validates value and returns nil when it is valid, or an
// *schema.AggregateError listing every failure.
func (v *Validator) Parse(ctx context.Context, s schema.Schema, value any) error {
	return v.Validate(ctx, s, value).Err()
}

// ValidateNamed loads the schema stored under name and validates value
// against it, at path when one is given. Unknown names return an error
// matching ports.ErrSchemaNotFound.
func (v *Validator) ValidateNamed(ctx context.Context, name string, value any, path ...string) (schema.Result, error) {
	start := time.Now()
	s, err := v.store.Load(ctx, name)
	if err != nil {
		err = fmt.Errorf("load schema %q: %w", name, err)
		v.emit(ctx, observability.OpValidateNamed, name, path, schema.Result{}, err, start)
		return schema.Result{}, err
	}

	res, err := v.engine.ValidateAtPath(s, value, path)
	v.emit(ctx, observability.OpValidateNamed, name, path, res, err, start)
	return res, err
}

// SaveSchema stores s under name.
func (v *Validator) SaveSchema(ctx context.Context, name string, s schema.Schema) error {
	err := v.store.Save(ctx, name, s)
	v.emitStore(ctx, "save", name, err)
	return err
}

// LoadSchema returns the schema stored under name.
func (v *Validator) LoadSchema(ctx context.Context, name string) (schema.Schema, error) {
	return v.store.Load(ctx, name)
}

// DeleteSchema removes the schema stored under name.
func (v *Validator) DeleteSchema(ctx context.Context, name string) error {
	err := v.store.Delete(ctx, name)
	v.emitStore(ctx, "delete", name, err)
	return err
}

// ListSchemas returns the stored schema names.
func (v *Validator) ListSchemas(ctx context.Context) ([]string, error) {
	return v.store.List(ctx)
}

func (v *Validator) emit(ctx context.Context, op observability.Operation, name string, path []string, res schema.Result, err error, start time.Time) {
	if err != nil {
		v.logger.Debug("validation call failed", "operation", op, "schema", name, "error", err)
	}
	if v.hooks.OnValidate == nil {
		return
	}
	v.hooks.OnValidate(ctx, &observability.ValidationEvent{
		Timestamp: start,
		Operation: op,
		Schema:    name,
		Path:      slices.Clone(path),
		Result:    res,
		Err:       err,
		Duration:  time.Since(start),
	})
}

func (v *Validator) emitStore(ctx context.Context, action, name string, err error) {
	if err != nil {
		v.logger.Warn("schema store update failed", "action", action, "schema", name, "error", err)
	}
	if v.hooks.OnStoreChange == nil {
		return
	}
	v.hooks.OnStoreChange(ctx, &observability.StoreEvent{
		Timestamp: time.Now(),
		Action:    action,
		Schema:    name,
		Err:       err,
	})
}
