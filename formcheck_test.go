package formcheck_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/pkg/adapters/memory"
	"github.com/aretw0/formcheck/pkg/dsl"
	"github.com/aretw0/formcheck/pkg/observability"
	"github.com/aretw0/formcheck/pkg/ports"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	validations []*observability.ValidationEvent
	changes     []*observability.StoreEvent
}

func (r *recorder) hooks() observability.Hooks {
	return observability.Hooks{
		OnValidate:    func(_ context.Context, e *observability.ValidationEvent) { r.validations = append(r.validations, e) },
		OnStoreChange: func(_ context.Context, e *observability.StoreEvent) { r.changes = append(r.changes, e) },
	}
}

func TestValidator_Hooks(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	v := formcheck.New(formcheck.WithHooks(rec.hooks()))
	s := dsl.Object(dsl.Shape{"n": dsl.Number().Positive()}).Build()

	v.Validate(ctx, s, map[string]any{"n": 1})
	_, err := v.ValidateAtPath(ctx, s, map[string]any{"n": -1}, []string{"n"})
	require.NoError(t, err)
	_, err = v.ValidateAtPath(ctx, s, map[string]any{}, []string{"x"})
	require.ErrorIs(t, err, validate.ErrInvalidPath)

	require.Len(t, rec.validations, 3)
	assert.Equal(t, observability.OutcomeValid, rec.validations[0].Outcome())
	assert.Equal(t, observability.OpValidateAtPath, rec.validations[1].Operation)
	assert.Equal(t, observability.OutcomeInvalid, rec.validations[1].Outcome())
	assert.Equal(t, []string{"n"}, rec.validations[1].Path)
	assert.Equal(t, observability.OutcomeError, rec.validations[2].Outcome())
}

func TestValidator_NamedSchemas(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	store := memory.NewStore()
	v := formcheck.New(formcheck.WithStore(store), formcheck.WithHooks(rec.hooks()))
	assert.Same(t, store, v.Store())

	s := dsl.Object(dsl.Shape{"email": dsl.String().Email()}).Build()
	require.NoError(t, v.SaveSchema(ctx, "contact", s))

	names, err := v.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"contact"}, names)

	loaded, err := v.LoadSchema(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	res, err := v.ValidateNamed(ctx, "contact", map[string]any{"email": "x"})
	require.NoError(t, err)
	assert.True(t, res.Has(schema.CodeStringEmail, "email"))

	res, err = v.ValidateNamed(ctx, "contact", map[string]any{"email": "a@b"}, "email")
	require.NoError(t, err)
	assert.True(t, res.Valid())

	_, err = v.ValidateNamed(ctx, "missing", map[string]any{})
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)

	require.NoError(t, v.DeleteSchema(ctx, "contact"))
	_, err = v.ValidateNamed(ctx, "contact", map[string]any{})
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)

	require.Len(t, rec.changes, 2)
	assert.Equal(t, "save", rec.changes[0].Action)
	assert.Equal(t, "delete", rec.changes[1].Action)
	assert.Equal(t, "contact", rec.validations[0].Schema)
}

func TestValidator_SaveInvalidName(t *testing.T) {
	rec := &recorder{}
	v := formcheck.New(formcheck.WithHooks(rec.hooks()))

	err := v.SaveSchema(context.Background(), "bad name", &schema.Boolean{})
	assert.ErrorIs(t, err, ports.ErrInvalidName)
	require.Len(t, rec.changes, 1)
	assert.Error(t, rec.changes[0].Err)
}

func TestValidator_Parse(t *testing.T) {
	v := formcheck.New()
	s := dsl.String().Min(2).Max(3).Build()

	assert.NoError(t, v.Parse(context.Background(), s, "abc"))

	err := v.Parse(context.Background(), s, "a")
	require.Error(t, err)
	var aggr *schema.AggregateError
	require.True(t, errors.As(err, &aggr))
	assert.Equal(t, schema.CodeStringMin, aggr.Errors[0].Code)
}

func TestValidator_PatternMatcher(t *testing.T) {
	s := dsl.String().Pattern("a.c").Build()

	assert.True(t, formcheck.New().Validate(context.Background(), s, "abc").Valid())

	substring := formcheck.New(formcheck.WithPatternMatcher(validate.SubstringMatcher{}))
	assert.False(t, substring.Validate(context.Background(), s, "abc").Valid())
	assert.True(t, substring.Validate(context.Background(), s, "xa.cx").Valid())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, formcheck.Version)
}
