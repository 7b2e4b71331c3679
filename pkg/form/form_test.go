package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/formcheck/pkg/dsl"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginSchema() schema.Schema {
	return dsl.Object(dsl.Shape{
		"email":    dsl.String().Email(),
		"password": dsl.String().Min(8),
	}).Build()
}

func defaults() map[string]any {
	return map[string]any{"email": "", "password": ""}
}

func TestNew_InitialState(t *testing.T) {
	f := New(loginSchema(), defaults())
	st := f.State()

	assert.Equal(t, defaults(), st.Values)
	assert.Equal(t, map[string]bool{"email": false, "password": false}, st.Touched)
	assert.Len(t, st.Errors, 2)
	assert.Nil(t, st.Errors["email"])
	assert.True(t, st.Valid)
	assert.False(t, st.Submitting)
}

func TestSetValue_NoValidationByDefault(t *testing.T) {
	f := New(loginSchema(), defaults())
	f.SetValue("email", "bad")

	st := f.State()
	assert.Equal(t, "bad", st.Values["email"])
	assert.Nil(t, st.Errors["email"])
	assert.True(t, st.Valid)
}

func TestHandleChange_ValidateOnChange(t *testing.T) {
	f := New(loginSchema(), defaults(), WithValidateOnChange(true))

	f.HandleChange("email", "bad")
	st := f.State()
	require.NotNil(t, st.Errors["email"])
	assert.Equal(t, schema.CodeStringEmail, st.Errors["email"].Code)
	assert.False(t, st.Valid)

	f.HandleChange("email", "a@b.co")
	st = f.State()
	assert.Nil(t, st.Errors["email"])
	assert.True(t, st.Valid)
}

func TestHandleBlur(t *testing.T) {
	f := New(loginSchema(), defaults())
	f.SetValue("password", "short")
	f.HandleBlur("password")

	st := f.State()
	assert.True(t, st.Touched["password"])
	require.NotNil(t, st.Errors["password"])
	assert.Equal(t, schema.CodeStringMin, st.Errors["password"].Code)
	assert.Equal(t, []string{"password"}, st.Errors["password"].Path)
	assert.Nil(t, st.Errors["email"], "blur validates only its own field")
}

func TestHandleBlur_Disabled(t *testing.T) {
	f := New(loginSchema(), defaults(), WithValidateOnBlur(false))
	f.HandleBlur("password")

	st := f.State()
	assert.True(t, st.Touched["password"])
	assert.Nil(t, st.Errors["password"])
}

func TestSetTouched(t *testing.T) {
	f := New(loginSchema(), defaults())
	f.SetTouched("email", true)
	assert.True(t, f.State().Touched["email"])
	f.SetTouched("email", false)
	assert.False(t, f.State().Touched["email"])
}

func TestValidateField(t *testing.T) {
	f := New(loginSchema(), defaults())

	err := f.ValidateField("email")
	require.NotNil(t, err)
	assert.Equal(t, schema.CodeStringEmail, err.Code)

	unknown := f.ValidateField("nickname")
	require.NotNil(t, unknown)
	assert.Equal(t, schema.CodeInvalidPath, unknown.Code)

	assert.Nil(t, f.State().Errors["email"], "ValidateField does not store the error")
}

func TestValidateForm(t *testing.T) {
	f := New(loginSchema(), map[string]any{"email": "a@b.co"})

	errs := f.ValidateForm()
	assert.Len(t, errs, 1)
	assert.Nil(t, errs["email"])
	_, tracked := errs["password"]
	assert.False(t, tracked, "fields outside the form are dropped")
}

func TestSubmit_Valid(t *testing.T) {
	var got map[string]any
	f := New(loginSchema(), defaults(), WithSubmit(func(_ context.Context, values map[string]any) error {
		got = values
		return nil
	}))
	f.SetValue("email", "a@b.co")
	f.SetValue("password", "correct horse")

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, map[string]any{"email": "a@b.co", "password": "correct horse"}, got)

	st := f.State()
	assert.True(t, st.Valid)
	assert.False(t, st.Submitting)
	assert.Equal(t, map[string]bool{"email": true, "password": true}, st.Touched)
}

func TestSubmit_Invalid(t *testing.T) {
	called := false
	f := New(loginSchema(), defaults(), WithSubmit(func(context.Context, map[string]any) error {
		called = true
		return nil
	}))

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.False(t, called)
	assert.Len(t, schema.ValidationErrors(err), 2)

	st := f.State()
	assert.False(t, st.Valid)
	assert.Equal(t, schema.CodeStringEmail, st.Errors["email"].Code)
	assert.Equal(t, schema.CodeStringMin, st.Errors["password"].Code)
	assert.True(t, st.Touched["email"])
}

func TestSubmit_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	f := New(loginSchema(), map[string]any{"email": "a@b.co", "password": "12345678"},
		WithSubmit(func(context.Context, map[string]any) error { return boom }))

	assert.ErrorIs(t, f.Submit(context.Background()), boom)
	assert.False(t, f.State().Submitting)
}

func TestReset(t *testing.T) {
	f := New(loginSchema(), defaults(), WithValidateOnChange(true))
	f.HandleChange("email", "bad")
	f.HandleBlur("email")
	f.Reset()

	st := f.State()
	assert.Equal(t, defaults(), st.Values)
	assert.False(t, st.Touched["email"])
	assert.Nil(t, st.Errors["email"])
	assert.True(t, st.Valid)
}

func TestSubscribe(t *testing.T) {
	f := New(loginSchema(), defaults())

	var mu sync.Mutex
	var seen []State
	unsubscribe := f.Subscribe(func(st State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	f.SetValue("email", "x")
	f.SetTouched("email", true)
	require.Error(t, f.Submit(context.Background()))
	unsubscribe()
	f.SetValue("email", "y")

	mu.Lock()
	defer mu.Unlock()
	// SetValue, SetTouched, and the two Submit transitions.
	require.Len(t, seen, 4)
	assert.Equal(t, "x", seen[0].Values["email"])
	assert.True(t, seen[2].Submitting)
	assert.False(t, seen[3].Submitting)
}

func TestState_IsASnapshot(t *testing.T) {
	f := New(loginSchema(), defaults())
	st := f.State()
	st.Values["email"] = "mutated"
	st.Touched["email"] = true

	assert.Equal(t, "", f.State().Values["email"])
	assert.False(t, f.State().Touched["email"])
}
