// Package form keeps the state of one form instance: field values, touched
// flags and the first validation error of each field. Validation is driven
// by a schema.Object whose top-level fields are the form fields.
package form

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
)

// SubmitFunc receives the values of a valid form.
type SubmitFunc func(ctx context.Context, values map[string]any) error

// State is a snapshot of a form. Maps are copies; mutating them does not
// affect the form.
type State struct {
	Values     map[string]any
	Touched    map[string]bool
	Errors     map[string]*schema.ValidationError
	Submitting bool
	Valid      bool
}

func (s State) clone() State {
	c := s
	c.Values = maps.Clone(s.Values)
	c.Touched = maps.Clone(s.Touched)
	c.Errors = make(map[string]*schema.ValidationError, len(s.Errors))
	for field, err := range s.Errors {
		if err != nil {
			e := schema.NewValidationError(err.Path, err.Code, err.Message)
			err = &e
		}
		c.Errors[field] = err
	}
	return c
}

// Listener is notified with a fresh snapshot after every state change.
type Listener func(State)

// Form is safe for concurrent use. Listeners run synchronously, outside the
// form's lock, so they may call back into the form.
type Form struct {
	schema   schema.Schema
	defaults map[string]any

	engine           *validate.Engine
	validateOnChange bool
	validateOnBlur   bool
	onSubmit         SubmitFunc
	logger           *slog.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// Option configures a Form.
type Option func(*Form)

// WithEngine sets the validation engine. Defaults to validate.New().
func WithEngine(e *validate.Engine) Option {
	return func(f *Form) {
		f.engine = e
	}
}

// WithValidateOnChange validates a field every time its value changes.
// Disabled by default.
func WithValidateOnChange(enabled bool) Option {
	return func(f *Form) {
		f.validateOnChange = enabled
	}
}

// WithValidateOnBlur validates a field when it loses focus. Enabled by default.
func WithValidateOnBlur(enabled bool) Option {
	return func(f *Form) {
		f.validateOnBlur = enabled
	}
}

// WithSubmit sets the function Submit calls when the form is valid.
func WithSubmit(fn SubmitFunc) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// WithLogger sets the logger used to report submit failures.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// New creates a form over s. The keys of defaults are the form fields.
func New(s schema.Schema, defaults map[string]any, opts ...Option) *Form {
	f := &Form{
		schema:         s,
		defaults:       maps.Clone(defaults),
		validateOnBlur: true,
		logger:         logging.NewNop(),
		listeners:      make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.engine == nil {
		f.engine = validate.New()
	}
	f.state = f.initialState()
	return f
}

func (f *Form) initialState() State {
	st := State{
		Values:  maps.Clone(f.defaults),
		Touched: make(map[string]bool, len(f.defaults)),
		Errors:  make(map[string]*schema.ValidationError, len(f.defaults)),
		Valid:   true,
	}
	if st.Values == nil {
		st.Values = make(map[string]any)
	}
	for field := range f.defaults {
		st.Touched[field] = false
		st.Errors[field] = nil
	}
	return st
}

// State returns a snapshot of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

// SetValue stores a field value, validating the field when validate on
// change is enabled.
func (f *Form) SetValue(field string, value any) {
	f.update(func(st *State) {
		st.Values[field] = value
		if f.validateOnChange {
			st.Errors[field] = f.validateField(st.Values, field)
			st.Valid = allNil(st.Errors)
		}
	})
}

// HandleChange is SetValue under the name UI bindings expect.
func (f *Form) HandleChange(field string, value any) {
	f.SetValue(field, value)
}

// SetTouched sets the touched flag of a field.
func (f *Form) SetTouched(field string, touched bool) {
	f.update(func(st *State) {
		st.Touched[field] = touched
	})
}

// HandleBlur marks a field touched and validates it when validate on blur
// is enabled.
func (f *Form) HandleBlur(field string) {
	f.update(func(st *State) {
		st.Touched[field] = true
		if f.validateOnBlur {
			st.Errors[field] = f.validateField(st.Values, field)
			st.Valid = allNil(st.Errors)
		}
	})
}

// ValidateField returns the first error of field against the current
// values, or nil. It does not change the form state.
func (f *Form) ValidateField(field string) *schema.ValidationError {
	f.mu.Lock()
	values := maps.Clone(f.state.Values)
	f.mu.Unlock()
	return f.validateField(values, field)
}

func (f *Form) validateField(values map[string]any, field string) *schema.ValidationError {
	// A field unknown to the schema comes back as its invalid_path error.
	res, _ := f.engine.ValidateAtPath(f.schema, values, []string{field})
	if res.Valid() {
		return nil
	}
	first := res.Errors[0]
	return &first
}

// ValidateForm validates every field and returns the first error per form
// field. Errors for fields outside the form are dropped. It does not change
// the form state.
func (f *Form) ValidateForm() map[string]*schema.ValidationError {
	f.mu.Lock()
	values := maps.Clone(f.state.Values)
	fields := make([]string, 0, len(f.state.Errors))
	for field := range f.state.Errors {
		fields = append(fields, field)
	}
	f.mu.Unlock()
	return f.validateForm(values, fields)
}

func (f *Form) validateForm(values map[string]any, fields []string) map[string]*schema.ValidationError {
	out := make(map[string]*schema.ValidationError, len(fields))
	for _, field := range fields {
		out[field] = nil
	}
	res := f.engine.Validate(f.schema, values)
	for _, e := range res.Errors {
		if len(e.Path) == 0 {
			continue
		}
		field := e.Path[0]
		if current, ok := out[field]; ok && current == nil {
			out[field] = &e
		}
	}
	return out
}

// Submit marks every field touched and validates the whole form. When it
// is valid the submit function runs and its error is returned. Submit
// returns the aggregate validation error when the form is invalid.
func (f *Form) Submit(ctx context.Context) error {
	var (
		values map[string]any
		valid  bool
		outErr error
	)
	f.update(func(st *State) {
		fields := make([]string, 0, len(st.Values)+len(st.Errors))
		for field := range st.Values {
			st.Touched[field] = true
			fields = append(fields, field)
		}
		for field := range st.Errors {
			if _, ok := st.Values[field]; !ok {
				fields = append(fields, field)
			}
		}
		st.Errors = f.validateForm(st.Values, fields)
		st.Valid = allNil(st.Errors)
		st.Submitting = true

		values = maps.Clone(st.Values)
		valid = st.Valid
		if !valid {
			outErr = f.engine.Validate(f.schema, st.Values).Err()
		}
	})

	if valid && f.onSubmit != nil {
		if err := f.onSubmit(ctx, values); err != nil {
			f.logger.Error("form submission failed", "error", err)
			outErr = err
		}
	}

	f.update(func(st *State) {
		st.Submitting = false
	})
	return outErr
}

// Reset restores the default values and clears touched flags and errors.
func (f *Form) Reset() {
	f.update(func(st *State) {
		*st = f.initialState()
	})
}

// Subscribe registers l and returns the function that removes it.
func (f *Form) Subscribe(l Listener) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.listeners[id] = l
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *Form) update(mutate func(*State)) {
	f.mu.Lock()
	mutate(&f.state)
	snapshot := f.state.clone()
	listeners := make([]Listener, 0, len(f.listeners))
	for _, l := range f.listeners {
		listeners = append(listeners, l)
	}
	f.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func allNil(errs map[string]*schema.ValidationError) bool {
	for _, e := range errs {
		if e != nil {
			return false
		}
	}
	return true
}
