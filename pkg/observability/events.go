package observability

import (
	"context"
	"time"

	"github.com/aretw0/formcheck/pkg/schema"
)

// Operation names the kind of call that produced an event.
type Operation string

const (
	OpValidate       Operation = "validate"
	OpValidateAtPath Operation = "validate_at_path"
	OpValidateNamed  Operation = "validate_named"
)

// Outcome summarizes an event for labelling.
type Outcome string

const (
	OutcomeValid   Outcome = "valid"
	OutcomeInvalid Outcome = "invalid"
	OutcomeError   Outcome = "error"
)

// ValidationEvent describes one finished validation call.
type ValidationEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Operation Operation     `json:"operation"`
	Schema    string        `json:"schema,omitempty"` // stored schema name, if any
	Path      []string      `json:"path,omitempty"`
	Result    schema.Result `json:"result"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
}

// Outcome is error when the call failed outright (unknown schema, invalid
// path), invalid when validation collected errors, valid otherwise.
func (e *ValidationEvent) Outcome() Outcome {
	switch {
	case e.Err != nil:
		return OutcomeError
	case !e.Result.Valid():
		return OutcomeInvalid
	}
	return OutcomeValid
}

// StoreEvent describes one schema registry mutation.
type StoreEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"` // save or delete
	Schema    string    `json:"schema"`
	Err       error     `json:"-"`
}

// Hooks defines callbacks for validator observability. Nil fields are skipped.
type Hooks struct {
	OnValidate    func(context.Context, *ValidationEvent)
	OnStoreChange func(context.Context, *StoreEvent)
}

// Chain returns hooks that call every non-nil hook of hs in order.
func Chain(hs ...Hooks) Hooks {
	return Hooks{
		OnValidate: func(ctx context.Context, e *ValidationEvent) {
			for _, h := range hs {
				if h.OnValidate != nil {
					h.OnValidate(ctx, e)
				}
			}
		},
		OnStoreChange: func(ctx context.Context, e *StoreEvent) {
			for _, h := range hs {
				if h.OnStoreChange != nil {
					h.OnStoreChange(ctx, e)
				}
			}
		},
	}
}
