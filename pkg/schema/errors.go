package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Stable machine-readable failure codes.
const (
	CodeInvalidType = "invalid_type"
	CodeRequired    = "required"
	CodeInvalidPath = "invalid_path"
	CodeParseError  = "parse_error"

	CodeStringMin     = "string.min"
	CodeStringMax     = "string.max"
	CodeStringEmail   = "string.email"
	CodeStringURL     = "string.url"
	CodeStringPattern = "string.pattern"

	CodeNumberMin      = "number.min"
	CodeNumberMax      = "number.max"
	CodeNumberInteger  = "number.integer"
	CodeNumberPositive = "number.positive"
)

// ErrParse matches any *ParseError.
var ErrParse = errors.New("parse error")

// ValidationError is a single failure located in the value tree.
// Path is empty for the root value.
type ValidationError struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// NewValidationError copies path so the error never aliases the caller's slice.
func NewValidationError(path []string, code, message string) ValidationError {
	p := make([]string, len(path))
	copy(p, path)
	return ValidationError{Path: p, Code: code, Message: message}
}

func (e ValidationError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("field %q: %s (%s)", e.PathString(), e.Message, e.Code)
}

// PathString joins the path with dots.
func (e ValidationError) PathString() string {
	return strings.Join(e.Path, ".")
}

// MarshalJSON keeps "path" an array even for the root.
func (e ValidationError) MarshalJSON() ([]byte, error) {
	type alias ValidationError
	if e.Path == nil {
		e.Path = []string{}
	}
	return json.Marshal(alias(e))
}

// Result is the outcome of one validation call: valid if and only if
// Errors is empty.
type Result struct {
	Errors []ValidationError
}

// Valid reports whether no error was collected.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns nil for a valid result and an *AggregateError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &AggregateError{Errors: r.Errors}
}

// Has reports whether an error with the given code exists at path.
func (r Result) Has(code string, path ...string) bool {
	for _, e := range r.Errors {
		if e.Code == code && slices.Equal(e.Path, path) {
			return true
		}
	}
	return false
}

// Codes returns the distinct codes present, in first-seen order.
func (r Result) Codes() []string {
	var codes []string
	for _, e := range r.Errors {
		if !slices.Contains(codes, e.Code) {
			codes = append(codes, e.Code)
		}
	}
	return codes
}

type resultJSON struct {
	Success bool              `json:"success"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// MarshalJSON encodes {"success": true} or {"success": false, "errors": [...]}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Success: r.Valid(), Errors: r.Errors})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Success && len(raw.Errors) == 0 {
		return fmt.Errorf("schema: failed result without errors")
	}
	r.Errors = raw.Errors
	return nil
}

// AggregateError wraps every failure of an invalid Result.
type AggregateError struct {
	Errors []ValidationError
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// ValidationErrors returns the failures carried by err, or nil when err is
// not (and does not wrap) an *AggregateError.
func ValidationErrors(err error) []ValidationError {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// ParseError reports a malformed schema. Location is the schema path of the
// offending node (empty for the root).
type ParseError struct {
	Location []string
	Reason   string
	Cause    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if len(e.Location) > 0 {
		msg = fmt.Sprintf("at %q: %s", strings.Join(e.Location, "."), e.Reason)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return "schema: " + msg
}

func (e *ParseError) Unwrap() error { return e.Cause }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
