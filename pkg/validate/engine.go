package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/formcheck/internal/logging"
	"github.com/aretw0/formcheck/pkg/schema"
)

// Engine validates values against schemas. The zero value is not usable;
// construct one with New.
type Engine struct {
	matcher PatternMatcher
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithPatternMatcher replaces the regex matcher used for pattern constraints.
func WithPatternMatcher(m PatternMatcher) Option {
	return func(e *Engine) {
		e.matcher = m
	}
}

// WithLogger sets the logger that receives pattern evaluation failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine. Patterns are matched with a RegexMatcher unless
// WithPatternMatcher says otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		matcher: NewRegexMatcher(DefaultMatchTimeout),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Validate checks v against s with the default engine.
func Validate(s schema.Schema, v any) schema.Result {
	return defaultEngine.Validate(s, v)
}

// ValidateAtPath checks the sub-tree at path with the default engine.
func ValidateAtPath(s schema.Schema, v any, path []string) (schema.Result, error) {
	return defaultEngine.ValidateAtPath(s, v, path)
}

// Validate checks v against s rooted at the empty path.
func (e *Engine) Validate(s schema.Schema, v any) schema.Result {
	w := walker{engine: e}
	w.node(s, v, nil)
	return schema.Result{Errors: w.errs}
}

// ValidateAtPath resolves path against both s and v and validates the
// resulting pair. Error paths stay absolute. When path does not exist in s
// the call aborts: the returned Result carries the single invalid_path error
// and the error is a *PathError.
func (e *Engine) ValidateAtPath(s schema.Schema, v any, path []string) (schema.Result, error) {
	if len(path) == 0 {
		return e.Validate(s, v), nil
	}

	target, err := NavigateSchema(s, path)
	if err != nil {
		var perr *PathError
		if errors.As(err, &perr) {
			return schema.Result{Errors: []schema.ValidationError{perr.ValidationError()}}, err
		}
		return schema.Result{}, err
	}

	w := walker{engine: e}
	w.node(target, NavigateValue(v, path), slices.Clone(path))
	return schema.Result{Errors: w.errs}, nil
}

// NavigateSchema follows path through the shapes of nested object schemas.
func NavigateSchema(s schema.Schema, path []string) (schema.Schema, error) {
	current := s
	for i, segment := range path {
		obj, ok := current.(*schema.Object)
		if !ok {
			return nil, &PathError{
				Path:    slices.Clone(path[:i+1]),
				Segment: segment,
				Reason:  "Cannot navigate non-object schema",
			}
		}
		child, ok := obj.Shape[segment]
		if !ok {
			return nil, &PathError{
				Path:    slices.Clone(path[:i+1]),
				Segment: segment,
				Reason:  fmt.Sprintf("Path segment '%s' not found in schema", segment),
			}
		}
		current = child
	}
	return current, nil
}

// NavigateValue follows path through nested objects. A missing key or a
// non-object along the way yields nil.
func NavigateValue(v any, path []string) any {
	current := v
	for _, segment := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = obj[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// walker accumulates the errors of one validation call.
type walker struct {
	engine *Engine
	errs   []schema.ValidationError
}

func (w *walker) fail(node schema.Schema, path []string, code, fallback string) {
	msg := node.MessageFor(code)
	if msg == "" {
		msg = fallback
	}
	w.errs = append(w.errs, schema.NewValidationError(path, code, msg))
}

func (w *walker) node(s schema.Schema, v any, path []string) {
	switch n := s.(type) {
	case *schema.String:
		str, ok := v.(string)
		if !ok {
			w.fail(n, path, schema.CodeInvalidType, "Expected string")
			return
		}
		w.checkString(n, str, path)
	case *schema.Number:
		f, ok := toFloat(v)
		if !ok {
			w.fail(n, path, schema.CodeInvalidType, "Expected number")
			return
		}
		w.checkNumber(n, f, path)
	case *schema.Boolean:
		if _, ok := v.(bool); !ok {
			w.fail(n, path, schema.CodeInvalidType, "Expected boolean")
		}
	case *schema.Object:
		obj, ok := v.(map[string]any)
		if !ok {
			w.fail(n, path, schema.CodeInvalidType, "Expected object")
			return
		}
		w.checkObject(n, obj, path)
	default:
		panic(fmt.Sprintf("validate: unsupported schema node %T", s))
	}
}

func (w *walker) checkString(n *schema.String, s string, path []string) {
	length := utf8.RuneCountInString(s)
	if n.Min != nil && length < *n.Min {
		w.fail(n, path, schema.CodeStringMin, fmt.Sprintf("String must be at least %d characters", *n.Min))
	}
	if n.Max != nil && length > *n.Max {
		w.fail(n, path, schema.CodeStringMax, fmt.Sprintf("String must be at most %d characters", *n.Max))
	}
	if n.Email && !isEmail(s) {
		w.fail(n, path, schema.CodeStringEmail, "Invalid email address")
	}
	if n.URL && !isURL(s) {
		w.fail(n, path, schema.CodeStringURL, "Invalid URL")
	}
	if n.Pattern != nil && !w.matches(*n.Pattern, s) {
		w.fail(n, path, schema.CodeStringPattern, "String does not match pattern: "+*n.Pattern)
	}
}

func (w *walker) matches(pattern, s string) bool {
	ok, err := w.engine.matcher.MatchString(pattern, s)
	if err != nil {
		w.engine.logger.Warn("pattern evaluation failed", "pattern", pattern, "error", err)
		return false
	}
	return ok
}

func (w *walker) checkNumber(n *schema.Number, f float64, path []string) {
	if n.Min != nil && f < *n.Min {
		w.fail(n, path, schema.CodeNumberMin, "Number must be at least "+formatNumber(*n.Min))
	}
	if n.Max != nil && f > *n.Max {
		w.fail(n, path, schema.CodeNumberMax, "Number must be at most "+formatNumber(*n.Max))
	}
	if n.Integer && f != math.Trunc(f) {
		w.fail(n, path, schema.CodeNumberInteger, "Number must be an integer")
	}
	if n.Positive && f <= 0 {
		w.fail(n, path, schema.CodeNumberPositive, "Number must be positive")
	}
}

func (w *walker) checkObject(n *schema.Object, obj map[string]any, path []string) {
	// Sorted keys keep the error list stable between runs.
	for _, key := range slices.Sorted(maps.Keys(n.Shape)) {
		childPath := append(slices.Clip(path), key)
		value, ok := obj[key]
		if !ok {
			w.fail(n, childPath, schema.CodeRequired, fmt.Sprintf("Field '%s' is required", key))
			continue
		}
		w.node(n.Shape[key], value, childPath)
	}
}

func isEmail(s string) bool {
	return strings.Count(s, "@") == 1 && !strings.HasPrefix(s, "@") && !strings.HasSuffix(s, "@")
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// toFloat accepts every Go numeric kind plus json.Number.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
