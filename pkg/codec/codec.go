// Package codec is the text boundary of the validator: schema, value and
// path arrive as JSON text and the result leaves as JSON text. Malformed
// input never reaches the engine; it is reported as a single parse_error.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
)

// Codec binds the text boundary to an engine.
type Codec struct {
	engine *validate.Engine
}

// New returns a Codec backed by engine. A nil engine selects validate.New().
func New(engine *validate.Engine) *Codec {
	if engine == nil {
		engine = validate.New()
	}
	return &Codec{engine: engine}
}

var std = New(nil)

// Validate runs the default codec.
func Validate(schemaText, valueText []byte) []byte {
	return std.Validate(schemaText, valueText)
}

// ValidateAtPath runs the default codec.
func ValidateAtPath(schemaText, valueText, pathText []byte) []byte {
	return std.ValidateAtPath(schemaText, valueText, pathText)
}

// Validate decodes both inputs, validates and encodes the result.
func (c *Codec) Validate(schemaText, valueText []byte) []byte {
	return Encode(c.Result(schemaText, valueText))
}

// ValidateAtPath decodes all three inputs, validates the sub-tree at the
// decoded path and encodes the result.
func (c *Codec) ValidateAtPath(schemaText, valueText, pathText []byte) []byte {
	return Encode(c.ResultAtPath(schemaText, valueText, pathText))
}

// Result is Validate without the final encoding step.
func (c *Codec) Result(schemaText, valueText []byte) schema.Result {
	s, v, failure, ok := decodePair(schemaText, valueText)
	if !ok {
		return failure
	}
	return c.engine.Validate(s, v)
}

// ResultAtPath is ValidateAtPath without the final encoding step.
func (c *Codec) ResultAtPath(schemaText, valueText, pathText []byte) schema.Result {
	s, v, failure, ok := decodePair(schemaText, valueText)
	if !ok {
		return failure
	}
	path, err := DecodePath(pathText)
	if err != nil {
		return ParseFailure("Invalid path JSON: " + err.Error())
	}
	// A navigation failure already comes back as its single invalid_path error.
	res, _ := c.engine.ValidateAtPath(s, v, path)
	return res
}

func decodePair(schemaText, valueText []byte) (schema.Schema, any, schema.Result, bool) {
	s, err := DecodeSchema(schemaText)
	if err != nil {
		return nil, nil, ParseFailure("Invalid schema JSON: " + err.Error()), false
	}
	v, err := DecodeValue(valueText)
	if err != nil {
		return nil, nil, ParseFailure("Invalid value JSON: " + err.Error()), false
	}
	return s, v, schema.Result{}, true
}

// ParseFailure is the result reported for malformed input text.
func ParseFailure(message string) schema.Result {
	return schema.Result{Errors: []schema.ValidationError{
		schema.NewValidationError(nil, schema.CodeParseError, message),
	}}
}

// DecodeSchema parses schema text.
func DecodeSchema(text []byte) (schema.Schema, error) {
	return schema.ParseJSON(text)
}

// DecodeValue parses a JSON value. Numbers stay json.Number so large
// integers keep their precision; a number beyond the float64 range is an
// error.
func DecodeValue(text []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	if err := checkNumbers(v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkNumbers rejects numbers that do not fit a float64, such as 1e400.
func checkNumbers(v any) error {
	switch n := v.(type) {
	case json.Number:
		if _, err := n.Float64(); err != nil {
			return errors.New("number out of range")
		}
	case map[string]any:
		for _, child := range n {
			if err := checkNumbers(child); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range n {
			if err := checkNumbers(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodePath parses a JSON array of strings. JSON null means the empty path.
func DecodePath(text []byte) ([]string, error) {
	var path []string
	if err := json.Unmarshal(text, &path); err != nil {
		return nil, err
	}
	return path, nil
}

// Encode renders a result as {"success": true} or
// {"success": false, "errors": [...]}.
func Encode(res schema.Result) []byte {
	data, err := json.Marshal(res)
	if err != nil {
		// Results hold only strings; this cannot happen with valid UTF-8 input.
		data, _ = json.Marshal(ParseFailure(fmt.Sprintf("encode result: %v", err)))
	}
	return data
}
