package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

type rawString struct {
	Type     string          `mapstructure:"type"`
	Min      *float64        `mapstructure:"min"`
	Max      *float64        `mapstructure:"max"`
	Email    bool            `mapstructure:"email"`
	URL      bool            `mapstructure:"url"`
	Pattern  *string         `mapstructure:"pattern"`
	UI       *UI             `mapstructure:"ui"`
	Messages *StringMessages `mapstructure:"messages"`
}

type rawNumber struct {
	Type     string          `mapstructure:"type"`
	Min      *float64        `mapstructure:"min"`
	Max      *float64        `mapstructure:"max"`
	Integer  bool            `mapstructure:"integer"`
	Positive bool            `mapstructure:"positive"`
	UI       *UI             `mapstructure:"ui"`
	Messages *NumberMessages `mapstructure:"messages"`
}

type rawBoolean struct {
	Type     string           `mapstructure:"type"`
	UI       *UI              `mapstructure:"ui"`
	Messages *BooleanMessages `mapstructure:"messages"`
}

type rawObject struct {
	Type     string          `mapstructure:"type"`
	Shape    map[string]any  `mapstructure:"shape"`
	UI       *UI             `mapstructure:"ui"`
	Messages *ObjectMessages `mapstructure:"messages"`
}

// FromMap builds a Schema from its generic representation, as produced by
// decoding JSON or YAML into map[string]any. Unknown keys, unknown kinds
// and ill-typed constraints are rejected with a *ParseError.
func FromMap(m map[string]any) (Schema, error) {
	return fromMap(m, nil)
}

func fromMap(m map[string]any, loc []string) (Schema, error) {
	if m == nil {
		return nil, &ParseError{Location: loc, Reason: "schema must be an object"}
	}
	tag, ok := m["type"].(string)
	if !ok {
		return nil, &ParseError{Location: loc, Reason: `missing or non-string "type"`}
	}

	switch Kind(tag) {
	case KindString:
		var raw rawString
		if err := decodeStrict(m, &raw); err != nil {
			return nil, &ParseError{Location: loc, Reason: "invalid string schema", Cause: err}
		}
		lo, err := lengthBound(raw.Min, "min", loc)
		if err != nil {
			return nil, err
		}
		hi, err := lengthBound(raw.Max, "max", loc)
		if err != nil {
			return nil, err
		}
		return &String{
			Min:      lo,
			Max:      hi,
			Email:    raw.Email,
			URL:      raw.URL,
			Pattern:  raw.Pattern,
			UI:       raw.UI,
			Messages: raw.Messages,
		}, nil

	case KindNumber:
		var raw rawNumber
		if err := decodeStrict(m, &raw); err != nil {
			return nil, &ParseError{Location: loc, Reason: "invalid number schema", Cause: err}
		}
		return &Number{
			Min:      raw.Min,
			Max:      raw.Max,
			Integer:  raw.Integer,
			Positive: raw.Positive,
			UI:       raw.UI,
			Messages: raw.Messages,
		}, nil

	case KindBoolean:
		var raw rawBoolean
		if err := decodeStrict(m, &raw); err != nil {
			return nil, &ParseError{Location: loc, Reason: "invalid boolean schema", Cause: err}
		}
		return &Boolean{UI: raw.UI, Messages: raw.Messages}, nil

	case KindObject:
		var raw rawObject
		if err := decodeStrict(m, &raw); err != nil {
			return nil, &ParseError{Location: loc, Reason: "invalid object schema", Cause: err}
		}
		if raw.Shape == nil {
			return nil, &ParseError{Location: loc, Reason: `object schema requires "shape"`}
		}
		shape := make(map[string]Schema, len(raw.Shape))
		for key, field := range raw.Shape {
			fieldLoc := append(slices.Clip(loc), key)
			fm, ok := field.(map[string]any)
			if !ok {
				return nil, &ParseError{Location: fieldLoc, Reason: fmt.Sprintf("expected schema object, got %T", field)}
			}
			child, err := fromMap(fm, fieldLoc)
			if err != nil {
				return nil, err
			}
			shape[key] = child
		}
		return &Object{Shape: shape, UI: raw.UI, Messages: raw.Messages}, nil
	}

	return nil, &ParseError{Location: loc, Reason: fmt.Sprintf("unknown schema type %q", tag)}
}

func decodeStrict(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// lengthBound converts a decoded length constraint into a character count.
func lengthBound(v *float64, name string, loc []string) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || *v != math.Trunc(*v) || *v > math.MaxInt32 {
		return nil, &ParseError{Location: loc, Reason: fmt.Sprintf("%q must be a non-negative integer, got %v", name, *v)}
	}
	n := int(*v)
	return &n, nil
}

// ToMap renders s in its generic representation. Absent constraints are
// omitted, so FromMap(ToMap(s)) reproduces s.
func ToMap(s Schema) map[string]any {
	m := map[string]any{"type": string(s.Kind())}
	switch v := s.(type) {
	case *String:
		if v.Min != nil {
			m["min"] = *v.Min
		}
		if v.Max != nil {
			m["max"] = *v.Max
		}
		if v.Email {
			m["email"] = true
		}
		if v.URL {
			m["url"] = true
		}
		if v.Pattern != nil {
			m["pattern"] = *v.Pattern
		}
		putMessages(m, v.Messages)
	case *Number:
		if v.Min != nil {
			m["min"] = *v.Min
		}
		if v.Max != nil {
			m["max"] = *v.Max
		}
		if v.Integer {
			m["integer"] = true
		}
		if v.Positive {
			m["positive"] = true
		}
		putMessages(m, v.Messages)
	case *Boolean:
		putMessages(m, v.Messages)
	case *Object:
		shape := make(map[string]any, len(v.Shape))
		for key, field := range v.Shape {
			shape[key] = ToMap(field)
		}
		m["shape"] = shape
		putMessages(m, v.Messages)
	}
	if ui := s.UIConfig(); ui != nil {
		if um := structToMap(ui); len(um) > 0 {
			m["ui"] = um
		}
	}
	return m
}

func putMessages[T any](m map[string]any, msgs *T) {
	if msgs == nil {
		return
	}
	if mm := structToMap(msgs); len(mm) > 0 {
		m["messages"] = mm
	}
}

// structToMap relies on the omitempty json tags of UI and message structs.
func structToMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func (s *String) MarshalJSON() ([]byte, error)  { return json.Marshal(ToMap(s)) }
func (n *Number) MarshalJSON() ([]byte, error)  { return json.Marshal(ToMap(n)) }
func (b *Boolean) MarshalJSON() ([]byte, error) { return json.Marshal(ToMap(b)) }
func (o *Object) MarshalJSON() ([]byte, error)  { return json.Marshal(ToMap(o)) }

// ParseJSON decodes a schema from JSON text.
func ParseJSON(data []byte) (Schema, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Cause: err}
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ParseError{Reason: fmt.Sprintf("schema must be an object, got %T", raw)}
	}
	return FromMap(m)
}

// ParseYAML decodes a schema from YAML text.
func ParseYAML(data []byte) (Schema, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Reason: "invalid YAML", Cause: err}
	}
	return FromMap(m)
}

// LoadFile reads a schema file. ".json" files are parsed as JSON, anything
// else as YAML.
func LoadFile(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// Document embeds a Schema in larger JSON or YAML documents.
type Document struct {
	Schema Schema
}

func (d Document) MarshalJSON() ([]byte, error) {
	if d.Schema == nil {
		return []byte("null"), nil
	}
	return json.Marshal(ToMap(d.Schema))
}

func (d *Document) UnmarshalJSON(data []byte) error {
	s, err := ParseJSON(data)
	if err != nil {
		return err
	}
	d.Schema = s
	return nil
}

func (d Document) MarshalYAML() (any, error) {
	if d.Schema == nil {
		return nil, nil
	}
	return ToMap(d.Schema), nil
}

func (d *Document) UnmarshalYAML(node *yaml.Node) error {
	var m map[string]any
	if err := node.Decode(&m); err != nil {
		return &ParseError{Reason: "invalid YAML", Cause: err}
	}
	s, err := FromMap(m)
	if err != nil {
		return err
	}
	d.Schema = s
	return nil
}
