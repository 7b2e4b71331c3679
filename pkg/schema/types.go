package schema

// Kind tags the variant of a Schema node.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
)

// Schema is a closed union of the four node variants: *String, *Number,
// *Boolean and *Object. Code outside this package can switch on the concrete
// type but cannot add variants.
type Schema interface {
	// Kind returns the variant tag.
	Kind() Kind
	// UIConfig returns the presentational metadata, or nil.
	UIConfig() *UI
	// MessageFor returns the caller-supplied message for a failure code,
	// or "" when the node does not override it.
	MessageFor(code string) string

	isSchema()
}

// UI carries form-rendering hints. It never affects validation.
type UI struct {
	Label       string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty" mapstructure:"placeholder"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// StringMessages overrides the default messages of a String node.
type StringMessages struct {
	InvalidType string `json:"invalid_type,omitempty" mapstructure:"invalid_type"`
	Min         string `json:"min,omitempty" mapstructure:"min"`
	Max         string `json:"max,omitempty" mapstructure:"max"`
	Email       string `json:"email,omitempty" mapstructure:"email"`
	URL         string `json:"url,omitempty" mapstructure:"url"`
	Pattern     string `json:"pattern,omitempty" mapstructure:"pattern"`
}

// NumberMessages overrides the default messages of a Number node.
type NumberMessages struct {
	InvalidType string `json:"invalid_type,omitempty" mapstructure:"invalid_type"`
	Min         string `json:"min,omitempty" mapstructure:"min"`
	Max         string `json:"max,omitempty" mapstructure:"max"`
	Integer     string `json:"integer,omitempty" mapstructure:"integer"`
	Positive    string `json:"positive,omitempty" mapstructure:"positive"`
}

// BooleanMessages overrides the default messages of a Boolean node.
type BooleanMessages struct {
	InvalidType string `json:"invalid_type,omitempty" mapstructure:"invalid_type"`
}

// ObjectMessages overrides the default messages of an Object node.
// Required applies to every declared field missing from the value.
type ObjectMessages struct {
	InvalidType string `json:"invalid_type,omitempty" mapstructure:"invalid_type"`
	Required    string `json:"required,omitempty" mapstructure:"required"`
}

// String validates string values. Min and Max count characters (runes).
type String struct {
	Min      *int
	Max      *int
	Email    bool
	URL      bool
	Pattern  *string
	UI       *UI
	Messages *StringMessages
}

func (s *String) Kind() Kind    { return KindString }
func (s *String) UIConfig() *UI { return s.UI }
func (s *String) isSchema()     {}

func (s *String) MessageFor(code string) string {
	if s.Messages == nil {
		return ""
	}
	switch code {
	case CodeInvalidType:
		return s.Messages.InvalidType
	case CodeStringMin:
		return s.Messages.Min
	case CodeStringMax:
		return s.Messages.Max
	case CodeStringEmail:
		return s.Messages.Email
	case CodeStringURL:
		return s.Messages.URL
	case CodeStringPattern:
		return s.Messages.Pattern
	}
	return ""
}

// Number validates numeric values. Min and Max are inclusive.
type Number struct {
	Min      *float64
	Max      *float64
	Integer  bool
	Positive bool
	UI       *UI
	Messages *NumberMessages
}

func (n *Number) Kind() Kind    { return KindNumber }
func (n *Number) UIConfig() *UI { return n.UI }
func (n *Number) isSchema()     {}

func (n *Number) MessageFor(code string) string {
	if n.Messages == nil {
		return ""
	}
	switch code {
	case CodeInvalidType:
		return n.Messages.InvalidType
	case CodeNumberMin:
		return n.Messages.Min
	case CodeNumberMax:
		return n.Messages.Max
	case CodeNumberInteger:
		return n.Messages.Integer
	case CodeNumberPositive:
		return n.Messages.Positive
	}
	return ""
}

// Boolean only type-checks.
type Boolean struct {
	UI       *UI
	Messages *BooleanMessages
}

func (b *Boolean) Kind() Kind    { return KindBoolean }
func (b *Boolean) UIConfig() *UI { return b.UI }
func (b *Boolean) isSchema()     {}

func (b *Boolean) MessageFor(code string) string {
	if b.Messages == nil || code != CodeInvalidType {
		return ""
	}
	return b.Messages.InvalidType
}

// Object declares the fields a value must carry. Every key of Shape is
// required; keys present in the value but absent from Shape are ignored.
type Object struct {
	Shape    map[string]Schema
	UI       *UI
	Messages *ObjectMessages
}

func (o *Object) Kind() Kind    { return KindObject }
func (o *Object) UIConfig() *UI { return o.UI }
func (o *Object) isSchema()     {}

func (o *Object) MessageFor(code string) string {
	if o.Messages == nil {
		return ""
	}
	switch code {
	case CodeInvalidType:
		return o.Messages.InvalidType
	case CodeRequired:
		return o.Messages.Required
	}
	return ""
}

// Clone returns a deep copy of s.
func Clone(s Schema) Schema {
	switch v := s.(type) {
	case *String:
		c := *v
		c.Min = clonePtr(v.Min)
		c.Max = clonePtr(v.Max)
		c.Pattern = clonePtr(v.Pattern)
		c.UI = clonePtr(v.UI)
		c.Messages = clonePtr(v.Messages)
		return &c
	case *Number:
		c := *v
		c.Min = clonePtr(v.Min)
		c.Max = clonePtr(v.Max)
		c.UI = clonePtr(v.UI)
		c.Messages = clonePtr(v.Messages)
		return &c
	case *Boolean:
		c := *v
		c.UI = clonePtr(v.UI)
		c.Messages = clonePtr(v.Messages)
		return &c
	case *Object:
		c := *v
		c.UI = clonePtr(v.UI)
		c.Messages = clonePtr(v.Messages)
		if v.Shape != nil {
			c.Shape = make(map[string]Schema, len(v.Shape))
			for key, field := range v.Shape {
				c.Shape[key] = Clone(field)
			}
		}
		return &c
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. Handy for optional constraints.
func Ptr[T any](v T) *T {
	return &v
}
