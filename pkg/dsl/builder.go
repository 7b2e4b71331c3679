package dsl

import (
	"fmt"

	"github.com/aretw0/formcheck/pkg/schema"
)

// Builder is implemented by every schema builder in this package.
type Builder interface {
	Build() schema.Schema
}

// Shape maps field names to the builders of their schemas.
type Shape map[string]Builder

// ObjectBuilder configures an object schema.
type ObjectBuilder struct {
	fields   Shape
	ui       *schema.UI
	messages *schema.ObjectMessages
}

// Object starts an object schema with the given fields. Every field is required.
func Object(shape Shape) *ObjectBuilder {
	fields := make(Shape, len(shape))
	for name, b := range shape {
		fields[name] = b
	}
	return &ObjectBuilder{fields: fields}
}

// Field adds or replaces one field.
func (b *ObjectBuilder) Field(name string, field Builder) *ObjectBuilder {
	b.fields[name] = field
	return b
}

// UI attaches rendering hints.
func (b *ObjectBuilder) UI(ui schema.UI) *ObjectBuilder {
	b.ui = &ui
	return b
}

// Messages overrides the default messages. Required applies to every
// missing field of this object.
func (b *ObjectBuilder) Messages(m schema.ObjectMessages) *ObjectBuilder {
	b.messages = &m
	return b
}

// Build returns the object schema, building every field.
func (b *ObjectBuilder) Build() schema.Schema {
	shape := make(map[string]schema.Schema, len(b.fields))
	for name, field := range b.fields {
		if field == nil {
			panic(fmt.Sprintf("dsl: field %q has no schema", name))
		}
		shape[name] = field.Build()
	}
	return schema.Clone(&schema.Object{Shape: shape, UI: b.ui, Messages: b.messages})
}
