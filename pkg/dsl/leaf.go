package dsl

import (
	"fmt"

	"github.com/aretw0/formcheck/pkg/schema"
)

// StringBuilder configures a string schema.
type StringBuilder struct {
	node schema.String
}

// String starts a string schema with no constraints.
func String() *StringBuilder {
	return &StringBuilder{}
}

// Min sets the minimum length in characters. It panics if n is negative.
func (b *StringBuilder) Min(n int) *StringBuilder {
	b.node.Min = lengthBound("Min", n)
	return b
}

// Max sets the maximum length in characters. It panics if n is negative.
func (b *StringBuilder) Max(n int) *StringBuilder {
	b.node.Max = lengthBound("Max", n)
	return b
}

// Email enables the email structure check.
func (b *StringBuilder) Email() *StringBuilder {
	b.node.Email = true
	return b
}

// URL requires an http:// or https:// prefix.
func (b *StringBuilder) URL() *StringBuilder {
	b.node.URL = true
	return b
}

// Pattern requires the value to match pattern.
func (b *StringBuilder) Pattern(pattern string) *StringBuilder {
	b.node.Pattern = &pattern
	return b
}

// UI attaches rendering hints.
func (b *StringBuilder) UI(ui schema.UI) *StringBuilder {
	b.node.UI = &ui
	return b
}

// Messages overrides the default messages.
func (b *StringBuilder) Messages(m schema.StringMessages) *StringBuilder {
	b.node.Messages = &m
	return b
}

// Build returns a copy of the configured schema.
func (b *StringBuilder) Build() schema.Schema {
	return schema.Clone(&b.node)
}

func lengthBound(name string, n int) *int {
	if n < 0 {
		panic(fmt.Sprintf("dsl: String().%s(%d): length must not be negative", name, n))
	}
	return &n
}

// NumberBuilder configures a number schema.
type NumberBuilder struct {
	node schema.Number
}

// Number starts a number schema with no constraints.
func Number() *NumberBuilder {
	return &NumberBuilder{}
}

// Min sets the inclusive lower bound.
func (b *NumberBuilder) Min(v float64) *NumberBuilder {
	b.node.Min = &v
	return b
}

// Max sets the inclusive upper bound.
func (b *NumberBuilder) Max(v float64) *NumberBuilder {
	b.node.Max = &v
	return b
}

// Integer rejects values with a fractional part.
func (b *NumberBuilder) Integer() *NumberBuilder {
	b.node.Integer = true
	return b
}

// Positive rejects values <= 0.
func (b *NumberBuilder) Positive() *NumberBuilder {
	b.node.Positive = true
	return b
}

// UI attaches rendering hints.
func (b *NumberBuilder) UI(ui schema.UI) *NumberBuilder {
	b.node.UI = &ui
	return b
}

// Messages overrides the default messages.
func (b *NumberBuilder) Messages(m schema.NumberMessages) *NumberBuilder {
	b.node.Messages = &m
	return b
}

// Build returns a copy of the configured schema.
func (b *NumberBuilder) Build() schema.Schema {
	return schema.Clone(&b.node)
}

// BooleanBuilder configures a boolean schema.
type BooleanBuilder struct {
	node schema.Boolean
}

// Boolean starts a boolean schema.
func Boolean() *BooleanBuilder {
	return &BooleanBuilder{}
}

// UI attaches rendering hints.
func (b *BooleanBuilder) UI(ui schema.UI) *BooleanBuilder {
	b.node.UI = &ui
	return b
}

// Messages overrides the default messages.
func (b *BooleanBuilder) Messages(m schema.BooleanMessages) *BooleanBuilder {
	b.node.Messages = &m
	return b
}

// Build returns a copy of the configured schema.
func (b *BooleanBuilder) Build() schema.Schema {
	return schema.Clone(&b.node)
}
