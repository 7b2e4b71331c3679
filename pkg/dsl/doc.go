/*
Package dsl provides a fluent Go API for constructing schemas programmatically.

Instead of writing the JSON or YAML representation by hand, chain constraint
methods on a builder and call Build:

	signup := dsl.Object(dsl.Shape{
		"email": dsl.String().Email().UI(schema.UI{Label: "Email"}),
		"age":   dsl.Number().Min(18).Integer(),
		"terms": dsl.Boolean().Messages(schema.BooleanMessages{InvalidType: "Accept the terms"}),
	}).Build()

	res := validate.Validate(signup, value)

Every Build call returns an independent tree, so one builder can produce
many schemas without them sharing state.
*/
package dsl
