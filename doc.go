/*
Package formcheck validates JSON-like values against declarative schemas and
reports every violation with the path of the offending field.

# Concept

A schema is a tree of four node kinds: string, number, boolean and object.
Each node carries optional constraints (min, max, email, url, pattern,
integer, positive), optional UI hints for form rendering and optional message
overrides. Validation walks the value alongside the schema and collects all
errors instead of stopping at the first one.

# Packages

  - pkg/schema: the schema model, results, parsing from JSON, YAML and maps.
  - pkg/validate: the engine (Validate, ValidateAtPath).
  - pkg/dsl: fluent builders for schemas in Go code.
  - pkg/codec: the JSON text boundary.
  - pkg/form: form state (values, touched flags, per-field errors).
  - pkg/ports and adapters: named schema registries (memory, file, Redis).

This package ties them together: a Validator adds logging, lifecycle hooks
and a schema registry on top of the engine.

# Usage

	v := formcheck.New(formcheck.WithLogger(logger))

	signup := dsl.Object(dsl.Shape{
		"email": dsl.String().Email(),
		"age":   dsl.Number().Min(18).Integer(),
	}).Build()

	res := v.Validate(ctx, signup, map[string]any{"email": "bad", "age": 17})
	for _, e := range res.Errors {
		fmt.Println(e.PathString(), e.Code, e.Message)
	}

Named schemas are saved once and validated by name afterwards:

	_ = v.SaveSchema(ctx, "signup", signup)
	res, err := v.ValidateNamed(ctx, "signup", value)
*/
package formcheck
