// Package schema defines the declarative shapes that values are validated
// against, and the error types validation produces.
//
// A Schema is one of four variants:
//
//	&schema.String{Min: schema.Ptr(3), Email: true}
//	&schema.Number{Min: schema.Ptr(0.0), Integer: true}
//	&schema.Boolean{}
//	&schema.Object{Shape: map[string]schema.Schema{
//	    "name": &schema.String{Min: schema.Ptr(1)},
//	}}
//
// Every variant may carry UI hints for form rendering and per-failure
// message overrides. Neither affects the validation outcome.
//
// Schemas are usually authored as JSON or YAML using a "type" discriminator:
//
//	{"type": "object", "shape": {
//	    "email": {"type": "string", "email": true,
//	              "messages": {"email": "Please enter a valid email"}}
//	}}
//
// and decoded with ParseJSON, ParseYAML, LoadFile or FromMap. Decoding is
// strict: unknown keys, unknown kinds and ill-typed constraints yield an
// error matching ErrParse.
//
// The package has no behavior beyond representation; see package validate
// for the engine.
package schema
