package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/presentation/tui"
	"github.com/aretw0/formcheck/pkg/codec"
	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/aretw0/formcheck/pkg/validate"
)

// ValidateOptions contains the configuration for the validate command.
type ValidateOptions struct {
	SchemaPath string // file, or "-" for stdin
	SchemaName string // stored schema, used when SchemaPath is empty
	ValuePath  string // file, or "-" for stdin
	Path       []string
	JSON       bool
	Color      bool
}

// RunValidate checks one value and prints the report. Malformed value
// text is reported as a parse_error result; schema and I/O problems are
// returned as errors.
func RunValidate(ctx context.Context, v *formcheck.Validator, opts ValidateOptions, stdin io.Reader, out io.Writer) (schema.Result, error) {
	if opts.SchemaPath == "-" && opts.ValuePath == "-" {
		return schema.Result{}, errors.New("schema and value cannot both be read from stdin")
	}

	raw, err := ReadSource(opts.ValuePath, stdin)
	if err != nil {
		return schema.Result{}, err
	}

	var res schema.Result
	value, err := codec.DecodeValue(raw)
	if err != nil {
		res = codec.ParseFailure("Invalid value JSON: " + err.Error())
	} else {
		res, err = validateValue(ctx, v, opts, stdin, value)
		if err != nil && !errors.Is(err, validate.ErrInvalidPath) {
			return schema.Result{}, err
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return res, enc.Encode(res)
	}
	tui.PrintResult(tui.NewOutput(out, opts.Color), res)
	return res, nil
}

func validateValue(ctx context.Context, v *formcheck.Validator, opts ValidateOptions, stdin io.Reader, value any) (schema.Result, error) {
	if opts.SchemaPath == "" {
		if opts.SchemaName == "" {
			return schema.Result{}, errors.New("a schema file or a stored schema name is required")
		}
		return v.ValidateNamed(ctx, opts.SchemaName, value, opts.Path...)
	}

	s, err := LoadSchema(opts.SchemaPath, stdin)
	if err != nil {
		return schema.Result{}, fmt.Errorf("invalid schema: %w", err)
	}
	if len(opts.Path) > 0 {
		return v.ValidateAtPath(ctx, s, value, opts.Path)
	}
	return v.Validate(ctx, s, value), nil
}
