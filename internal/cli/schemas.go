package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/formcheck"
)

// PutSchema parses the schema file and stores it under name.
func PutSchema(ctx context.Context, v *formcheck.Validator, name, path string, stdin io.Reader) error {
	s, err := LoadSchema(path, stdin)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return v.SaveSchema(ctx, name, s)
}

// ListSchemas prints one stored name per line.
func ListSchemas(ctx context.Context, v *formcheck.Validator, out io.Writer) error {
	names, err := v.ListSchemas(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
