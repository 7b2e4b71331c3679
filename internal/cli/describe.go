package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/formcheck"
	"github.com/aretw0/formcheck/internal/presentation/graph"
	"github.com/aretw0/formcheck/internal/presentation/tui"
	"github.com/aretw0/formcheck/pkg/codec"
	"github.com/aretw0/formcheck/pkg/schema"
	"gopkg.in/yaml.v3"
)

// DescribeOptions contains the configuration for the describe command.
type DescribeOptions struct {
	SchemaPath string
	SchemaName string
	Format     string // markdown, mermaid, json or yaml
	ValuePath  string // optional; marks failing fields in mermaid output
	Styled     bool
}

// RunDescribe prints a schema in the requested format.
func RunDescribe(ctx context.Context, v *formcheck.Validator, opts DescribeOptions, stdin io.Reader, out io.Writer) error {
	s, title, err := resolveSchema(ctx, v, opts.SchemaPath, opts.SchemaName, stdin)
	if err != nil {
		return err
	}

	switch opts.Format {
	case "", "markdown":
		render, err := tui.NewRenderer(opts.Styled)
		if err != nil {
			return fmt.Errorf("failed to init renderer: %w", err)
		}
		text, err := render(tui.SchemaMarkdown(title, s))
		if err != nil {
			return fmt.Errorf("failed to render schema: %w", err)
		}
		_, err = io.WriteString(out, text)
		return err

	case "mermaid":
		var overlay *graph.ErrorOverlay
		if opts.ValuePath != "" {
			raw, err := ReadSource(opts.ValuePath, stdin)
			if err != nil {
				return err
			}
			value, err := codec.DecodeValue(raw)
			if err != nil {
				return fmt.Errorf("invalid value JSON: %w", err)
			}
			overlay = &graph.ErrorOverlay{Errors: v.Validate(ctx, s, value).Errors}
		}
		_, err := io.WriteString(out, graph.GenerateMermaid(s, overlay))
		return err

	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(schema.Document{Schema: s})

	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(schema.Document{Schema: s}); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want markdown, mermaid, json or yaml)", opts.Format)
}

func resolveSchema(ctx context.Context, v *formcheck.Validator, path, name string, stdin io.Reader) (schema.Schema, string, error) {
	if path == "" {
		if name == "" {
			return nil, "", fmt.Errorf("a schema file or a stored schema name is required")
		}
		s, err := v.LoadSchema(ctx, name)
		if err != nil {
			return nil, "", fmt.Errorf("load schema %q: %w", name, err)
		}
		return s, name, nil
	}

	s, err := LoadSchema(path, stdin)
	if err != nil {
		return nil, "", fmt.Errorf("invalid schema: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if path == "-" {
		title = "stdin"
	}
	return s, title, nil
}
