package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/formcheck/pkg/schema"
)

// SchemaMarkdown documents s as a markdown table, one row per node.
func SchemaMarkdown(title string, s schema.Schema) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if ui := s.UIConfig(); ui != nil && ui.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", ui.Description)
	}

	sb.WriteString("| Field | Type | Constraints | Label |\n")
	sb.WriteString("|---|---|---|---|\n")
	_ = schema.Walk(s, func(path []string, node schema.Schema) error {
		field := "(root)"
		if len(path) > 0 {
			field = "`" + strings.Join(path, ".") + "`"
		}
		label := ""
		if ui := node.UIConfig(); ui != nil {
			label = ui.Label
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", field, node.Kind(), cell(describeConstraints(node)), cell(label))
		return nil
	})
	return sb.String()
}

func describeConstraints(node schema.Schema) string {
	var parts []string
	switch n := node.(type) {
	case *schema.String:
		if n.Min != nil {
			parts = append(parts, fmt.Sprintf("min length %d", *n.Min))
		}
		if n.Max != nil {
			parts = append(parts, fmt.Sprintf("max length %d", *n.Max))
		}
		if n.Email {
			parts = append(parts, "email")
		}
		if n.URL {
			parts = append(parts, "url")
		}
		if n.Pattern != nil {
			parts = append(parts, "pattern `"+*n.Pattern+"`")
		}
	case *schema.Number:
		if n.Min != nil {
			parts = append(parts, fmt.Sprintf(">= %g", *n.Min))
		}
		if n.Max != nil {
			parts = append(parts, fmt.Sprintf("<= %g", *n.Max))
		}
		if n.Integer {
			parts = append(parts, "integer")
		}
		if n.Positive {
			parts = append(parts, "positive")
		}
	case *schema.Object:
		parts = append(parts, fmt.Sprintf("%d required fields", len(n.Shape)))
	}
	return strings.Join(parts, ", ")
}

// cell escapes the table separator.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
