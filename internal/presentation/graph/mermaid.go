package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/formcheck/pkg/schema"
)

// ErrorOverlay marks the fields that failed validation.
type ErrorOverlay struct {
	Errors []schema.ValidationError
}

func (o *ErrorOverlay) failed(path []string) bool {
	if o == nil {
		return false
	}
	key := strings.Join(path, ".")
	for _, e := range o.Errors {
		if e.PathString() == key {
			return true
		}
	}
	return false
}

// GenerateMermaid produces a Mermaid flowchart of the schema tree.
// Shapes follow the node kind:
// - Object: [Rectangle]
// - String: (Rounded)
// - Number: {{Hexagon}}
// - Boolean: [/Parallelogram/]
// Nodes named by the overlay are styled as failed.
func GenerateMermaid(s schema.Schema, overlay *ErrorOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var failed []string
	_ = schema.Walk(s, func(path []string, node schema.Schema) error {
		id := nodeID(path)

		opener, closer := "[", "]"
		switch node.Kind() {
		case schema.KindString:
			opener, closer = "(", ")"
		case schema.KindNumber:
			opener, closer = "{{", "}}"
		case schema.KindBoolean:
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(path, node), closer)

		if len(path) > 0 {
			fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(path[:len(path)-1]), id)
		}
		if overlay.failed(path) {
			failed = append(failed, id)
		}
		return nil
	})

	if len(failed) > 0 {
		sb.WriteString("\n    classDef failed fill:#fee2e2,stroke:#dc2626,stroke-width:2px\n")
		fmt.Fprintf(&sb, "    class %s failed\n", strings.Join(failed, ","))
	}

	return sb.String()
}

func label(path []string, node schema.Schema) string {
	name := "root"
	if len(path) > 0 {
		name = path[len(path)-1]
	}
	text := fmt.Sprintf("%s: %s", name, node.Kind())
	if c := constraints(node); c != "" {
		text += " <br/> " + c
	}
	return strings.ReplaceAll(text, "\"", "'")
}

func constraints(node schema.Schema) string {
	var parts []string
	switch n := node.(type) {
	case *schema.String:
		if n.Min != nil {
			parts = append(parts, fmt.Sprintf("min %d", *n.Min))
		}
		if n.Max != nil {
			parts = append(parts, fmt.Sprintf("max %d", *n.Max))
		}
		if n.Email {
			parts = append(parts, "email")
		}
		if n.URL {
			parts = append(parts, "url")
		}
		if n.Pattern != nil {
			parts = append(parts, "pattern")
		}
	case *schema.Number:
		if n.Min != nil {
			parts = append(parts, fmt.Sprintf("min %g", *n.Min))
		}
		if n.Max != nil {
			parts = append(parts, fmt.Sprintf("max %g", *n.Max))
		}
		if n.Integer {
			parts = append(parts, "integer")
		}
		if n.Positive {
			parts = append(parts, "positive")
		}
	}
	return strings.Join(parts, ", ")
}

// nodeID derives a Mermaid-safe identifier from a schema path.
func nodeID(path []string) string {
	if len(path) == 0 {
		return "root"
	}
	var sb strings.Builder
	sb.WriteString("root")
	for _, seg := range path {
		sb.WriteString("__")
		for _, r := range seg {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				sb.WriteRune(r)
			} else {
				sb.WriteString("_")
			}
		}
	}
	return sb.String()
}
