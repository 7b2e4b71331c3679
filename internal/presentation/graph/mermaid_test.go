package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/formcheck/internal/presentation/graph"
	"github.com/aretw0/formcheck/pkg/schema"
)

func signup() schema.Schema {
	return &schema.Object{Shape: map[string]schema.Schema{
		"email":     &schema.String{Email: true, Min: schema.Ptr(3)},
		"age":       &schema.Number{Min: schema.Ptr(18.0), Integer: true},
		"terms":     &schema.Boolean{},
		"home page": &schema.String{URL: true},
		"address": &schema.Object{Shape: map[string]schema.Schema{
			"zip": &schema.String{Pattern: schema.Ptr(`^\d{5}$`)},
		}},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.ErrorOverlay
		contains []string
		absent   []string
	}{
		{
			name: "Shapes",
			contains: []string{
				`root["root: object"]`,
				`root__email("email: string <br/> min 3, email")`,
				`root__age{{"age: number <br/> min 18, integer"}}`,
				`root__terms[/"terms: boolean"/]`,
			},
		},
		{
			name: "Edges",
			contains: []string{
				"root --> root__address",
				"root__address --> root__address__zip",
			},
		},
		{
			name:     "Sanitized IDs",
			contains: []string{`root__home_page("home page: string <br/> url")`},
		},
		{
			name:   "No overlay",
			absent: []string{"classDef failed"},
		},
		{
			name: "Error overlay",
			overlay: &graph.ErrorOverlay{Errors: []schema.ValidationError{
				schema.NewValidationError([]string{"age"}, schema.CodeNumberMin, "too young"),
				schema.NewValidationError([]string{"address", "zip"}, schema.CodeStringPattern, "bad zip"),
			}},
			contains: []string{
				"classDef failed",
				"class root__address__zip,root__age failed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(signup(), tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\ngot:\n%s", want, got)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(got, bad) {
					t.Errorf("expected output not to contain %q\ngot:\n%s", bad, got)
				}
			}
		})
	}
}
