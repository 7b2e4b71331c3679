package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/formcheck/pkg/schema"
	"github.com/muesli/termenv"
)

// PrintResult writes a human readable report of res to out.
func PrintResult(out *termenv.Output, res schema.Result) {
	if res.Valid() {
		fmt.Fprintln(out, out.String("✔ valid").Foreground(out.Color("#22c55e")).Bold())
		return
	}

	noun := "errors"
	if len(res.Errors) == 1 {
		noun = "error"
	}
	fmt.Fprintln(out, out.String(fmt.Sprintf("✘ %d %s", len(res.Errors), noun)).Foreground(out.Color("#ef4444")).Bold())
	for _, e := range res.Errors {
		field := e.PathString()
		if field == "" {
			field = "(root)"
		}
		fmt.Fprintf(out, "  %s %s %s\n",
			out.String(field).Bold(),
			out.String("["+e.Code+"]").Faint(),
			e.Message,
		)
	}
}

// NewOutput wraps w, dropping colors unless color is set.
func NewOutput(w io.Writer, color bool) *termenv.Output {
	if !color {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}
