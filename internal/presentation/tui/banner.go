package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the formcheck banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Teal to blue, one shade per line.
	lines := []struct{ text, color string }{
		{"   __                           _               _    ", "#2dd4bf"},
		{"  / _| ___  _ __ _ __ ___   ___| |__   ___  ___| | __", "#22d3ee"},
		{" | |_ / _ \\| '__| '_ ` _ \\ / __| '_ \\ / _ \\/ __| |/ /", "#38bdf8"},
		{" |  _| (_) | |  | | | | | | (__| | | |  __/ (__|   < ", "#60a5fa"},
		{" |_|  \\___/|_|  |_| |_| |_|\\___|_| |_|\\___|\\___|_|\\_\\", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
