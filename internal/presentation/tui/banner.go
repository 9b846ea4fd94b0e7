package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Flowline ASCII banner followed by the version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _               _ _            ", "#38bdf8"},
		{"  / _| | _____      _| (_)_ __   ___ ", "#22d3ee"},
		{" | |_| |/ _ \\ \\ /\\ / / | | '_ \\ / _ \\", "#2dd4bf"},
		{" |  _| | (_) \\ V  V /| | | | | |  __/", "#34d399"},
		{" |_| |_|\\___/ \\_/\\_/ |_|_|_| |_|\\___|", "#4ade80"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" v"+version).Faint())
	fmt.Fprintln(w)
}
