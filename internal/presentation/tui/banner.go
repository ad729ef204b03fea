package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the console banner in a soft blue gradient.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"    _                    ", "#93c5fd"},
		{"   /_\\  _  _ _ _ __ _   ", "#7dd3fc"},
		{"  / _ \\| || | '_/ _` |  ", "#67e8f9"},
		{" /_/ \\_\\\\_,_|_| \\__,_|  ", "#5eead4"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  mattress advisor v"+version).Faint())
	fmt.Fprintln(w)
}
