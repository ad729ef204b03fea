package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/aura/pkg/domain"
)

// Markdown formats a reply: the text, then suggestion chips as a list.
// Chips with a link become markdown links.
func Markdown(reply domain.Reply) string {
	var b strings.Builder
	b.WriteString(reply.Text)
	if len(reply.Buttons) > 0 {
		b.WriteString("\n\n")
		for _, btn := range reply.Buttons {
			b.WriteString("- ")
			if btn.URL != "" {
				b.WriteString("[" + btn.Title + "](" + btn.URL + ")")
			} else {
				b.WriteString(btn.Title)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// NewRenderer returns a function that renders replies for the terminal.
// When styled is false, or glamour cannot be initialized, replies are returned as plain markdown.
func NewRenderer(styled bool) func(domain.Reply) string {
	if !styled {
		return Markdown
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Markdown
	}

	return func(reply domain.Reply) string {
		md := Markdown(reply)
		out, err := r.Render(md)
		if err != nil {
			return md
		}
		return out
	}
}
