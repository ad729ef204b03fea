package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/aura/pkg/domain"
)

func TestMarkdown(t *testing.T) {
	got := Markdown(domain.Reply{
		Text: "Я подобрала вам такие модели",
		Buttons: []domain.Button{
			{Title: "Лев", URL: "https://auramattress.ru/matrasy/matras-leo-lev-trikotazh/", Hide: true},
			{Title: "Звонок", Hide: true},
		},
	})
	assert.Equal(t, "Я подобрала вам такие модели\n\n"+
		"- [Лев](https://auramattress.ru/matrasy/matras-leo-lev-trikotazh/)\n"+
		"- Звонок\n", got)

	assert.Equal(t, "Привет", Markdown(domain.Reply{Text: "Привет"}))
}

func TestNewRenderer(t *testing.T) {
	plain := NewRenderer(false)
	assert.Equal(t, "Привет", plain(domain.Reply{Text: "Привет"}))

	styled := NewRenderer(true)
	assert.Contains(t, styled(domain.Reply{Text: "Привет"}), "Привет")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.97")
	assert.Contains(t, buf.String(), "mattress advisor v0.97")
}
