package dialog_test

import (
	"testing"

	"github.com/aretw0/aura/pkg/dialog"
	"github.com/stretchr/testify/assert"
)

func TestIntChecker(t *testing.T) {
	tests := []struct {
		name      string
		checker   *dialog.IntChecker
		utterance string
		want      any
		ok        bool
	}{
		{"plain number", dialog.NewIntChecker(), "45", 45, true},
		{"number inside text", dialog.NewIntChecker(), "вешу 82 кило", 82, true},
		{"first run wins", dialog.NewIntChecker(), "70-100", 70, true},
		{"no digits", dialog.NewIntChecker(), "много", nil, false},
		{"empty", dialog.NewIntChecker(), "", nil, false},
		{"below min", dialog.NewIntChecker(dialog.MinValue(30)), "29", nil, false},
		{"min is inclusive", dialog.NewIntChecker(dialog.MinValue(30)), "30", 30, true},
		{"above max", dialog.NewIntChecker(dialog.MaxValue(200)), "201", nil, false},
		{"max is inclusive", dialog.NewIntChecker(dialog.MaxValue(200)), "200", 200, true},
		{"overflow", dialog.NewIntChecker(), "99999999999999999999999", nil, false},
		{"arabic-indic digits", dialog.NewIntChecker(), "وزني ٤٥", 45, true},
		{"devanagari digits", dialog.NewIntChecker(dialog.MinValue(30)), "७०", 70, true},
		{"fullwidth digits", dialog.NewIntChecker(), "８０kg", 80, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.checker.Check(tt.utterance)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntChecker_Help(t *testing.T) {
	assert.Equal(t, dialog.DefaultIntHelp, dialog.NewIntChecker().Help())
	assert.Equal(t, " Назовите вес", dialog.NewIntChecker(dialog.IntHelp(" Назовите вес")).Help())
}

func TestChoiceChecker(t *testing.T) {
	checker := dialog.NewChoiceChecker("",
		[]string{"да", "ага", "ну да", "Звонок"},
		[]string{"нет", "неа", "не знаю"},
		[]string{"жёсткий"},
	)

	t.Run("every synonym maps to the first member", func(t *testing.T) {
		for _, v := range []string{"да", "ага", "ну да", "Звонок"} {
			got, ok := checker.Check(v)
			assert.True(t, ok, v)
			assert.Equal(t, "да", got, v)
		}
		for _, v := range []string{"нет", "неа", "не знаю"} {
			got, ok := checker.Check(v)
			assert.True(t, ok, v)
			assert.Equal(t, "нет", got, v)
		}
	})

	t.Run("case and whitespace are ignored", func(t *testing.T) {
		got, ok := checker.Check("  НЕТ ")
		assert.True(t, ok)
		assert.Equal(t, "нет", got)

		got, ok = checker.Check("звонок")
		assert.True(t, ok)
		assert.Equal(t, "да", got)
	})

	t.Run("yo and ye are equivalent", func(t *testing.T) {
		for _, v := range []string{"жёсткий", "жесткий", "ЖЁСТКИЙ", "Жесткий"} {
			got, ok := checker.Check(v)
			assert.True(t, ok, v)
			assert.Equal(t, "жёсткий", got, "canonical keeps the spelling it was declared with")
		}
	})

	t.Run("unknown answer", func(t *testing.T) {
		_, ok := checker.Check("возможно")
		assert.False(t, ok)
	})
}

func TestChoiceChecker_EmptyGroupIgnored(t *testing.T) {
	checker := dialog.NewChoiceChecker(" Скажите да или нет", []string{}, []string{"да"})

	got, ok := checker.Check("да")
	assert.True(t, ok)
	assert.Equal(t, "да", got)
	assert.Equal(t, " Скажите да или нет", checker.Help())
}
