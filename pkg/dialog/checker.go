package dialog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultIntHelp is appended to the re-prompt when a number was expected.
const DefaultIntHelp = " Укажите число"

// Checker validates a raw utterance.
// Check returns the canonical value and true, or false when the answer is not recognized.
type Checker interface {
	Check(utterance string) (any, bool)
	Help() string
}

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// asciiDigits maps decimal digits of any script to 0-9.
// Nd code points come in contiguous ascending blocks of ten starting at zero.
func asciiDigits(run string) string {
	var b strings.Builder
	for _, r := range run {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		start := r
		for unicode.IsDigit(start - 1) {
			start--
		}
		b.WriteByte(byte('0' + (r-start)%10))
	}
	return b.String()
}

// IntChecker extracts the first run of decimal digits (any script) and optionally enforces inclusive bounds.
type IntChecker struct {
	min, max *int
	help     string
}

// IntOption configures an IntChecker.
type IntOption func(*IntChecker)

// MinValue rejects numbers below n.
func MinValue(n int) IntOption {
	return func(c *IntChecker) { c.min = &n }
}

// MaxValue rejects numbers above n.
func MaxValue(n int) IntOption {
	return func(c *IntChecker) { c.max = &n }
}

// IntHelp overrides DefaultIntHelp.
func IntHelp(help string) IntOption {
	return func(c *IntChecker) { c.help = help }
}

// NewIntChecker creates an integer extractor.
func NewIntChecker(opts ...IntOption) *IntChecker {
	c := &IntChecker{help: DefaultIntHelp}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the first integer found in the utterance.
func (c *IntChecker) Check(utterance string) (any, bool) {
	run := digitRun.FindString(utterance)
	if run == "" {
		return nil, false
	}
	value, err := strconv.Atoi(asciiDigits(run))
	if err != nil {
		// Too many digits to fit an int.
		return nil, false
	}
	if c.min != nil && value < *c.min {
		return nil, false
	}
	if c.max != nil && value > *c.max {
		return nil, false
	}
	return value, true
}

func (c *IntChecker) Help() string { return c.help }

// ChoiceChecker accepts one of a fixed set of answers.
// Each group lists synonyms; the first member of a group is the canonical value.
// Matching ignores case, surrounding whitespace and the ё/е distinction.
type ChoiceChecker struct {
	variants map[string]string
	help     string
}

// NewChoiceChecker builds a matcher from synonym groups. Empty groups are ignored.
func NewChoiceChecker(help string, groups ...[]string) *ChoiceChecker {
	variants := make(map[string]string)
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		canonical := group[0]
		for _, v := range group {
			variants[normalize(v)] = canonical
		}
	}
	return &ChoiceChecker{variants: variants, help: help}
}

// Check returns the canonical form of a known synonym.
func (c *ChoiceChecker) Check(utterance string) (any, bool) {
	canonical, ok := c.variants[normalize(utterance)]
	if !ok {
		return nil, false
	}
	return canonical, true
}

func (c *ChoiceChecker) Help() string { return c.help }

func normalize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(s)), "ё", "е")
}
