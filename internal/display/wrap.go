package display

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the column headlines wrap at unless told otherwise.
const DefaultWidth = 80

// Wrap word-wraps text at width columns, keeping ANSI escape sequences
// intact. A width of zero or less leaves text on one line.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}

// HeadlinesOpt configures a Headlines.
type HeadlinesOpt func(*Headlines)

// WithWidth sets the wrap column of rendered headlines. Zero disables wrapping.
func WithWidth(width int) HeadlinesOpt {
	return func(h *Headlines) {
		h.width = width
	}
}

// Capitalize returns s with its first character uppercased.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
