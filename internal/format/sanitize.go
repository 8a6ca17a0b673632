package format

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize strips escape sequences and control characters so that page
// content and user input cannot drive the remote terminal. Tabs expand to
// four spaces.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	text = ansi.Strip(strings.ReplaceAll(text, "\t", "    "))
	var b strings.Builder
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Truncate cuts styled text to width terminal cells, keeping escape
// sequences intact.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(text, width, "")
}
