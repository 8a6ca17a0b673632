package sshserver

import (
	"fmt"
	"io"
	"strings"
)

type screen struct {
	out io.Writer
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

// EnterAltScreen switches to the alternate buffer and enables focus
// reporting.
func (s *screen) EnterAltScreen() {
	_, _ = io.WriteString(s.out, "\x1b[?1049h\x1b[?1004h\x1b[H\x1b[2J")
}

func (s *screen) ExitAltScreen() {
	_, _ = io.WriteString(s.out, "\x1b[?1004l\x1b[?1049l\x1b[?25h")
}

// Render redraws the whole screen. The hardware cursor stays hidden; the
// input row draws its own.
func (s *screen) Render(lines []string) error {
	var b strings.Builder
	b.WriteString("\x1b[?25l")
	b.WriteString("\x1b[H")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
		b.WriteString("\x1b[K")
	}
	b.WriteString("\x1b[J")
	b.WriteString(fmt.Sprintf("\x1b[%d;1H", len(lines)))
	_, err := io.WriteString(s.out, b.String())
	return err
}
