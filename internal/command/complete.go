package command

import (
	"strings"

	"pkt.systems/matrixterm/schema"
)

const maxSuggestions = 3

// Names lists the commands in declaration order.
var Names = []string{"help", "setname", "ls", "cat", "cd", "rm", "clear", "close"}

// Suggestions returns up to three commands resembling input. A command
// qualifies when it starts with input or input starts with its first two
// characters.
func Suggestions(input string) []string {
	out := []string{}
	for _, name := range Names {
		if strings.HasPrefix(name, input) || strings.HasPrefix(input, name[:min(2, len(name))]) {
			out = append(out, name)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Autocomplete returns completion candidates for a raw input line. One
// token completes command names; two tokens complete page names after
// cat or cd. Anything else yields no candidates.
func Autocomplete(input string) []string {
	parts := strings.Fields(input)
	out := []string{}
	switch len(parts) {
	case 1:
		prefix := strings.ToLower(parts[0])
		for _, name := range Names {
			if strings.HasPrefix(name, prefix) {
				out = append(out, name)
			}
		}
	case 2:
		cmd := strings.ToLower(parts[0])
		if cmd != "cat" && cmd != "cd" {
			return out
		}
		prefix := strings.ToLower(parts[1])
		for _, page := range schema.TerminalPageNames() {
			if strings.HasPrefix(page, prefix) {
				out = append(out, page)
			}
		}
	}
	return out
}

// Complete substitutes candidate into input according to its token count.
func Complete(input, candidate string) string {
	parts := strings.Fields(input)
	if len(parts) == 2 {
		return parts[0] + " " + candidate
	}
	return candidate
}
