package command

import (
	"strings"
)

// Command represents a tokenized input line.
type Command struct {
	Name string
	Args []string
	Raw  string
}

// Parse splits a line on whitespace. It reports false for blank input.
func Parse(input string) (Command, bool) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, false
	}
	fields := strings.Fields(raw)
	args := []string{}
	if len(fields) > 1 {
		args = fields[1:]
	}
	return Command{
		Name: fields[0],
		Args: args,
		Raw:  raw,
	}, true
}
