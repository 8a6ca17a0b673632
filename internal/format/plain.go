package format

import (
	"strings"

	"pkt.systems/matrixterm/schema"
)

// Bullet prefixes list items.
const Bullet = "•"

// Line is one rendered row before styling.
type Line struct {
	Text   string
	Kind   schema.Kind
	Header bool
}

// Lines lays out a result as rows. List items are bulleted and indented.
// Blocks are laid out in order; an empty paragraph yields an empty row.
// Text is sanitized.
func Lines(res schema.Result) []Line {
	out := make([]Line, 0, len(res.Content))
	for _, block := range res.Content {
		switch block.Type {
		case schema.BlockHeader:
			out = append(out, Line{Text: Sanitize(block.Text), Kind: res.Kind, Header: true})
		case schema.BlockParagraph:
			for _, text := range splitLines(block.Text) {
				out = append(out, Line{Text: Sanitize(text), Kind: res.Kind})
			}
		case schema.BlockList:
			for _, item := range block.Items {
				out = append(out, Line{Text: "  " + Bullet + " " + Sanitize(item), Kind: res.Kind})
			}
		}
	}
	return out
}

// PlainText renders results without styling, one row per line.
func PlainText(results ...schema.Result) string {
	var b strings.Builder
	for _, res := range results {
		for _, line := range Lines(res) {
			b.WriteString(line.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
