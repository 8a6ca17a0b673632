package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/muesli/termenv"

	"pkt.systems/matrixterm/schema"
)

// Renderer styles results for a terminal with a known color profile.
type Renderer struct {
	theme  Theme
	styles map[schema.Kind]lipgloss.Style
	header lipgloss.Style
	prompt lipgloss.Style
	hint   lipgloss.Style
	cursor lipgloss.Style
	block  lipgloss.Style
	notice lipgloss.Style
	title  lipgloss.Style
}

// NewRenderer returns a renderer for the given profile and theme.
func NewRenderer(profile termenv.Profile, theme Theme) *Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(profile)
	lr.SetHasDarkBackground(true)

	text := lr.NewStyle().Foreground(theme.Text)
	r := &Renderer{
		theme: theme,
		styles: map[schema.Kind]lipgloss.Style{
			schema.KindHelp:      text,
			schema.KindList:      text,
			schema.KindPage:      text,
			schema.KindGreeting:  text,
			schema.KindSuccess:   lr.NewStyle().Foreground(theme.Success),
			schema.KindError:     lr.NewStyle().Foreground(theme.Error),
			schema.KindEasterEgg: lr.NewStyle().Foreground(theme.EasterEgg).Bold(true),
			schema.KindLoading:   lr.NewStyle().Foreground(theme.Dim).Italic(true),
			schema.KindCommand:   lr.NewStyle().Foreground(theme.Command),
		},
		header: lr.NewStyle().Foreground(theme.Header).Bold(true),
		prompt: lr.NewStyle().Foreground(theme.Prompt).Bold(true),
		hint:   lr.NewStyle().Foreground(theme.Dim),
		cursor: lr.NewStyle().Reverse(true),
		block:  lr.NewStyle().Foreground(theme.Text).Blink(true),
		notice: lr.NewStyle().Foreground(theme.EasterEgg).Italic(true),
		title:  lr.NewStyle().Foreground(theme.Text).Background(theme.Border).Bold(true),
	}
	return r
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render lays out and styles a result, wrapping rows at width.
func (r *Renderer) Render(res schema.Result, width int) []string {
	style, ok := r.styles[res.Kind]
	if !ok {
		style = r.styles[schema.KindPage]
	}
	out := []string{}
	for _, line := range Lines(res) {
		lineStyle := style
		if line.Header && (res.Kind == schema.KindHelp || res.Kind == schema.KindList || res.Kind == schema.KindPage || res.Kind == schema.KindGreeting) {
			lineStyle = r.header
		}
		for _, row := range Wrap(line.Text, width) {
			if row == "" {
				out = append(out, "")
				continue
			}
			out = append(out, lineStyle.Render(row))
		}
	}
	return out
}

// RenderAll renders results in order.
func (r *Renderer) RenderAll(results []schema.Result, width int) []string {
	out := []string{}
	for _, res := range results {
		out = append(out, r.Render(res, width)...)
	}
	return out
}

// InputLine describes the editable prompt row.
type InputLine struct {
	Prompt  string
	Buffer  string
	Cursor  int
	Hint    string
	Focused bool
	Notice  string
}

// RenderInput styles the prompt row. A focused row highlights the cell
// under the cursor; an unfocused row ends in a block cursor.
func (r *Renderer) RenderInput(in InputLine) string {
	var b strings.Builder
	b.WriteString(r.prompt.Render(in.Prompt))
	b.WriteByte(' ')
	runes := []rune(in.Buffer)
	cursor := in.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	text := r.styles[schema.KindPage]
	if !in.Focused {
		if len(runes) > 0 {
			b.WriteString(text.Render(string(runes)))
		}
		b.WriteString(r.block.Render("█"))
	} else {
		if cursor > 0 {
			b.WriteString(text.Render(string(runes[:cursor])))
		}
		if cursor < len(runes) {
			b.WriteString(r.cursor.Render(string(runes[cursor])))
			if cursor+1 < len(runes) {
				b.WriteString(text.Render(string(runes[cursor+1:])))
			}
		} else if in.Hint != "" {
			hint := []rune(in.Hint)
			b.WriteString(r.cursor.Render(string(hint[0])))
			if len(hint) > 1 {
				b.WriteString(r.hint.Render(string(hint[1:])))
			}
		} else {
			b.WriteString(r.cursor.Render(" "))
		}
	}
	if in.Notice != "" {
		b.WriteString("  ")
		b.WriteString(r.notice.Render(in.Notice))
	}
	return b.String()
}

// RenderSuggestion styles the row under the prompt that names the
// selected completion.
func (r *Renderer) RenderSuggestion(candidate string) string {
	if candidate == "" {
		return ""
	}
	return r.hint.Render("Suggestion: " + candidate)
}

// RenderTitle styles the title bar, padded to width.
func (r *Renderer) RenderTitle(title string, width int) string {
	if width <= 0 {
		return r.title.Render(title)
	}
	return r.title.Width(width).MaxWidth(width).Render(title)
}

// Wrap breaks text into rows no wider than width cells. Words longer than
// width are split. A width of zero or less disables wrapping.
func Wrap(text string, width int) []string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return []string{text}
	}
	wrapped := wrap.String(wordwrap.String(text, width), width)
	return strings.Split(wrapped, "\n")
}

// ProfileForTerm picks a color profile from TERM and COLORTERM values.
func ProfileForTerm(term, colorterm string) termenv.Profile {
	colorterm = strings.ToLower(colorterm)
	if colorterm == "truecolor" || colorterm == "24bit" {
		return termenv.TrueColor
	}
	term = strings.ToLower(term)
	switch {
	case term == "" || term == "dumb":
		return termenv.Ascii
	case strings.Contains(term, "truecolor") || strings.Contains(term, "direct"):
		return termenv.TrueColor
	case strings.Contains(term, "256color"):
		return termenv.ANSI256
	default:
		return termenv.ANSI
	}
}
