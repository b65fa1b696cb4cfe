package components

import (
	"strings"

	"github.com/artpar/hooklens/internal/core"
	"github.com/charmbracelet/lipgloss"
)

// PayloadHighlighter colors pretty-printed JSON payloads. Text that is not
// JSON is shown verbatim.
type PayloadHighlighter struct {
	keyStyle     lipgloss.Style
	stringStyle  lipgloss.Style
	numberStyle  lipgloss.Style
	literalStyle lipgloss.Style
	punctStyle   lipgloss.Style
	rawStyle     lipgloss.Style
}

// NewPayloadHighlighter creates a highlighter with the default palette.
func NewPayloadHighlighter() *PayloadHighlighter {
	return &PayloadHighlighter{
		keyStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")), // Purple
		stringStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // Green
		numberStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Orange
		literalStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue
		punctStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		rawStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// Lines formats text for display, one entry per output line.
func (h *PayloadHighlighter) Lines(text string) []string {
	if !core.IsJSON(text) {
		lines := strings.Split(text, "\n")
		for i, l := range lines {
			lines[i] = h.rawStyle.Render(l)
		}
		return lines
	}

	lines := strings.Split(core.PrettyField(text), "\n")
	for i, l := range lines {
		lines[i] = h.highlightLine(l)
	}
	return lines
}

// Block renders a labelled payload section with a copy hint.
func (h *PayloadHighlighter) Block(field core.Field, copyKey, text string, width int) []string {
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	out := []string{labelStyle.Render(field.Label()+":") + "  " + hintStyle.Render("["+copyKey+"] copy")}
	gutter := hintStyle.Render("│ ")
	for _, l := range h.Lines(text) {
		if width > 4 && lipgloss.Width(l) > width-2 {
			l = lipgloss.NewStyle().MaxWidth(width - 2).Render(l)
		}
		out = append(out, gutter+l)
	}
	return out
}

// highlightLine colors one line of indented JSON.
func (h *PayloadHighlighter) highlightLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	var sb strings.Builder
	sb.WriteString(indent)

	chars := []rune(trimmed)
	for i := 0; i < len(chars); {
		ch := chars[i]
		switch {
		case ch == '"':
			end := scanString(chars, i)
			str := string(chars[i:end])
			if end < len(chars) && chars[end] == ':' {
				sb.WriteString(h.keyStyle.Render(str))
			} else {
				sb.WriteString(h.stringStyle.Render(str))
			}
			i = end

		case ch == '{' || ch == '}' || ch == '[' || ch == ']' || ch == ':' || ch == ',':
			sb.WriteString(h.punctStyle.Render(string(ch)))
			i++

		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(chars) && strings.ContainsRune("0123456789.eE+-", chars[end]) {
				end++
			}
			sb.WriteString(h.numberStyle.Render(string(chars[i:end])))
			i = end

		case ch >= 'a' && ch <= 'z':
			end := i
			for end < len(chars) && chars[end] >= 'a' && chars[end] <= 'z' {
				end++
			}
			sb.WriteString(h.literalStyle.Render(string(chars[i:end])))
			i = end

		default:
			sb.WriteRune(ch)
			i++
		}
	}

	return sb.String()
}

// scanString returns the index just past the closing quote of the string
// starting at start.
func scanString(chars []rune, start int) int {
	i := start + 1
	for i < len(chars) {
		switch chars[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1
		}
		i++
	}
	return len(chars)
}
