package toast

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var kindIcons = map[Kind]string{
	Success: "✓",
	Error:   "✗",
	Info:    "i",
}

var kindColors = map[Kind]lipgloss.Color{
	Success: lipgloss.Color("34"),
	Error:   lipgloss.Color("160"),
	Info:    lipgloss.Color("33"),
}

// View renders the visible toasts as a stack with the newest at the bottom.
// Older entries are indented and dimmed by their depth.
func (q *Queue) View(width int) string {
	visible := q.Visible()
	if len(visible) == 0 {
		return ""
	}

	lines := make([]string, 0, len(visible))
	for i, t := range visible {
		depth := len(visible) - 1 - i
		lines = append(lines, renderToast(t, depth, width))
	}
	return strings.Join(lines, "\n")
}

func renderToast(t Toast, depth, width int) string {
	color, ok := kindColors[t.Kind]
	if !ok {
		color = kindColors[Info]
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(color).
		Bold(depth == 0).
		Padding(0, 1).
		MarginLeft(depth * 2)
	if depth > 0 {
		style = style.Faint(true)
	}

	text := kindIcons[t.Kind] + " " + t.Message
	if width > 0 {
		limit := width - depth*2 - 2
		if limit > 0 && lipgloss.Width(text) > limit {
			runes := []rune(text)
			if len(runes) > limit {
				text = string(runes[:limit])
			}
		}
	}
	return style.Render(text)
}
