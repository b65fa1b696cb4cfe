package views

import (
	"strings"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/tui"
	"github.com/charmbracelet/lipgloss"
)

// View renders the view.
func (v *InspectorView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}

	if v.mode == ModeHelp {
		return v.renderHelp()
	}

	header := v.renderHeader()
	toasts := v.toasts.View(v.width)
	helpBar := v.renderHelpBar()

	bodyHeight := v.height - lipgloss.Height(header) - lipgloss.Height(helpBar)
	if toasts != "" {
		bodyHeight -= lipgloss.Height(toasts)
	}
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	var body string
	switch v.mode {
	case ModeCreate:
		body = v.form.View(v.state.Loading())
	case ModeConfirm:
		if v.confirm != nil {
			body = v.confirm.View(v.width)
		}
	default:
		body = v.renderScreen(bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	parts := []string{header, body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, helpBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *InspectorView) renderScreen(height int) string {
	w, ok := v.state.Selected()
	if !ok {
		v.list.SetSize(v.width, height)
		return v.list.View()
	}

	info := v.renderWebhookInfo(w)
	tableHeight := height - lipgloss.Height(info) - 1
	if v.mode == ModeFilter {
		tableHeight--
	}
	v.table.SetSize(v.width, tableHeight)

	parts := []string{info, ""}
	if v.mode == ModeFilter {
		parts = append(parts, v.filterInput.View())
	}
	parts = append(parts, v.table.View(v.state.Expanded))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *InspectorView) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tui.ColorAccent)
	crumbStyle := lipgloss.NewStyle().Foreground(tui.ColorText)

	title := titleStyle.Render("hooklens")
	if w, ok := v.state.Selected(); ok {
		title += crumbStyle.Render(" › " + w.Name)
	}
	if v.state.Loading() {
		title += " " + v.spinner.View()
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(tui.ColorBorder)
	return barStyle.Render(title)
}

func (v *InspectorView) renderWebhookInfo(w core.Webhook) string {
	labelStyle := lipgloss.NewStyle().Foreground(tui.ColorMuted)
	urlStyle := lipgloss.NewStyle().Foreground(tui.ColorInfo)
	textStyle := lipgloss.NewStyle().Foreground(tui.ColorText)

	lines := []string{
		labelStyle.Render("Webhook URL  ") + urlStyle.Render(v.backend.PublicURL(w.Endpoint)),
	}
	if w.Description != "" {
		lines = append(lines, textStyle.Render(tui.Truncate(w.Description, v.width-2)))
	}

	count := core.Plural(len(v.state.Requests()), "request")
	if !v.filter.Empty() {
		count = core.Plural(v.table.Len(), "request") + " of " + count +
			labelStyle.Render("  filter: "+v.filter.Source())
	}
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Recent Requests")+"  "+labelStyle.Render(count))
	return strings.Join(lines, "\n")
}

// renderHelpBar renders context-sensitive keyboard shortcuts.
func (v *InspectorView) renderHelpBar() string {
	var hints []string

	switch v.mode {
	case ModeCreate:
		hints = []string{
			tui.KeyHint("Tab", "Next field"),
			tui.KeyHint("Enter", "Create"),
			tui.KeyHint("Esc", "Cancel"),
		}
	case ModeConfirm:
		hints = []string{
			tui.KeyHint("y", "Delete"),
			tui.KeyHint("n", "Keep"),
		}
	case ModeFilter:
		hints = []string{
			tui.KeyHint("Enter", "Apply"),
			tui.KeyHint("Esc", "Cancel"),
		}
	default:
		if _, ok := v.state.Selected(); ok {
			hints = []string{
				tui.KeyHint("j/k", "Navigate"),
				tui.KeyHint("Enter", "Expand"),
				tui.KeyHint("1/2/3", "Copy"),
				tui.KeyHint("y", "Copy URL"),
				tui.KeyHint("/", "Filter"),
				tui.KeyHint("r", "Refresh"),
				tui.KeyHint("Esc", "Back"),
			}
		} else {
			hints = []string{
				tui.KeyHint("j/k", "Navigate"),
				tui.KeyHint("Enter", "Open"),
				tui.KeyHint("n", "New"),
				tui.KeyHint("d", "Delete"),
				tui.KeyHint("y", "Copy URL"),
				tui.KeyHint("r", "Refresh"),
			}
		}
		hints = append(hints,
			tui.KeyHint("?", "Help"),
			tui.KeyHint("q", "Quit"),
		)
	}

	barStyle := lipgloss.NewStyle().
		Width(v.width).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	return barStyle.Render(tui.JoinHints(hints))
}

func (v *InspectorView) renderHelp() string {
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(tui.ColorWarn).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(tui.ColorText)

	row := func(key, desc string) string {
		return "  " + keyStyle.Render(key) + descStyle.Render(desc)
	}

	lines := []string{
		sectionStyle.Render("Webhooks"),
		row("j / k", "Move down/up"),
		row("Enter", "Open webhook"),
		row("n", "Create webhook"),
		row("d", "Delete webhook"),
		row("y", "Copy webhook URL"),
		row("r", "Refresh"),
		"",
		sectionStyle.Render("Requests"),
		row("Enter / Space", "Expand or collapse row"),
		row("1 / 2 / 3", "Copy headers, body, query params"),
		row("/", "Filter with a JavaScript expression"),
		row("y", "Copy webhook URL"),
		row("r", "Refresh now"),
		row("Esc", "Back to webhooks"),
		"",
		sectionStyle.Render("General"),
		row("?", "Toggle this help"),
		row("q / Ctrl+C", "Quit"),
	}

	width := v.width
	if width > 64 {
		width = 64
	}
	box := tui.RenderBorder(strings.Join(lines, "\n"), width, true)
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}
