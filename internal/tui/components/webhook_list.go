package components

import (
	"fmt"
	"strings"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/tui"
	"github.com/charmbracelet/lipgloss"
)

// WebhookList renders the webhook cards and tracks the cursor.
type WebhookList struct {
	webhooks []core.Webhook
	cursor   int
	offset   int
	width    int
	height   int
}

// NewWebhookList creates an empty list.
func NewWebhookList() *WebhookList {
	return &WebhookList{}
}

// SetWebhooks replaces the list, keeping the cursor in range.
func (l *WebhookList) SetWebhooks(webhooks []core.Webhook) {
	l.webhooks = webhooks
	l.clamp()
}

// SetSize sets the render area.
func (l *WebhookList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Len returns the number of webhooks.
func (l *WebhookList) Len() int {
	return len(l.webhooks)
}

// Cursor returns the cursor index.
func (l *WebhookList) Cursor() int {
	return l.cursor
}

// MoveUp moves the cursor up.
func (l *WebhookList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down.
func (l *WebhookList) MoveDown() {
	if l.cursor < len(l.webhooks)-1 {
		l.cursor++
	}
}

// Current returns the webhook under the cursor.
func (l *WebhookList) Current() (core.Webhook, bool) {
	if l.cursor < 0 || l.cursor >= len(l.webhooks) {
		return core.Webhook{}, false
	}
	return l.webhooks[l.cursor], true
}

func (l *WebhookList) clamp() {
	if l.cursor >= len(l.webhooks) {
		l.cursor = len(l.webhooks) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// cardHeight is the rendered height of one card including its border.
const cardHeight = 5

// View renders the list.
func (l *WebhookList) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	countStyle := lipgloss.NewStyle().Foreground(tui.ColorMuted)

	header := titleStyle.Render("Your Webhooks") + "  " + countStyle.Render(core.Plural(len(l.webhooks), "webhook"))

	if len(l.webhooks) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", l.renderEmpty())
	}

	visible := len(l.webhooks)
	if l.height > 0 {
		visible = (l.height - 2) / cardHeight
		if visible < 1 {
			visible = 1
		}
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}

	cards := []string{header}
	for i := l.offset; i < len(l.webhooks) && i < l.offset+visible; i++ {
		cards = append(cards, l.renderCard(l.webhooks[i], i == l.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (l *WebhookList) renderCard(w core.Webhook, selected bool) string {
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	badge := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0"))
	if w.IsActive {
		badge = badge.Background(tui.ColorSuccess)
	} else {
		badge = badge.Background(tui.ColorError)
	}
	descStyle := lipgloss.NewStyle().Foreground(tui.ColorText)
	metaStyle := lipgloss.NewStyle().Foreground(tui.ColorMuted)

	inner := l.width - 6
	if inner < 20 {
		inner = 60
	}

	meta := strings.Join([]string{
		w.Endpoint,
		fmt.Sprintf("%d requests", w.TotalRequests),
		core.FormatDate(w.CreatedAt),
	}, " • ")

	lines := []string{
		nameStyle.Render(tui.Truncate(w.Name, inner-12)) + " " + badge.Render(w.StatusLabel()),
		descStyle.Render(tui.Truncate(w.Description, inner)),
		metaStyle.Render(tui.Truncate(meta, inner)),
	}
	return tui.RenderBorder(strings.Join(lines, "\n"), l.width, selected)
}

func (l *WebhookList) renderEmpty() string {
	style := lipgloss.NewStyle().Foreground(tui.ColorMuted)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("No webhooks yet"),
		style.Render("Create your first webhook to get started"),
		"",
		tui.KeyHint("n", "Create Webhook"),
	}
	return strings.Join(lines, "\n")
}
