package components

import (
	"github.com/artpar/hooklens/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Answer is the state of a ConfirmDialog after a key press.
type Answer int

const (
	Pending Answer = iota
	Yes
	No
)

// ConfirmDialog asks a yes/no question about one webhook.
type ConfirmDialog struct {
	prompt string
	id     int64
	name   string
}

// NewDeleteConfirm builds the delete confirmation for a webhook.
func NewDeleteConfirm(id int64, name string) *ConfirmDialog {
	return &ConfirmDialog{
		prompt: `Are you sure you want to delete "` + name + `"?`,
		id:     id,
		name:   name,
	}
}

// Prompt returns the question text.
func (d *ConfirmDialog) Prompt() string {
	return d.prompt
}

// ID returns the id of the webhook in question.
func (d *ConfirmDialog) ID() int64 {
	return d.id
}

// Name returns the name of the webhook in question.
func (d *ConfirmDialog) Name() string {
	return d.name
}

// Update answers on y/n; Esc counts as no. Other keys leave it Pending.
func (d *ConfirmDialog) Update(msg tea.Msg) Answer {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return Pending
	}

	if key.Type == tea.KeyEsc {
		return No
	}
	if key.Type == tea.KeyRunes {
		switch string(key.Runes) {
		case "y", "Y":
			return Yes
		case "n", "N":
			return No
		}
	}
	return Pending
}

// View renders the dialog.
func (d *ConfirmDialog) View(width int) string {
	text := lipgloss.NewStyle().Bold(true).Render(d.prompt)
	hints := tui.JoinHints([]string{tui.KeyHint("y", "Yes"), tui.KeyHint("n", "No")})
	if width <= 0 || width > 70 {
		width = 70
	}
	return tui.RenderBorder(text+"\n\n"+hints, width, true)
}
