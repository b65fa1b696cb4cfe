package components

import (
	"strings"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/tui"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FormAction is what a message asked the create form to do.
type FormAction int

const (
	FormEditing FormAction = iota
	FormSubmit
	FormCancel
)

const (
	fieldName = iota
	fieldDescription
	fieldSecret
	fieldCount
)

var formLabels = [fieldCount]string{"Name *", "Description", "Secret"}

// CreateForm collects the fields of a new webhook.
type CreateForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	width  int
}

// NewCreateForm creates an empty form focused on the name field.
func NewCreateForm() *CreateForm {
	f := &CreateForm{}

	name := textinput.New()
	name.Placeholder = "My Webhook"
	name.CharLimit = 128

	desc := textinput.New()
	desc.Placeholder = "Description of your webhook"
	desc.CharLimit = 512

	secret := textinput.New()
	secret.Placeholder = "Optional webhook secret"
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '•'

	f.inputs = [fieldCount]textinput.Model{name, desc, secret}
	f.setFocus(fieldName)
	return f
}

// Reset clears every field and refocuses the name.
func (f *CreateForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.setFocus(fieldName)
}

// SetWidth sets the render width.
func (f *CreateForm) SetWidth(width int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = width - 8
	}
}

// SetCursorMode sets the cursor mode of every field.
func (f *CreateForm) SetCursorMode(mode cursor.Mode) {
	for i := range f.inputs {
		f.inputs[i].Cursor.SetMode(mode)
	}
}

// Input returns the current field values.
func (f *CreateForm) Input() core.CreateWebhookInput {
	return core.CreateWebhookInput{
		Name:        f.inputs[fieldName].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Secret:      f.inputs[fieldSecret].Value(),
	}
}

// SetInput fills the form.
func (f *CreateForm) SetInput(in core.CreateWebhookInput) {
	f.inputs[fieldName].SetValue(in.Name)
	f.inputs[fieldDescription].SetValue(in.Description)
	f.inputs[fieldSecret].SetValue(in.Secret)
}

// Focus focuses the current field and starts its cursor blink.
func (f *CreateForm) Focus() tea.Cmd {
	return f.setFocus(f.focus)
}

// Focused returns the index of the focused field.
func (f *CreateForm) Focused() int {
	return f.focus
}

func (f *CreateForm) setFocus(i int) tea.Cmd {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	return f.inputs[i].Focus()
}

// Update handles input. Enter and Esc are reported as FormSubmit and
// FormCancel for the caller to act on before the next message.
func (f *CreateForm) Update(msg tea.Msg) (FormAction, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return FormCancel, nil

		case tea.KeyEnter:
			return FormSubmit, nil

		case tea.KeyTab, tea.KeyDown:
			return FormEditing, f.setFocus((f.focus + 1) % fieldCount)

		case tea.KeyShiftTab, tea.KeyUp:
			return FormEditing, f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return FormEditing, cmd
}

// View renders the form as a modal box.
func (f *CreateForm) View(loading bool) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	labelStyle := lipgloss.NewStyle().Foreground(tui.ColorText)

	lines := []string{titleStyle.Render("Create New Webhook"), ""}
	for i, in := range f.inputs {
		label := formLabels[i]
		if i == f.focus {
			label = lipgloss.NewStyle().Foreground(tui.ColorAccent).Bold(true).Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		lines = append(lines, label, in.View(), "")
	}

	submit := tui.KeyHint("Enter", "Create")
	if loading {
		submit = tui.KeyHint("Enter", "Creating...")
	}
	lines = append(lines, tui.JoinHints([]string{
		tui.KeyHint("Tab", "Next field"),
		submit,
		tui.KeyHint("Esc", "Cancel"),
	}))

	width := f.width
	if width <= 0 || width > 70 {
		width = 70
	}
	return tui.RenderBorder(strings.Join(lines, "\n"), width, true)
}
