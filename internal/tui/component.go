package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Component is the interface for top-level TUI views.
type Component interface {
	// Init initializes the component.
	Init() tea.Cmd

	// Update handles messages and returns the updated component.
	Update(msg tea.Msg) (Component, tea.Cmd)

	// View renders the component.
	View() string

	// Title returns the component title.
	Title() string

	// SetSize sets the component dimensions.
	SetSize(width, height int)

	// Width returns the component width.
	Width() int

	// Height returns the component height.
	Height() int
}

// Shared colors.
const (
	ColorAccent  = lipgloss.Color("205")
	ColorMuted   = lipgloss.Color("243")
	ColorText    = lipgloss.Color("252")
	ColorBorder  = lipgloss.Color("240")
	ColorSuccess = lipgloss.Color("34")
	ColorError   = lipgloss.Color("160")
	ColorInfo    = lipgloss.Color("33")
	ColorWarn    = lipgloss.Color("214")
)

// KeyHint renders a "key description" pair for help bars.
func KeyHint(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(ColorWarn).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(ColorText)
	return keyStyle.Render(key) + descStyle.Render(" "+desc)
}

// JoinHints joins key hints with a separator.
func JoinHints(hints []string) string {
	sep := lipgloss.NewStyle().Foreground(ColorBorder).Render(" │ ")
	return strings.Join(hints, sep)
}

// RenderBorder renders content with a rounded border.
func RenderBorder(content string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if width > 4 {
		style = style.Width(width - 2)
	}

	if focused {
		style = style.BorderForeground(ColorAccent)
	} else {
		style = style.BorderForeground(ColorBorder)
	}

	return style.Render(content)
}

// Truncate truncates a string to fit within a width, counting runes.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// PadRight pads a string with spaces to a given rune width, truncating
// longer strings.
func PadRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
