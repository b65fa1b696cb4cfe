package components

import (
	"strings"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/tui"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// CopyKeys maps a key to the payload field it copies from the current row.
var CopyKeys = map[string]core.Field{
	"1": core.FieldHeaders,
	"2": core.FieldBody,
	"3": core.FieldQueryParams,
}

// RequestTable renders captured requests with expandable rows inside a
// scrolling viewport.
type RequestTable struct {
	requests    []core.CapturedRequest
	cursor      int
	width       int
	height      int
	viewport    viewport.Model
	highlighter *PayloadHighlighter
	loc         *time.Location
}

// NewRequestTable creates an empty table rendering times in loc.
func NewRequestTable(loc *time.Location) *RequestTable {
	return &RequestTable{
		viewport:    viewport.New(0, 0),
		highlighter: NewPayloadHighlighter(),
		loc:         loc,
	}
}

// SetRequests replaces the rows, keeping the cursor in range.
func (t *RequestTable) SetRequests(requests []core.CapturedRequest) {
	t.requests = requests
	if t.cursor >= len(requests) {
		t.cursor = len(requests) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// Reset clears rows and scroll position.
func (t *RequestTable) Reset() {
	t.requests = nil
	t.cursor = 0
	t.viewport.SetYOffset(0)
}

// SetSize sets the render area.
func (t *RequestTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
}

// Len returns the number of rows.
func (t *RequestTable) Len() int {
	return len(t.requests)
}

// Requests returns the rows.
func (t *RequestTable) Requests() []core.CapturedRequest {
	return t.requests
}

// Cursor returns the cursor index.
func (t *RequestTable) Cursor() int {
	return t.cursor
}

// MoveUp moves the cursor up.
func (t *RequestTable) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// MoveDown moves the cursor down.
func (t *RequestTable) MoveDown() {
	if t.cursor < len(t.requests)-1 {
		t.cursor++
	}
}

// Current returns the request under the cursor.
func (t *RequestTable) Current() (core.CapturedRequest, bool) {
	if t.cursor < 0 || t.cursor >= len(t.requests) {
		return core.CapturedRequest{}, false
	}
	return t.requests[t.cursor], true
}

const (
	colMethod  = 8
	colIP      = 16
	colAgent   = 28
	colLatency = 10
)

// View renders the table. expanded reports which request ids show their
// payload fields.
func (t *RequestTable) View(expanded func(id int64) bool) string {
	lines, cursorLine := t.render(expanded)
	if len(t.requests) == 0 {
		empty := lipgloss.NewStyle().Foreground(tui.ColorMuted).Render("No requests received yet for this webhook.")
		lines = append(lines, "", empty)
	}

	content := strings.Join(lines, "\n")
	if t.height <= 0 {
		return content
	}

	t.viewport.SetContent(content)
	top := cursorLine
	if t.cursor == 0 {
		top = 0
	}
	switch {
	case top < t.viewport.YOffset:
		t.viewport.SetYOffset(top)
	case cursorLine >= t.viewport.YOffset+t.height:
		t.viewport.SetYOffset(cursorLine - t.height + 1)
	}
	return t.viewport.View()
}

func (t *RequestTable) render(expanded func(id int64) bool) ([]string, int) {
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorMuted)
	rowStyle := lipgloss.NewStyle().Foreground(tui.ColorText)
	cursorStyle := lipgloss.NewStyle().Background(lipgloss.Color("237"))

	lines := []string{headStyle.Render(
		"  " + tui.PadRight("METHOD", colMethod) +
			tui.PadRight("IP ADDRESS", colIP) +
			tui.PadRight("USER AGENT", colAgent) +
			tui.PadRight("RESPONSE", colLatency) +
			"CREATED",
	)}

	cursorLine := 0
	for i, req := range t.requests {
		isOpen := expanded != nil && expanded(req.ID)
		marker := "▸ "
		if isOpen {
			marker = "▾ "
		}

		row := marker +
			methodStyle(req.Method).Render(tui.PadRight(req.Method, colMethod)) +
			rowStyle.Render(tui.PadRight(req.IPAddress, colIP)+
				tui.PadRight(tui.Truncate(req.UserAgent, colAgent-1), colAgent)+
				tui.PadRight(core.FormatResponseTime(req.ResponseTime), colLatency)+
				core.FormatUserDate(req.CreatedAt, t.loc))
		if i == t.cursor {
			cursorLine = len(lines)
			row = cursorStyle.Render(row)
		}
		lines = append(lines, row)

		if isOpen {
			for _, field := range core.PayloadFields {
				for _, l := range t.highlighter.Block(field, copyKeyFor(field), req.Value(field), t.width-4) {
					lines = append(lines, "    "+l)
				}
			}
			lines = append(lines, "")
		}
	}
	return lines, cursorLine
}

func copyKeyFor(field core.Field) string {
	for k, f := range CopyKeys {
		if f == field {
			return k
		}
	}
	return ""
}

func methodStyle(method string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch method {
	case "GET":
		return style.Foreground(tui.ColorInfo)
	case "POST":
		return style.Foreground(tui.ColorSuccess)
	case "PUT":
		return style.Foreground(tui.ColorWarn)
	default:
		return style.Foreground(tui.ColorError)
	}
}
