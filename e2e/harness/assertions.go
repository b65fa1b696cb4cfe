package harness

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// Assertions checks rendered TUI screens and CLI output.
type Assertions struct {
	t *testing.T
}

// NewAssertions creates an assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// OutputContains asserts the output contains all given strings.
func (a *Assertions) OutputContains(output string, expected ...string) {
	a.t.Helper()
	output = ansi.Strip(output)
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			a.t.Errorf("expected output to contain %q, got:\n%s", exp, truncate(output, 500))
		}
	}
}

// OutputNotContains asserts the output does not contain any of the given strings.
func (a *Assertions) OutputNotContains(output string, unexpected ...string) {
	a.t.Helper()
	output = ansi.Strip(output)
	for _, unexp := range unexpected {
		if strings.Contains(output, unexp) {
			a.t.Errorf("expected output NOT to contain %q, got:\n%s", unexp, truncate(output, 500))
		}
	}
}

// HelpVisible asserts the help overlay is visible.
func (a *Assertions) HelpVisible(output string) {
	a.t.Helper()
	a.OutputContains(output, "Toggle this help")
}

// HelpNotVisible asserts the help overlay is not visible.
func (a *Assertions) HelpNotVisible(output string) {
	a.t.Helper()
	a.OutputNotContains(output, "Toggle this help")
}

// ListScreen asserts the webhook list is rendered with the given names.
func (a *Assertions) ListScreen(output string, names ...string) {
	a.t.Helper()
	a.OutputContains(output, "Your Webhooks")
	a.OutputContains(output, names...)
}

// DetailScreen asserts the detail view of the webhook with publicURL.
func (a *Assertions) DetailScreen(output, publicURL string) {
	a.t.Helper()
	a.OutputContains(output, "Recent Requests", publicURL)
}

// NoErrorToast asserts no error toast is on screen.
func (a *Assertions) NoErrorToast(output string) {
	a.t.Helper()
	output = ansi.Strip(output)
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(strings.TrimSpace(line), "✗ ") {
			a.t.Errorf("unexpected error toast %q in:\n%s", strings.TrimSpace(line), truncate(output, 500))
			return
		}
	}
}

// NoError asserts CLI output carries no error or panic text.
func (a *Assertions) NoError(output string) {
	a.t.Helper()
	for _, ind := range []string{"Error:", "panic:"} {
		if strings.Contains(output, ind) {
			a.t.Errorf("unexpected error in output: found %q in:\n%s", ind, truncate(output, 500))
			return
		}
	}
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
