package harness

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/artpar/hooklens/internal/api"
	"github.com/artpar/hooklens/internal/location"
	"github.com/artpar/hooklens/internal/location/sqlite"
	"github.com/artpar/hooklens/internal/toast"
	"github.com/artpar/hooklens/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// Clipboard records what the TUI copied.
type Clipboard struct {
	Text string
}

// WriteAll implements views.Clipboard.
func (c *Clipboard) WriteAll(text string) error {
	c.Text = text
	return nil
}

// TUISession represents an active TUI test session. Commands run inline;
// poll ticks are held back until TriggerPoll so tests control time.
type TUISession struct {
	runner    *TUIRunner
	model     *views.InspectorView
	t         *testing.T
	store     location.Store
	clipboard *Clipboard
	polls     []views.PollTickMsg
	quit      bool
}

// Start starts a new TUI session on an empty location.
func (r *TUIRunner) Start(t *testing.T) *TUISession {
	t.Helper()
	return r.StartAt(t, "")
}

// StartAt starts a TUI session deep-linked to endpoint.
func (r *TUIRunner) StartAt(t *testing.T, endpoint string) *TUISession {
	t.Helper()
	return r.StartWithSize(t, endpoint, 120, 40)
}

// StartWithSize starts a TUI session with custom dimensions.
func (r *TUIRunner) StartWithSize(t *testing.T, endpoint string, width, height int) *TUISession {
	t.Helper()

	store, err := sqlite.NewInMemory()
	if err != nil {
		t.Fatalf("Failed to create in-memory location store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	loc := location.New()
	loc.SetEndpoint(endpoint)

	s := &TUISession{
		runner:    r,
		t:         t,
		store:     store,
		clipboard: &Clipboard{},
	}
	s.model = views.NewInspectorView(
		api.NewClient(r.harness.BaseURL(), api.WithLogger(zerolog.Nop())),
		loc,
		views.WithPollInterval(time.Millisecond),
		views.WithToastLifetime(time.Millisecond),
		views.WithClipboard(s.clipboard),
		views.WithLocationStore(store),
		views.WithCursorBlink(false),
		views.WithLogger(zerolog.Nop()),
		views.WithTimezone(time.UTC),
	)
	s.send(tea.WindowSizeMsg{Width: width, Height: height})
	s.executeCmd(s.model.Init())
	return s
}

func (s *TUISession) send(msg tea.Msg) {
	updated, cmd := s.model.Update(msg)
	s.model = updated.(*views.InspectorView)
	s.executeCmd(cmd)
}

// executeCmd executes a tea.Cmd and feeds the resulting message back.
func (s *TUISession) executeCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			s.executeCmd(c)
		}
	case tea.QuitMsg:
		s.quit = true
	case views.PollTickMsg:
		s.polls = append(s.polls, msg)
	case toast.ExpiredMsg:
		// toasts stay visible for the whole session
	default:
		// Spinner and cursor ticks reschedule themselves forever.
		if strings.HasPrefix(reflect.TypeOf(msg).PkgPath(), "github.com/artpar/hooklens/") {
			s.send(msg)
		}
	}
}

// SendKey sends a key press.
func (s *TUISession) SendKey(key string) *TUISession {
	s.send(parseKeyMsg(key))
	return s
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// Type sends a sequence of rune keys.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		s.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return s
}

// TriggerPoll fires every pending poll tick, as if the poll interval passed.
func (s *TUISession) TriggerPoll() *TUISession {
	pending := s.polls
	s.polls = nil
	for _, p := range pending {
		s.send(p)
	}
	return s
}

// PendingPolls returns how many poll ticks are armed.
func (s *TUISession) PendingPolls() int {
	return len(s.polls)
}

// Output returns the current TUI output.
func (s *TUISession) Output() string {
	return s.model.View()
}

// Quitting reports whether the session asked to quit.
func (s *TUISession) Quitting() bool {
	return s.quit
}

// Model returns the underlying InspectorView for direct assertions.
func (s *TUISession) Model() *views.InspectorView {
	return s.model
}

// Clipboard returns the recorded clipboard.
func (s *TUISession) Clipboard() *Clipboard {
	return s.clipboard
}

// SavedLocation returns the query string persisted by the session.
func (s *TUISession) SavedLocation() string {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q, _ := s.store.Load(ctx)
	return q
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
