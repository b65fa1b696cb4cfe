package harness

import (
	"github.com/artpar/hooklens/internal/session"
	"github.com/artpar/hooklens/internal/tui/views"
)

// State represents a snapshot of the TUI state for verification.
type State struct {
	Screen          string // "list" or "detail"
	Selected        string // endpoint of the selected webhook
	Mode            views.Mode
	Loading         bool
	WebhookCount    int
	RequestCount    int
	VisibleRequests int
	Location        string
	Toasts          []string
	Filter          string
}

// CaptureState captures the current state of the TUI session.
func (s *TUISession) CaptureState() *State {
	st := s.model.State()
	state := &State{
		Screen:          "list",
		Mode:            s.model.Mode(),
		Loading:         st.Loading(),
		WebhookCount:    len(st.Webhooks()),
		RequestCount:    len(st.Requests()),
		VisibleRequests: len(s.model.VisibleRequests()),
		Location:        st.Location().String(),
		Filter:          s.model.Filter().Source(),
	}
	if d, ok := st.Screen().(session.DetailScreen); ok {
		state.Screen = "detail"
		state.Selected = d.Webhook.Endpoint
	}
	for _, t := range s.model.Toasts().All() {
		state.Toasts = append(state.Toasts, t.Message)
	}
	return state
}

// HasToast reports whether a toast with message is queued.
func (s *State) HasToast(message string) bool {
	for _, t := range s.Toasts {
		if t == message {
			return true
		}
	}
	return false
}
