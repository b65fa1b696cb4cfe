// Package session holds the client-side view state: which screen is shown,
// the fetched webhooks and requests, and row expansion. All transitions go
// through methods on State, which is owned by a single event loop.
package session

import (
	"errors"
	"fmt"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/location"
)

// ErrWebhookNotFound is returned when a deep link names an unknown endpoint.
var ErrWebhookNotFound = errors.New("webhook not found")

// Screen is either ListScreen or DetailScreen.
type Screen interface {
	screen()
}

// ListScreen shows every webhook. No webhook is selected.
type ListScreen struct{}

// DetailScreen shows the captured requests of one webhook.
type DetailScreen struct {
	Webhook core.Webhook
}

func (ListScreen) screen()   {}
func (DetailScreen) screen() {}

// State is the application state.
type State struct {
	screen   Screen
	webhooks []core.Webhook
	requests []core.CapturedRequest
	expanded map[int64]bool
	pending  int
	location *location.Location

	// pollGen changes on every selection change so stale poll ticks can be
	// recognised and dropped.
	pollGen uint64

	// restore is the endpoint named by the initial location, consumed once
	// the webhook list has loaded.
	restore string
}

// New creates a state on the list screen. If loc names an endpoint it is
// restored after the first successful webhook load.
func New(loc *location.Location) *State {
	if loc == nil {
		loc = location.New()
	}
	return &State{
		screen:   ListScreen{},
		webhooks: []core.Webhook{},
		requests: []core.CapturedRequest{},
		expanded: make(map[int64]bool),
		location: loc,
		restore:  loc.Endpoint(),
	}
}

// Screen returns the current screen.
func (s *State) Screen() Screen {
	return s.screen
}

// Selected returns the selected webhook, if any.
func (s *State) Selected() (core.Webhook, bool) {
	if d, ok := s.screen.(DetailScreen); ok {
		return d.Webhook, true
	}
	return core.Webhook{}, false
}

// Webhooks returns the current webhook list.
func (s *State) Webhooks() []core.Webhook {
	return s.webhooks
}

// Requests returns the captured requests of the selected webhook.
func (s *State) Requests() []core.CapturedRequest {
	return s.requests
}

// Location returns the query-string mirror of the selection.
func (s *State) Location() *location.Location {
	return s.location
}

// Loading reports whether a loud operation is in flight.
func (s *State) Loading() bool {
	return s.pending > 0
}

// BeginLoad marks the start of a loud operation.
func (s *State) BeginLoad() {
	s.pending++
}

// EndLoad marks the end of a loud operation.
func (s *State) EndLoad() {
	if s.pending > 0 {
		s.pending--
	}
}

// ReplaceWebhooks replaces the webhook list wholesale.
func (s *State) ReplaceWebhooks(webhooks []core.Webhook) {
	if webhooks == nil {
		webhooks = []core.Webhook{}
	}
	s.webhooks = webhooks
}

// Select switches to the detail screen for w, clears the request list and
// mirrors the endpoint into the location. It returns the new poll generation.
func (s *State) Select(w core.Webhook) uint64 {
	s.screen = DetailScreen{Webhook: w}
	s.requests = []core.CapturedRequest{}
	s.location.SetEndpoint(w.Endpoint)
	s.pollGen++
	return s.pollGen
}

// Back returns to the list screen, clears the requests and strips the
// location parameter.
func (s *State) Back() {
	s.screen = ListScreen{}
	s.requests = []core.CapturedRequest{}
	s.location.Clear()
	s.pollGen++
}

// PollGeneration returns the generation of the current selection.
func (s *State) PollGeneration() uint64 {
	return s.pollGen
}

// PollCurrent reports whether a poll armed at gen for endpoint still
// applies to the current selection.
func (s *State) PollCurrent(gen uint64, endpoint string) bool {
	w, ok := s.Selected()
	return ok && gen == s.pollGen && w.Endpoint == endpoint
}

// ReplaceRequests stores requests fetched for endpoint. Results for an
// endpoint that is no longer selected are discarded; among results for the
// same endpoint the last one to arrive wins.
func (s *State) ReplaceRequests(endpoint string, requests []core.CapturedRequest) bool {
	w, ok := s.Selected()
	if !ok || w.Endpoint != endpoint {
		return false
	}
	if requests == nil {
		requests = []core.CapturedRequest{}
	}
	s.requests = requests
	return true
}

// ToggleRow flips the expansion of the request with id.
func (s *State) ToggleRow(id int64) bool {
	s.expanded[id] = !s.expanded[id]
	return s.expanded[id]
}

// Expanded reports whether the request with id is expanded.
func (s *State) Expanded(id int64) bool {
	return s.expanded[id]
}

// ExpandedSet returns a copy of the expansion map.
func (s *State) ExpandedSet() map[int64]bool {
	out := make(map[int64]bool, len(s.expanded))
	for k, v := range s.expanded {
		out[k] = v
	}
	return out
}

// FindByEndpoint looks up a loaded webhook by endpoint.
func (s *State) FindByEndpoint(endpoint string) (core.Webhook, bool) {
	for _, w := range s.webhooks {
		if w.Endpoint == endpoint {
			return w, true
		}
	}
	return core.Webhook{}, false
}

// PendingRestore returns the endpoint waiting to be restored, if any.
func (s *State) PendingRestore() string {
	return s.restore
}

// Restore consumes the pending deep link. It selects the matching webhook
// and returns it. On a miss the state stays on the list screen, the location
// is cleared and ErrWebhookNotFound is returned. With nothing pending it
// returns ok=false and no error.
func (s *State) Restore() (core.Webhook, bool, error) {
	endpoint := s.restore
	if endpoint == "" {
		return core.Webhook{}, false, nil
	}
	s.restore = ""

	w, found := s.FindByEndpoint(endpoint)
	if !found {
		s.location.Clear()
		return core.Webhook{}, false, fmt.Errorf("%w: %s", ErrWebhookNotFound, endpoint)
	}
	s.Select(w)
	return w, true, nil
}
