package harness

import (
	"testing"
)

// Journey represents a user journey test.
type Journey struct {
	t        *testing.T
	name     string
	harness  *E2EHarness
	endpoint string
	session  *TUISession
	steps    []*Step
}

// Step represents a single step in a journey.
type Step struct {
	name       string
	actions    []func(*TUISession)
	assertions []func(*testing.T, *State)
}

// NewJourney creates a new journey test on h's backend.
func NewJourney(t *testing.T, h *E2EHarness, name string) *Journey {
	return &Journey{
		t:       t,
		name:    name,
		harness: h,
		steps:   make([]*Step, 0),
	}
}

// StartAt deep-links the journey's session to endpoint.
func (j *Journey) StartAt(endpoint string) *Journey {
	j.endpoint = endpoint
	return j
}

// Step adds a new step to the journey.
func (j *Journey) Step(name string) *StepBuilder {
	step := &Step{name: name}
	j.steps = append(j.steps, step)
	return &StepBuilder{journey: j, step: step}
}

// Session returns the running session, once Run has started.
func (j *Journey) Session() *TUISession {
	return j.session
}

// Run executes the journey.
func (j *Journey) Run() {
	j.t.Helper()
	j.t.Run(j.name, func(t *testing.T) {
		j.session = j.harness.TUI().StartAt(t, j.endpoint)

		for i, step := range j.steps {
			t.Logf("Step %d: %s", i+1, step.name)

			for _, action := range step.actions {
				action(j.session)
			}

			state := j.session.CaptureState()
			for _, assertion := range step.assertions {
				assertion(t, state)
			}
		}
	})
}

// StepBuilder provides a fluent API for building steps.
type StepBuilder struct {
	journey *Journey
	step    *Step
}

// Do adds an arbitrary action.
func (b *StepBuilder) Do(action func(*TUISession)) *StepBuilder {
	b.step.actions = append(b.step.actions, action)
	return b
}

// SendKeys adds key press actions.
func (b *StepBuilder) SendKeys(keys ...string) *StepBuilder {
	return b.Do(func(s *TUISession) { s.SendKeys(keys...) })
}

// Type adds a typing action.
func (b *StepBuilder) Type(text string) *StepBuilder {
	return b.Do(func(s *TUISession) { s.Type(text) })
}

// Poll fires the pending poll ticks.
func (b *StepBuilder) Poll() *StepBuilder {
	return b.Do(func(s *TUISession) { s.TriggerPoll() })
}

// Expect adds a custom assertion.
func (b *StepBuilder) Expect(assertion func(*testing.T, *State)) *StepBuilder {
	b.step.assertions = append(b.step.assertions, assertion)
	return b
}

// ExpectScreen asserts "list" or "detail".
func (b *StepBuilder) ExpectScreen(screen string) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if s.Screen != screen {
			t.Errorf("Expected screen %q, got %q", screen, s.Screen)
		}
	})
}

// ExpectSelected asserts the selected endpoint.
func (b *StepBuilder) ExpectSelected(endpoint string) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if s.Selected != endpoint {
			t.Errorf("Expected selected endpoint %q, got %q", endpoint, s.Selected)
		}
	})
}

// ExpectWebhooks asserts the number of loaded webhooks.
func (b *StepBuilder) ExpectWebhooks(n int) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if s.WebhookCount != n {
			t.Errorf("Expected %d webhooks, got %d", n, s.WebhookCount)
		}
	})
}

// ExpectRequests asserts the number of fetched requests.
func (b *StepBuilder) ExpectRequests(n int) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if s.RequestCount != n {
			t.Errorf("Expected %d requests, got %d", n, s.RequestCount)
		}
	})
}

// ExpectLocation asserts the location query string.
func (b *StepBuilder) ExpectLocation(query string) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if s.Location != query {
			t.Errorf("Expected location %q, got %q", query, s.Location)
		}
	})
}

// ExpectToast asserts a toast with message is queued.
func (b *StepBuilder) ExpectToast(message string) *StepBuilder {
	return b.Expect(func(t *testing.T, s *State) {
		t.Helper()
		if !s.HasToast(message) {
			t.Errorf("Expected toast %q, got %v", message, s.Toasts)
		}
	})
}

// Step starts the next step.
func (b *StepBuilder) Step(name string) *StepBuilder {
	return b.journey.Step(name)
}

// Run executes the journey.
func (b *StepBuilder) Run() {
	b.journey.t.Helper()
	b.journey.Run()
}
