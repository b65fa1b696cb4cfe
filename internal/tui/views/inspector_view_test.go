package views

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/artpar/hooklens/internal/api"
	"github.com/artpar/hooklens/internal/api/apitest"
	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/location"
	locsqlite "github.com/artpar/hooklens/internal/location/sqlite"
	"github.com/artpar/hooklens/internal/session"
	"github.com/artpar/hooklens/internal/toast"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// harness drives an InspectorView synchronously. Commands are executed in
// place and their messages fed back, except timer messages which are
// collected so tests decide when time passes.
type harness struct {
	t      *testing.T
	view   *InspectorView
	srv    *apitest.Server
	clip   *fakeClipboard
	store  location.Store
	timers []tea.Msg
	quit   bool
}

func newHarness(t *testing.T, srv *apitest.Server, loc *location.Location) *harness {
	t.Helper()
	store, err := locsqlite.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := &harness{t: t, srv: srv, clip: &fakeClipboard{}, store: store}
	client := api.NewClient(srv.BaseURL(), api.WithLogger(zerolog.Nop()))
	h.view = NewInspectorView(client, loc,
		WithPollInterval(time.Millisecond),
		WithToastLifetime(time.Millisecond),
		WithClipboard(h.clip),
		WithLocationStore(store),
		WithCursorBlink(false),
		WithLogger(zerolog.Nop()),
		WithTimezone(time.UTC),
	)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.view.Init())
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
	case tea.QuitMsg:
		h.quit = true
	case toast.ExpiredMsg, PollTickMsg:
		h.timers = append(h.timers, msg)
	default:
		// Only messages produced by this module are fed back; bubbles
		// cursor and spinner ticks would reschedule forever.
		pkg := reflect.TypeOf(msg).PkgPath()
		if strings.HasPrefix(pkg, "github.com/artpar/hooklens/") {
			h.send(msg)
		}
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.view.Update(msg)
	h.run(cmd)
}

func (h *harness) key(k string) {
	switch k {
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	case " ":
		h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) toastMessages() []string {
	var out []string
	for _, t := range h.view.Toasts().All() {
		out = append(out, t.Message)
	}
	return out
}

func (h *harness) polls() []PollTickMsg {
	var out []PollTickMsg
	for _, m := range h.timers {
		if p, ok := m.(PollTickMsg); ok {
			out = append(out, p)
		}
	}
	return out
}

func (h *harness) savedLocation() string {
	q, err := h.store.Load(context.Background())
	require.NoError(h.t, err)
	return q
}

func countPath(srv *apitest.Server, method, suffix string) int {
	n := 0
	for _, r := range srv.Requests() {
		if r.Method == method && strings.HasSuffix(r.Path, suffix) {
			n++
		}
	}
	return n
}

func seededServer(t *testing.T) *apitest.Server {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddWebhook("Orders", "ep-orders")
	srv.AddWebhook("Payments", "ep-payments")
	rt := 12.0
	srv.AddRequest("ep-orders", core.CapturedRequest{
		ID: 1, Method: "POST", IPAddress: "10.0.0.1", UserAgent: "curl/8",
		ResponseTime: &rt, CreatedAt: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
		Headers: `{"Content-Type":"application/json"}`, Body: `{"id":7}`, QueryParams: `{}`,
	})
	srv.AddRequest("ep-orders", core.CapturedRequest{
		ID: 2, Method: "GET", IPAddress: "10.0.0.2", UserAgent: "go-http",
		CreatedAt: time.Date(2025, 1, 2, 9, 5, 0, 0, time.UTC),
		Headers: `{}`, Body: "", QueryParams: `{"page":"1"}`,
	})
	return srv
}

func TestInspectorView_Init(t *testing.T) {
	t.Run("loads webhooks", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)

		assert.Len(t, h.view.State().Webhooks(), 2)
		assert.False(t, h.view.State().Loading())
		assert.Equal(t, session.ListScreen{}, h.view.State().Screen())
	})

	t.Run("fetch failure toasts and keeps list", func(t *testing.T) {
		srv := apitest.New()
		t.Cleanup(srv.Close)
		srv.Fail(apitest.RouteList, apitest.Failure{Status: 500, Body: `{"error":"db down"}`})

		h := newHarness(t, srv, nil)

		assert.Empty(t, h.view.State().Webhooks())
		assert.Equal(t, []string{"Failed to fetch webhooks"}, h.toastMessages())
		assert.False(t, h.view.State().Loading())
	})

	t.Run("implements component sizing", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		assert.Equal(t, 120, h.view.Width())
		assert.Equal(t, 40, h.view.Height())
		assert.Equal(t, "Webhooks", h.view.Title())
	})
}

func TestInspectorView_Select(t *testing.T) {
	t.Run("enter opens detail and fetches loudly", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)

		h.key("enter")

		w, ok := h.view.State().Selected()
		require.True(t, ok)
		assert.Equal(t, "ep-orders", w.Endpoint)
		assert.Len(t, h.view.State().Requests(), 2)
		assert.Len(t, h.view.VisibleRequests(), 2)
		assert.Equal(t, "ep-orders", h.view.State().Location().Endpoint())
		assert.Equal(t, "?webhook_endpoint=ep-orders", h.savedLocation())
		assert.Equal(t, 1, countPath(h.srv, "GET", "/ep-orders/requests"))
		assert.Len(t, h.polls(), 1)
	})

	t.Run("back clears selection and location", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")

		h.key("esc")

		assert.Equal(t, session.ListScreen{}, h.view.State().Screen())
		assert.Empty(t, h.view.State().Requests())
		assert.Equal(t, "", h.view.State().Location().Endpoint())
		assert.Equal(t, "", h.savedLocation())
	})

	t.Run("cursor picks the webhook", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("j")
		h.key("enter")

		w, ok := h.view.State().Selected()
		require.True(t, ok)
		assert.Equal(t, "Payments", w.Name)
		assert.Empty(t, h.view.State().Requests())
	})
}

func TestInspectorView_Poll(t *testing.T) {
	t.Run("current tick refetches quietly and rearms", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("enter")
		tick := h.polls()[0]
		h.timers = nil

		srv.AddRequest("ep-orders", core.CapturedRequest{ID: 3, Method: "PUT"})
		h.send(tick)

		assert.Len(t, h.view.State().Requests(), 3)
		assert.Equal(t, 2, countPath(srv, "GET", "/ep-orders/requests"))
		require.Len(t, h.polls(), 1)
		assert.Equal(t, tick, h.polls()[0])
		assert.False(t, h.view.State().Loading())
	})

	t.Run("tick for previous selection is dropped", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("enter")
		tick := h.polls()[0]
		h.key("esc")
		h.timers = nil

		h.send(tick)

		assert.Equal(t, 1, countPath(srv, "GET", "/ep-orders/requests"))
		assert.Empty(t, h.polls())
	})

	t.Run("poll keeps running after a failure", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("enter")
		tick := h.polls()[0]
		h.timers = nil

		srv.Fail(apitest.RouteRequests, apitest.Failure{Status: 500})
		h.send(tick)

		assert.Contains(t, h.toastMessages(), "Failed to fetch requests")
		assert.Len(t, h.view.State().Requests(), 2)
		assert.Len(t, h.polls(), 1)
	})

	t.Run("result for deselected endpoint is discarded", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")

		h.send(requestsLoadedMsg{endpoint: "ep-payments", requests: []core.CapturedRequest{{ID: 99}}, quiet: true})

		assert.Len(t, h.view.State().Requests(), 2)
	})

	t.Run("failure for deselected endpoint is silent", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")
		h.key("esc")

		h.send(requestsLoadedMsg{endpoint: "ep-orders", quiet: true, err: errors.New("connection reset")})
		assert.Empty(t, h.toastMessages())

		h.key("j")
		h.key("enter")
		h.send(requestsLoadedMsg{endpoint: "ep-orders", quiet: true, err: errors.New("connection reset")})
		assert.Empty(t, h.toastMessages())
		assert.False(t, h.view.State().Loading())
	})
}

func TestInspectorView_Create(t *testing.T) {
	t.Run("creates and relists", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)

		h.key("n")
		require.Equal(t, ModeCreate, h.view.Mode())
		h.typeText("Signups")
		h.key("tab")
		h.typeText("new users")
		h.key("enter")

		assert.Equal(t, ModeNormal, h.view.Mode())
		assert.Len(t, h.view.State().Webhooks(), 3)
		assert.Equal(t, core.CreateWebhookInput{}, h.view.Form().Input())
		assert.Contains(t, h.toastMessages(), "Webhook created successfully")
		assert.Equal(t, 1, srv.CountMethod("POST"))
	})

	t.Run("blank name is rejected before any request", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)

		h.key("n")
		h.typeText("   ")
		h.key("enter")

		assert.Equal(t, ModeCreate, h.view.Mode())
		assert.Equal(t, 0, srv.CountMethod("POST"))
		assert.Equal(t, []string{"Please enter a webhook name"}, h.toastMessages())
	})

	t.Run("server error text is shown verbatim", func(t *testing.T) {
		srv := seededServer(t)
		srv.Fail(apitest.RouteCreate, apitest.Failure{Status: 409, Body: `{"error":"name already taken"}`})
		h := newHarness(t, srv, nil)

		h.key("n")
		h.typeText("Orders")
		h.key("enter")

		assert.Equal(t, ModeCreate, h.view.Mode())
		assert.Equal(t, []string{"name already taken"}, h.toastMessages())
		assert.Equal(t, "Orders", h.view.Form().Input().Name)
	})

	t.Run("error without message falls back", func(t *testing.T) {
		srv := seededServer(t)
		srv.Fail(apitest.RouteCreate, apitest.Failure{Status: 502, Body: "bad gateway"})
		h := newHarness(t, srv, nil)

		h.key("n")
		h.typeText("Orders")
		h.key("enter")

		assert.Equal(t, []string{"Failed to create webhook"}, h.toastMessages())
	})

	t.Run("second enter while the create is in flight is ignored", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("n")
		h.typeText("Signups")

		_, first := h.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
		_, second := h.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.True(t, h.view.State().Loading())
		assert.Nil(t, second)

		h.run(first)
		h.run(second)

		assert.Equal(t, 1, srv.CountMethod("POST"))
		assert.Len(t, h.view.State().Webhooks(), 3)
		assert.False(t, h.view.State().Loading())
	})

	t.Run("esc cancels", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("n")
		h.typeText("x")
		h.key("esc")

		assert.Equal(t, ModeNormal, h.view.Mode())
		assert.Equal(t, "", h.view.Form().Input().Name)
	})
}

func TestInspectorView_Delete(t *testing.T) {
	t.Run("declining is a no-op", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)

		h.key("d")
		require.Equal(t, ModeConfirm, h.view.Mode())
		h.key("n")

		assert.Equal(t, ModeNormal, h.view.Mode())
		assert.Equal(t, 0, srv.CountMethod("DELETE"))
		assert.Len(t, h.view.State().Webhooks(), 2)
	})

	t.Run("confirming deletes and relists", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)

		h.key("d")
		h.key("y")

		assert.Equal(t, 1, srv.CountMethod("DELETE"))
		require.Len(t, h.view.State().Webhooks(), 1)
		assert.Equal(t, "Payments", h.view.State().Webhooks()[0].Name)
		assert.Contains(t, h.toastMessages(), "Webhook deleted successfully")
	})

	t.Run("second y while the delete is in flight is ignored", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("d")

		_, first := h.view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		assert.Equal(t, ModeNormal, h.view.Mode())
		assert.True(t, h.view.State().Loading())
		_, second := h.view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		assert.Nil(t, second)

		h.run(first)
		h.run(second)

		assert.Equal(t, 1, srv.CountMethod("DELETE"))
		assert.Equal(t, []string{"Webhook deleted successfully"}, h.toastMessages())
		assert.Empty(t, h.clip.text)
	})

	t.Run("failure toasts", func(t *testing.T) {
		srv := seededServer(t)
		srv.Fail(apitest.RouteDelete, apitest.Failure{Status: 500})
		h := newHarness(t, srv, nil)

		h.key("d")
		h.key("y")

		assert.Equal(t, []string{"Failed to delete webhook"}, h.toastMessages())
		assert.Len(t, h.view.State().Webhooks(), 2)
	})
}

func TestInspectorView_Clipboard(t *testing.T) {
	t.Run("copies public URL from list", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)

		h.key("y")

		assert.Equal(t, srv.URL+"/webhook/ep-orders", h.clip.text)
		assert.Equal(t, []string{"Webhook URL copied to clipboard"}, h.toastMessages())
	})

	t.Run("url copy toasts success even when clipboard fails", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.clip.err = errors.New("no clipboard")

		h.key("y")

		assert.Equal(t, []string{"Webhook URL copied to clipboard"}, h.toastMessages())
	})

	t.Run("copies raw payload of expanded row", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")

		h.key("2")
		assert.Empty(t, h.clip.text, "collapsed rows are not copyable")

		h.key(" ")
		require.True(t, h.view.State().Expanded(1))
		h.key("2")

		assert.Equal(t, `{"id":7}`, h.clip.text)
		assert.Equal(t, []string{"Copied to clipboard"}, h.toastMessages())
	})

	t.Run("copied field is byte for byte what was captured", func(t *testing.T) {
		srv := apitest.New()
		t.Cleanup(srv.Close)
		srv.AddWebhook("Hooks", "ep-hooks")
		body := `{"z":1, "html":"<b>a&b</b>"}`
		srv.AddRequest("ep-hooks", core.CapturedRequest{
			ID: 5, Method: "POST", Headers: `{"X-B":"2","X-A":"1"}`, Body: core.RawText(body),
		})
		h := newHarness(t, srv, nil)
		h.key("enter")
		h.key(" ")

		h.key("2")
		assert.Equal(t, body, h.clip.text)

		h.key("1")
		assert.Equal(t, `{"X-B":"2","X-A":"1"}`, h.clip.text)
	})
}

func TestInspectorView_RowExpansion(t *testing.T) {
	h := newHarness(t, seededServer(t), nil)
	h.key("enter")

	h.key("enter")
	assert.True(t, h.view.State().Expanded(1))

	h.key("enter")
	assert.False(t, h.view.State().Expanded(1))
}

func TestInspectorView_Loading(t *testing.T) {
	t.Run("keys are ignored while loading", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.view.State().BeginLoad()

		h.key("n")
		assert.Equal(t, ModeNormal, h.view.Mode())

		h.key("enter")
		_, selected := h.view.State().Selected()
		assert.False(t, selected)
	})

	t.Run("quit still works while loading", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.view.State().BeginLoad()

		h.key("q")
		assert.True(t, h.quit)
	})
}

func TestInspectorView_Restore(t *testing.T) {
	t.Run("deep link opens the webhook", func(t *testing.T) {
		loc, err := location.Parse("?webhook_endpoint=ep-orders")
		require.NoError(t, err)

		h := newHarness(t, seededServer(t), loc)

		w, ok := h.view.State().Selected()
		require.True(t, ok)
		assert.Equal(t, "Orders", w.Name)
		assert.Len(t, h.view.State().Requests(), 2)
		assert.Len(t, h.polls(), 1)
	})

	t.Run("unknown endpoint stays on list and clears location", func(t *testing.T) {
		loc, err := location.Parse("webhook_endpoint=nope")
		require.NoError(t, err)

		h := newHarness(t, seededServer(t), loc)

		assert.Equal(t, session.ListScreen{}, h.view.State().Screen())
		assert.Equal(t, "", h.view.State().Location().Endpoint())
		assert.Equal(t, []string{"Webhook nope not found"}, h.toastMessages())
		assert.Equal(t, "", h.savedLocation())
	})
}

func TestInspectorView_Filter(t *testing.T) {
	t.Run("applies a javascript predicate", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")

		h.key("/")
		require.Equal(t, ModeFilter, h.view.Mode())
		h.typeText(`req.method == "GET"`)
		h.key("enter")

		assert.Equal(t, ModeNormal, h.view.Mode())
		require.Len(t, h.view.VisibleRequests(), 1)
		assert.Equal(t, int64(2), h.view.VisibleRequests()[0].ID)
		assert.Len(t, h.view.State().Requests(), 2)
	})

	t.Run("syntax error keeps previous filter", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")

		h.key("/")
		h.typeText(`req.method ==`)
		h.key("enter")

		assert.True(t, h.view.Filter().Empty())
		require.Len(t, h.view.Toasts().All(), 1)
		assert.True(t, strings.HasPrefix(h.toastMessages()[0], "Invalid filter"))
	})

	t.Run("back clears the filter", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		h.key("enter")
		h.key("/")
		h.typeText(`false`)
		h.key("enter")
		require.Empty(t, h.view.VisibleRequests())

		h.key("esc")

		assert.True(t, h.view.Filter().Empty())
	})
}

func TestInspectorView_Toasts(t *testing.T) {
	h := newHarness(t, seededServer(t), nil)
	h.key("y")
	require.Equal(t, 1, h.view.Toasts().Len())

	for _, m := range h.timers {
		if exp, ok := m.(toast.ExpiredMsg); ok {
			h.send(exp)
		}
	}

	assert.Equal(t, 0, h.view.Toasts().Len())
}

func TestInspectorView_Help(t *testing.T) {
	h := newHarness(t, seededServer(t), nil)

	h.key("?")
	assert.Equal(t, ModeHelp, h.view.Mode())
	assert.Contains(t, ansi.Strip(h.view.View()), "Toggle this help")

	h.key("?")
	assert.Equal(t, ModeNormal, h.view.Mode())
}

func TestInspectorView_View(t *testing.T) {
	t.Run("list screen", func(t *testing.T) {
		h := newHarness(t, seededServer(t), nil)
		out := ansi.Strip(h.view.View())

		assert.Contains(t, out, "Your Webhooks")
		assert.Contains(t, out, "Orders")
		assert.Contains(t, out, "Payments")
	})

	t.Run("detail screen", func(t *testing.T) {
		srv := seededServer(t)
		h := newHarness(t, srv, nil)
		h.key("enter")
		out := ansi.Strip(h.view.View())

		assert.Contains(t, out, "Recent Requests")
		assert.Contains(t, out, srv.URL+"/webhook/ep-orders")
		assert.Contains(t, out, "POST")
	})

	t.Run("empty before sizing", func(t *testing.T) {
		v := NewInspectorView(api.NewClient("http://localhost/api"), nil)
		assert.Equal(t, "", v.View())
	})
}
