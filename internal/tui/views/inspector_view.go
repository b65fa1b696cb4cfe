package views

import (
	"fmt"
	"time"

	"github.com/artpar/hooklens/internal/api"
	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/filter"
	"github.com/artpar/hooklens/internal/location"
	"github.com/artpar/hooklens/internal/session"
	"github.com/artpar/hooklens/internal/toast"
	"github.com/artpar/hooklens/internal/tui"
	"github.com/artpar/hooklens/internal/tui/components"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPollInterval is how often the selected webhook's requests are
// refreshed in the background.
const DefaultPollInterval = 5 * time.Second

// filterTimeout bounds one evaluation of the request filter over the table.
const filterTimeout = 250 * time.Millisecond

// Mode is the input mode of the inspector.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCreate
	ModeConfirm
	ModeFilter
	ModeHelp
)

// InspectorView is the top-level webhook inspector. It owns the session
// state and routes every backend call through tea commands.
type InspectorView struct {
	width  int
	height int
	mode   Mode

	state   *session.State
	toasts  *toast.Queue
	list    *components.WebhookList
	table   *components.RequestTable
	form    *components.CreateForm
	confirm *components.ConfirmDialog
	spinner spinner.Model

	filterInput textinput.Model
	filter      *filter.Filter

	backend      Backend
	clipboard    Clipboard
	store        location.Store
	logger       zerolog.Logger
	pollInterval time.Duration
	timezone     *time.Location
	staticCursor bool
}

// Option configures an InspectorView.
type Option func(*InspectorView)

// WithPollInterval sets the background refresh interval.
func WithPollInterval(d time.Duration) Option {
	return func(v *InspectorView) {
		v.pollInterval = d
	}
}

// WithToastLifetime sets how long toasts stay on screen.
func WithToastLifetime(d time.Duration) Option {
	return func(v *InspectorView) {
		v.toasts = toast.NewQueue(toast.WithLifetime(d))
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(cb Clipboard) Option {
	return func(v *InspectorView) {
		v.clipboard = cb
	}
}

// WithLocationStore persists the location after every selection change.
func WithLocationStore(store location.Store) Option {
	return func(v *InspectorView) {
		v.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(v *InspectorView) {
		v.logger = logger
	}
}

// WithTimezone sets the zone request times are rendered in.
func WithTimezone(loc *time.Location) Option {
	return func(v *InspectorView) {
		v.timezone = loc
	}
}

// WithCursorBlink turns the text cursor blink on or off.
func WithCursorBlink(blink bool) Option {
	return func(v *InspectorView) {
		v.staticCursor = !blink
	}
}

// NewInspectorView creates the inspector. A location naming an endpoint is
// restored once the webhook list first loads.
func NewInspectorView(backend Backend, loc *location.Location, opts ...Option) *InspectorView {
	v := &InspectorView{
		state:        session.New(loc),
		toasts:       toast.NewQueue(),
		list:         components.NewWebhookList(),
		form:         components.NewCreateForm(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		backend:      backend,
		clipboard:    systemClipboard{},
		logger:       log.Logger,
		pollInterval: DefaultPollInterval,
		timezone:     time.Local,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.table = components.NewRequestTable(v.timezone)
	v.filter, _ = filter.Compile("")

	v.filterInput = textinput.New()
	v.filterInput.Prompt = "/ "
	v.filterInput.Placeholder = `req.method == "POST"`
	if v.staticCursor {
		v.filterInput.Cursor.SetMode(cursor.CursorStatic)
		v.form.SetCursorMode(cursor.CursorStatic)
	}
	return v
}

// Init starts the spinner and loads the webhook list.
func (v *InspectorView) Init() tea.Cmd {
	v.state.BeginLoad()
	return tea.Batch(v.spinner.Tick, listWebhooks(v.backend))
}

// Title returns the view title.
func (v *InspectorView) Title() string {
	return "Webhooks"
}

// SetSize sets the view dimensions.
func (v *InspectorView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.form.SetWidth(width)
}

// Width returns the view width.
func (v *InspectorView) Width() int {
	return v.width
}

// Height returns the view height.
func (v *InspectorView) Height() int {
	return v.height
}

// Mode returns the input mode.
func (v *InspectorView) Mode() Mode {
	return v.mode
}

// State returns the session state.
func (v *InspectorView) State() *session.State {
	return v.state
}

// Toasts returns the toast queue.
func (v *InspectorView) Toasts() *toast.Queue {
	return v.toasts
}

// Form returns the create form.
func (v *InspectorView) Form() *components.CreateForm {
	return v.form
}

// Filter returns the active request filter.
func (v *InspectorView) Filter() *filter.Filter {
	return v.filter
}

// VisibleRequests returns the rows currently in the request table.
func (v *InspectorView) VisibleRequests() []core.CapturedRequest {
	return v.table.Requests()
}

// Update handles messages.
func (v *InspectorView) Update(msg tea.Msg) (tui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case toast.ExpiredMsg:
		v.toasts.Update(msg)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case webhooksLoadedMsg:
		return v, v.handleWebhooksLoaded(msg)

	case requestsLoadedMsg:
		return v, v.handleRequestsLoaded(msg)

	case webhookCreatedMsg:
		return v, v.handleCreated(msg)

	case webhookDeletedMsg:
		return v, v.handleDeleted(msg)

	case PollTickMsg:
		if !v.state.PollCurrent(msg.gen, msg.endpoint) {
			return v, nil
		}
		return v, tea.Batch(
			fetchRequests(v.backend, msg.endpoint, true),
			schedulePoll(v.pollInterval, msg.gen, msg.endpoint),
		)

	case clipboardMsg:
		if msg.err != nil {
			v.logger.Warn().Err(msg.err).Msg("clipboard write failed")
		}
		if msg.kind == copiedURL {
			return v, v.notify("Webhook URL copied to clipboard", toast.Success)
		}
		return v, v.notify("Copied to clipboard", toast.Info)

	case locationSavedMsg:
		if msg.err != nil {
			v.logger.Warn().Err(msg.err).Str("query", msg.query).Msg("save location failed")
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.mode {
	case ModeCreate:
		_, cmd = v.form.Update(msg)
	case ModeFilter:
		v.filterInput, cmd = v.filterInput.Update(msg)
	}
	return v, cmd
}

func (v *InspectorView) notify(message string, kind toast.Kind) tea.Cmd {
	_, cmd := v.toasts.Push(message, kind)
	return cmd
}

func (v *InspectorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if v.state.Loading() {
		if v.mode == ModeNormal && msg.String() == "q" {
			return tea.Quit
		}
		return nil
	}

	switch v.mode {
	case ModeHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "?" || msg.String() == "q" {
			v.mode = ModeNormal
		}
		return nil

	case ModeCreate:
		action, cmd := v.form.Update(msg)
		switch action {
		case components.FormSubmit:
			return v.submitCreate(v.form.Input())
		case components.FormCancel:
			v.mode = ModeNormal
			v.form.Reset()
			return nil
		}
		return cmd

	case ModeConfirm:
		return v.answerConfirm(msg)

	case ModeFilter:
		return v.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "?":
		v.mode = ModeHelp
		return nil
	}

	if _, ok := v.state.Selected(); ok {
		return v.handleDetailKey(msg)
	}
	return v.handleListKey(msg)
}

func (v *InspectorView) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		v.list.MoveDown()
	case "k", "up":
		v.list.MoveUp()
	case "enter":
		if w, ok := v.list.Current(); ok {
			return v.selectWebhook(w)
		}
	case "n":
		v.form.Reset()
		v.mode = ModeCreate
		return v.form.Focus()
	case "d":
		if w, ok := v.list.Current(); ok {
			v.confirm = components.NewDeleteConfirm(w.ID, w.Name)
			v.mode = ModeConfirm
		}
	case "y":
		if w, ok := v.list.Current(); ok {
			return copyText(v.clipboard, v.backend.PublicURL(w.Endpoint), copiedURL)
		}
	case "r":
		v.state.BeginLoad()
		return listWebhooks(v.backend)
	}
	return nil
}

func (v *InspectorView) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	w, _ := v.state.Selected()

	switch key := msg.String(); key {
	case "j", "down":
		v.table.MoveDown()
	case "k", "up":
		v.table.MoveUp()
	case "enter", " ":
		if r, ok := v.table.Current(); ok {
			v.state.ToggleRow(r.ID)
		}
	case "esc", "backspace", "h":
		return v.back()
	case "y":
		return copyText(v.clipboard, v.backend.PublicURL(w.Endpoint), copiedURL)
	case "r":
		v.state.BeginLoad()
		return fetchRequests(v.backend, w.Endpoint, false)
	case "/":
		v.mode = ModeFilter
		v.filterInput.SetValue(v.filter.Source())
		return v.filterInput.Focus()
	case "1", "2", "3":
		r, ok := v.table.Current()
		if !ok || !v.state.Expanded(r.ID) {
			return nil
		}
		field := components.CopyKeys[key]
		return copyText(v.clipboard, r.Value(field), copiedField)
	}
	return nil
}

// answerConfirm closes the dialog on y/n. A confirmed delete starts loading
// before its command is returned, so further keys are gated.
func (v *InspectorView) answerConfirm(msg tea.KeyMsg) tea.Cmd {
	d := v.confirm
	if d == nil {
		v.mode = ModeNormal
		return nil
	}

	switch d.Update(msg) {
	case components.Yes:
		v.mode = ModeNormal
		v.confirm = nil
		v.state.BeginLoad()
		return deleteWebhook(v.backend, d.ID(), d.Name())
	case components.No:
		v.mode = ModeNormal
		v.confirm = nil
	}
	return nil
}

func (v *InspectorView) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.mode = ModeNormal
		v.filterInput.Blur()
		return nil

	case tea.KeyEnter:
		v.mode = ModeNormal
		v.filterInput.Blur()
		f, err := filter.Compile(v.filterInput.Value())
		if err != nil {
			v.logger.Debug().Err(err).Msg("filter rejected")
			return v.notify("Invalid filter: "+err.Error(), toast.Error)
		}
		v.filter = f
		return v.refreshTable()
	}

	var cmd tea.Cmd
	v.filterInput, cmd = v.filterInput.Update(msg)
	return cmd
}

// selectWebhook opens the detail screen, fetches loudly and arms the poll.
func (v *InspectorView) selectWebhook(w core.Webhook) tea.Cmd {
	gen := v.state.Select(w)
	v.table.Reset()
	v.state.BeginLoad()
	return tea.Batch(
		fetchRequests(v.backend, w.Endpoint, false),
		schedulePoll(v.pollInterval, gen, w.Endpoint),
		saveLocation(v.store, v.state.Location().String()),
	)
}

func (v *InspectorView) back() tea.Cmd {
	v.state.Back()
	v.table.Reset()
	v.filter, _ = filter.Compile("")
	return saveLocation(v.store, v.state.Location().String())
}

func (v *InspectorView) submitCreate(input core.CreateWebhookInput) tea.Cmd {
	if err := input.Validate(); err != nil {
		return v.notify("Please enter a webhook name", toast.Error)
	}
	v.state.BeginLoad()
	return createWebhook(v.backend, input)
}

func (v *InspectorView) handleWebhooksLoaded(msg webhooksLoadedMsg) tea.Cmd {
	v.state.EndLoad()
	if msg.err != nil {
		v.logger.Error().Err(msg.err).Msg("fetch webhooks failed")
		return v.notify("Failed to fetch webhooks", toast.Error)
	}
	v.state.ReplaceWebhooks(msg.webhooks)
	v.list.SetWebhooks(v.state.Webhooks())

	pending := v.state.PendingRestore()
	if pending == "" {
		return nil
	}
	w, ok, err := v.state.Restore()
	if err != nil {
		v.logger.Warn().Err(err).Msg("restore location")
		return tea.Batch(
			v.notify(fmt.Sprintf("Webhook %s not found", pending), toast.Error),
			saveLocation(v.store, v.state.Location().String()),
		)
	}
	if !ok {
		return nil
	}
	v.table.Reset()
	v.state.BeginLoad()
	gen := v.state.PollGeneration()
	return tea.Batch(
		fetchRequests(v.backend, w.Endpoint, false),
		schedulePoll(v.pollInterval, gen, w.Endpoint),
		saveLocation(v.store, v.state.Location().String()),
	)
}

func (v *InspectorView) handleRequestsLoaded(msg requestsLoadedMsg) tea.Cmd {
	if !msg.quiet {
		v.state.EndLoad()
	}
	if w, ok := v.state.Selected(); !ok || w.Endpoint != msg.endpoint {
		v.logger.Debug().Str("endpoint", msg.endpoint).Err(msg.err).Msg("discarding requests for deselected webhook")
		return nil
	}
	if msg.err != nil {
		v.logger.Error().Err(msg.err).Str("endpoint", msg.endpoint).Bool("quiet", msg.quiet).Msg("fetch requests failed")
		return v.notify("Failed to fetch requests", toast.Error)
	}
	v.state.ReplaceRequests(msg.endpoint, msg.requests)
	return v.refreshTable()
}

// refreshTable pushes the selected requests through the filter into the
// table. A filter that fails at runtime is dropped.
func (v *InspectorView) refreshTable() tea.Cmd {
	rows, err := v.filter.ApplyWithTimeout(v.state.Requests(), filterTimeout)
	if err != nil {
		v.logger.Warn().Err(err).Str("filter", v.filter.Source()).Msg("filter failed")
		v.filter, _ = filter.Compile("")
		v.table.SetRequests(v.state.Requests())
		return v.notify("Filter failed: "+err.Error(), toast.Error)
	}
	v.table.SetRequests(rows)
	return nil
}

func (v *InspectorView) handleCreated(msg webhookCreatedMsg) tea.Cmd {
	v.state.EndLoad()
	if msg.err != nil {
		v.logger.Error().Err(msg.err).Msg("create webhook failed")
		text := api.ServerMessage(msg.err)
		if text == "" {
			text = "Failed to create webhook"
		}
		return v.notify(text, toast.Error)
	}
	v.logger.Info().Str("endpoint", msg.webhook.Endpoint).Msg("webhook created")
	v.mode = ModeNormal
	v.form.Reset()
	v.state.BeginLoad()
	return tea.Batch(
		v.notify("Webhook created successfully", toast.Success),
		listWebhooks(v.backend),
	)
}

func (v *InspectorView) handleDeleted(msg webhookDeletedMsg) tea.Cmd {
	v.state.EndLoad()
	if msg.err != nil {
		v.logger.Error().Err(msg.err).Int64("id", msg.id).Msg("delete webhook failed")
		return v.notify("Failed to delete webhook", toast.Error)
	}
	v.logger.Info().Int64("id", msg.id).Str("name", msg.name).Msg("webhook deleted")
	v.state.BeginLoad()
	return tea.Batch(
		v.notify("Webhook deleted successfully", toast.Success),
		listWebhooks(v.backend),
	)
}
