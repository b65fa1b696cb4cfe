package views

import (
	"context"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/location"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Backend is the subset of the webhook API the inspector needs.
type Backend interface {
	ListWebhooks(ctx context.Context) ([]core.Webhook, error)
	CreateWebhook(ctx context.Context, input core.CreateWebhookInput) (core.Webhook, error)
	DeleteWebhook(ctx context.Context, id int64) error
	ListRequests(ctx context.Context, endpoint string) ([]core.CapturedRequest, error)
	PublicURL(endpoint string) string
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

type webhooksLoadedMsg struct {
	webhooks []core.Webhook
	err      error
}

type requestsLoadedMsg struct {
	endpoint string
	requests []core.CapturedRequest
	quiet    bool
	err      error
}

type webhookCreatedMsg struct {
	webhook core.Webhook
	err     error
}

type webhookDeletedMsg struct {
	id   int64
	name string
	err  error
}

// PollTickMsg fires every poll interval while a webhook is selected. Ticks
// armed for an earlier selection are dropped.
type PollTickMsg struct {
	gen      uint64
	endpoint string
}

type clipboardKind int

const (
	copiedURL clipboardKind = iota
	copiedField
)

type clipboardMsg struct {
	kind clipboardKind
	err  error
}

type locationSavedMsg struct {
	query string
	err   error
}

func listWebhooks(backend Backend) tea.Cmd {
	return func() tea.Msg {
		webhooks, err := backend.ListWebhooks(context.Background())
		return webhooksLoadedMsg{webhooks: webhooks, err: err}
	}
}

func createWebhook(backend Backend, input core.CreateWebhookInput) tea.Cmd {
	return func() tea.Msg {
		w, err := backend.CreateWebhook(context.Background(), input)
		return webhookCreatedMsg{webhook: w, err: err}
	}
}

func deleteWebhook(backend Backend, id int64, name string) tea.Cmd {
	return func() tea.Msg {
		err := backend.DeleteWebhook(context.Background(), id)
		return webhookDeletedMsg{id: id, name: name, err: err}
	}
}

func fetchRequests(backend Backend, endpoint string, quiet bool) tea.Cmd {
	return func() tea.Msg {
		requests, err := backend.ListRequests(context.Background(), endpoint)
		return requestsLoadedMsg{endpoint: endpoint, requests: requests, quiet: quiet, err: err}
	}
}

func schedulePoll(interval time.Duration, gen uint64, endpoint string) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return PollTickMsg{gen: gen, endpoint: endpoint}
	})
}

func copyText(cb Clipboard, text string, kind clipboardKind) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{kind: kind, err: cb.WriteAll(text)}
	}
}

func saveLocation(store location.Store, query string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return locationSavedMsg{query: query, err: store.Save(context.Background(), query)}
	}
}
