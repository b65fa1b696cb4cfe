package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/artpar/hooklens/internal/api"
	"github.com/artpar/hooklens/internal/config"
	"github.com/artpar/hooklens/internal/location"
	locsqlite "github.com/artpar/hooklens/internal/location/sqlite"
	"github.com/artpar/hooklens/internal/logger"
	"github.com/artpar/hooklens/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// runtime is what every command gets after the root has loaded config.
type runtime struct {
	cfg       *config.Config
	client    *api.Client
	logCloser io.Closer
}

// rootOptions holds the flags of the root command.
type rootOptions struct {
	configPath string
	endpoint   string
	rt         *runtime
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "hooklens",
		Short:   "hooklens - inspect captured webhook requests",
		Long:    "hooklens is a terminal client for a webhook-capture backend: create endpoints, browse the requests they received and share their URLs.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts.configPath)
			if err != nil {
				return err
			}
			opts.rt = rt
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.rt != nil && opts.rt.logCloser != nil {
				return opts.rt.logCloser.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts.rt, opts.endpoint)
		},
	}

	cmd.SilenceUsage = true

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Config file (default <data-dir>/config.yaml)")
	pf.String("api-base-url", "", "Backend API base URL, e.g. https://hooks.example.com/api")
	pf.Duration("timeout", 0, "Backend request timeout")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("data-dir", "", "Directory for the log file and saved location")
	cmd.Flags().StringVar(&opts.endpoint, "webhook-endpoint", "", "Open the webhook with this endpoint on start")

	cmd.AddCommand(
		NewListCommand(opts),
		NewCreateCommand(opts),
		NewDeleteCommand(opts),
		NewRequestsCommand(opts),
		NewURLCommand(opts),
	)

	return cmd
}

func setup(cmd *cobra.Command, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	closer, err := logger.Init(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(log.Logger),
	)
	log.Debug().Str("command", cmd.Name()).Str("base_url", cfg.API.BaseURL).Msg("starting")
	return &runtime{cfg: cfg, client: client, logCloser: closer}, nil
}

// tuiModel wraps the InspectorView for bubbletea
type tuiModel struct {
	view *views.InspectorView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.InspectorView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// openLocation restores the saved location; an explicit endpoint wins.
func openLocation(ctx context.Context, cfg *config.Config, endpoint string) (*locsqlite.Store, *location.Location, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := locsqlite.New(cfg.LocationDBPath())
	if err != nil {
		return nil, nil, err
	}

	loc, err := location.Restore(ctx, store)
	if err != nil {
		log.Warn().Err(err).Msg("saved location unreadable, starting on the list")
	}
	if endpoint != "" {
		loc.SetEndpoint(endpoint)
	}
	return store, loc, nil
}

// runTUI starts the TUI application
func runTUI(ctx context.Context, rt *runtime, endpoint string) error {
	store, loc, err := openLocation(ctx, rt.cfg, endpoint)
	if err != nil {
		return err
	}
	defer store.Close()

	model := tuiModel{
		view: views.NewInspectorView(rt.client, loc,
			views.WithPollInterval(rt.cfg.Poll.Interval),
			views.WithToastLifetime(rt.cfg.Toast.Lifetime),
			views.WithLocationStore(store),
			views.WithCursorBlink(rt.cfg.UI.CursorBlink),
			views.WithLogger(log.Logger),
		),
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}
