// Package harness provides E2E testing utilities for hooklens.
package harness

import (
	"os"
	"testing"
	"time"

	"github.com/artpar/hooklens/internal/api/apitest"
)

// E2EHarness is the main test orchestrator. It owns a fake webhook backend
// and a scratch data directory shared by the CLI and TUI runners.
type E2EHarness struct {
	t       *testing.T
	backend *apitest.Server
	tmpDir  string
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	Timeout time.Duration // Default: 5 seconds
}

// New creates a new E2E harness.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	h := &E2EHarness{
		t:       t,
		timeout: cfg.Timeout,
	}

	tmpDir, err := os.MkdirTemp("", "hooklens-e2e-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	h.tmpDir = tmpDir
	h.backend = apitest.New()

	t.Cleanup(h.cleanup)
	return h
}

func (h *E2EHarness) cleanup() {
	h.backend.Close()
	os.RemoveAll(h.tmpDir)
}

// Backend returns the fake webhook backend.
func (h *E2EHarness) Backend() *apitest.Server {
	return h.backend
}

// BaseURL returns the API base URL of the fake backend.
func (h *E2EHarness) BaseURL() string {
	return h.backend.BaseURL()
}

// TmpDir returns the temporary directory path.
func (h *E2EHarness) TmpDir() string {
	return h.tmpDir
}

// Timeout returns the configured timeout.
func (h *E2EHarness) Timeout() time.Duration {
	return h.timeout
}

// T returns the testing.T instance.
func (h *E2EHarness) T() *testing.T {
	return h.t
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
