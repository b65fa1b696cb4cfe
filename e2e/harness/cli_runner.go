package harness

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/artpar/hooklens/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness backend.
type CLIRunner struct {
	harness *E2EHarness
	stdin   string
}

// WithInput returns a runner that feeds input to the command's stdin.
func (r *CLIRunner) WithInput(input string) *CLIRunner {
	return &CLIRunner{harness: r.harness, stdin: input}
}

// Run executes a CLI command with the given arguments. The backend URL and
// data directory are appended automatically.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(r.stdin))
	cmd.SetArgs(append(args,
		"--api-base-url", r.harness.BaseURL(),
		"--data-dir", r.harness.TmpDir(),
	))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// List runs the list command with the given output format.
func (r *CLIRunner) List(format string) (*CLIResult, error) {
	return r.Run("list", "--output", format)
}

// Create runs the create command.
func (r *CLIRunner) Create(name string, opts ...string) (*CLIResult, error) {
	args := []string{"create", name}
	args = append(args, opts...)
	return r.Run(args...)
}

// Requests runs the requests command, optionally filtered.
func (r *CLIRunner) Requests(endpoint, filter string, opts ...string) (*CLIResult, error) {
	args := []string{"requests", endpoint}
	if filter != "" {
		args = append(args, "--filter", filter)
	}
	args = append(args, opts...)
	return r.Run(args...)
}
