package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/artpar/hooklens/internal/filter"
	"github.com/spf13/cobra"
)

// RequestsOptions holds options for the requests command.
type RequestsOptions struct {
	Filter        string
	FilterTimeout time.Duration
	Output        string
}

// NewRequestsCommand creates the requests command.
func NewRequestsCommand(root *rootOptions) *cobra.Command {
	opts := &RequestsOptions{}

	cmd := &cobra.Command{
		Use:   "requests ENDPOINT",
		Short: "List requests captured by a webhook",
		Long: `List requests captured by a webhook.

--filter takes a JavaScript expression evaluated once per request with the
request bound to "req", for example:

  hooklens requests abc123 --filter 'req.method == "POST" && req.json.body.id > 10'`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequests(cmd, root, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "JavaScript predicate over req")
	cmd.Flags().DurationVar(&opts.FilterTimeout, "filter-timeout", 5*time.Second, "Maximum time spent filtering")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", OutputTable, "Output format (table, json, yaml)")
	return cmd
}

func runRequests(cmd *cobra.Command, root *rootOptions, endpoint string, opts *RequestsOptions) error {
	f, err := filter.Compile(opts.Filter)
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	requests, err := root.rt.client.ListRequests(cmd.Context(), endpoint)
	if err != nil {
		return err
	}

	requests, err = f.ApplyWithTimeout(requests, opts.FilterTimeout)
	if err != nil {
		return fmt.Errorf("filter requests: %w", err)
	}

	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Method,
			r.IPAddress,
			r.UserAgent,
			core.FormatResponseTime(r.ResponseTime),
			core.FormatUserDate(r.CreatedAt, time.Local),
		})
	}
	return render(cmd.OutOrStdout(), opts.Output, requests,
		[]string{"ID", "METHOD", "IP ADDRESS", "USER AGENT", "RESPONSE", "CREATED"}, rows)
}
