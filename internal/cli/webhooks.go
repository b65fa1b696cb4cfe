package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/artpar/hooklens/internal/core"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			webhooks, err := root.rt.client.ListWebhooks(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(webhooks))
			for _, w := range webhooks {
				rows = append(rows, []string{
					strconv.FormatInt(w.ID, 10),
					w.Name,
					w.Endpoint,
					w.StatusLabel(),
					strconv.FormatInt(w.TotalRequests, 10),
					core.FormatDate(w.CreatedAt),
				})
			}
			return render(cmd.OutOrStdout(), output, webhooks,
				[]string{"ID", "NAME", "ENDPOINT", "STATUS", "REQUESTS", "CREATED"}, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputTable, "Output format (table, json, yaml)")
	return cmd
}

// CreateOptions holds options for the create command.
type CreateOptions struct {
	Description string
	Secret      string
	Output      string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(root *rootOptions) *cobra.Command {
	opts := &CreateOptions{}

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a webhook",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(opts.Output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			input := core.CreateWebhookInput{
				Name:        args[0],
				Description: opts.Description,
				Secret:      opts.Secret,
			}
			w, err := root.rt.client.CreateWebhook(cmd.Context(), input)
			if err != nil {
				return err
			}

			if opts.Output != OutputTable {
				return render(cmd.OutOrStdout(), opts.Output, w, nil, nil)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created webhook %q (id %d)\n", w.Name, w.ID)
			fmt.Fprintf(out, "URL: %s\n", root.rt.client.PublicURL(w.Endpoint))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Description, "description", "", "Webhook description")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "Webhook secret")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", OutputTable, "Output format (table, json, yaml)")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid webhook id %q", args[0])
			}

			if !yes {
				name := args[0]
				webhooks, err := root.rt.client.ListWebhooks(cmd.Context())
				if err != nil {
					return err
				}
				for _, w := range webhooks {
					if w.ID == id {
						name = w.Name
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Are you sure you want to delete %q? [y/N] ", name)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			if err := root.rt.client.DeleteWebhook(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted webhook %d\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// NewURLCommand creates the url command.
func NewURLCommand(root *rootOptions) *cobra.Command {
	var copyURL bool

	cmd := &cobra.Command{
		Use:   "url ENDPOINT",
		Short: "Print the public URL of a webhook endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := root.rt.client.PublicURL(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), u)
			if copyURL {
				if err := clipboard.WriteAll(u); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Webhook URL copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyURL, "copy", "c", false, "Also copy the URL to the clipboard")
	return cmd
}
