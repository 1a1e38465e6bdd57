package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"realtyref/internal/roster"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "List a collection your user type can see",
		Long: `Collections: agents, customers, core-members, investors, nris,
skilled-resources, properties. Agents see the people they referred; core
members and call center staff see everyone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := domain.ParseCollection(args[0])
			if err != nil {
				return err
			}
			screen := roster.NewScreen(c.app.roster, c.app.session, coll,
				roster.WithScreenLogger(c.app.log),
				roster.WithMetrics(c.app.listMetrics),
			)
			records := screen.Refresh(cmd.Context())

			out := cmd.OutOrStdout()
			if screen.Degraded() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not load %s: %s\n", coll, dErrors.UserMessage(screen.Err()))
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No records.")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s\t%s\t%s\n", r.ID, r.Name, r.Mobile)
			}
			return nil
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete one record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := domain.ParseCollection(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			screen := roster.NewScreen(c.app.roster, c.app.session, coll,
				roster.WithScreenLogger(c.app.log),
				roster.WithMetrics(c.app.listMetrics),
			)
			screen.Refresh(ctx)
			if screen.Degraded() {
				return screen.Err()
			}

			var confirm roster.Confirmer = roster.ConfirmFunc(func(context.Context, string) (bool, error) {
				return true, nil
			})
			if !yes {
				confirm = promptConfirm(cmd)
			}
			outcome, err := screen.Delete(ctx, args[1], confirm)
			if err != nil {
				return err
			}
			switch outcome {
			case roster.Deleted:
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			case roster.Cancelled:
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// promptConfirm asks on the command's stdin and accepts y or yes.
func promptConfirm(cmd *cobra.Command) roster.Confirmer {
	return roster.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return false, nil
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}
