package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	dErrors "realtyref/pkg/domain-errors"
)

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or modify your own details",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show your full record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := c.app.profile.Get(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, k := range p.Keys() {
				fmt.Fprintf(out, "%s: %s\n", k, p.Get(k))
			}
			return nil
		},
	}

	update := &cobra.Command{
		Use:   "update <field=value>...",
		Short: "Replace fields of your record",
		Long: `Fetches your record, applies the changes and saves the whole record
back. Example: realty profile update FullName="Ravi Kumar" Locations=Guntur`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changes, err := parseAssignments(args)
			if err != nil {
				return err
			}
			p, err := c.app.profile.Modify(cmd.Context(), changes)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) of %s.\n", len(changes), p.Get("_id"))
			return nil
		},
	}

	cmd.AddCommand(show, update)
	return cmd
}

func parseAssignments(args []string) (map[string]string, error) {
	changes := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation, "expected field=value, got %q", a)
		}
		changes[strings.TrimSpace(k)] = v
	}
	return changes, nil
}
