package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"realtyref/internal/catalog"
	"realtyref/internal/selection"
	dErrors "realtyref/pkg/domain-errors"
)

func (c *cli) lookupCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "lookup <parliaments|assemblies|occupations|expertise|skills> [parliament]",
		Short: "Show the reference lists the forms choose from",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var options []string
			switch args[0] {
			case "parliaments":
				ps, err := c.app.catalog.Parliaments(ctx)
				if err != nil {
					return err
				}
				for _, p := range ps {
					options = append(options, fmt.Sprintf("%s (%s)", p.Name, p.Code))
				}
			case "assemblies":
				if len(args) < 2 {
					return dErrors.New(dErrors.CodeValidation, "assemblies needs a parliament name")
				}
				ps, err := c.app.catalog.Parliaments(ctx)
				if err != nil {
					return err
				}
				p, ok := catalog.FindParliament(ps, args[1])
				if !ok {
					return dErrors.Newf(dErrors.CodeInvalidSelection, "unknown parliament %q", args[1])
				}
				for _, a := range p.Assemblies {
					options = append(options, fmt.Sprintf("%s (%s%s)", a.Name, p.Code, a.Code))
				}
			case "occupations", "expertise", "skills":
				list, err := c.lookupList(cmd, args[0])
				if err != nil {
					return err
				}
				options = list
			default:
				return dErrors.Newf(dErrors.CodeValidation, "unknown list %q", args[0])
			}
			printOptions(cmd.OutOrStdout(), options, search)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only show options containing this text")
	return cmd
}

func (c *cli) lookupList(cmd *cobra.Command, name string) ([]string, error) {
	ctx := cmd.Context()
	switch name {
	case "occupations":
		return c.app.catalog.Occupations(ctx)
	case "expertise":
		return c.app.catalog.Expertise(ctx)
	default:
		return c.app.catalog.Skills(ctx)
	}
}

func printOptions(w io.Writer, options []string, search string) {
	dd := selection.Strings(options)
	visible := dd.Visible()
	if search != "" {
		visible = dd.Search(search)
	}
	if len(visible) == 0 {
		fmt.Fprintln(w, "(no options)")
		return
	}
	for _, o := range visible {
		fmt.Fprintln(w, o)
	}
}

// pickLocation selects a parliament and assembly the way the form's
// dropdowns do. Names must match an option exactly, ignoring case; a blank
// name is never filled in for the user, even when only one option exists.
func (c *cli) pickLocation(cmd *cobra.Command, parliament, assembly string) (string, string, error) {
	if strings.TrimSpace(parliament) == "" || strings.TrimSpace(assembly) == "" {
		return "", "", dErrors.New(dErrors.CodeInvalidSelection, dErrors.MsgInvalidSelection)
	}
	ps, err := c.app.catalog.Parliaments(cmd.Context())
	if err != nil {
		return "", "", err
	}
	picker := selection.NewLocationPicker(ps)
	if err := picker.SelectParliament(resolveOption(picker.Parliament, parliament)); err != nil {
		return "", "", err
	}
	if err := picker.SelectAssembly(resolveOption(picker.Assembly, assembly)); err != nil {
		return "", "", err
	}
	p, a := picker.Names()
	return p, a, nil
}

// resolveOption maps typed onto the label of the option it names, ignoring
// case and surrounding space. Anything else is returned unchanged so Select
// rejects it.
func resolveOption[T any](dd *selection.Dropdown[T], typed string) string {
	want := strings.TrimSpace(typed)
	if want == "" {
		return typed
	}
	for _, o := range dd.Visible() {
		if label := dd.Label(o); strings.EqualFold(label, want) {
			return label
		}
	}
	return typed
}
