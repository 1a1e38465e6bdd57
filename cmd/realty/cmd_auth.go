package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"realtyref/internal/auth"
	"realtyref/pkg/domain"
)

func (c *cli) loginCmd() *cobra.Command {
	var mobile, password string
	cmd := &cobra.Command{
		Use:   "login <user-type>",
		Short: "Log in as a user type",
		Long: `Log in with mobile number and password. User types: WealthAssociate,
ReferralAssociate, Customer, CoreMember, Investor, NRI, SkilledResource,
CallCenter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			res, err := c.app.auth.Login(cmd.Context(), auth.Credentials{
				Role:         role,
				MobileNumber: mobile,
				Password:     password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Home: %s\n", res.Role, res.Home)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mobile, "mobile", "m", "", "mobile number")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user type and home screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !c.app.session.Authenticated() {
				fmt.Fprintf(out, "Not logged in. Home: %s\n", auth.HomeLogin)
				return nil
			}
			role := c.app.session.Role()
			fmt.Fprintf(out, "%s. Home: %s\n", role, auth.Home(role))
			return nil
		},
	}
}

func (c *cli) passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Reset a forgotten password",
	}

	forgot := &cobra.Command{
		Use:   "forgot <user-type> <mobile>",
		Short: "Request a password reset for a mobile number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			if err := c.app.auth.ForgotPassword(cmd.Context(), role, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset requested. Run 'realty password reset' to choose a new password.")
			return nil
		},
	}

	var password, confirm string
	reset := &cobra.Command{
		Use:   "reset <user-type>",
		Short: "Set a new password for the mobile number given to forgot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			if err := c.app.auth.ResetPassword(cmd.Context(), role, password, confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. You can log in now.")
			return nil
		},
	}
	reset.Flags().StringVarP(&password, "password", "p", "", "new password")
	reset.Flags().StringVar(&confirm, "confirm", "", "new password again")

	cmd.AddCommand(forgot, reset)
	return cmd
}
