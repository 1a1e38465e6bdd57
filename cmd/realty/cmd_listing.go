package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"realtyref/internal/expert"
	"realtyref/internal/listing"
)

func (c *cli) propertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Post properties",
	}

	var p listing.Property
	add := &cobra.Command{
		Use:   "add",
		Short: "Post a property under your referral code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			posted, err := c.app.listing.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Property %s posted by %s.\n", posted.ID, posted.PostedBy)
			return nil
		},
	}
	add.Flags().StringVar(&p.PropertyType, "type", "", "property type")
	add.Flags().StringVar(&p.Location, "location", "", "location")
	add.Flags().StringVar(&p.Price, "price", "", "price")
	add.Flags().StringVar(&p.Photo, "photo", "", "photo URL")

	cmd.AddCommand(add)
	return cmd
}

func (c *cli) expertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expert",
		Short: "Expert panel requests",
	}

	var r expert.Request
	request := &cobra.Command{
		Use:   "request",
		Short: "Ask the expert panel for help",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.expert.Submit(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Request submitted.")
			return nil
		},
	}
	fl := request.Flags()
	fl.StringVar(&r.Name, "name", "", "your name")
	fl.StringVarP(&r.MobileNumber, "mobile", "m", "", "mobile number")
	fl.StringVar(&r.ExpertType, "type", "", "expert type (see 'realty lookup expertise')")
	fl.StringVar(&r.Reason, "reason", "", "what you need help with")
	fl.BoolVar(&r.WantsExpert, "wants-expert", true, "request a visit from an expert")

	cmd.AddCommand(request)
	return cmd
}
