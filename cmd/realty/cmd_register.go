package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"realtyref/internal/registration"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

type registerFlags struct {
	name            string
	mobile          string
	email           string
	password        string
	locality        string
	expertise       string
	experience      string
	occupation      string
	skill           string
	parliament      string
	assembly        string
	referral        string
	country         string
	indianLocation  string
	mobileCountryNo string
}

func (c *cli) registerCmd() *cobra.Command {
	var f registerFlags
	cmd := &cobra.Command{
		Use:   "register <user-type>",
		Short: "Register an agent, customer, investor, skilled resource or NRI",
		Long: `Register a new user. Every form except NRI needs --parliament and
--assembly; the pair becomes the new user's referral code. The referrer is
--referral when given, otherwise the signed-in user's own code or mobile,
otherwise the root code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(args[0])
			if err != nil {
				return err
			}
			created, err := c.runRegister(cmd, role, f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created.Message != "" {
				fmt.Fprintln(out, created.Message)
			}
			fmt.Fprintf(out, "id: %s\n", created.ID)
			if created.MyRefferalCode != "" {
				fmt.Fprintf(out, "referral code: %s\n", created.MyRefferalCode)
			}
			fmt.Fprintf(out, "referred by: %s\n", created.ReferredBy)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "full name")
	fl.StringVarP(&f.mobile, "mobile", "m", "", "10 digit mobile number")
	fl.StringVar(&f.email, "email", "", "email (agents)")
	fl.StringVarP(&f.password, "password", "p", "", "password (agents, customers)")
	fl.StringVar(&f.locality, "locality", "", "locality")
	fl.StringVar(&f.expertise, "expertise", "", "expertise (agents)")
	fl.StringVar(&f.experience, "experience", "", "experience (agents)")
	fl.StringVar(&f.occupation, "occupation", "", "occupation (customers, NRIs)")
	fl.StringVar(&f.skill, "skill", "", "skill (skilled resources)")
	fl.StringVar(&f.parliament, "parliament", "", "parliament constituency")
	fl.StringVar(&f.assembly, "assembly", "", "assembly constituency")
	fl.StringVar(&f.referral, "referral", "", "referral code of the referrer")
	fl.StringVar(&f.country, "country", "", "country of residence (NRIs)")
	fl.StringVar(&f.indianLocation, "indian-location", "", "location in India (NRIs)")
	fl.StringVar(&f.mobileCountryNo, "mobile-country", "", "mobile number abroad (NRIs)")
	return cmd
}

func (c *cli) runRegister(cmd *cobra.Command, role domain.Role, f registerFlags) (*registration.Created, error) {
	ctx := cmd.Context()
	svc := c.app.register

	if role == domain.RoleNRI {
		return svc.RegisterNRI(ctx, registration.NRIForm{
			Name:            f.name,
			Country:         f.country,
			Locality:        f.locality,
			IndianLocation:  f.indianLocation,
			Occupation:      f.occupation,
			MobileIN:        f.mobile,
			MobileCountryNo: f.mobileCountryNo,
			ReferralCode:    f.referral,
		})
	}

	parliament, assembly, err := c.pickLocation(cmd, f.parliament, f.assembly)
	if err != nil {
		return nil, err
	}
	loc := registration.Location{Parliament: parliament, Assembly: assembly}

	switch {
	case role.IsAgent():
		return svc.RegisterAgent(ctx, role, registration.AgentForm{
			FullName:     f.name,
			MobileNumber: f.mobile,
			Email:        f.email,
			Password:     f.password,
			Locality:     f.locality,
			Expertise:    f.expertise,
			Experience:   f.experience,
			Location:     loc,
			ReferralCode: f.referral,
		})
	case role == domain.RoleCustomer:
		return svc.RegisterCustomer(ctx, registration.CustomerForm{
			FullName:     f.name,
			MobileNumber: f.mobile,
			Occupation:   f.occupation,
			Password:     f.password,
			Locality:     f.locality,
			Location:     loc,
			ReferralCode: f.referral,
		})
	case role == domain.RoleInvestor:
		return svc.RegisterInvestor(ctx, registration.InvestorForm{
			FullName:     f.name,
			MobileNumber: f.mobile,
			Locality:     f.locality,
			Location:     loc,
			ReferralCode: f.referral,
		})
	case role == domain.RoleSkilledResource:
		return svc.RegisterSkilledResource(ctx, registration.SkilledResourceForm{
			FullName:     f.name,
			MobileNumber: f.mobile,
			SelectSkill:  f.skill,
			Locality:     f.locality,
			Location:     loc,
			ReferralCode: f.referral,
		})
	default:
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s accounts cannot be registered here", role)
	}
}
