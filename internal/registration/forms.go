package registration

import (
	"regexp"
	"strings"

	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

var (
	localMobile   = regexp.MustCompile(`^[0-9]{10}$`)
	foreignMobile = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
)

// Location is the parliament/assembly pair chosen on a form, by display name.
type Location struct {
	Parliament string
	Assembly   string
}

// AgentForm registers a wealth or referral associate.
type AgentForm struct {
	FullName     string
	MobileNumber string
	Email        string
	Password     string
	Locality     string
	Expertise    string
	Experience   string
	Location     Location
	ReferralCode string
}

type CustomerForm struct {
	FullName     string
	MobileNumber string
	Occupation   string
	Password     string
	Locality     string
	Location     Location
	ReferralCode string
}

type InvestorForm struct {
	FullName     string
	MobileNumber string
	Locality     string
	Location     Location
	ReferralCode string
}

type SkilledResourceForm struct {
	FullName     string
	MobileNumber string
	SelectSkill  string
	Locality     string
	Location     Location
	ReferralCode string
}

// NRIForm has no parliament/assembly: NRIs are registered by country and
// only carry a referrer.
type NRIForm struct {
	Name            string
	Country         string
	Locality        string
	IndianLocation  string
	Occupation      string
	MobileIN        string
	MobileCountryNo string
	ReferralCode    string
}

// Endpoint returns the create path for role's registration form.
func Endpoint(role domain.Role) (string, bool) {
	switch role {
	case domain.RoleWealthAssociate, domain.RoleReferralAssociate:
		return "/agent/AgentRegister", true
	case domain.RoleCustomer:
		return "/customer/addCustomer", true
	case domain.RoleInvestor:
		return "/investors/register", true
	case domain.RoleSkilledResource:
		return "/skillLabour/register", true
	case domain.RoleNRI:
		return "/nri/addnri", true
	default:
		return "", false
	}
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return dErrors.Newf(dErrors.CodeValidation, "%s is required", f.name)
		}
	}
	return nil
}

func validateMobile(name, v string) error {
	if !localMobile.MatchString(strings.TrimSpace(v)) {
		return dErrors.Newf(dErrors.CodeValidation, "%s must be a 10 digit number", name)
	}
	return nil
}

func (f AgentForm) validate() error {
	if err := required(field{"Full name", f.FullName}, field{"Mobile number", f.MobileNumber}); err != nil {
		return err
	}
	return validateMobile("Mobile number", f.MobileNumber)
}

func (f CustomerForm) validate() error {
	if err := required(
		field{"Full name", f.FullName},
		field{"Mobile number", f.MobileNumber},
		field{"Occupation", f.Occupation},
	); err != nil {
		return err
	}
	return validateMobile("Mobile number", f.MobileNumber)
}

func (f InvestorForm) validate() error {
	if err := required(field{"Full name", f.FullName}, field{"Mobile number", f.MobileNumber}); err != nil {
		return err
	}
	return validateMobile("Mobile number", f.MobileNumber)
}

func (f SkilledResourceForm) validate() error {
	if err := required(
		field{"Full name", f.FullName},
		field{"Mobile number", f.MobileNumber},
		field{"Skill", f.SelectSkill},
	); err != nil {
		return err
	}
	return validateMobile("Mobile number", f.MobileNumber)
}

func (f NRIForm) validate() error {
	if err := required(
		field{"Name", f.Name},
		field{"Country", f.Country},
		field{"Indian mobile number", f.MobileIN},
	); err != nil {
		return err
	}
	if err := validateMobile("Indian mobile number", f.MobileIN); err != nil {
		return err
	}
	if v := strings.TrimSpace(f.MobileCountryNo); v != "" && !foreignMobile.MatchString(v) {
		return dErrors.New(dErrors.CodeValidation, "Country mobile number must be 6 to 15 digits")
	}
	return nil
}
