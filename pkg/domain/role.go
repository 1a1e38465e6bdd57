package domain

import (
	"strings"

	dErrors "realtyref/pkg/domain-errors"
)

// Role is the user-type tag stored after login. It decides which backend
// endpoints a screen talks to.
type Role string

const (
	RoleWealthAssociate   Role = "WealthAssociate"
	RoleReferralAssociate Role = "ReferralAssociate"
	RoleCustomer          Role = "Customer"
	RoleCoreMember        Role = "CoreMember"
	RoleInvestor          Role = "Investor"
	RoleNRI               Role = "NRI"
	RoleSkilledResource   Role = "SkilledResource"
	RoleCallCenter        Role = "CallCenter"
)

// rolePrefixes maps each role to the backend route prefix of its own
// resources (login, profile, password reset).
var rolePrefixes = map[Role]string{
	RoleWealthAssociate:   "agent",
	RoleReferralAssociate: "agent",
	RoleCustomer:          "customer",
	RoleCoreMember:        "core",
	RoleInvestor:          "investors",
	RoleNRI:               "nri",
	RoleSkilledResource:   "skillLabour",
	RoleCallCenter:        "callcenter",
}

// Roles returns every known role in display order.
func Roles() []Role {
	return []Role{
		RoleWealthAssociate,
		RoleReferralAssociate,
		RoleCustomer,
		RoleCoreMember,
		RoleInvestor,
		RoleNRI,
		RoleSkilledResource,
		RoleCallCenter,
	}
}

// ParseRole validates a role tag. Matching ignores case and surrounding
// whitespace so values typed on the command line are accepted.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "user type is required")
	}
	for _, r := range Roles() {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown user type %q", s)
}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := rolePrefixes[r]
	return ok
}

// Prefix returns the backend route prefix for the role's own resources.
func (r Role) Prefix() string {
	return rolePrefixes[r]
}

// IsAgent reports whether r is one of the two agent roles.
func (r Role) IsAgent() bool {
	return r == RoleWealthAssociate || r == RoleReferralAssociate
}

// IsStaff reports whether r can see and delete records it did not refer.
func (r Role) IsStaff() bool {
	return r == RoleCoreMember || r == RoleCallCenter
}
