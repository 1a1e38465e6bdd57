package auth

import "realtyref/pkg/domain"

// Destination names the screen a role lands on after login.
type Destination string

const (
	HomeAgent      Destination = "AgentDashboard"
	HomeCustomer   Destination = "CustomerDashboard"
	HomeCore       Destination = "CoreDashboard"
	HomeInvestor   Destination = "InvestorDashboard"
	HomeNRI        Destination = "NriDashboard"
	HomeSkilled    Destination = "SkillDashboard"
	HomeCallCenter Destination = "CallCenterDashboard"
	HomeLogin      Destination = "Login"
)

func Home(role domain.Role) Destination {
	switch {
	case role.IsAgent():
		return HomeAgent
	case role == domain.RoleCustomer:
		return HomeCustomer
	case role == domain.RoleCoreMember:
		return HomeCore
	case role == domain.RoleInvestor:
		return HomeInvestor
	case role == domain.RoleNRI:
		return HomeNRI
	case role == domain.RoleSkilledResource:
		return HomeSkilled
	case role == domain.RoleCallCenter:
		return HomeCallCenter
	default:
		return HomeLogin
	}
}
