package stub

import (
	"slices"

	"realtyref/pkg/domain"
)

// ListRoute is one collection listing of the contract.
type ListRoute struct {
	Path         string
	Collection   domain.Collection
	Roles        []domain.Role
	ReferredOnly bool
	Envelope     string // "" for a bare array
}

func (r ListRoute) allows(role domain.Role) bool {
	return len(r.Roles) == 0 || slices.Contains(r.Roles, role)
}

// DeleteRoute removes one record of a collection by id.
type DeleteRoute struct {
	Pattern    string
	Collection domain.Collection
}

var (
	agentRoles = []domain.Role{domain.RoleWealthAssociate, domain.RoleReferralAssociate}
	staffRoles = []domain.Role{domain.RoleCoreMember, domain.RoleCallCenter}
)

// ListRoutes mirror the backend's listings, response envelope included.
var ListRoutes = []ListRoute{
	{Path: "/agent/referredagents", Collection: domain.CollectionAgents, Roles: agentRoles, ReferredOnly: true, Envelope: "referredAgents"},
	{Path: "/agent/AgentDetails", Collection: domain.CollectionAgents, Roles: staffRoles},
	{Path: "/customer/myCustomers", Collection: domain.CollectionCustomers, Roles: agentRoles, ReferredOnly: true, Envelope: "data"},
	{Path: "/customer/getcustomer", Collection: domain.CollectionCustomers, Roles: staffRoles, Envelope: "data"},
	{Path: "/core/getcore", Collection: domain.CollectionCoreMembers, Roles: []domain.Role{domain.RoleCallCenter}, Envelope: "data"},
	{Path: "/investors/getinvestor", Collection: domain.CollectionInvestors, Roles: staffRoles, Envelope: "data"},
	{Path: "/nri/getnri", Collection: domain.CollectionNRIs, Roles: staffRoles, Envelope: "data"},
	{Path: "/skillLabour/getskilled", Collection: domain.CollectionSkilledResources, Roles: staffRoles, Envelope: "data"},
	{Path: "/properties/getApproveProperty", Collection: domain.CollectionProperties, Envelope: "data"},
}

var DeleteRoutes = []DeleteRoute{
	{Pattern: "/agent/deleteagent/{id}", Collection: domain.CollectionAgents},
	{Pattern: "/customer/deletecustomer/{id}", Collection: domain.CollectionCustomers},
	{Pattern: "/core/deletecore/{id}", Collection: domain.CollectionCoreMembers},
	{Pattern: "/investors/delete/{id}", Collection: domain.CollectionInvestors},
	{Pattern: "/nri/delete/{id}", Collection: domain.CollectionNRIs},
	{Pattern: "/skillLabour/delete/{id}", Collection: domain.CollectionSkilledResources},
	{Pattern: "/properties/delete/{id}", Collection: domain.CollectionProperties},
}

// RegisterRoutes map each create endpoint to the role it registers. The
// agent endpoint reads the role from the body's AgentType.
var RegisterRoutes = map[string]domain.Role{
	"/agent/AgentRegister":  domain.RoleWealthAssociate,
	"/customer/addCustomer": domain.RoleCustomer,
	"/investors/register":   domain.RoleInvestor,
	"/skillLabour/register": domain.RoleSkilledResource,
	"/nri/addnri":           domain.RoleNRI,
}

// canDelete requires the role to see the collection through one of its list
// routes; beyond that only staff delete, and agents may remove properties.
func canDelete(c domain.Collection, role domain.Role) bool {
	if !slices.ContainsFunc(ListRoutes, func(r ListRoute) bool {
		return r.Collection == c && r.allows(role)
	}) {
		return false
	}
	if role.IsStaff() {
		return true
	}
	return c == domain.CollectionProperties && role.IsAgent()
}
