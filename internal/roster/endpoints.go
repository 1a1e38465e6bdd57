package roster

import (
	"net/url"

	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// Endpoints are the list and delete routes of a collection for one role.
// Delete is a prefix; the record id is appended.
type Endpoints struct {
	List   string
	Delete string
}

// DeletePath returns the delete route for id.
func (e Endpoints) DeletePath(id string) string {
	return e.Delete + url.PathEscape(id)
}

type route struct {
	agent  string
	staff  string
	delete string
	// callCenterOnly restricts listing to CallCenter.
	callCenterOnly bool
	// everyone lists with the same route for every role.
	everyone string
}

var routes = map[domain.Collection]route{
	domain.CollectionAgents: {
		agent:  "/agent/referredagents",
		staff:  "/agent/AgentDetails",
		delete: "/agent/deleteagent/",
	},
	domain.CollectionCustomers: {
		agent:  "/customer/myCustomers",
		staff:  "/customer/getcustomer",
		delete: "/customer/deletecustomer/",
	},
	domain.CollectionCoreMembers: {
		staff:          "/core/getcore",
		delete:         "/core/deletecore/",
		callCenterOnly: true,
	},
	domain.CollectionInvestors: {
		staff:  "/investors/getinvestor",
		delete: "/investors/delete/",
	},
	domain.CollectionNRIs: {
		staff:  "/nri/getnri",
		delete: "/nri/delete/",
	},
	domain.CollectionSkilledResources: {
		staff:  "/skillLabour/getskilled",
		delete: "/skillLabour/delete/",
	},
	domain.CollectionProperties: {
		everyone: "/properties/getApproveProperty",
		delete:   "/properties/delete/",
	},
}

// Resolve picks the endpoints of collection c for role. Roles that may not
// see the collection get forbidden.
func Resolve(c domain.Collection, role domain.Role) (Endpoints, error) {
	r, ok := routes[c]
	if !ok {
		return Endpoints{}, dErrors.Newf(dErrors.CodeValidation, "unknown collection %q", c)
	}
	if !role.IsValid() {
		return Endpoints{}, dErrors.Newf(dErrors.CodeForbidden, "unknown user type %q", role)
	}

	var list string
	switch {
	case r.everyone != "":
		list = r.everyone
	case r.callCenterOnly:
		if role == domain.RoleCallCenter {
			list = r.staff
		}
	case role.IsStaff():
		list = r.staff
	case role.IsAgent():
		list = r.agent
	}
	if list == "" {
		return Endpoints{}, dErrors.Newf(dErrors.CodeForbidden, "%s cannot view %s", role, c)
	}
	return Endpoints{List: list, Delete: r.delete}, nil
}

// CanDelete reports whether role may delete records of c. Staff can delete
// anything they can see; agents can additionally delete properties.
func CanDelete(c domain.Collection, role domain.Role) bool {
	if _, err := Resolve(c, role); err != nil {
		return false
	}
	if role.IsStaff() {
		return true
	}
	return c == domain.CollectionProperties && role.IsAgent()
}
