package domain

import (
	"strings"

	dErrors "realtyref/pkg/domain-errors"
)

// Collection names a backend record collection a list screen can show.
type Collection string

const (
	CollectionAgents           Collection = "agents"
	CollectionCustomers        Collection = "customers"
	CollectionCoreMembers      Collection = "core-members"
	CollectionInvestors        Collection = "investors"
	CollectionNRIs             Collection = "nris"
	CollectionSkilledResources Collection = "skilled-resources"
	CollectionProperties       Collection = "properties"
)

// Collections returns every collection in display order.
func Collections() []Collection {
	return []Collection{
		CollectionAgents,
		CollectionCustomers,
		CollectionCoreMembers,
		CollectionInvestors,
		CollectionNRIs,
		CollectionSkilledResources,
		CollectionProperties,
	}
}

func ParseCollection(s string) (Collection, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Collections() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown collection %q", s)
}

func (c Collection) String() string {
	return string(c)
}

// RegistrantRole returns the role whose records live in the collection, or ""
// for collections that do not hold users.
func (c Collection) RegistrantRole() Role {
	switch c {
	case CollectionAgents:
		return RoleWealthAssociate
	case CollectionCustomers:
		return RoleCustomer
	case CollectionCoreMembers:
		return RoleCoreMember
	case CollectionInvestors:
		return RoleInvestor
	case CollectionNRIs:
		return RoleNRI
	case CollectionSkilledResources:
		return RoleSkilledResource
	default:
		return ""
	}
}
