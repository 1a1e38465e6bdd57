package stub

import (
	"time"

	"realtyref/pkg/domain"
)

// Collections the stub keeps besides the user-facing ones.
const (
	collectionCallCenter     domain.Collection = "call-center"
	collectionExpertRequests domain.Collection = "expert-requests"
)

// Record is one stored document. Fields holds everything the client sent
// except the password; the typed fields are indexed copies.
type Record struct {
	ID           string
	Collection   domain.Collection
	Role         domain.Role
	Mobile       string
	PasswordHash []byte
	ReferralCode string
	ReferredBy   string
	Fields       map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Document renders the record the way the backend returns it.
func (r *Record) Document() map[string]any {
	doc := make(map[string]any, len(r.Fields)+4)
	for k, v := range r.Fields {
		doc[k] = v
	}
	doc["_id"] = r.ID
	if r.ReferralCode != "" {
		doc["MyRefferalCode"] = r.ReferralCode
	}
	if r.ReferredBy != "" {
		doc["ReferredBy"] = r.ReferredBy
	}
	if r.Role != "" && r.Collection == domain.CollectionAgents {
		doc["AgentType"] = string(r.Role)
	}
	doc["createdAt"] = r.CreatedAt.UTC().Format(time.RFC3339)
	return doc
}

func (r *Record) clone() *Record {
	c := *r
	c.Fields = make(map[string]any, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	c.PasswordHash = append([]byte(nil), r.PasswordHash...)
	return &c
}

// ListFilter narrows a listing. Empty ReferredBy lists everything.
type ListFilter struct {
	ReferredBy []string
}

func (f ListFilter) matches(r *Record) bool {
	if len(f.ReferredBy) == 0 {
		return true
	}
	for _, v := range f.ReferredBy {
		if v != "" && r.ReferredBy == v {
			return true
		}
	}
	return false
}

// collectionFor maps a role to the collection its accounts live in.
func collectionFor(role domain.Role) domain.Collection {
	switch {
	case role.IsAgent():
		return domain.CollectionAgents
	case role == domain.RoleCustomer:
		return domain.CollectionCustomers
	case role == domain.RoleCoreMember:
		return domain.CollectionCoreMembers
	case role == domain.RoleInvestor:
		return domain.CollectionInvestors
	case role == domain.RoleNRI:
		return domain.CollectionNRIs
	case role == domain.RoleSkilledResource:
		return domain.CollectionSkilledResources
	case role == domain.RoleCallCenter:
		return collectionCallCenter
	default:
		return ""
	}
}

// rolesByPrefix maps a route prefix to the roles that log in through it.
func rolesByPrefix(prefix string) []domain.Role {
	var roles []domain.Role
	for _, r := range domain.Roles() {
		if r.Prefix() == prefix {
			roles = append(roles, r)
		}
	}
	return roles
}
