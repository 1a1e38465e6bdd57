package roster

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realtyref/internal/backend"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/testutil"
)

func TestResolveEndpointTable(t *testing.T) {
	agents := []domain.Role{domain.RoleWealthAssociate, domain.RoleReferralAssociate}
	staff := []domain.Role{domain.RoleCoreMember, domain.RoleCallCenter}

	type want struct {
		list   string
		delete string
	}
	cases := map[domain.Collection]map[domain.Role]want{}
	add := func(c domain.Collection, roles []domain.Role, w want) {
		if cases[c] == nil {
			cases[c] = map[domain.Role]want{}
		}
		for _, r := range roles {
			cases[c][r] = w
		}
	}
	add(domain.CollectionAgents, agents, want{"/agent/referredagents", "/agent/deleteagent/x"})
	add(domain.CollectionAgents, staff, want{"/agent/AgentDetails", "/agent/deleteagent/x"})
	add(domain.CollectionCustomers, agents, want{"/customer/myCustomers", "/customer/deletecustomer/x"})
	add(domain.CollectionCustomers, staff, want{"/customer/getcustomer", "/customer/deletecustomer/x"})
	add(domain.CollectionCoreMembers, []domain.Role{domain.RoleCallCenter}, want{"/core/getcore", "/core/deletecore/x"})
	add(domain.CollectionInvestors, staff, want{"/investors/getinvestor", "/investors/delete/x"})
	add(domain.CollectionNRIs, staff, want{"/nri/getnri", "/nri/delete/x"})
	add(domain.CollectionSkilledResources, staff, want{"/skillLabour/getskilled", "/skillLabour/delete/x"})
	add(domain.CollectionProperties, domain.Roles(), want{"/properties/getApproveProperty", "/properties/delete/x"})

	for _, c := range domain.Collections() {
		for _, r := range domain.Roles() {
			t.Run(string(c)+"/"+string(r), func(t *testing.T) {
				ep, err := Resolve(c, r)
				w, allowed := cases[c][r]
				if !allowed {
					assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden), "expected forbidden, got %v", err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, w.list, ep.List)
				assert.Equal(t, w.delete, ep.DeletePath("x"))
			})
		}
	}
}

func TestResolveRejectsUnknownInputs(t *testing.T) {
	_, err := Resolve(domain.Collection("leads"), domain.RoleCoreMember)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = Resolve(domain.CollectionProperties, domain.Role("Guest"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestCanDelete(t *testing.T) {
	assert.True(t, CanDelete(domain.CollectionAgents, domain.RoleCoreMember))
	assert.True(t, CanDelete(domain.CollectionCoreMembers, domain.RoleCallCenter))
	assert.False(t, CanDelete(domain.CollectionCoreMembers, domain.RoleCoreMember), "core members cannot see core members")
	assert.False(t, CanDelete(domain.CollectionCustomers, domain.RoleWealthAssociate))
	assert.True(t, CanDelete(domain.CollectionProperties, domain.RoleReferralAssociate))
	assert.False(t, CanDelete(domain.CollectionProperties, domain.RoleCustomer))
}

func TestDeletePathEscapesID(t *testing.T) {
	ep := Endpoints{Delete: "/nri/delete/"}
	assert.Equal(t, "/nri/delete/a%2Fb", ep.DeletePath("a/b"))

	t.Run("the escaped id reaches the server as one segment", func(t *testing.T) {
		srv, rec := testutil.JSONServer(t, http.StatusOK, `{"message":"Deleted successfully"}`)
		client, err := backend.New(srv.URL + "/api")
		require.NoError(t, err)

		require.NoError(t, client.Delete(context.Background(), ep.DeletePath("a/b")))
		assert.Equal(t, http.MethodDelete, rec.Method)
		assert.Equal(t, "/api/nri/delete/a%2Fb", rec.RawPath)
		assert.Equal(t, "/api/nri/delete/a/b", rec.Path)
	})
}
