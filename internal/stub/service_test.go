package stub

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"realtyref/internal/platform/metrics"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *InMemoryStore
	tokens  *TokenService
	metrics *metrics.Metrics
	svc     *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	seed, err := DefaultSeed()
	s.Require().NoError(err)
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
	s.tokens = NewTokenService("test-signing-key", "realty-stub", time.Hour)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.svc = NewService(s.store, s.tokens, seed, WithMetrics(s.metrics))
}

func (s *ServiceSuite) register(role domain.Role, body map[string]any) *Record {
	rec, err := s.svc.Register(s.ctx, role, body)
	s.Require().NoError(err)
	return rec
}

func (s *ServiceSuite) callerFor(r *Record) requestcontext.Caller {
	token, err := s.tokens.Issue(r)
	s.Require().NoError(err)
	caller, err := s.tokens.ValidateToken(token)
	s.Require().NoError(err)
	return caller
}

func (s *ServiceSuite) TestRegister() {
	s.Run("password defaults to mobile number", func() {
		s.register(domain.RoleCustomer, map[string]any{"FullName": "Ravi", "MobileNumber": "9876543210"})

		_, rec, err := s.svc.Login(s.ctx, "customer", "9876543210", "9876543210", "")
		s.Require().NoError(err)
		s.Equal(domain.RoleCustomer, rec.Role)
	})

	s.Run("duplicate mobile in the same collection is a conflict", func() {
		body := map[string]any{"FullName": "Ravi", "MobileNumber": "9000000100"}
		s.register(domain.RoleInvestor, body)

		_, err := s.svc.Register(s.ctx, domain.RoleInvestor, body)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("Mobile number already exists", dErrors.MessageOf(err))
	})

	s.Run("same mobile may register under another role", func() {
		s.register(domain.RoleNRI, map[string]any{"Name": "Anil", "MobileIN": "9000000101"})
		s.register(domain.RoleSkilledResource, map[string]any{"FullName": "Anil", "MobileNumber": "9000000101"})
	})

	s.Run("mobile and name are required", func() {
		_, err := s.svc.Register(s.ctx, domain.RoleCustomer, map[string]any{"FullName": "Ravi"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		_, err = s.svc.Register(s.ctx, domain.RoleCustomer, map[string]any{"MobileNumber": "9000000102"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("password is not kept in the document", func() {
		rec := s.register(domain.RoleWealthAssociate, map[string]any{
			"FullName": "Sita", "MobileNumber": "9000000103", "Password": "secret1",
			"MyRefferalCode": "040401", "ReferredBy": "WA00000000",
		})
		doc := rec.Document()
		s.NotContains(doc, "Password")
		s.Equal("040401", doc["MyRefferalCode"])
		s.Equal("WA00000000", doc["ReferredBy"])
		s.Equal("WealthAssociate", doc["AgentType"])
	})

	s.Run("counts created records", func() {
		before := promtest.ToFloat64(s.metrics.RecordsCreated.WithLabelValues("customers"))
		s.register(domain.RoleCustomer, map[string]any{"FullName": "Mala", "MobileNumber": "9000000104"})
		s.Equal(before+1, promtest.ToFloat64(s.metrics.RecordsCreated.WithLabelValues("customers")))
	})
}

func (s *ServiceSuite) TestLogin() {
	s.register(domain.RoleReferralAssociate, map[string]any{"FullName": "Sita", "MobileNumber": "9000000200", "Password": "secret1"})

	s.Run("agent prefix finds either agent role", func() {
		token, rec, err := s.svc.Login(s.ctx, "agent", "9000000200", "secret1",
			"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
		s.Require().NoError(err)
		s.Equal(domain.RoleReferralAssociate, rec.Role)

		caller, err := s.tokens.ValidateToken(token)
		s.Require().NoError(err)
		s.Equal(rec.ID, caller.RecordID)
		s.Equal("ReferralAssociate", caller.Role)

		stored, err := s.store.Get(s.ctx, domain.CollectionAgents, rec.ID)
		s.Require().NoError(err)
		s.Contains(stored.Fields["LastLoginDevice"], "Firefox")
	})

	s.Run("wrong password is invalid credentials", func() {
		_, _, err := s.svc.Login(s.ctx, "agent", "9000000200", "nope", "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal(dErrors.MsgInvalidCredentials, dErrors.MessageOf(err))
	})

	s.Run("unknown mobile is invalid credentials", func() {
		_, _, err := s.svc.Login(s.ctx, "agent", "9999999999", "secret1", "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("account under another prefix does not log in", func() {
		_, _, err := s.svc.Login(s.ctx, "customer", "9000000200", "secret1", "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("outcomes are counted by prefix", func() {
		s.Equal(1.0, promtest.ToFloat64(s.metrics.Logins.WithLabelValues("agent", "ok")))
		s.Equal(2.0, promtest.ToFloat64(s.metrics.Logins.WithLabelValues("agent", "rejected")))
	})
}

func (s *ServiceSuite) TestLoginLockout() {
	s.svc = NewService(s.store, s.tokens, &Seed{}, WithMetrics(s.metrics), WithLockout(NewLockout(2, time.Minute)))
	s.register(domain.RoleCustomer, map[string]any{"FullName": "Ravi", "MobileNumber": "9000000210", "Password": "secret1"})
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) context.Context { return requestcontext.WithTime(s.ctx, start.Add(d)) }

	for range 2 {
		_, _, err := s.svc.Login(at(0), "customer", "9000000210", "wrong", "")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	_, _, err := s.svc.Login(at(10*time.Second), "customer", "9000000210", "secret1", "")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited), "correct password is refused while locked")
	s.Contains(dErrors.MessageOf(err), "Try again in 1 minute")
	s.Equal(1.0, promtest.ToFloat64(s.metrics.Logins.WithLabelValues("customer", "locked")))

	_, _, err = s.svc.Login(at(2*time.Minute), "customer", "9000000210", "secret1", "")
	s.Require().NoError(err, "lock expires after the window")
}

func (s *ServiceSuite) TestBootstrap() {
	s.Require().NoError(s.svc.Bootstrap(s.ctx))
	s.Require().NoError(s.svc.Bootstrap(s.ctx), "second run skips existing staff")

	_, rec, err := s.svc.Login(s.ctx, "core", "9000000001", "core123", "")
	s.Require().NoError(err)
	s.Equal(domain.RoleCoreMember, rec.Role)

	_, rec, err = s.svc.Login(s.ctx, "callcenter", "9000000002", "call123", "")
	s.Require().NoError(err)
	s.Equal(domain.RoleCallCenter, rec.Role)
}

func (s *ServiceSuite) TestListScoping() {
	s.Require().NoError(s.svc.Bootstrap(s.ctx))
	agentA := s.register(domain.RoleWealthAssociate, map[string]any{"FullName": "A", "MobileNumber": "9000000301", "MyRefferalCode": "040401"})
	agentB := s.register(domain.RoleWealthAssociate, map[string]any{"FullName": "B", "MobileNumber": "9000000302", "MyRefferalCode": "161605"})
	s.register(domain.RoleCustomer, map[string]any{"FullName": "C1", "MobileNumber": "9000000303", "ReferredBy": "040401"})
	s.register(domain.RoleCustomer, map[string]any{"FullName": "C2", "MobileNumber": "9000000304", "ReferredBy": "9000000302"})
	s.register(domain.RoleWealthAssociate, map[string]any{"FullName": "D", "MobileNumber": "9000000305", "ReferredBy": "040401"})

	route := func(path string) ListRoute {
		for _, r := range ListRoutes {
			if r.Path == path {
				return r
			}
		}
		s.FailNow("no route " + path)
		return ListRoute{}
	}
	names := func(recs []*Record) []string {
		var out []string
		for _, r := range recs {
			out = append(out, r.Fields["FullName"].(string))
		}
		return out
	}

	s.Run("agent sees customers referred by code or mobile", func() {
		recs, err := s.svc.List(s.ctx, s.callerFor(agentA), route("/customer/myCustomers"))
		s.Require().NoError(err)
		s.Equal([]string{"C1"}, names(recs))

		recs, err = s.svc.List(s.ctx, s.callerFor(agentB), route("/customer/myCustomers"))
		s.Require().NoError(err)
		s.Equal([]string{"C2"}, names(recs))
	})

	s.Run("agent sees referred agents only", func() {
		recs, err := s.svc.List(s.ctx, s.callerFor(agentA), route("/agent/referredagents"))
		s.Require().NoError(err)
		s.Equal([]string{"D"}, names(recs))
	})

	s.Run("agent cannot use staff listings", func() {
		_, err := s.svc.List(s.ctx, s.callerFor(agentA), route("/customer/getcustomer"))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("core members listing is call center only", func() {
		core, err := s.store.FindByMobile(s.ctx, domain.CollectionCoreMembers, "9000000001")
		s.Require().NoError(err)
		_, err = s.svc.List(s.ctx, s.callerFor(core), route("/core/getcore"))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		desk, err := s.store.FindByMobile(s.ctx, collectionCallCenter, "9000000002")
		s.Require().NoError(err)
		recs, err := s.svc.List(s.ctx, s.callerFor(desk), route("/core/getcore"))
		s.Require().NoError(err)
		s.Len(recs, 1)
	})

	s.Run("staff see every customer", func() {
		core, err := s.store.FindByMobile(s.ctx, domain.CollectionCoreMembers, "9000000001")
		s.Require().NoError(err)
		recs, err := s.svc.List(s.ctx, s.callerFor(core), route("/customer/getcustomer"))
		s.Require().NoError(err)
		s.ElementsMatch([]string{"C1", "C2"}, names(recs))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.Require().NoError(s.svc.Bootstrap(s.ctx))
	core, err := s.store.FindByMobile(s.ctx, domain.CollectionCoreMembers, "9000000001")
	s.Require().NoError(err)
	customer := s.register(domain.RoleCustomer, map[string]any{"FullName": "C", "MobileNumber": "9000000401"})
	agent := s.register(domain.RoleWealthAssociate, map[string]any{"FullName": "A", "MobileNumber": "9000000402", "MyRefferalCode": "040401"})

	s.Run("customer cannot delete", func() {
		err := s.svc.Delete(s.ctx, s.callerFor(customer), domain.CollectionCustomers, customer.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("staff delete exactly one record", func() {
		s.Require().NoError(s.svc.Delete(s.ctx, s.callerFor(core), domain.CollectionCustomers, customer.ID))
		_, err := s.store.Get(s.ctx, domain.CollectionCustomers, customer.ID)
		s.Error(err)
		_, err = s.store.Get(s.ctx, domain.CollectionAgents, agent.ID)
		s.NoError(err)
	})

	s.Run("core member cannot delete core members", func() {
		err := s.svc.Delete(s.ctx, s.callerFor(core), domain.CollectionCoreMembers, core.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.store.Get(s.ctx, domain.CollectionCoreMembers, core.ID)
		s.NoError(err)
	})

	s.Run("call center deletes core members", func() {
		desk, err := s.store.FindByMobile(s.ctx, collectionCallCenter, "9000000002")
		s.Require().NoError(err)
		extra := s.register(domain.RoleCoreMember, map[string]any{"FullName": "Extra", "MobileNumber": "9000000403"})
		s.Require().NoError(s.svc.Delete(s.ctx, s.callerFor(desk), domain.CollectionCoreMembers, extra.ID))
	})

	s.Run("missing record is not found", func() {
		err := s.svc.Delete(s.ctx, s.callerFor(core), domain.CollectionCustomers, customer.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("agent may delete a property", func() {
		prop, err := s.svc.AddProperty(s.ctx, s.callerFor(agent), map[string]any{
			"propertyType": "Flat", "location": "Gajuwaka", "price": 4500000.0,
		})
		s.Require().NoError(err)
		s.Equal("040401", prop.Fields["PostedBy"])
		s.Equal(true, prop.Fields["approved"])

		s.Require().NoError(s.svc.Delete(s.ctx, s.callerFor(agent), domain.CollectionProperties, prop.ID))
	})
}

func (s *ServiceSuite) TestProfile() {
	rec := s.register(domain.RoleInvestor, map[string]any{
		"FullName": "Ravi", "MobileNumber": "9000000501", "MyRefferalCode": "181805",
	})
	caller := s.callerFor(rec)

	s.Run("update replaces client fields and keeps server ones", func() {
		updated, err := s.svc.UpdateProfile(s.ctx, caller, map[string]any{
			"FullName":       "Ravi Kumar",
			"MobileNumber":   "9000000501",
			"MyRefferalCode": "HACKED",
			"_id":            "other",
		})
		s.Require().NoError(err)

		doc := updated.Document()
		s.Equal("Ravi Kumar", doc["FullName"])
		s.Equal("181805", doc["MyRefferalCode"])
		s.Equal(rec.ID, doc["_id"])
	})

	s.Run("fields missing from the body are dropped", func() {
		_, err := s.svc.UpdateProfile(s.ctx, caller, map[string]any{"FullName": "R", "MobileNumber": "9000000501", "City": "Guntur"})
		s.Require().NoError(err)
		updated, err := s.svc.UpdateProfile(s.ctx, caller, map[string]any{"FullName": "R", "MobileNumber": "9000000501"})
		s.Require().NoError(err)
		s.NotContains(updated.Fields, "City")
	})

	s.Run("mobile is required", func() {
		_, err := s.svc.UpdateProfile(s.ctx, caller, map[string]any{"FullName": "R"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestPasswordReset() {
	s.register(domain.RoleNRI, map[string]any{"Name": "Anil", "MobileIN": "9000000601"})

	s.Run("reset without request is rejected", func() {
		err := s.svc.ResetPassword(s.ctx, "nri", "9000000601", "newpass1")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown account cannot request a reset", func() {
		err := s.svc.ForgotPassword(s.ctx, "nri", "9999999999")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("forgot then reset changes the password once", func() {
		s.Require().NoError(s.svc.ForgotPassword(s.ctx, "nri", "9000000601"))
		s.Require().NoError(s.svc.ResetPassword(s.ctx, "nri", "9000000601", "newpass1"))

		_, _, err := s.svc.Login(s.ctx, "nri", "9000000601", "newpass1", "")
		s.NoError(err)

		err = s.svc.ResetPassword(s.ctx, "nri", "9000000601", "another1")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("expired request is rejected", func() {
		s.Require().NoError(s.svc.ForgotPassword(s.ctx, "nri", "9000000601"))
		later := requestcontext.WithTime(s.ctx, time.Now().Add(resetWindow+time.Minute))
		err := s.svc.ResetPassword(later, "nri", "9000000601", "newpass2")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("short password is rejected", func() {
		s.Require().NoError(s.svc.ForgotPassword(s.ctx, "nri", "9000000601"))
		err := s.svc.ResetPassword(s.ctx, "nri", "9000000601", "123")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestRequestExpert() {
	s.Run("known expertise is stored", func() {
		rec, err := s.svc.RequestExpert(s.ctx, map[string]any{
			"Name": "Ravi", "MobileNumber": "9000000701", "ExpertType": "Legal", "WantsExpert": true,
		})
		s.Require().NoError(err)
		s.Equal(collectionExpertRequests, rec.Collection)
	})

	s.Run("repeat requests from one mobile are allowed", func() {
		_, err := s.svc.RequestExpert(s.ctx, map[string]any{"Name": "Ravi", "MobileNumber": "9000000701", "ExpertType": "Revenue"})
		s.NoError(err)
	})

	s.Run("unknown expertise is a bad request", func() {
		_, err := s.svc.RequestExpert(s.ctx, map[string]any{"Name": "Ravi", "MobileNumber": "9000000701", "ExpertType": "Astrology"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
