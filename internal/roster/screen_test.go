package roster_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"realtyref/internal/backend"
	"realtyref/internal/roster"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	httptestutil "realtyref/pkg/testutil"
)

type fakeAPI struct {
	mu        sync.Mutex
	body      string
	getErr    error
	deleteErr error
	gets      []string
	deletes   []string
}

func (f *fakeAPI) GetRaw(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, path)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return []byte(f.body), nil
}

func (f *fakeAPI) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, path)
	return f.deleteErr
}

type fixedRole struct {
	role domain.Role
}

func (f fixedRole) RequireRole() (domain.Role, error) {
	if f.role == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "Please log in first")
	}
	return f.role, nil
}

func answer(ok bool) roster.Confirmer {
	return roster.ConfirmFunc(func(context.Context, string) (bool, error) { return ok, nil })
}

const threeAgents = `{"data":[
	{"_id":"a1","FullName":"Ravi"},
	{"_id":"a2","FullName":"Sita"},
	{"_id":"a3","FullName":"Kiran"}
]}`

type ScreenSuite struct {
	suite.Suite
	api     *fakeAPI
	metrics *roster.Metrics
}

func TestScreenSuite(t *testing.T) {
	suite.Run(t, new(ScreenSuite))
}

func (s *ScreenSuite) SetupTest() {
	s.api = &fakeAPI{body: threeAgents}
	s.metrics = roster.NewMetrics(prometheus.NewRegistry())
}

func (s *ScreenSuite) screen(role domain.Role, c domain.Collection) *roster.Screen {
	repo := roster.NewRepository(s.api)
	return roster.NewScreen(repo, fixedRole{role: role}, c, roster.WithMetrics(s.metrics))
}

func ids(records []roster.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func (s *ScreenSuite) TestRefresh() {
	s.Run("core member sees all agents", func() {
		scr := s.screen(domain.RoleCoreMember, domain.CollectionAgents)
		got := scr.Refresh(context.Background())

		s.Equal([]string{"a1", "a2", "a3"}, ids(got))
		s.False(scr.Degraded())
		s.NoError(scr.Err())
		s.Equal("/agent/AgentDetails", s.api.gets[len(s.api.gets)-1])
	})

	s.Run("transport failure degrades to empty list", func() {
		s.api.getErr = dErrors.New(dErrors.CodeUnavailable, "backend unreachable")
		scr := s.screen(domain.RoleCoreMember, domain.CollectionAgents)

		s.Empty(scr.Refresh(context.Background()))
		s.True(scr.Degraded())
		s.True(dErrors.HasCode(scr.Err(), dErrors.CodeUnavailable))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Degraded.WithLabelValues("agents", "unavailable")))
		s.api.getErr = nil
	})

	s.Run("malformed body degrades but is recorded", func() {
		s.api.body = `{"message":"oops"}`
		scr := s.screen(domain.RoleCoreMember, domain.CollectionAgents)

		s.Empty(scr.Refresh(context.Background()))
		s.True(dErrors.HasCode(scr.Err(), dErrors.CodeMalformedResponse))
		s.api.body = threeAgents
	})

	s.Run("forbidden role makes no request", func() {
		before := len(s.api.gets)
		scr := s.screen(domain.RoleCustomer, domain.CollectionInvestors)

		s.Empty(scr.Refresh(context.Background()))
		s.True(dErrors.HasCode(scr.Err(), dErrors.CodeForbidden))
		s.Len(s.api.gets, before)
	})

	s.Run("signed out degrades", func() {
		scr := s.screen("", domain.CollectionProperties)
		s.Empty(scr.Refresh(context.Background()))
		s.True(dErrors.HasCode(scr.Err(), dErrors.CodeUnauthorized))
	})

	s.Run("successful refresh clears degraded state", func() {
		scr := s.screen(domain.RoleCallCenter, domain.CollectionAgents)
		s.api.getErr = errors.New("boom")
		scr.Refresh(context.Background())
		s.True(scr.Degraded())

		s.api.getErr = nil
		scr.Refresh(context.Background())
		s.False(scr.Degraded())
		s.Nil(scr.Err())
	})
}

func (s *ScreenSuite) TestDelete() {
	s.Run("success removes exactly that item", func() {
		scr := s.screen(domain.RoleCallCenter, domain.CollectionAgents)
		scr.Refresh(context.Background())

		outcome, err := scr.Delete(context.Background(), "a2", answer(true))
		s.Require().NoError(err)

		s.Equal(roster.Deleted, outcome)
		s.Equal([]string{"a1", "a3"}, ids(scr.Records()))
		s.Equal("/agent/deleteagent/a2", s.api.deletes[len(s.api.deletes)-1])
	})

	s.Run("failure leaves list unchanged and returns alert", func() {
		s.api.deleteErr = dErrors.New(dErrors.CodeNotFound, "Agent not found")
		defer func() { s.api.deleteErr = nil }()
		scr := s.screen(domain.RoleCallCenter, domain.CollectionAgents)
		scr.Refresh(context.Background())

		outcome, err := scr.Delete(context.Background(), "a1", answer(true))

		s.Equal(roster.Failed, outcome)
		s.Equal("Agent not found", dErrors.UserMessage(err))
		s.Equal([]string{"a1", "a2", "a3"}, ids(scr.Records()))
	})

	s.Run("declined confirmation sends nothing", func() {
		before := len(s.api.deletes)
		scr := s.screen(domain.RoleCoreMember, domain.CollectionAgents)
		scr.Refresh(context.Background())

		outcome, err := scr.Delete(context.Background(), "a1", answer(false))
		s.Require().NoError(err)

		s.Equal(roster.Cancelled, outcome)
		s.Len(s.api.deletes, before)
		s.Len(scr.Records(), 3)
	})

	s.Run("agents cannot delete agents", func() {
		scr := s.screen(domain.RoleWealthAssociate, domain.CollectionAgents)
		scr.Refresh(context.Background())

		_, err := scr.Delete(context.Background(), "a1", answer(true))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Len(scr.Records(), 3)
	})

	s.Run("unknown id is not sent", func() {
		before := len(s.api.deletes)
		scr := s.screen(domain.RoleCoreMember, domain.CollectionAgents)
		scr.Refresh(context.Background())

		_, err := scr.Delete(context.Background(), "zz", answer(true))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Len(s.api.deletes, before)
	})
}

// The repository through the real client: role endpoint and token header.
func TestRepositoryOverHTTP(t *testing.T) {
	srv, rec := httptestutil.JSONServer(t, http.StatusOK, `{"referredAgents":[{"_id":"a9","FullName":"Anu"}]}`)
	client, err := backend.New(srv.URL, backend.WithTokenSource(staticToken("tok-1")))
	if err != nil {
		t.Fatal(err)
	}

	records, err := roster.NewRepository(client).List(context.Background(), domain.CollectionAgents, domain.RoleReferralAssociate)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Name != "Anu" {
		t.Fatalf("unexpected records %+v", records)
	}
	if rec.Path != "/agent/referredagents" || rec.Header.Get("token") != "tok-1" {
		t.Fatalf("unexpected request %s token=%q", rec.Path, rec.Header.Get("token"))
	}
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
