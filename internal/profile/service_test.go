package profile_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"realtyref/internal/backend"
	"realtyref/internal/profile"
	"realtyref/internal/referral"
	"realtyref/internal/session"
	"realtyref/internal/session/store"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// profileServer serves GET /agent/profile from record and stores PUT
// /agent/updateprofile bodies into it.
type profileServer struct {
	mu     sync.Mutex
	record map[string]any
	puts   []map[string]any
	token  string
}

func (p *profileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = r.Header.Get("token")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/agent/profile":
		_ = json.NewEncoder(w).Encode(map[string]any{"data": p.record})
	case r.Method == http.MethodPut && r.URL.Path == "/agent/updateprofile":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		p.puts = append(p.puts, body)
		p.record = body
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	server  *profileServer
	session *session.Session
	svc     *profile.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.server = &profileServer{record: map[string]any{
		"_id":            "a1",
		"FullName":       "Ravi",
		"MobileNumber":   "9000000001",
		"MyRefferalCode": "0701",
		"Email":          "ravi@example.com",
	}}
	srv := httptest.NewServer(s.server)
	s.T().Cleanup(srv.Close)

	sess, err := session.Open(s.ctx, store.NewInMemory())
	s.Require().NoError(err)
	s.session = sess

	client, err := backend.New(srv.URL, backend.WithTokenSource(sess))
	s.Require().NoError(err)
	s.svc = profile.New(client, sess)
}

func (s *ServiceSuite) signIn() {
	s.Require().NoError(s.session.SignIn(s.ctx, "tok-a1", domain.RoleWealthAssociate))
}

func (s *ServiceSuite) TestGet() {
	s.Run("requires a session", func() {
		_, err := s.svc.Get(s.ctx)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unwraps the record", func() {
		s.signIn()
		p, err := s.svc.Get(s.ctx)
		s.Require().NoError(err)

		s.Equal("Ravi", p.Get("FullName"))
		s.Equal([]string{"Email", "FullName", "MobileNumber", "MyRefferalCode", "_id"}, p.Keys())
		s.Equal("tok-a1", s.server.token)
	})
}

func (s *ServiceSuite) TestModifyIsFullReplacement() {
	s.signIn()

	updated, err := s.svc.Modify(s.ctx, map[string]string{"Email": " new@example.com "})
	s.Require().NoError(err)

	s.Require().Len(s.server.puts, 1)
	s.Equal(map[string]any{
		"_id":            "a1",
		"FullName":       "Ravi",
		"MobileNumber":   "9000000001",
		"MyRefferalCode": "0701",
		"Email":          "new@example.com",
	}, s.server.puts[0])
	s.Equal("new@example.com", updated.Get("Email"))
}

func (s *ServiceSuite) TestModifyRejectsReadOnlyFields() {
	s.signIn()

	_, err := s.svc.Modify(s.ctx, map[string]string{"MyRefferalCode": "WA1"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Modify(s.ctx, nil)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Empty(s.server.puts)
}

func (s *ServiceSuite) TestActor() {
	s.Run("nobody signed in", func() {
		a, err := s.svc.Actor(s.ctx)
		s.Require().NoError(err)
		s.Nil(a)
	})

	s.Run("signed in user", func() {
		s.signIn()
		a, err := s.svc.Actor(s.ctx)
		s.Require().NoError(err)
		s.Equal(&referral.Actor{MyRefferalCode: "0701", MobileNumber: "9000000001"}, a)
	})
}
