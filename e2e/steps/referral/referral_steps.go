package referral

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(ctx context.Context, method, path string, body any) error
	Field(path string) (any, error)
	Expand(s string) string
	Save(name, value string)
	SetToken(token string)
	Status() int
}

var loginPrefixes = map[string]string{
	"WealthAssociate":   "agent",
	"ReferralAssociate": "agent",
	"Customer":          "customer",
	"CoreMember":        "core",
	"Investor":          "investors",
	"NRI":               "nri",
	"SkilledResource":   "skillLabour",
	"CallCenter":        "callcenter",
}

// RegisterSteps registers registration, login and roster steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &referralSteps{tc: tc}

	ctx.Step(`^I register a "(WealthAssociate|ReferralAssociate)" named "([^"]*)" with mobile "([^"]*)" and code "([^"]*)" referred by "([^"]*)"$`, steps.registerAgent)
	ctx.Step(`^I register a customer named "([^"]*)" with mobile "([^"]*)" referred by "([^"]*)"$`, steps.registerCustomer)
	ctx.Step(`^I log in as "([^"]*)" with mobile "([^"]*)" and password "([^"]*)"$`, steps.login)
	ctx.Step(`^I am logged in as "([^"]*)" with mobile "([^"]*)" and password "([^"]*)"$`, steps.mustLogin)
	ctx.Step(`^I fail to log in as "([^"]*)" with mobile "([^"]*)" (\d+) times$`, steps.failLogins)
	ctx.Step(`^I log out$`, steps.logout)
}

type referralSteps struct {
	tc TestContext
}

func (s *referralSteps) registerAgent(ctx context.Context, agentType, name, mobile, code, referredBy string) error {
	return s.tc.Do(ctx, http.MethodPost, "/agent/AgentRegister", map[string]any{
		"FullName":       name,
		"MobileNumber":   s.tc.Expand(mobile),
		"Password":       "secret1",
		"AgentType":      agentType,
		"MyRefferalCode": s.tc.Expand(code),
		"ReferredBy":     s.tc.Expand(referredBy),
	})
}

func (s *referralSteps) registerCustomer(ctx context.Context, name, mobile, referredBy string) error {
	return s.tc.Do(ctx, http.MethodPost, "/customer/addCustomer", map[string]any{
		"FullName":     name,
		"MobileNumber": s.tc.Expand(mobile),
		"Occupation":   "Salaried",
		"ReferredBy":   s.tc.Expand(referredBy),
	})
}

func (s *referralSteps) login(ctx context.Context, userType, mobile, password string) error {
	prefix, ok := loginPrefixes[userType]
	if !ok {
		return fmt.Errorf("unknown user type %q", userType)
	}
	if err := s.tc.Do(ctx, http.MethodPost, "/"+prefix+"/login", map[string]string{
		"MobileNumber": s.tc.Expand(mobile),
		"Password":     password,
	}); err != nil {
		return err
	}
	if s.tc.Status() == http.StatusOK {
		token, err := s.tc.Field("token")
		if err != nil {
			return err
		}
		s.tc.SetToken(fmt.Sprint(token))
	}
	return nil
}

func (s *referralSteps) mustLogin(ctx context.Context, userType, mobile, password string) error {
	if err := s.login(ctx, userType, mobile, password); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("login as %s failed with %d", userType, s.tc.Status())
	}
	return nil
}

func (s *referralSteps) failLogins(ctx context.Context, userType, mobile string, times int) error {
	for i := range times {
		if err := s.login(ctx, userType, mobile, "wrong-"+strings.Repeat("x", i)); err != nil {
			return err
		}
		if s.tc.Status() != http.StatusUnauthorized {
			return fmt.Errorf("attempt %d: expected 401, got %d", i+1, s.tc.Status())
		}
	}
	return nil
}

func (s *referralSteps) logout(ctx context.Context) error {
	s.tc.SetToken("")
	return nil
}
