package common

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
	FreshMobile(name string) string
	Status() int
	Body() []byte
}

// RegisterSteps registers request and assertion steps shared by every feature
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the stub server is up$`, steps.serverIsUp)
	ctx.Step(`^a fresh mobile number "([^"]*)"$`, steps.freshMobile)

	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I POST to "([^"]*)" with:$`, steps.post)
	ctx.Step(`^I PUT to "([^"]*)" with:$`, steps.put)
	ctx.Step(`^I DELETE "([^"]*)"$`, steps.delete)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, steps.bodyShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.bodyShouldNotContain)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, steps.saveField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serverIsUp(ctx context.Context) error {
	if err := s.tc.Do(ctx, http.MethodGet, "/discons/occupations", nil); err != nil {
		return err
	}
	if s.tc.Status() != http.StatusOK {
		return fmt.Errorf("stub server answered %d", s.tc.Status())
	}
	return nil
}

func (s *commonSteps) freshMobile(ctx context.Context, name string) error {
	s.tc.FreshMobile(name)
	return nil
}

func (s *commonSteps) get(ctx context.Context, path string) error {
	return s.tc.Do(ctx, http.MethodGet, path, nil)
}

func (s *commonSteps) post(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.Do(ctx, http.MethodPost, path, body.Content)
}

func (s *commonSteps) put(ctx context.Context, path string, body *godog.DocString) error {
	return s.tc.Do(ctx, http.MethodPut, path, body.Content)
}

func (s *commonSteps) delete(ctx context.Context, path string) error {
	return s.tc.Do(ctx, http.MethodDelete, path, nil)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, want int) error {
	if got := s.tc.Status(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, path, want string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	want = s.tc.Expand(want)
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s to be %q, got %q", path, want, got)
	}
	return nil
}

func (s *commonSteps) bodyShouldContain(ctx context.Context, text string) error {
	text = s.tc.Expand(text)
	if !strings.Contains(string(s.tc.Body()), text) {
		return fmt.Errorf("expected response to contain %q: %s", text, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) bodyShouldNotContain(ctx context.Context, text string) error {
	text = s.tc.Expand(text)
	if strings.Contains(string(s.tc.Body()), text) {
		return fmt.Errorf("expected response not to contain %q: %s", text, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) saveField(ctx context.Context, path, name string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	s.tc.Save(name, fmt.Sprint(v))
	return nil
}
