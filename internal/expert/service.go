// Package expert submits requests for a session with an expert-panel member.
package expert

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"realtyref/internal/platform/logger"
	dErrors "realtyref/pkg/domain-errors"
)

const pathRequestExpert = "/direqs/requestExpert"

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Poster sends the request.
type Poster interface {
	PostJSON(ctx context.Context, path string, in, out any) error
}

// Expertise lists the expert types the panel offers.
type Expertise interface {
	Expertise(ctx context.Context) ([]string, error)
}

// Request is the expert-panel form.
type Request struct {
	Name         string
	MobileNumber string
	ExpertType   string
	Reason       string
	WantsExpert  bool
}

type requestPayload struct {
	Name         string `json:"Name"`
	MobileNumber string `json:"MobileNumber"`
	ExpertType   string `json:"ExpertType"`
	Reason       string `json:"Reason"`
	WantsExpert  bool   `json:"WantsExpert"`
}

type Service struct {
	api       Poster
	expertise Expertise
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(api Poster, expertise Expertise, opts ...Option) *Service {
	s := &Service{api: api, expertise: expertise, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates r, checks the expert type against the offered list and
// posts it.
func (s *Service) Submit(ctx context.Context, r Request) error {
	r.Name = strings.TrimSpace(r.Name)
	r.MobileNumber = strings.TrimSpace(r.MobileNumber)
	r.ExpertType = strings.TrimSpace(r.ExpertType)
	r.Reason = strings.TrimSpace(r.Reason)

	switch {
	case r.Name == "":
		return dErrors.New(dErrors.CodeValidation, "Name is required")
	case !mobilePattern.MatchString(r.MobileNumber):
		return dErrors.New(dErrors.CodeValidation, "Mobile number must be a 10 digit number")
	case r.ExpertType == "":
		return dErrors.New(dErrors.CodeValidation, "Please select an expert type")
	case r.Reason == "":
		return dErrors.New(dErrors.CodeValidation, "Please describe why you need an expert")
	}

	offered, err := s.expertise.Expertise(ctx)
	if err != nil {
		return err
	}
	if !contains(offered, r.ExpertType) {
		return dErrors.Newf(dErrors.CodeInvalidSelection, "%q is not an available expert type", r.ExpertType)
	}

	if err := s.api.PostJSON(ctx, pathRequestExpert, requestPayload(r), nil); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "expert requested", "expert_type", r.ExpertType)
	return nil
}

func contains(list []string, v string) bool {
	for _, o := range list {
		if o == v {
			return true
		}
	}
	return false
}
