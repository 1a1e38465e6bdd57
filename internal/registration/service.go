// Package registration submits the per-role registration forms. Every form is
// validated and its location resolved before anything is sent; a rejected
// selection never reaches the backend.
package registration

import (
	"context"
	"log/slog"
	"strings"

	"realtyref/internal/catalog"
	"realtyref/internal/platform/logger"
	"realtyref/internal/referral"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// Poster sends a create request.
type Poster interface {
	PostJSON(ctx context.Context, path string, in, out any) error
}

// Catalog supplies the reference data the forms select from.
type Catalog interface {
	Parliaments(ctx context.Context) ([]catalog.Parliament, error)
	Occupations(ctx context.Context) ([]string, error)
	Skills(ctx context.Context) ([]string, error)
}

// Actors returns the signed-in user registering someone, or nil when nobody
// is signed in.
type Actors interface {
	Actor(ctx context.Context) (*referral.Actor, error)
}

// Created describes the record the backend stored.
type Created struct {
	Role           domain.Role
	ID             string
	MyRefferalCode string
	ReferredBy     string
	Message        string
}

type Service struct {
	api     Poster
	catalog Catalog
	actors  Actors
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithActors enables seeding ReferredBy from the signed-in user's profile.
func WithActors(a Actors) Option {
	return func(s *Service) {
		s.actors = a
	}
}

func New(api Poster, cat Catalog, opts ...Option) *Service {
	s := &Service{api: api, catalog: cat, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterAgent registers an associate. role must be WealthAssociate or
// ReferralAssociate.
func (s *Service) RegisterAgent(ctx context.Context, role domain.Role, f AgentForm) (*Created, error) {
	if !role.IsAgent() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s is not an agent type", role)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	codes, err := s.resolve(ctx, f.Location, f.ReferralCode)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, role, agentPayload{
		FullName:     strings.TrimSpace(f.FullName),
		MobileNumber: strings.TrimSpace(f.MobileNumber),
		Email:        strings.TrimSpace(f.Email),
		Password:     f.Password,
		Locations:    strings.TrimSpace(f.Locality),
		Expertise:    strings.TrimSpace(f.Expertise),
		Experience:   strings.TrimSpace(f.Experience),
		AgentType:    string(role),
		Result:       codes,
	}, codes)
}

func (s *Service) RegisterCustomer(ctx context.Context, f CustomerForm) (*Created, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := s.checkOption(ctx, "Occupation", f.Occupation, s.catalog.Occupations); err != nil {
		return nil, err
	}
	codes, err := s.resolve(ctx, f.Location, f.ReferralCode)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, domain.RoleCustomer, customerPayload{
		FullName:     strings.TrimSpace(f.FullName),
		MobileNumber: strings.TrimSpace(f.MobileNumber),
		Occupation:   strings.TrimSpace(f.Occupation),
		Password:     f.Password,
		Locations:    strings.TrimSpace(f.Locality),
		Result:       codes,
	}, codes)
}

func (s *Service) RegisterInvestor(ctx context.Context, f InvestorForm) (*Created, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	codes, err := s.resolve(ctx, f.Location, f.ReferralCode)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, domain.RoleInvestor, investorPayload{
		FullName:     strings.TrimSpace(f.FullName),
		MobileNumber: strings.TrimSpace(f.MobileNumber),
		Locations:    strings.TrimSpace(f.Locality),
		Result:       codes,
	}, codes)
}

func (s *Service) RegisterSkilledResource(ctx context.Context, f SkilledResourceForm) (*Created, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if err := s.checkOption(ctx, "Skill", f.SelectSkill, s.catalog.Skills); err != nil {
		return nil, err
	}
	codes, err := s.resolve(ctx, f.Location, f.ReferralCode)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, domain.RoleSkilledResource, skilledPayload{
		FullName:     strings.TrimSpace(f.FullName),
		MobileNumber: strings.TrimSpace(f.MobileNumber),
		SelectSkill:  strings.TrimSpace(f.SelectSkill),
		Locations:    strings.TrimSpace(f.Locality),
		Result:       codes,
	}, codes)
}

func (s *Service) RegisterNRI(ctx context.Context, f NRIForm) (*Created, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	referredBy := referral.ReferredBy(f.ReferralCode, s.actor(ctx))
	codes := referral.Result{ReferredBy: referredBy}
	return s.submit(ctx, domain.RoleNRI, nriPayload{
		Name:            strings.TrimSpace(f.Name),
		Country:         strings.TrimSpace(f.Country),
		Locality:        strings.TrimSpace(f.Locality),
		IndianLocation:  strings.TrimSpace(f.IndianLocation),
		Occupation:      strings.TrimSpace(f.Occupation),
		MobileIN:        strings.TrimSpace(f.MobileIN),
		MobileCountryNo: strings.TrimSpace(f.MobileCountryNo),
		ReferredBy:      referredBy,
	}, codes)
}

func (s *Service) resolve(ctx context.Context, loc Location, entered string) (referral.Result, error) {
	parliaments, err := s.catalog.Parliaments(ctx)
	if err != nil {
		return referral.Result{}, err
	}
	return referral.Resolve(referral.Input{
		Parliament:   loc.Parliament,
		Assembly:     loc.Assembly,
		Parliaments:  parliaments,
		Actor:        s.actor(ctx),
		ReferralCode: entered,
	})
}

// actor never fails the submission: without a profile the referrer chain
// falls through to the seed code.
func (s *Service) actor(ctx context.Context) *referral.Actor {
	if s.actors == nil {
		return nil
	}
	a, err := s.actors.Actor(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "acting user profile unavailable", "error", err)
		return nil
	}
	return a
}

func (s *Service) checkOption(ctx context.Context, name, value string, list func(context.Context) ([]string, error)) error {
	options, err := list(ctx)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	for _, o := range options {
		if o == value {
			return nil
		}
	}
	return dErrors.Newf(dErrors.CodeInvalidSelection, "%s %q is not one of the available options", name, value)
}

func (s *Service) submit(ctx context.Context, role domain.Role, payload any, codes referral.Result) (*Created, error) {
	path, ok := Endpoint(role)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeValidation, "%s cannot be registered", role)
	}

	var resp map[string]any
	if err := s.api.PostJSON(ctx, path, payload, &resp); err != nil {
		s.logger.InfoContext(ctx, "registration rejected",
			"role", role,
			"code", dErrors.CodeOf(err),
		)
		return nil, err
	}

	created := &Created{
		Role:           role,
		ID:             createdID(resp),
		MyRefferalCode: codes.MyRefferalCode,
		ReferredBy:     codes.ReferredBy,
	}
	if msg, ok := resp["message"].(string); ok {
		created.Message = msg
	}
	s.logger.InfoContext(ctx, "registered",
		"role", role,
		"id", created.ID,
		"referred_by", created.ReferredBy,
	)
	return created, nil
}

// createdID finds the new record's id at the top level or under a "data"
// object.
func createdID(resp map[string]any) string {
	for _, obj := range []map[string]any{resp, asObject(resp["data"])} {
		for _, k := range []string{"_id", "id"} {
			if v, ok := obj[k].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}

func asObject(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
