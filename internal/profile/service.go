// Package profile fetches and replaces the signed-in user's own record. Edits
// are always full replacements of a freshly fetched record.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"realtyref/internal/platform/logger"
	"realtyref/internal/referral"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// API is the slice of the backend client the service needs.
type API interface {
	GetJSON(ctx context.Context, path string, out any) error
	PutJSON(ctx context.Context, path string, in, out any) error
}

// RoleSource yields the signed-in role.
type RoleSource interface {
	RequireRole() (domain.Role, error)
	Authenticated() bool
}

// readOnly fields are owned by the backend and never overwritten.
var readOnly = map[string]bool{
	"_id":            true,
	"__v":            true,
	"createdAt":      true,
	"updatedAt":      true,
	"MyRefferalCode": true,
	"Password":       true,
}

// Profile is the raw record as the backend returned it.
type Profile struct {
	Fields map[string]any
}

// Get returns field key as text, or "".
func (p *Profile) Get(key string) string {
	switch v := p.Fields[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Keys lists the field names in sorted order.
func (p *Profile) Keys() []string {
	keys := make([]string, 0, len(p.Fields))
	for k := range p.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Actor extracts the fields the referral chain reads.
func (p *Profile) Actor() *referral.Actor {
	return &referral.Actor{
		MyRefferalCode:  p.Get("MyRefferalCode"),
		MobileNumber:    p.Get("MobileNumber"),
		MobileIN:        p.Get("MobileIN"),
		MobileCountryNo: p.Get("MobileCountryNo"),
	}
}

type Service struct {
	api     API
	session RoleSource
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

func New(api API, session RoleSource, opts ...Option) *Service {
	s := &Service{api: api, session: session, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches the signed-in user's full record.
func (s *Service) Get(ctx context.Context) (*Profile, error) {
	role, err := s.session.RequireRole()
	if err != nil {
		return nil, err
	}
	var body map[string]any
	if err := s.api.GetJSON(ctx, "/"+role.Prefix()+"/profile", &body); err != nil {
		return nil, err
	}
	fields := unwrapRecord(body)
	if len(fields) == 0 {
		return nil, dErrors.New(dErrors.CodeMalformedResponse, "profile response is empty")
	}
	return &Profile{Fields: fields}, nil
}

// Modify re-fetches the record, applies changes on top and PUTs the whole
// record back. Backend-owned fields cannot be changed.
func (s *Service) Modify(ctx context.Context, changes map[string]string) (*Profile, error) {
	if len(changes) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "Nothing to update")
	}
	for k := range changes {
		if readOnly[k] {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s cannot be changed", k)
		}
		if strings.TrimSpace(k) == "" {
			return nil, dErrors.New(dErrors.CodeValidation, "field name is required")
		}
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	role, err := s.session.RequireRole()
	if err != nil {
		return nil, err
	}

	next := make(map[string]any, len(current.Fields)+len(changes))
	for k, v := range current.Fields {
		next[k] = v
	}
	for k, v := range changes {
		next[k] = strings.TrimSpace(v)
	}

	if err := s.api.PutJSON(ctx, "/"+role.Prefix()+"/updateprofile", next, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "profile updated", "role", role, "fields", len(changes))
	return &Profile{Fields: next}, nil
}

// Actor implements the registration actor lookup: nil when nobody is signed
// in, otherwise the referral fields of the signed-in profile.
func (s *Service) Actor(ctx context.Context) (*referral.Actor, error) {
	if !s.session.Authenticated() {
		return nil, nil
	}
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return p.Actor(), nil
}

// unwrapRecord accepts the record itself or the record under "data" or
// "user".
func unwrapRecord(body map[string]any) map[string]any {
	for _, k := range []string{"data", "user"} {
		if inner, ok := body[k].(map[string]any); ok {
			return inner
		}
	}
	return body
}
