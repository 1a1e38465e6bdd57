// Package listing posts new property listings. Listing and deleting existing
// properties goes through the roster "properties" collection.
package listing

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"realtyref/internal/platform/logger"
	"realtyref/internal/referral"
	dErrors "realtyref/pkg/domain-errors"
)

const pathAddProperty = "/properties/addProperty"

// Poster sends the new listing.
type Poster interface {
	PostJSON(ctx context.Context, path string, in, out any) error
}

// Actors returns the signed-in user, whose referral code becomes PostedBy.
type Actors interface {
	Actor(ctx context.Context) (*referral.Actor, error)
}

// Property is the add-property form.
type Property struct {
	PropertyType string
	Location     string
	Price        string
	Photo        string
}

type propertyPayload struct {
	PropertyType string `json:"propertyType"`
	Location     string `json:"location"`
	Price        string `json:"price"`
	Photo        string `json:"photo,omitempty"`
	PostedBy     string `json:"PostedBy"`
}

// Posted is what the backend accepted.
type Posted struct {
	ID       string
	PostedBy string
}

type Service struct {
	api    Poster
	actors Actors
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(api Poster, actors Actors, opts ...Option) *Service {
	s := &Service{api: api, actors: actors, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (p Property) validate() error {
	switch {
	case strings.TrimSpace(p.PropertyType) == "":
		return dErrors.New(dErrors.CodeValidation, "Property type is required")
	case strings.TrimSpace(p.Location) == "":
		return dErrors.New(dErrors.CodeValidation, "Location is required")
	case strings.TrimSpace(p.Price) == "":
		return dErrors.New(dErrors.CodeValidation, "Price is required")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(p.Price), 64)
	if err != nil || price <= 0 {
		return dErrors.New(dErrors.CodeValidation, "Price must be a positive number")
	}
	return nil
}

// Add posts a listing on behalf of the signed-in user. PostedBy follows the
// referrer chain without an operator-entered code.
func (s *Service) Add(ctx context.Context, p Property) (*Posted, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	actor, err := s.actors.Actor(ctx)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Please log in first")
	}
	postedBy := referral.ReferredBy("", actor)

	var resp map[string]any
	if err := s.api.PostJSON(ctx, pathAddProperty, propertyPayload{
		PropertyType: strings.TrimSpace(p.PropertyType),
		Location:     strings.TrimSpace(p.Location),
		Price:        strings.TrimSpace(p.Price),
		Photo:        strings.TrimSpace(p.Photo),
		PostedBy:     postedBy,
	}, &resp); err != nil {
		return nil, err
	}

	posted := &Posted{PostedBy: postedBy}
	for _, obj := range []any{resp, resp["data"]} {
		if m, ok := obj.(map[string]any); ok {
			if id, ok := m["_id"].(string); ok && posted.ID == "" {
				posted.ID = id
			}
		}
	}
	s.logger.InfoContext(ctx, "property posted", "id", posted.ID, "posted_by", postedBy)
	return posted, nil
}
