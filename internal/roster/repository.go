// Package roster is the single data-access path for role-scoped list screens:
// which endpoint a role lists and deletes through, and how the varying
// response shapes become one typed list.
package roster

import (
	"context"
	"log/slog"
	"strings"

	"realtyref/internal/platform/logger"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// API is the slice of the backend client the repository needs.
type API interface {
	GetRaw(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
}

type Repository struct {
	api    API
	logger *slog.Logger
}

type Option func(*Repository)

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewRepository(api API, opts ...Option) *Repository {
	r := &Repository{api: api, logger: logger.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List fetches collection c as seen by role. Errors are returned as is; the
// screen decides how to degrade.
func (r *Repository) List(ctx context.Context, c domain.Collection, role domain.Role) ([]Record, error) {
	ep, err := Resolve(c, role)
	if err != nil {
		return nil, err
	}
	raw, err := r.api.GetRaw(ctx, ep.List)
	if err != nil {
		return nil, err
	}
	records, err := Normalize(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "unexpected list response",
			"collection", c,
			"path", ep.List,
			"error", err,
		)
		return nil, err
	}
	return records, nil
}

// Delete removes record id from collection c. Only roles allowed by
// CanDelete reach the backend.
func (r *Repository) Delete(ctx context.Context, c domain.Collection, role domain.Role, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return dErrors.New(dErrors.CodeValidation, "record id is required")
	}
	ep, err := Resolve(c, role)
	if err != nil {
		return err
	}
	if !CanDelete(c, role) {
		return dErrors.Newf(dErrors.CodeForbidden, "%s cannot delete %s", role, c)
	}
	if err := r.api.Delete(ctx, ep.DeletePath(id)); err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "record deleted", "collection", c, "id", id)
	return nil
}
