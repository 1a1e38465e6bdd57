package roster

import (
	"context"
	"log/slog"

	"realtyref/internal/platform/logger"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// RoleSource yields the signed-in role.
type RoleSource interface {
	RequireRole() (domain.Role, error)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Outcome of a delete attempt.
type Outcome int

const (
	Deleted Outcome = iota
	Cancelled
	Failed
)

// Screen is the state behind one list screen. A failed fetch leaves Records
// empty; Degraded and Err say why.
type Screen struct {
	repo       *Repository
	session    RoleSource
	collection domain.Collection
	logger     *slog.Logger
	metrics    *Metrics

	records  []Record
	degraded bool
	err      error
}

type ScreenOption func(*Screen)

func WithScreenLogger(l *slog.Logger) ScreenOption {
	return func(s *Screen) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *Metrics) ScreenOption {
	return func(s *Screen) {
		s.metrics = m
	}
}

func NewScreen(repo *Repository, session RoleSource, c domain.Collection, opts ...ScreenOption) *Screen {
	s := &Screen{repo: repo, session: session, collection: c, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the list. It never fails: on error the list is empty and
// the error is kept on the screen.
func (s *Screen) Refresh(ctx context.Context) []Record {
	role, err := s.session.RequireRole()
	if err == nil {
		var records []Record
		records, err = s.repo.List(ctx, s.collection, role)
		if err == nil {
			s.records = records
			s.degraded = false
			s.err = nil
			return s.Records()
		}
	}

	s.records = nil
	s.degraded = true
	s.err = err
	s.logger.WarnContext(ctx, "list unavailable, showing empty list",
		"collection", s.collection,
		"code", dErrors.CodeOf(err),
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.Degraded.WithLabelValues(string(s.collection), string(dErrors.CodeOf(err))).Inc()
	}
	return nil
}

// Records returns a copy of the rendered list.
func (s *Screen) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Degraded reports whether the last refresh fell back to an empty list.
func (s *Screen) Degraded() bool { return s.degraded }

// Err is the error behind a degraded list, or nil.
func (s *Screen) Err() error { return s.err }

// Delete confirms with the user, deletes id, and on success removes exactly
// that record from the list. On failure the list is untouched and the
// returned error is the alert to show.
func (s *Screen) Delete(ctx context.Context, id string, confirm Confirmer) (Outcome, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Failed, dErrors.Newf(dErrors.CodeNotFound, "record %s is not in the list", id)
	}
	role, err := s.session.RequireRole()
	if err != nil {
		return Failed, err
	}
	if !CanDelete(s.collection, role) {
		return Failed, dErrors.Newf(dErrors.CodeForbidden, "%s cannot delete %s", role, s.collection)
	}

	if confirm != nil {
		ok, err := confirm.Confirm(ctx, deletePrompt(s.records[idx]))
		if err != nil {
			return Failed, err
		}
		if !ok {
			return Cancelled, nil
		}
	}

	if err := s.repo.Delete(ctx, s.collection, role, id); err != nil {
		return Failed, err
	}
	if i := s.indexOf(id); i >= 0 {
		s.records = append(s.records[:i:i], s.records[i+1:]...)
	}
	return Deleted, nil
}

func (s *Screen) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func deletePrompt(r Record) string {
	name := r.Name
	if name == "" {
		name = r.ID
	}
	return "Are you sure you want to delete " + name + "?"
}
