// Package catalog loads and caches the read-only reference data served by the
// lookup endpoints: the parliament/assembly hierarchy and the occupation,
// expertise and skill option lists.
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"realtyref/internal/platform/logger"
)

const (
	PathLocations   = "/alldiscons/alldiscons"
	PathOccupations = "/discons/occupations"
	PathExpertise   = "/discons/expertise"
	PathSkills      = "/discons/skills"
)

// Getter is the slice of the backend client the catalog needs.
type Getter interface {
	GetRaw(ctx context.Context, path string) ([]byte, error)
}

// Service caches each list after its first successful fetch for the life of
// the session. Failed fetches are not cached.
type Service struct {
	api    Getter
	logger *slog.Logger

	mu          sync.Mutex
	parliaments []Parliament
	options     map[string][]string
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(api Getter, opts ...Option) *Service {
	s := &Service{
		api:     api,
		logger:  logger.Discard(),
		options: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches all four lists concurrently. Any failure fails the whole load;
// lists that did succeed stay cached.
func (s *Service) Load(ctx context.Context) (*Lookups, error) {
	var out Lookups
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.Parliaments(gctx)
		out.Parliaments = list
		return err
	})
	g.Go(func() error {
		list, err := s.Occupations(gctx)
		out.Occupations = list
		return err
	})
	g.Go(func() error {
		list, err := s.Expertise(gctx)
		out.Expertise = list
		return err
	})
	g.Go(func() error {
		list, err := s.Skills(gctx)
		out.Skills = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// Parliaments returns the location hierarchy.
func (s *Service) Parliaments(ctx context.Context) ([]Parliament, error) {
	s.mu.Lock()
	cached := s.parliaments
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	raw, err := s.api.GetRaw(ctx, PathLocations)
	if err != nil {
		return nil, err
	}
	list, err := decodeParliaments(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "unexpected lookup response", "path", PathLocations, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.parliaments = list
	s.mu.Unlock()
	s.logger.DebugContext(ctx, "loaded parliaments", "count", len(list))
	return list, nil
}

func (s *Service) Occupations(ctx context.Context) ([]string, error) {
	return s.optionList(ctx, PathOccupations)
}

func (s *Service) Expertise(ctx context.Context) ([]string, error) {
	return s.optionList(ctx, PathExpertise)
}

func (s *Service) Skills(ctx context.Context) ([]string, error) {
	return s.optionList(ctx, PathSkills)
}

func (s *Service) optionList(ctx context.Context, path string) ([]string, error) {
	s.mu.Lock()
	cached, ok := s.options[path]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	raw, err := s.api.GetRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	list, err := decodeOptions(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "unexpected lookup response", "path", path, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.options[path] = list
	s.mu.Unlock()
	return list, nil
}

// Invalidate drops every cached list so the next call refetches.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parliaments = nil
	s.options = make(map[string][]string)
}
