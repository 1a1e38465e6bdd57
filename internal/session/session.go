// Package session holds the signed-in user's state: the opaque auth token,
// the user-type tag and the mobile number cached by the password-reset flow.
//
// A *Session is created once per process and handed to every service that
// needs it, instead of services reading shared storage on their own. Writes go
// through to the device-local Store so the session survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"realtyref/internal/platform/logger"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/platform/sentinel"
)

// Persisted keys.
const (
	KeyAuthToken   = "authToken"
	KeyUserType    = "userType"
	KeyResetMobile = "resetMobile"
)

// Store is the device-local key/value storage. Get returns
// sentinel.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Session is safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	token  string
	role   domain.Role
	store  Store
	logger *slog.Logger
}

type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open restores the session persisted in store. A stored user-type tag that
// no longer parses is treated as signed out and removed.
func Open(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	s := &Session{store: store, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}

	token, err := s.get(ctx, KeyAuthToken)
	if err != nil {
		return nil, err
	}
	rawRole, err := s.get(ctx, KeyUserType)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return s, nil
	}

	role, err := domain.ParseRole(rawRole)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding session with unknown user type", "user_type", rawRole)
		if err := store.Delete(ctx, KeyAuthToken, KeyUserType); err != nil {
			return nil, fmt.Errorf("clear stale session: %w", err)
		}
		return s, nil
	}
	s.token = token
	s.role = role
	return s, nil
}

func (s *Session) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

// Token implements backend.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Role returns the signed-in user's type, or "" when signed out.
func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// RequireRole returns the signed-in role or an unauthorized error.
func (s *Session) RequireRole() (domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "Please log in first")
	}
	return s.role, nil
}

// SignIn persists token and role, then updates the in-memory view.
func (s *Session) SignIn(ctx context.Context, token string, role domain.Role) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return dErrors.New(dErrors.CodeValidation, "token is required")
	}
	if !role.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown user type %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, KeyAuthToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.store.Set(ctx, KeyUserType, string(role)); err != nil {
		return fmt.Errorf("persist user type: %w", err)
	}
	s.token = token
	s.role = role
	return nil
}

// SignOut forgets the token and user type locally. There is no server-side
// logout in the contract.
func (s *Session) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, KeyAuthToken, KeyUserType); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.token = ""
	s.role = ""
	return nil
}

// CacheResetMobile remembers the mobile number a password reset was
// requested for, so the reset step does not ask for it again.
func (s *Session) CacheResetMobile(ctx context.Context, mobile string) error {
	if err := s.store.Set(ctx, KeyResetMobile, mobile); err != nil {
		return fmt.Errorf("cache reset mobile: %w", err)
	}
	return nil
}

// ResetMobile returns the cached mobile number, or "" if none is cached.
func (s *Session) ResetMobile(ctx context.Context) (string, error) {
	return s.get(ctx, KeyResetMobile)
}

func (s *Session) ClearResetMobile(ctx context.Context) error {
	if err := s.store.Delete(ctx, KeyResetMobile); err != nil {
		return fmt.Errorf("clear reset mobile: %w", err)
	}
	return nil
}
