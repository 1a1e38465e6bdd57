// Package auth implements the login, logout and password-reset screens.
// The token the backend returns is opaque: it is stored on the session and
// sent back verbatim, never inspected.
package auth

import (
	"context"
	"log/slog"
	"strings"

	"realtyref/internal/backend"
	"realtyref/internal/platform/logger"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

// Poster sends credentials to the backend.
type Poster interface {
	PostJSON(ctx context.Context, path string, in, out any) error
}

// Session is where a successful login is recorded.
type Session interface {
	SignIn(ctx context.Context, token string, role domain.Role) error
	SignOut(ctx context.Context) error
	CacheResetMobile(ctx context.Context, mobile string) error
	ResetMobile(ctx context.Context) (string, error)
	ClearResetMobile(ctx context.Context) error
}

type Service struct {
	api     Poster
	session Session
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

func New(api Poster, session Session, opts ...Option) *Service {
	s := &Service{api: api, session: session, logger: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials entered on the login screen.
type Credentials struct {
	Role         domain.Role
	MobileNumber string
	Password     string
}

type loginRequest struct {
	MobileNumber string `json:"MobileNumber"`
	Password     string `json:"Password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Result of a successful login.
type Result struct {
	Role domain.Role
	Home Destination
}

// Login posts the credentials to the role's login endpoint and, on success,
// signs the session in. Errors carry the text the login screen shows inline:
// the backend's message or "Invalid credentials" for rejections, the generic
// retry text for transport failures.
func (s *Service) Login(ctx context.Context, c Credentials) (*Result, error) {
	mobile := strings.TrimSpace(c.MobileNumber)
	if mobile == "" || c.Password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Please enter mobile number and password")
	}
	if !c.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "Please select a user type")
	}

	var resp loginResponse
	err := s.api.PostJSON(ctx, "/"+c.Role.Prefix()+"/login", loginRequest{
		MobileNumber: mobile,
		Password:     c.Password,
	}, &resp)
	if err != nil {
		return nil, s.loginError(ctx, c.Role, err)
	}

	token := strings.TrimSpace(resp.Token)
	if token == "" {
		msg := strings.TrimSpace(resp.Message)
		if msg == "" {
			msg = dErrors.MsgInvalidCredentials
		}
		s.logger.InfoContext(ctx, "login rejected", "role", c.Role, "reason", "no token")
		return nil, dErrors.New(dErrors.CodeUnauthorized, msg)
	}

	if err := s.session.SignIn(ctx, token, c.Role); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store session")
	}
	s.logger.InfoContext(ctx, "logged in", "role", c.Role)
	return &Result{Role: c.Role, Home: Home(c.Role)}, nil
}

func (s *Service) loginError(ctx context.Context, role domain.Role, err error) error {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeBadRequest, dErrors.CodeUnauthorized, dErrors.CodeForbidden,
		dErrors.CodeNotFound, dErrors.CodeConflict:
		msg := backend.BackendMessage(err)
		if msg == "" {
			msg = dErrors.MsgInvalidCredentials
		}
		s.logger.InfoContext(ctx, "login rejected", "role", role, "code", dErrors.CodeOf(err))
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, msg)
	case dErrors.CodeRateLimited:
		s.logger.InfoContext(ctx, "login locked out", "role", role)
		return err
	default:
		s.logger.WarnContext(ctx, "login failed", "role", role, "error", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, dErrors.MsgTryAgainLater)
	}
}

// Logout forgets the session on this device.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.SignOut(ctx)
}
