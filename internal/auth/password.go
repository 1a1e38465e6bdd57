package auth

import (
	"context"
	"strings"

	"realtyref/internal/backend"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
)

const minPasswordLength = 6

type forgotRequest struct {
	MobileNumber string `json:"MobileNumber"`
}

type resetRequest struct {
	MobileNumber string `json:"MobileNumber"`
	Password     string `json:"Password"`
}

// ForgotPassword asks the backend to start a reset for mobile and caches the
// number so ResetPassword does not ask again.
func (s *Service) ForgotPassword(ctx context.Context, role domain.Role, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "Please enter your mobile number")
	}
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "Please select a user type")
	}
	if err := s.api.PostJSON(ctx, "/"+role.Prefix()+"/forgotpassword", forgotRequest{MobileNumber: mobile}, nil); err != nil {
		return passwordError(err)
	}
	if err := s.session.CacheResetMobile(ctx, mobile); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "cache mobile number")
	}
	s.logger.InfoContext(ctx, "password reset requested", "role", role)
	return nil
}

// ResetPassword sets a new password for the cached mobile number and clears
// the cache on success.
func (s *Service) ResetPassword(ctx context.Context, role domain.Role, password, confirm string) error {
	if !role.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "Please select a user type")
	}
	if len(password) < minPasswordLength {
		return dErrors.Newf(dErrors.CodeValidation, "Password must be at least %d characters", minPasswordLength)
	}
	if password != confirm {
		return dErrors.New(dErrors.CodeValidation, "Passwords do not match")
	}
	mobile, err := s.session.ResetMobile(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read cached mobile number")
	}
	if mobile == "" {
		return dErrors.New(dErrors.CodeValidation, "Please request a password reset first")
	}

	if err := s.api.PostJSON(ctx, "/"+role.Prefix()+"/resetpassword", resetRequest{
		MobileNumber: mobile,
		Password:     password,
	}, nil); err != nil {
		return passwordError(err)
	}
	if err := s.session.ClearResetMobile(ctx); err != nil {
		s.logger.WarnContext(ctx, "could not clear cached mobile", "error", err)
	}
	s.logger.InfoContext(ctx, "password reset", "role", role)
	return nil
}

// passwordError keeps a backend-supplied message for 4xx and otherwise lets
// the code decide the user text.
func passwordError(err error) error {
	if msg := backend.BackendMessage(err); msg != "" {
		return dErrors.Wrap(err, dErrors.CodeOf(err), msg)
	}
	return err
}
