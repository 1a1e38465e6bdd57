package stub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"realtyref/internal/platform/logger"
	"realtyref/internal/platform/metrics"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/platform/sentinel"
	"realtyref/pkg/requestcontext"
)

const (
	resetWindow       = 15 * time.Minute
	minPasswordLength = 6
)

// Keys the server owns. Clients may echo them back on update; they are
// never overwritten from a request body.
var serverManagedKeys = []string{
	"_id", "__v", "createdAt", "updatedAt", "MyRefferalCode", "ReferredBy",
	"AgentType", "Password", "LastLoginDevice", "LastLoginAt",
}

// Service implements the backend contract over a RecordStore.
type Service struct {
	store   RecordStore
	tokens  *TokenService
	seed    *Seed
	logger  *slog.Logger
	metrics *metrics.Metrics
	lockout *Lockout

	mu      sync.Mutex
	pending map[string]time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLockout replaces the default failed-login lockout of five attempts
// per fifteen minutes.
func WithLockout(l *Lockout) Option {
	return func(s *Service) {
		if l != nil {
			s.lockout = l
		}
	}
}

func NewService(store RecordStore, tokens *TokenService, seed *Seed, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tokens:  tokens,
		seed:    seed,
		logger:  logger.Discard(),
		lockout: NewLockout(defaultLockoutAttempts, defaultLockoutWindow),
		pending: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed returns the lookup data the server answers reference-list requests from.
func (s *Service) Seed() *Seed {
	return s.seed
}

// Bootstrap creates the seeded staff accounts. Accounts that already exist
// are left alone, so it is safe to run on every start.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, u := range s.seed.Staff {
		fields := map[string]any{
			"FullName":     u.Name,
			"MobileNumber": u.Mobile,
			"Password":     u.Password,
		}
		_, err := s.Register(ctx, u.Role, fields)
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s %s: %w", u.Role, u.Mobile, err)
		}
	}
	return nil
}

// Register creates an account for role from the flat registration body.
// The password defaults to the mobile number when the form has none.
func (s *Service) Register(ctx context.Context, role domain.Role, body map[string]any) (*Record, error) {
	collection := collectionFor(role)
	if collection == "" {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "cannot register %s", role)
	}
	mobile := mobileOf(body)
	if mobile == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Mobile number is required")
	}
	if nameOf(body) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Name is required")
	}
	password := stringField(body, "Password")
	if password == "" {
		password = mobile
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	rec := &Record{
		ID:           uuid.NewString(),
		Collection:   collection,
		Role:         role,
		Mobile:       mobile,
		PasswordHash: hash,
		ReferralCode: stringField(body, "MyRefferalCode"),
		ReferredBy:   stringField(body, "ReferredBy"),
		Fields:       clientFields(body),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "Mobile number already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save record")
	}
	if s.metrics != nil {
		s.metrics.IncrementRecordsCreated(string(collection))
	}
	s.logger.InfoContext(ctx, "record registered",
		"collection", collection,
		"role", role,
		"id", rec.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return rec, nil
}

// Login checks credentials against the accounts behind a route prefix and
// issues a session token.
func (s *Service) Login(ctx context.Context, prefix, mobile, password, userAgent string) (string, *Record, error) {
	mobile = strings.TrimSpace(mobile)
	key := lockoutKey(prefix, mobile)
	if err := s.lockout.Check(ctx, key); err != nil {
		s.countLogin(prefix, "locked")
		return "", nil, err
	}

	rec, err := s.findAccount(ctx, prefix, mobile)
	if err == nil && bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)) != nil {
		err = dErrors.New(dErrors.CodeUnauthorized, dErrors.MsgInvalidCredentials)
	}
	if err != nil {
		s.countLogin(prefix, "rejected")
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			err = dErrors.New(dErrors.CodeUnauthorized, dErrors.MsgInvalidCredentials)
		}
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) && s.lockout.RecordFailure(ctx, key) {
			s.logger.WarnContext(ctx, "login locked out", "prefix", prefix)
		}
		return "", nil, err
	}
	s.lockout.Clear(key)

	rec.Fields["LastLoginDevice"] = DeviceName(userAgent)
	rec.Fields["LastLoginAt"] = requestcontext.Now(ctx).UTC().Format(time.RFC3339)
	if err := s.store.Replace(ctx, rec); err != nil {
		s.logger.WarnContext(ctx, "failed to record login device", "id", rec.ID, "error", err)
	}

	token, err := s.tokens.Issue(rec)
	if err != nil {
		return "", nil, err
	}
	s.countLogin(prefix, "ok")
	return token, rec, nil
}

func (s *Service) countLogin(prefix, outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLogins(prefix, outcome)
	}
}

// findAccount looks the mobile number up in every collection the prefix
// logs in to.
func (s *Service) findAccount(ctx context.Context, prefix, mobile string) (*Record, error) {
	if mobile == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Mobile number is required")
	}
	var seen []domain.Collection
	for _, role := range rolesByPrefix(prefix) {
		c := collectionFor(role)
		if slices.Contains(seen, c) {
			continue
		}
		seen = append(seen, c)
		rec, err := s.store.FindByMobile(ctx, c, mobile)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
		}
		return rec, nil
	}
	if len(seen) == 0 {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "unknown route prefix %q", prefix)
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
}

// Profile returns the caller's own record.
func (s *Service) Profile(ctx context.Context, caller requestcontext.Caller) (*Record, error) {
	role := domain.Role(caller.Role)
	rec, err := s.store.Get(ctx, collectionFor(role), caller.RecordID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return rec, nil
}

// UpdateProfile replaces the caller's record with body. Server-managed keys
// keep their stored values.
func (s *Service) UpdateProfile(ctx context.Context, caller requestcontext.Caller, body map[string]any) (*Record, error) {
	rec, err := s.Profile(ctx, caller)
	if err != nil {
		return nil, err
	}
	mobile := mobileOf(body)
	if mobile == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Mobile number is required")
	}

	fields := clientFields(body)
	for _, k := range []string{"LastLoginDevice", "LastLoginAt"} {
		if v, ok := rec.Fields[k]; ok {
			fields[k] = v
		}
	}
	rec.Fields = fields
	rec.Mobile = mobile
	rec.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Replace(ctx, rec); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "Mobile number already exists")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
		}
	}
	return rec, nil
}

// ForgotPassword opens a reset window for an existing account.
func (s *Service) ForgotPassword(ctx context.Context, prefix, mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if _, err := s.findAccount(ctx, prefix, mobile); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending[prefix+"|"+mobile] = requestcontext.Now(ctx).Add(resetWindow)
	s.mu.Unlock()
	return nil
}

// ResetPassword sets a new password if a reset window is open for the mobile.
func (s *Service) ResetPassword(ctx context.Context, prefix, mobile, password string) error {
	mobile = strings.TrimSpace(mobile)
	if len(password) < minPasswordLength {
		return dErrors.Newf(dErrors.CodeValidation, "Password must be at least %d characters", minPasswordLength)
	}

	key := prefix + "|" + mobile
	now := requestcontext.Now(ctx)
	s.mu.Lock()
	expires, ok := s.pending[key]
	if ok && now.After(expires) {
		delete(s.pending, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return dErrors.New(dErrors.CodeBadRequest, "Password reset was not requested")
	}

	rec, err := s.findAccount(ctx, prefix, mobile)
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	rec.PasswordHash = hash
	rec.UpdatedAt = now
	if err := s.store.Replace(ctx, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset password")
	}

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
	return nil
}

// List returns the records of a list route visible to the caller.
func (s *Service) List(ctx context.Context, caller requestcontext.Caller, route ListRoute) ([]*Record, error) {
	role := domain.Role(caller.Role)
	if !route.allows(role) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "%s cannot view %s", role, route.Collection)
	}
	var filter ListFilter
	if route.ReferredOnly {
		filter.ReferredBy = []string{caller.ReferralCode, caller.Mobile}
	}
	recs, err := s.store.List(ctx, route.Collection, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}
	return recs, nil
}

// Delete removes one record. Only staff may delete, agents may also delete
// properties.
func (s *Service) Delete(ctx context.Context, caller requestcontext.Caller, c domain.Collection, id string) error {
	role := domain.Role(caller.Role)
	if !canDelete(c, role) {
		return dErrors.Newf(dErrors.CodeForbidden, "%s cannot delete %s", role, c)
	}
	if err := s.store.Delete(ctx, c, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "Record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete record")
	}
	if s.metrics != nil {
		s.metrics.IncrementRecordsDeleted(string(c))
	}
	s.logger.InfoContext(ctx, "record deleted",
		"collection", c,
		"id", id,
		"by", caller.RecordID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// AddProperty stores a listing. Listings are approved on creation.
func (s *Service) AddProperty(ctx context.Context, caller requestcontext.Caller, body map[string]any) (*Record, error) {
	if stringField(body, "propertyType") == "" || stringField(body, "location") == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Property type and location are required")
	}
	if _, ok := body["price"]; !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "Price is required")
	}
	postedBy := stringField(body, "PostedBy")
	if postedBy == "" {
		postedBy = caller.ReferralCode
	}
	fields := clientFields(body)
	fields["PostedBy"] = postedBy
	fields["approved"] = true

	now := requestcontext.Now(ctx)
	rec := &Record{
		ID:         uuid.NewString(),
		Collection: domain.CollectionProperties,
		ReferredBy: postedBy,
		Fields:     fields,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save property")
	}
	if s.metrics != nil {
		s.metrics.IncrementRecordsCreated(string(rec.Collection))
	}
	return rec, nil
}

// RequestExpert stores an expert-panel request. ExpertType must be one of
// the seeded expertise options.
func (s *Service) RequestExpert(ctx context.Context, body map[string]any) (*Record, error) {
	if stringField(body, "Name") == "" || stringField(body, "MobileNumber") == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Name and mobile number are required")
	}
	expertType := stringField(body, "ExpertType")
	if !slices.Contains(s.seed.Expertise, expertType) {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "Unknown expert type %q", expertType)
	}

	now := requestcontext.Now(ctx)
	rec := &Record{
		ID:         uuid.NewString(),
		Collection: collectionExpertRequests,
		Fields:     clientFields(body),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save request")
	}
	if s.metrics != nil {
		s.metrics.IncrementRecordsCreated(string(rec.Collection))
	}
	return rec, nil
}

func hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, dErrors.New(dErrors.CodeValidation, "Password is too long")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not hash password")
	}
	return hash, nil
}

// clientFields copies body without the server-managed keys.
func clientFields(body map[string]any) map[string]any {
	out := make(map[string]any, len(body))
	for k, v := range body {
		if slices.Contains(serverManagedKeys, k) {
			continue
		}
		out[k] = v
	}
	return out
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return strings.TrimSpace(s)
}

func mobileOf(body map[string]any) string {
	for _, k := range []string{"MobileNumber", "MobileIN"} {
		if v := stringField(body, k); v != "" {
			return v
		}
	}
	return ""
}

func nameOf(body map[string]any) string {
	for _, k := range []string{"FullName", "Name"} {
		if v := stringField(body, k); v != "" {
			return v
		}
	}
	return ""
}
