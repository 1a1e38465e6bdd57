// Package handler serves the realty backend contract over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"realtyref/internal/stub"
	"realtyref/pkg/domain"
	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/platform/httputil"
	"realtyref/pkg/requestcontext"
)

const maxBodyBytes = 1 << 20

// Service defines the contract operations the handler serves.
type Service interface {
	Register(ctx context.Context, role domain.Role, body map[string]any) (*stub.Record, error)
	Login(ctx context.Context, prefix, mobile, password, userAgent string) (string, *stub.Record, error)
	Profile(ctx context.Context, caller requestcontext.Caller) (*stub.Record, error)
	UpdateProfile(ctx context.Context, caller requestcontext.Caller, body map[string]any) (*stub.Record, error)
	ForgotPassword(ctx context.Context, prefix, mobile string) error
	ResetPassword(ctx context.Context, prefix, mobile, password string) error
	List(ctx context.Context, caller requestcontext.Caller, route stub.ListRoute) ([]*stub.Record, error)
	Delete(ctx context.Context, caller requestcontext.Caller, c domain.Collection, id string) error
	AddProperty(ctx context.Context, caller requestcontext.Caller, body map[string]any) (*stub.Record, error)
	RequestExpert(ctx context.Context, body map[string]any) (*stub.Record, error)
	Seed() *stub.Seed
}

// Handler wires the contract endpoints to the stub service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public endpoints on r and the token-protected ones on
// a group guarded by auth.
func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Get("/alldiscons/alldiscons", h.HandleParliaments)
	r.Get("/discons/occupations", h.HandleOccupations)
	r.Get("/discons/expertise", h.HandleExpertise)
	r.Get("/discons/skills", h.HandleSkills)
	r.Post("/direqs/requestExpert", h.HandleRequestExpert)

	for path, role := range stub.RegisterRoutes {
		r.Post(path, h.HandleRegister(role))
	}
	r.Post("/{prefix}/login", h.HandleLogin)
	r.Post("/{prefix}/forgotpassword", h.HandleForgotPassword)
	r.Post("/{prefix}/resetpassword", h.HandleResetPassword)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/{prefix}/profile", h.HandleProfile)
		r.Put("/{prefix}/updateprofile", h.HandleUpdateProfile)
		r.Post("/properties/addProperty", h.HandleAddProperty)
		for _, route := range stub.ListRoutes {
			r.Get(route.Path, h.HandleList(route))
		}
		for _, route := range stub.DeleteRoutes {
			r.Delete(route.Pattern, h.HandleDelete(route.Collection))
		}
	})
}

// HandleRegister handles the per-role create endpoints.
func (h *Handler) HandleRegister(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		body, ok := h.decode(w, r)
		if !ok {
			return
		}
		target := role
		if role.IsAgent() {
			if t, _ := body["AgentType"].(string); t != "" {
				parsed, err := domain.ParseRole(t)
				if err != nil || !parsed.IsAgent() {
					httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "Unknown agent type %q", t))
					return
				}
				target = parsed
			}
		}

		rec, err := h.service.Register(ctx, target, body)
		if err != nil {
			h.fail(ctx, w, "registration failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, map[string]any{
			"message": fmt.Sprintf("%s registered successfully", target),
			"data":    rec.Document(),
		})
	}
}

type credentials struct {
	MobileNumber string `json:"MobileNumber"`
	Password     string `json:"Password"`
}

// HandleLogin handles POST /{prefix}/login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req credentials
	if !h.decodeInto(w, r, &req) {
		return
	}
	token, rec, err := h.service.Login(ctx, chi.URLParam(r, "prefix"), req.MobileNumber, req.Password, r.UserAgent())
	if err != nil {
		h.fail(ctx, w, "login failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":  "Login successful",
		"token":    token,
		"userType": string(rec.Role),
	})
}

// HandleForgotPassword handles POST /{prefix}/forgotpassword.
func (h *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req credentials
	if !h.decodeInto(w, r, &req) {
		return
	}
	if err := h.service.ForgotPassword(ctx, chi.URLParam(r, "prefix"), req.MobileNumber); err != nil {
		h.fail(ctx, w, "forgot password failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset requested"})
}

// HandleResetPassword handles POST /{prefix}/resetpassword.
func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req credentials
	if !h.decodeInto(w, r, &req) {
		return
	}
	if err := h.service.ResetPassword(ctx, chi.URLParam(r, "prefix"), req.MobileNumber, req.Password); err != nil {
		h.fail(ctx, w, "reset password failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// HandleProfile handles GET /{prefix}/profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Profile(ctx, caller)
	if err != nil {
		h.fail(ctx, w, "profile lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": rec.Document()})
}

// HandleUpdateProfile handles PUT /{prefix}/updateprofile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}
	body, ok := h.decode(w, r)
	if !ok {
		return
	}
	rec, err := h.service.UpdateProfile(ctx, caller, body)
	if err != nil {
		h.fail(ctx, w, "profile update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"data":    rec.Document(),
	})
}

// HandleList serves one collection listing in the route's envelope.
func (h *Handler) HandleList(route stub.ListRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := requestcontext.CallerFrom(ctx)
		recs, err := h.service.List(ctx, caller, route)
		if err != nil {
			h.fail(ctx, w, "list failed", err)
			return
		}
		docs := make([]map[string]any, 0, len(recs))
		for _, rec := range recs {
			docs = append(docs, rec.Document())
		}
		if route.Envelope == "" {
			httputil.WriteJSON(w, http.StatusOK, docs)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{route.Envelope: docs})
	}
}

// HandleDelete removes the record named by the {id} path parameter.
func (h *Handler) HandleDelete(c domain.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller, _ := requestcontext.CallerFrom(ctx)
		if err := h.service.Delete(ctx, caller, c, chi.URLParam(r, "id")); err != nil {
			h.fail(ctx, w, "delete failed", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
	}
}

// HandleAddProperty handles POST /properties/addProperty.
func (h *Handler) HandleAddProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := requestcontext.CallerFrom(ctx)
	body, ok := h.decode(w, r)
	if !ok {
		return
	}
	rec, err := h.service.AddProperty(ctx, caller, body)
	if err != nil {
		h.fail(ctx, w, "add property failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Property added successfully",
		"data":    rec.Document(),
	})
}

// HandleRequestExpert handles POST /direqs/requestExpert.
func (h *Handler) HandleRequestExpert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, ok := h.decode(w, r)
	if !ok {
		return
	}
	rec, err := h.service.RequestExpert(ctx, body)
	if err != nil {
		h.fail(ctx, w, "expert request failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "Request submitted successfully",
		"data":    rec.Document(),
	})
}

// HandleParliaments returns the parliament tree as a bare array.
func (h *Handler) HandleParliaments(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, nonNil(h.service.Seed().Parliaments))
}

// HandleOccupations returns occupations under "data".
func (h *Handler) HandleOccupations(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"data": nonNil(h.service.Seed().Occupations)})
}

// HandleExpertise returns expertise as objects with a name key.
func (h *Handler) HandleExpertise(w http.ResponseWriter, _ *http.Request) {
	names := h.service.Seed().Expertise
	out := make([]map[string]string, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]string{"name": n})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// HandleSkills returns skills as a bare array of strings.
func (h *Handler) HandleSkills(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, nonNil(h.service.Seed().Skills))
}

// caller returns the authenticated caller if it owns the route prefix.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (requestcontext.Caller, bool) {
	caller, _ := requestcontext.CallerFrom(r.Context())
	if domain.Role(caller.Role).Prefix() != chi.URLParam(r, "prefix") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Token does not belong to this user type"))
		return requestcontext.Caller{}, false
	}
	return caller, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if !h.decodeInto(w, r, &body) {
		return nil, false
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, true
}

func (h *Handler) decodeInto(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		h.logger.WarnContext(r.Context(), "invalid request body",
			"path", r.URL.Path,
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid request body"))
		return false
	}
	return true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"code", dErrors.CodeOf(err),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
