package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "realtyref/pkg/domain-errors"
	"realtyref/pkg/platform/httputil"
	"realtyref/pkg/requestcontext"
)

// TokenHeader is the backend's custom auth header. The contract does not use
// an Authorization bearer scheme.
const TokenHeader = "token"

// TokenValidator validates an opaque session token and returns its caller.
type TokenValidator interface {
	ValidateToken(token string) (requestcontext.Caller, error)
}

// RequireToken rejects requests without a valid token header and injects the
// caller into the request context.
func RequireToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing token header"))
				return
			}

			caller, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, caller)))
		})
	}
}
