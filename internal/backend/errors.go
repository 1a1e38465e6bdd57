package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	dErrors "realtyref/pkg/domain-errors"
)

// StatusError records a non-2xx response. It is wrapped inside the domain
// error so callers that need the raw status can errors.As it.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d", e.Status)
}

// statusError classifies a non-2xx response.
func statusError(status int, raw []byte) error {
	msg := backendMessage(raw)
	if msg == "" {
		msg = http.StatusText(status)
	}
	se := &StatusError{Status: status, Body: string(raw)}

	var code dErrors.Code
	switch {
	case status == http.StatusUnauthorized:
		code = dErrors.CodeUnauthorized
	case status == http.StatusForbidden:
		code = dErrors.CodeForbidden
	case status == http.StatusNotFound:
		code = dErrors.CodeNotFound
	case status == http.StatusConflict:
		code = dErrors.CodeConflict
	case status == http.StatusTooManyRequests:
		code = dErrors.CodeRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		code = dErrors.CodeTimeout
	case status >= 400 && status < 500:
		code = dErrors.CodeBadRequest
	default:
		code = dErrors.CodeUnavailable
	}
	return dErrors.Wrap(se, code, msg)
}

// backendMessage extracts the human-readable text from an error body. The
// backend is inconsistent about the key, so several are tried in order.
func backendMessage(raw []byte) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		text := strings.TrimSpace(string(raw))
		if len(text) > 0 && len(text) <= 200 && !strings.HasPrefix(text, "<") {
			return text
		}
		return ""
	}
	for _, key := range []string{"message", "msg", "error_description", "error"} {
		if s, ok := body[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// BackendMessage returns the message the backend put in a non-2xx response,
// if it supplied one. It is empty when only the HTTP status text is known.
func BackendMessage(err error) string {
	var se *StatusError
	if !errors.As(err, &se) {
		return ""
	}
	return backendMessage([]byte(se.Body))
}
