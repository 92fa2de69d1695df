// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/wirevista/wirevista/internal/auth"
	"github.com/wirevista/wirevista/pkg/errutil"
)

// errorBody is the JSON shape of every failure response. Violations and
// RetryAfter appear only for their respective error codes; the message is
// always safe for clients.
type errorBody struct {
	Error      string           `json:"error"`
	Message    string           `json:"message"`
	Violations []auth.Violation `json:"violations,omitempty"`
	RetryAfter int64            `json:"retryAfter,omitempty"`
}

// statusFor maps an error code to its HTTP status. Signature-invalid tokens
// get 403, other authentication failures 401.
func statusFor(e *auth.Error) int {
	switch e.Code {
	case auth.CodeMissingFields, auth.CodeWeakPassword:
		return http.StatusBadRequest
	case auth.CodeInvalidCredentials, auth.CodeMissingToken, auth.CodeTokenExpired, auth.CodeSessionInvalid:
		return http.StatusUnauthorized
	case auth.CodeInvalidToken, auth.CodeAlreadyConfigured, auth.CodeSetupRequired:
		return http.StatusForbidden
	case auth.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// writeError renders err as a JSON failure response. Internal detail is
// logged with request context; the client receives only the error code and
// a safe message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	authErr, ok := auth.AsError(err)
	if !ok {
		errutil.LogError(s.logger.With("method", r.Method, "path", r.URL.Path), "unclassified error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "INTERNAL_ERROR",
			Message: "internal server error",
		})
		return
	}

	status := statusFor(authErr)
	if status >= http.StatusInternalServerError {
		errutil.LogError(s.logger.With("method", r.Method, "path", r.URL.Path), "request failed", err)
	}

	body := errorBody{
		Error:      authErr.Code,
		Message:    authErr.Message,
		Violations: authErr.Violations,
	}
	if authErr.Code == auth.CodeRateLimited {
		retryAfter := int64(math.Ceil(authErr.RetryAfter.Seconds()))
		body.RetryAfter = retryAfter
		w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	}
	s.writeJSON(w, status, body)
}
