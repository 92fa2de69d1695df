// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by store implementations when a requested record
// does not exist.
var ErrNotFound = errors.New("not found")

// Kind classifies an authentication error for propagation policy: validation
// and authentication kinds are always recoverable per request, configuration
// and store kinds surface as server errors.
type Kind string

// Error kinds.
const (
	KindConfiguration  Kind = "configuration"
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindStore          Kind = "store"
)

// Error codes. The HTTP layer maps codes to statuses; clients only ever see
// the code and the safe message.
const (
	CodeAlreadyConfigured  = "ALREADY_CONFIGURED"
	CodeSetupRequired      = "SETUP_REQUIRED"
	CodeSetupFailed        = "SETUP_FAILED"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeConfiguration      = "CONFIGURATION_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeStoreFailure       = "STORE_ERROR"
)

// Error is the tagged error variant for every failure the service exposes.
// Message is always safe for clients; Violations is populated only for
// CodeWeakPassword and RetryAfter only for CodeRateLimited. The wrapped
// cause, if any, carries internal detail for logging and never reaches a
// response body.
type Error struct {
	Kind       Kind
	Code       string
	Message    string
	Violations []Violation
	RetryAfter time.Duration

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the internal cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code string) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

func ErrAlreadyConfigured() *Error {
	return &Error{Kind: KindAuthentication, Code: CodeAlreadyConfigured, Message: "setup has already been completed"}
}

func ErrSetupRequired() *Error {
	return &Error{Kind: KindAuthentication, Code: CodeSetupRequired, Message: "initial setup has not been completed"}
}

func ErrSetupFailed(cause error) *Error {
	return &Error{Kind: KindStore, Code: CodeSetupFailed, Message: "setup could not be completed", cause: cause}
}

func ErrMissingFields() *Error {
	return &Error{Kind: KindValidation, Code: CodeMissingFields, Message: "username and password are required"}
}

// ErrInvalidBody is a validation failure for malformed or incomplete
// request bodies outside the credential flows.
func ErrInvalidBody(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeMissingFields, Message: message}
}

func ErrWeakPassword(violations []Violation) *Error {
	return &Error{Kind: KindValidation, Code: CodeWeakPassword, Message: "password does not meet the policy", Violations: violations}
}

func ErrInvalidCredentials() *Error {
	// One generic message regardless of which factor failed, to avoid
	// username enumeration.
	return &Error{Kind: KindAuthentication, Code: CodeInvalidCredentials, Message: "invalid username or password"}
}

func ErrMissingToken() *Error {
	return &Error{Kind: KindAuthentication, Code: CodeMissingToken, Message: "no token provided"}
}

func ErrTokenExpired() *Error {
	return &Error{Kind: KindAuthentication, Code: CodeTokenExpired, Message: "token has expired"}
}

func ErrInvalidToken(cause error) *Error {
	return &Error{Kind: KindAuthentication, Code: CodeInvalidToken, Message: "invalid token", cause: cause}
}

func ErrSessionInvalid() *Error {
	return &Error{Kind: KindAuthentication, Code: CodeSessionInvalid, Message: "session is no longer valid"}
}

func ErrConfiguration(cause error) *Error {
	return &Error{Kind: KindConfiguration, Code: CodeConfiguration, Message: "server configuration error", cause: cause}
}

func ErrRateLimited(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimit, Code: CodeRateLimited, Message: "too many requests", RetryAfter: retryAfter}
}

func ErrStore(cause error) *Error {
	return &Error{Kind: KindStore, Code: CodeStoreFailure, Message: "storage operation failed", cause: cause}
}
