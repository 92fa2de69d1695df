// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import "unicode"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Violation names a password policy rule that a candidate password breaks.
// The values double as the JSON vocabulary of weak-password responses.
type Violation string

// Password policy violations.
const (
	ViolationLength    Violation = "length"
	ViolationUppercase Violation = "uppercase"
	ViolationLowercase Violation = "lowercase"
	ViolationNumber    Violation = "number"
	ViolationSpecial   Violation = "special"
)

// PolicyResult is the outcome of validating a candidate password.
type PolicyResult struct {
	Valid      bool
	Violations []Violation
}

// ValidatePassword checks a candidate password against the policy: at least
// MinPasswordLength characters with at least one uppercase letter, one
// lowercase letter, one digit, and one special character. Pure and
// deterministic; used only during setup, never during login.
func ValidatePassword(password string) PolicyResult {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	length := 0
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	var violations []Violation
	if length < MinPasswordLength {
		violations = append(violations, ViolationLength)
	}
	if !hasUpper {
		violations = append(violations, ViolationUppercase)
	}
	if !hasLower {
		violations = append(violations, ViolationLowercase)
	}
	if !hasDigit {
		violations = append(violations, ViolationNumber)
	}
	if !hasSpecial {
		violations = append(violations, ViolationSpecial)
	}

	return PolicyResult{Valid: len(violations) == 0, Violations: violations}
}
