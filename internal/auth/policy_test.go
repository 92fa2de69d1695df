// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wirevista/wirevista/internal/auth"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		valid      bool
		violations []auth.Violation
	}{
		{
			name:     "strong password passes",
			password: "Str0ng!Pass",
			valid:    true,
		},
		{
			name:     "all character classes at minimum length",
			password: "Aa1!Aa1!",
			valid:    true,
		},
		{
			name:     "weak password reports every violation",
			password: "weak",
			violations: []auth.Violation{
				auth.ViolationLength,
				auth.ViolationUppercase,
				auth.ViolationNumber,
				auth.ViolationSpecial,
			},
		},
		{
			name:       "empty password fails everything",
			password:   "",
			violations: []auth.Violation{auth.ViolationLength, auth.ViolationUppercase, auth.ViolationLowercase, auth.ViolationNumber, auth.ViolationSpecial},
		},
		{
			name:       "missing uppercase",
			password:   "str0ng!pass",
			violations: []auth.Violation{auth.ViolationUppercase},
		},
		{
			name:       "missing lowercase",
			password:   "STR0NG!PASS",
			violations: []auth.Violation{auth.ViolationLowercase},
		},
		{
			name:       "missing digit",
			password:   "Strong!Pass",
			violations: []auth.Violation{auth.ViolationNumber},
		},
		{
			name:       "missing special character",
			password:   "Str0ngPass",
			violations: []auth.Violation{auth.ViolationSpecial},
		},
		{
			name:       "seven characters is too short",
			password:   "Aa1!Aa1",
			violations: []auth.Violation{auth.ViolationLength},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := auth.ValidatePassword(tt.password)
			assert.Equal(t, tt.valid, result.Valid)
			assert.ElementsMatch(t, tt.violations, result.Violations)
		})
	}
}

func TestValidatePassword_Deterministic(t *testing.T) {
	first := auth.ValidatePassword("aB3$")
	second := auth.ValidatePassword("aB3$")
	assert.Equal(t, first, second)
}
