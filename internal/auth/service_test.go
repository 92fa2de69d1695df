// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirevista/wirevista/internal/auth"
	"github.com/wirevista/wirevista/internal/auth/authtest"
)

type serviceFixture struct {
	svc         *auth.Service
	credentials *authtest.CredentialStore
	gate        *authtest.SetupGate
	sessions    *authtest.SessionRegistry
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	credentials := &authtest.CredentialStore{}
	gate := &authtest.SetupGate{}
	sessions := &authtest.SessionRegistry{}

	tokens, err := auth.NewTokenIssuer(testSecret)
	require.NoError(t, err)

	svc, err := auth.NewService(credentials, gate, sessions, tokens, auth.NewBcryptHasher(), nil)
	require.NoError(t, err)

	return &serviceFixture{svc: svc, credentials: credentials, gate: gate, sessions: sessions}
}

func TestNewService_NilDependencies(t *testing.T) {
	tokens, err := auth.NewTokenIssuer(testSecret)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher()
	credentials := &authtest.CredentialStore{}
	gate := &authtest.SetupGate{}
	sessions := &authtest.SessionRegistry{}

	tests := []struct {
		name        string
		build       func() (*auth.Service, error)
		expectError string
	}{
		{
			name: "nil credential store",
			build: func() (*auth.Service, error) {
				return auth.NewService(nil, gate, sessions, tokens, hasher, nil)
			},
			expectError: "credential store is required",
		},
		{
			name: "nil setup gate",
			build: func() (*auth.Service, error) {
				return auth.NewService(credentials, nil, sessions, tokens, hasher, nil)
			},
			expectError: "setup gate is required",
		},
		{
			name: "nil session registry",
			build: func() (*auth.Service, error) {
				return auth.NewService(credentials, gate, nil, tokens, hasher, nil)
			},
			expectError: "session registry is required",
		},
		{
			name: "nil token issuer",
			build: func() (*auth.Service, error) {
				return auth.NewService(credentials, gate, sessions, nil, hasher, nil)
			},
			expectError: "token issuer is required",
		},
		{
			name: "nil password hasher",
			build: func() (*auth.Service, error) {
				return auth.NewService(credentials, gate, sessions, tokens, nil, nil)
			},
			expectError: "password hasher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := tt.build()
			require.Error(t, err)
			assert.Nil(t, svc)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestService_Setup(t *testing.T) {
	ctx := context.Background()

	t.Run("successful setup issues a session", func(t *testing.T) {
		f := newServiceFixture(t)

		token, user, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, auth.User{ID: auth.AdminUserID, Username: "admin", Role: auth.AdminRole}, user)

		complete, err := f.svc.SetupStatus(ctx)
		require.NoError(t, err)
		assert.True(t, complete)

		// The token authenticates immediately after issuance.
		claims, err := f.svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
	})

	t.Run("setup is allowed exactly once", func(t *testing.T) {
		f := newServiceFixture(t)

		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		_, _, err = f.svc.Setup(ctx, "other", "An0ther!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeAlreadyConfigured), "got %v", err)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newServiceFixture(t)

		for _, pair := range [][2]string{{"", "Str0ng!Pass"}, {"admin", ""}, {"", ""}} {
			_, _, err := f.svc.Setup(ctx, pair[0], pair[1])
			require.Error(t, err)
			assert.True(t, auth.IsCode(err, auth.CodeMissingFields), "got %v", err)
		}
	})

	t.Run("weak password reports violations", func(t *testing.T) {
		f := newServiceFixture(t)

		_, _, err := f.svc.Setup(ctx, "a", "weak")
		require.Error(t, err)
		authErr, ok := auth.AsError(err)
		require.True(t, ok)
		assert.Equal(t, auth.CodeWeakPassword, authErr.Code)
		assert.ElementsMatch(t, []auth.Violation{
			auth.ViolationLength,
			auth.ViolationUppercase,
			auth.ViolationNumber,
			auth.ViolationSpecial,
		}, authErr.Violations)
	})

	t.Run("credential save failure is SetupFailed", func(t *testing.T) {
		f := newServiceFixture(t)
		f.credentials.SaveErr = errors.New("store unavailable")

		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSetupFailed), "got %v", err)

		complete, statusErr := f.svc.SetupStatus(ctx)
		require.NoError(t, statusErr)
		assert.False(t, complete)
	})

	t.Run("marker failure after save leaves inconsistent state", func(t *testing.T) {
		f := newServiceFixture(t)
		f.gate.MarkErr = errors.New("store unavailable")

		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSetupFailed), "got %v", err)

		// Credential was written, marker was not. Not rolled back.
		cred, loadErr := f.credentials.Load(ctx)
		require.NoError(t, loadErr)
		assert.Equal(t, "admin", cred.Username)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("before setup fails with SetupRequired", func(t *testing.T) {
		f := newServiceFixture(t)

		_, _, err := f.svc.Login(ctx, "admin", "Str0ng!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSetupRequired), "got %v", err)
	})

	t.Run("valid credentials issue a fresh token", func(t *testing.T) {
		f := newServiceFixture(t)
		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		token, user, err := f.svc.Login(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, auth.AdminUserID, user.ID)

		claims, err := f.svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, auth.AdminRole, claims.Role)
	})

	t.Run("wrong password and wrong username yield identical errors", func(t *testing.T) {
		f := newServiceFixture(t)
		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		_, _, badPass := f.svc.Login(ctx, "admin", "Wr0ng!Pass")
		require.Error(t, badPass)
		_, _, badUser := f.svc.Login(ctx, "intruder", "Str0ng!Pass")
		require.Error(t, badUser)

		assert.True(t, auth.IsCode(badPass, auth.CodeInvalidCredentials))
		assert.True(t, auth.IsCode(badUser, auth.CodeInvalidCredentials))
		assert.Equal(t, badPass.Error(), badUser.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newServiceFixture(t)
		_, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		_, _, err = f.svc.Login(ctx, "", "Str0ng!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeMissingFields))
	})

	t.Run("credential absent despite completed setup is a configuration error", func(t *testing.T) {
		f := newServiceFixture(t)
		f.gate.ForceComplete()

		_, _, err := f.svc.Login(ctx, "admin", "Str0ng!Pass")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeConfiguration), "got %v", err)
	})

	t.Run("second login supersedes the first session", func(t *testing.T) {
		f := newServiceFixture(t)
		first, _, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		second, _, err := f.svc.Login(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		// The old token still verifies cryptographically but its session is
		// superseded.
		_, err = f.svc.Authenticate(ctx, first)
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSessionInvalid), "got %v", err)

		_, err = f.svc.Authenticate(ctx, second)
		require.NoError(t, err)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.Authenticate(ctx, "")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeMissingToken))
	})

	t.Run("garbage token", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.Authenticate(ctx, "not.a.jwt")
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeInvalidToken))
	})

	t.Run("valid token without registered session", func(t *testing.T) {
		f := newServiceFixture(t)
		tokens, err := auth.NewTokenIssuer(testSecret)
		require.NoError(t, err)
		orphan, err := tokens.Issue(auth.Claims{ID: auth.AdminUserID, Username: "admin", Role: auth.AdminRole})
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, orphan)
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSessionInvalid), "got %v", err)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("logout revokes an otherwise valid token", func(t *testing.T) {
		f := newServiceFixture(t)
		token, user, err := f.svc.Setup(ctx, "admin", "Str0ng!Pass")
		require.NoError(t, err)

		require.NoError(t, f.svc.Logout(ctx, user.ID))

		_, err = f.svc.Authenticate(ctx, token)
		require.Error(t, err)
		assert.True(t, auth.IsCode(err, auth.CodeSessionInvalid), "got %v", err)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		f := newServiceFixture(t)
		require.NoError(t, f.svc.Logout(ctx, auth.AdminUserID))
		require.NoError(t, f.svc.Logout(ctx, auth.AdminUserID))
	})
}
