// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// The system supports exactly one administrator identity.
const (
	AdminUserID = 1
	AdminRole   = "admin"
)

// User is the administrator identity echoed back in responses.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// dummyPasswordHash is verified against when the presented username does not
// match the stored credential, so that response time does not reveal which
// factor failed. This is NOT a real credential - it never matches any
// password used by the system.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// Service orchestrates setup, login, logout, and request authentication.
type Service struct {
	credentials CredentialStore
	gate        SetupGate
	sessions    SessionRegistry
	tokens      *TokenIssuer
	hasher      PasswordHasher
	logger      *slog.Logger
}

// NewService creates a Service. All dependencies are required.
func NewService(credentials CredentialStore, gate SetupGate, sessions SessionRegistry, tokens *TokenIssuer, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if credentials == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("credential store is required")
	}
	if gate == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("setup gate is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("session registry is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("token issuer is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_NIL_DEPENDENCY").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		credentials: credentials,
		gate:        gate,
		sessions:    sessions,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger,
	}, nil
}

// SetupStatus reports whether initial setup has completed. Unauthenticated
// and side-effect-free.
func (s *Service) SetupStatus(ctx context.Context) (bool, error) {
	complete, err := s.gate.IsComplete(ctx)
	if err != nil {
		return false, ErrStore(err)
	}
	return complete, nil
}

// Setup performs the one-time initial configuration: validates the password
// against policy, stores the hashed credential, marks setup complete, and
// issues the first session. The gate check and the two writes are not one
// atomic transaction; see SetupGate.
func (s *Service) Setup(ctx context.Context, username, password string) (string, User, error) {
	complete, err := s.gate.IsComplete(ctx)
	if err != nil {
		return "", User{}, ErrStore(err)
	}
	if complete {
		return "", User{}, ErrAlreadyConfigured()
	}

	if username == "" || password == "" {
		return "", User{}, ErrMissingFields()
	}

	if result := ValidatePassword(password); !result.Valid {
		return "", User{}, ErrWeakPassword(result.Violations)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", User{}, ErrSetupFailed(oops.With("operation", "hash password").Wrap(err))
	}

	if err := s.credentials.Save(ctx, &AdminCredential{Username: username, PasswordHash: hash}); err != nil {
		return "", User{}, ErrSetupFailed(oops.With("operation", "save credential").Wrap(err))
	}

	// Credential is durable from here. A failure below leaves the system in
	// the inconsistent-setup state; it is surfaced, not rolled back.
	if err := s.gate.MarkComplete(ctx); err != nil {
		return "", User{}, ErrSetupFailed(oops.With("operation", "mark setup complete").Wrap(err))
	}

	s.logger.InfoContext(ctx, "initial setup completed", "username", username)

	token, user, err := s.startSession(ctx, username)
	if err != nil {
		return "", User{}, ErrSetupFailed(err)
	}
	return token, user, nil
}

// Login authenticates the administrator and issues a fresh session,
// superseding any previous one. A second login silently invalidates the
// first (single active session).
func (s *Service) Login(ctx context.Context, username, password string) (string, User, error) {
	complete, err := s.gate.IsComplete(ctx)
	if err != nil {
		return "", User{}, ErrStore(err)
	}
	if !complete {
		return "", User{}, ErrSetupRequired()
	}

	if username == "" || password == "" {
		return "", User{}, ErrMissingFields()
	}

	cred, err := s.credentials.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Setup marker present but credential missing: inconsistent
			// setup state, a server fault rather than a client one.
			return "", User{}, ErrConfiguration(oops.Code("AUTH_CREDENTIAL_MISSING").Errorf("credential absent despite completed setup"))
		}
		return "", User{}, ErrStore(err)
	}

	// Always run a bcrypt comparison so response time stays flat whether
	// the username or the password was wrong.
	targetHash := cred.PasswordHash
	usernameMatches := subtle.ConstantTimeCompare([]byte(username), []byte(cred.Username)) == 1
	if !usernameMatches {
		targetHash = dummyPasswordHash
	}
	passwordMatches := s.hasher.Verify(password, targetHash)

	if !usernameMatches || !passwordMatches {
		s.logger.InfoContext(ctx, "login rejected", "username", username)
		return "", User{}, ErrInvalidCredentials()
	}

	token, user, err := s.startSession(ctx, cred.Username)
	if err != nil {
		return "", User{}, err
	}

	s.logger.InfoContext(ctx, "login succeeded", "username", cred.Username)
	return token, user, nil
}

// startSession issues a token and registers it as the single live session
// for the administrator.
func (s *Service) startSession(ctx context.Context, username string) (string, User, error) {
	user := User{ID: AdminUserID, Username: username, Role: AdminRole}

	token, err := s.tokens.Issue(Claims{ID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return "", User{}, ErrConfiguration(oops.With("operation", "issue token").Wrap(err))
	}

	if err := s.sessions.Put(ctx, user.ID, token, SessionTTL); err != nil {
		return "", User{}, ErrStore(oops.With("operation", "register session").Wrap(err))
	}

	return token, user, nil
}

// Authenticate verifies a presented bearer token and cross-checks it against
// the registered session for the claimed user id. A cryptographically valid
// but superseded or deleted token is rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMissingToken()
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Claims{}, err
	}

	stored, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Claims{}, ErrSessionInvalid()
		}
		return Claims{}, ErrStore(err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return Claims{}, ErrSessionInvalid()
	}

	return claims, nil
}

// Logout deletes the registered session for userID. Idempotent: a missing
// session is not an error.
func (s *Service) Logout(ctx context.Context, userID int) error {
	if err := s.sessions.Delete(ctx, userID); err != nil && !errors.Is(err, ErrNotFound) {
		return ErrStore(err)
	}
	s.logger.InfoContext(ctx, "logout", "user_id", userID)
	return nil
}
