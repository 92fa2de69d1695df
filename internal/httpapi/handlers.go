// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wirevista/wirevista/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success bool      `json:"success,omitempty"`
	Token   string    `json:"token"`
	User    auth.User `json:"user"`
}

// handleSetupStatus reports whether initial setup has completed.
// Unauthenticated, side-effect-free.
func (s *Server) handleSetupStatus(w http.ResponseWriter, r *http.Request) {
	complete, err := s.svc.SetupStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"isSetupComplete": complete})
}

// handleSetup performs the one-time initial configuration.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, auth.ErrMissingFields())
		return
	}

	token, user, err := s.svc.Setup(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sessionResponse{Success: true, Token: token, User: user})
}

// handleLogin authenticates the administrator and issues a fresh session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, auth.ErrMissingFields())
		return
	}

	token, user, err := s.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.recordLogin(loginOutcome(err))
		s.writeError(w, r, err)
		return
	}

	s.recordLogin("success")
	s.writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func loginOutcome(err error) string {
	switch {
	case auth.IsCode(err, auth.CodeInvalidCredentials):
		return "invalid_credentials"
	case auth.IsCode(err, auth.CodeSetupRequired):
		return "setup_required"
	default:
		return "error"
	}
}

func (s *Server) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.LoginAttempts.WithLabelValues(outcome).Inc()
	}
}

// handleLogout deletes the caller's registered session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, auth.ErrMissingToken())
		return
	}

	if err := s.svc.Logout(r.Context(), claims.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleStatus reports service health for an authenticated caller.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		s.writeError(w, r, auth.ErrMissingToken())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "operational",
		"authenticated": true,
		"user":          auth.User{ID: claims.ID, Username: claims.Username, Role: claims.Role},
		"serverTime":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleClientsGet returns the stored VPN client blob, or an empty list
// when none has been stored yet.
func (s *Server) handleClientsGet(w http.ResponseWriter, r *http.Request) {
	blob, err := s.clients.LoadClients(r.Context())
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			blob = []byte("[]")
		} else {
			s.writeError(w, r, auth.ErrStore(err))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob); err != nil {
		s.logger.Error("failed to write clients response", "error", err)
	}
}

// handleClientsPost stores the VPN client blob verbatim.
func (s *Server) handleClientsPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientData json.RawMessage `json:"clientData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.ClientData) == 0 {
		s.writeError(w, r, auth.ErrInvalidBody("clientData is required"))
		return
	}

	if err := s.clients.SaveClients(r.Context(), req.ClientData); err != nil {
		s.writeError(w, r, auth.ErrStore(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
