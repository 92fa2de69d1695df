// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

// Package authtest provides in-memory fakes of the auth storage contracts
// for unit tests.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/wirevista/wirevista/internal/auth"
)

// CredentialStore is an in-memory auth.CredentialStore. Set LoadErr or
// SaveErr to force failures.
type CredentialStore struct {
	mu      sync.Mutex
	cred    *auth.AdminCredential
	LoadErr error
	SaveErr error
}

func (s *CredentialStore) Load(_ context.Context) (*auth.AdminCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.cred == nil {
		return nil, auth.ErrNotFound
	}
	c := *s.cred
	return &c, nil
}

func (s *CredentialStore) Save(_ context.Context, cred *auth.AdminCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	c := *cred
	s.cred = &c
	return nil
}

// Reset drops the stored credential.
func (s *CredentialStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
}

// SetupGate is an in-memory auth.SetupGate.
type SetupGate struct {
	mu       sync.Mutex
	complete bool
	CheckErr error
	MarkErr  error
}

func (g *SetupGate) IsComplete(_ context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CheckErr != nil {
		return false, g.CheckErr
	}
	return g.complete, nil
}

func (g *SetupGate) MarkComplete(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.MarkErr != nil {
		return g.MarkErr
	}
	g.complete = true
	return nil
}

func (g *SetupGate) MarkCompleteIfAbsent(_ context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.MarkErr != nil {
		return false, g.MarkErr
	}
	if g.complete {
		return false, nil
	}
	g.complete = true
	return true, nil
}

// ForceComplete marks the gate complete without going through the service,
// for constructing inconsistent-setup scenarios.
func (g *SetupGate) ForceComplete() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.complete = true
}

type sessionEntry struct {
	token     string
	expiresAt time.Time
}

// SessionRegistry is an in-memory auth.SessionRegistry honoring TTLs.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[int]sessionEntry
	PutErr   error
	GetErr   error
}

func (r *SessionRegistry) Put(_ context.Context, userID int, token string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PutErr != nil {
		return r.PutErr
	}
	if r.sessions == nil {
		r.sessions = make(map[int]sessionEntry)
	}
	r.sessions[userID] = sessionEntry{token: token, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (r *SessionRegistry) Get(_ context.Context, userID int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GetErr != nil {
		return "", r.GetErr
	}
	entry, ok := r.sessions[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", auth.ErrNotFound
	}
	return entry.token, nil
}

func (r *SessionRegistry) Delete(_ context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
	return nil
}
