// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import "context"

// AdminCredential is the single administrator's stored credential. Exactly
// one instance exists system-wide, so it carries no id. The store never
// holds plaintext.
type AdminCredential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// CredentialStore persists the administrator credential as a single keyed
// record in the shared store.
type CredentialStore interface {
	// Load retrieves the credential. Returns ErrNotFound if setup has never
	// written one.
	Load(ctx context.Context) (*AdminCredential, error)

	// Save writes the credential. Last write wins on the credential key.
	Save(ctx context.Context, cred *AdminCredential) error
}
