// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import (
	"context"
	"time"
)

// SessionTTL is the lifetime of a registered session, matching the token
// validity window.
const SessionTTL = 24 * time.Hour

// SessionRegistry records the single currently-valid token per user id,
// with expiry delegated to the store's native TTL so stale sessions vanish
// without a sweep. A request is authenticated only if its token both
// verifies cryptographically and equals the registered token for the
// claimed user id; that double-check is what makes logout and forced
// re-login actually revoke access.
type SessionRegistry interface {
	// Put registers token as the authoritative session for userID,
	// overwriting any existing session (single-session-per-admin).
	Put(ctx context.Context, userID int, token string, ttl time.Duration) error

	// Get returns the registered token for userID, or ErrNotFound.
	Get(ctx context.Context, userID int) (string, error)

	// Delete removes the session for userID. Deleting an absent session is
	// not an error.
	Delete(ctx context.Context, userID int) error
}
