// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import "context"

// SetupGate tracks whether initial configuration has completed. Its marker
// is durable and independent of the credential record, so a partially
// completed setup (credential written, marker missing, or vice versa) is
// detectable.
//
// The IsComplete check and the subsequent credential save + MarkComplete are
// deliberately not one atomic transaction: two concurrent setup calls can
// both pass the gate and both write credentials, last write winning. This
// matches the legacy behavior under the single-operator deployment
// assumption. MarkCompleteIfAbsent is the store-native compare-and-set that
// a hardened flow would use instead; it is wired but not on the default
// path.
type SetupGate interface {
	// IsComplete reports whether setup has completed.
	IsComplete(ctx context.Context) (bool, error)

	// MarkComplete records that setup has completed, with a completion
	// timestamp. Call only after CredentialStore.Save succeeded.
	MarkComplete(ctx context.Context) error

	// MarkCompleteIfAbsent atomically records completion only if no marker
	// exists yet. Returns true if this call set the marker.
	MarkCompleteIfAbsent(ctx context.Context) (bool, error)
}
