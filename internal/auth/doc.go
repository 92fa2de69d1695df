// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

// Package auth implements the administrator authentication and session
// lifecycle: the one-time setup gate, credential storage contracts, JWT
// issuance, server-side session revocation, password policy, and rate
// limiting.
//
// # Domain Types
//
// The system knows exactly one administrator identity (AdminUserID). Its
// credential is a single AdminCredential record; its session is a single
// token registered in the SessionRegistry. There is no users table.
//
// # Services
//
// Service orchestrates setup, login, logout, and request authentication.
// It is created with NewService, which validates its dependencies. Storage
// contracts (CredentialStore, SetupGate, SessionRegistry) are implemented
// by the store package; Service never touches the store directly.
package auth
