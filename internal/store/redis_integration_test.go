//go:build integration

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/wirevista/wirevista/internal/auth"
	"github.com/wirevista/wirevista/internal/store"
)

func startRedis(t *testing.T) *store.RedisStore {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	s, err := store.NewRedisStore(ctx, endpoint, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func TestRedisStore_Credential(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	cred := &auth.AdminCredential{Username: "admin", PasswordHash: "$2a$12$fakehash"}
	require.NoError(t, s.Save(ctx, cred))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred, loaded)

	// Last write wins on the credential key.
	require.NoError(t, s.Save(ctx, &auth.AdminCredential{Username: "admin2", PasswordHash: "$2a$12$otherhash"}))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin2", loaded.Username)
}

func TestRedisStore_SetupGate(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	complete, err := s.IsComplete(ctx)
	require.NoError(t, err)
	assert.False(t, complete)

	require.NoError(t, s.MarkComplete(ctx))

	complete, err = s.IsComplete(ctx)
	require.NoError(t, err)
	assert.True(t, complete)

	// SETNX refuses once the marker exists.
	set, err := s.MarkCompleteIfAbsent(ctx)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestRedisStore_SetupGate_IfAbsent(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	set, err := s.MarkCompleteIfAbsent(ctx)
	require.NoError(t, err)
	assert.True(t, set)

	complete, err := s.IsComplete(ctx)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestRedisStore_Sessions(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	_, err := s.Get(ctx, auth.AdminUserID)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	require.NoError(t, s.Put(ctx, auth.AdminUserID, "token-one", time.Hour))
	token, err := s.Get(ctx, auth.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, "token-one", token)

	// Put overwrites: single session per admin.
	require.NoError(t, s.Put(ctx, auth.AdminUserID, "token-two", time.Hour))
	token, err = s.Get(ctx, auth.AdminUserID)
	require.NoError(t, err)
	assert.Equal(t, "token-two", token)

	require.NoError(t, s.Delete(ctx, auth.AdminUserID))
	_, err = s.Get(ctx, auth.AdminUserID)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	// Deleting an absent session is not an error.
	require.NoError(t, s.Delete(ctx, auth.AdminUserID))
}

func TestRedisStore_SessionTTL(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	require.NoError(t, s.Put(ctx, auth.AdminUserID, "ephemeral", time.Second))

	assert.Eventually(t, func() bool {
		_, err := s.Get(ctx, auth.AdminUserID)
		return err != nil
	}, 5*time.Second, 250*time.Millisecond, "session should expire via store-native TTL")
}

func TestRedisStore_Clients(t *testing.T) {
	ctx := context.Background()
	s := startRedis(t)

	_, err := s.LoadClients(ctx)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	blob := []byte(`[{"name":"laptop","publicKey":"abc"}]`)
	require.NoError(t, s.SaveClients(ctx, blob))

	loaded, err := s.LoadClients(ctx)
	require.NoError(t, err)
	assert.Equal(t, blob, loaded)
}
