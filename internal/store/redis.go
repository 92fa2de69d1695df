// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

// Package store provides the Redis-backed implementations of the auth
// storage contracts plus the opaque VPN client blob.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/wirevista/wirevista/internal/auth"
)

// Well-known keys in the shared store. clientsKey is kept verbatim for
// compatibility with existing deployments.
const (
	credentialKey    = "wirevista:admin:credential"
	setupKey         = "wirevista:setup:complete"
	sessionKeyPrefix = "wirevista:session:"
	clientsKey       = "wireguard_clients"
)

// Per-call bounds. Every store operation runs under opTimeout and retries
// transient failures with capped exponential backoff, then fails fast.
const (
	opTimeout     = 2 * time.Second
	retryBase     = 100 * time.Millisecond
	retryAttempts = 3
)

// RedisStore implements auth.CredentialStore, auth.SetupGate, and
// auth.SessionRegistry on a single Redis client. Correctness relies on
// Redis per-key atomicity; session expiry uses native TTL.
type RedisStore struct {
	client *redis.Client
}

var (
	_ auth.CredentialStore = (*RedisStore)(nil)
	_ auth.SetupGate       = (*RedisStore)(nil)
	_ auth.SessionRegistry = (*RedisStore)(nil)
)

// NewRedisStore connects to Redis and verifies the connection with a ping.
// A failed ping is fatal to the caller: the store is required for every
// stateful operation.
func NewRedisStore(ctx context.Context, addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	s := &RedisStore{client: client}
	if err := s.Ping(ctx); err != nil {
		_ = client.Close() //nolint:errcheck // Connection already failed.
		return nil, oops.Code("STORE_UNREACHABLE").With("addr", addr).Wrap(err)
	}
	return s, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return oops.Code("STORE_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

// Ping checks store reachability; used by the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return oops.Code("STORE_PING_FAILED").Wrap(err)
	}
	return nil
}

// do runs fn with a bounded timeout and capped backoff retry. redis.Nil is
// never retried; it is a definitive miss, not a transient failure.
func (s *RedisStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		opCtx, cancel := context.WithTimeout(ctx, opTimeout)
		defer cancel()
		if err := fn(opCtx); err != nil {
			if errors.Is(err, redis.Nil) {
				return err
			}
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return oops.Code("STORE_OP_FAILED").With("operation", op).Wrap(err)
	}
	return err
}

// Load retrieves the administrator credential.
func (s *RedisStore) Load(ctx context.Context) (*auth.AdminCredential, error) {
	var raw string
	err := s.do(ctx, "load credential", func(ctx context.Context) error {
		var err error
		raw, err = s.client.Get(ctx, credentialKey).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var cred auth.AdminCredential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil {
		return nil, oops.Code("STORE_CORRUPT_CREDENTIAL").Wrap(err)
	}
	return &cred, nil
}

// Save writes the administrator credential. Last write wins.
func (s *RedisStore) Save(ctx context.Context, cred *auth.AdminCredential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return oops.Code("STORE_MARSHAL_FAILED").Wrap(err)
	}
	return s.do(ctx, "save credential", func(ctx context.Context) error {
		return s.client.Set(ctx, credentialKey, raw, 0).Err()
	})
}

// IsComplete reports whether the setup marker exists.
func (s *RedisStore) IsComplete(ctx context.Context) (bool, error) {
	var n int64
	err := s.do(ctx, "check setup marker", func(ctx context.Context) error {
		var err error
		n, err = s.client.Exists(ctx, setupKey).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkComplete writes the setup marker with the completion timestamp.
func (s *RedisStore) MarkComplete(ctx context.Context) error {
	return s.do(ctx, "mark setup complete", func(ctx context.Context) error {
		return s.client.Set(ctx, setupKey, time.Now().UTC().Format(time.RFC3339), 0).Err()
	})
}

// MarkCompleteIfAbsent writes the setup marker only if none exists, using
// SETNX. Returns true if this call set the marker.
func (s *RedisStore) MarkCompleteIfAbsent(ctx context.Context) (bool, error) {
	var set bool
	err := s.do(ctx, "mark setup complete if absent", func(ctx context.Context) error {
		var err error
		set, err = s.client.SetNX(ctx, setupKey, time.Now().UTC().Format(time.RFC3339), 0).Result()
		return err
	})
	if err != nil {
		return false, err
	}
	return set, nil
}

func sessionKey(userID int) string {
	return sessionKeyPrefix + strconv.Itoa(userID)
}

// Put registers token as the single live session for userID, overwriting
// any previous session. Expiry is Redis-native.
func (s *RedisStore) Put(ctx context.Context, userID int, token string, ttl time.Duration) error {
	return s.do(ctx, "put session", func(ctx context.Context) error {
		return s.client.Set(ctx, sessionKey(userID), token, ttl).Err()
	})
}

// Get returns the registered token for userID, or auth.ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, userID int) (string, error) {
	var token string
	err := s.do(ctx, "get session", func(ctx context.Context) error {
		var err error
		token, err = s.client.Get(ctx, sessionKey(userID)).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", auth.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// Delete removes the session for userID. Deleting an absent key is a no-op
// in Redis, which gives logout its idempotency.
func (s *RedisStore) Delete(ctx context.Context, userID int) error {
	return s.do(ctx, "delete session", func(ctx context.Context) error {
		return s.client.Del(ctx, sessionKey(userID)).Err()
	})
}

// LoadClients returns the opaque VPN client blob, or auth.ErrNotFound when
// none has been stored. The bytes are not interpreted.
func (s *RedisStore) LoadClients(ctx context.Context) ([]byte, error) {
	var raw string
	err := s.do(ctx, "load clients", func(ctx context.Context) error {
		var err error
		raw, err = s.client.Get(ctx, clientsKey).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

// SaveClients stores the opaque VPN client blob verbatim.
func (s *RedisStore) SaveClients(ctx context.Context, data []byte) error {
	return s.do(ctx, "save clients", func(ctx context.Context) error {
		return s.client.Set(ctx, clientsKey, data, 0).Err()
	})
}
