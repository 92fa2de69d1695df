// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WireVista Contributors

package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// TokenValidity is the fixed validity window of issued tokens.
const TokenValidity = 24 * time.Hour

// Claims is the identity a verified token asserts.
type Claims struct {
	ID       int
	Username string
	Role     string
}

// tokenClaims is the JWT wire shape. The user id travels in the registered
// Subject claim.
type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenIssuer mints and verifies HMAC-SHA256 signed bearer tokens. It holds
// no state beyond the process-wide signing secret.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the standard 24h validity.
// An empty secret is a fatal misconfiguration.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	return NewTokenIssuerWithValidity(secret, TokenValidity)
}

// NewTokenIssuerWithValidity creates a TokenIssuer with an explicit validity
// window.
func NewTokenIssuerWithValidity(secret string, validity time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_MISSING_SECRET").Errorf("token signing secret is required")
	}
	return &TokenIssuer{secret: []byte(secret), validity: validity}, nil
}

// Issue mints a signed token for the given claims.
func (i *TokenIssuer) Issue(c Claims) (string, error) {
	now := time.Now()
	// A unique jti guarantees two logins in the same second still mint
	// distinct tokens, so supersession is observable.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   strconv.Itoa(c.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		Username: c.Username,
		Role:     c.Role,
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify checks a token's signature and validity window and returns its
// claims. Expired tokens fail with CodeTokenExpired, everything else with
// CodeInvalidToken.
func (i *TokenIssuer) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, oops.Code("AUTH_BAD_SIGNING_METHOD").Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired()
		}
		return Claims{}, ErrInvalidToken(err)
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalidToken(nil)
	}

	id, err := strconv.Atoi(tc.Subject)
	if err != nil {
		return Claims{}, ErrInvalidToken(err)
	}

	return Claims{ID: id, Username: tc.Username, Role: tc.Role}, nil
}
