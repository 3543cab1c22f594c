// Copyright (c) 2026 Melodia. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth.TokenProvider interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors returned by [TokenService.VerifyToken]. Callers must be able
// to distinguish an expired token from a forged or malformed one.
var (
	// ErrTokenExpired indicates a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrTokenInvalid indicates a token that failed signature or shape checks.
	ErrTokenInvalid = errors.New("sec: token invalid")
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the user id, email, name, and premium flag directly inside the
// JWT, the authentication middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request. Access tokens are
// therefore stateless: verified purely by signature and expiry.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID    int64  `json:"uid"`
	Email     string `json:"eml"`
	Name      string `json:"nam"`
	IsPremium bool   `json:"prm"`
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing key is symmetric: the same secret both signs and verifies, which
// is appropriate for a single-service deployment where no third party needs to
// verify tokens independently.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService from the configured signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: signing secret must be at least 32 bytes, got %d", len(secret))
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateAccessToken creates a new signed JWT access token for a user.
func (service *TokenService) GenerateAccessToken(userID int64, email, name string, isPremium bool, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:    userID,
		Email:     email,
		Name:      name,
		IsPremium: isPremium,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// It returns [ErrTokenExpired] for tokens past their expiry and
// [ErrTokenInvalid] for every other failure mode.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
