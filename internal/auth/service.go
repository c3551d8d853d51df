// Package auth issues and verifies the JWT token pairs used to authenticate
// API requests. The wallet core never sees tokens, only the user identifier
// the middleware extracts from them.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rafaelmunetiko/Carteira/internal/config"
	"github.com/rafaelmunetiko/Carteira/internal/identity"
)

// ErrInvalidToken occurs when a token fails signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// TokenPair mirrors the access/refresh pair returned on login.
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Service signs and verifies tokens using separate access and refresh secrets.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService builds a token service from the application config.
func NewService(cfg config.Config) *Service {
	return &Service{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

// IssuePair signs a fresh access/refresh token pair for the user.
func (s *Service) IssuePair(user identity.User) (TokenPair, error) {
	access, err := s.sign(user.ID, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Refresh: refresh, Access: access}, nil
}

// Refresh verifies a refresh token and issues a new access token.
func (s *Service) Refresh(refreshToken string) (string, error) {
	userID, err := s.verify(refreshToken, s.refreshSecret)
	if err != nil {
		return "", err
	}
	return s.sign(userID, s.accessSecret, s.accessTTL)
}

// VerifyAccess validates an access token and returns the authenticated user
// identifier.
func (s *Service) VerifyAccess(token string) (uuid.UUID, error) {
	return s.verify(token, s.accessSecret)
}

func (s *Service) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) verify(token string, secret []byte) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
