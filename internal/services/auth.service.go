package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "server-stat-tg"

	// DefaultTokenExpiry is used when no expiry is configured
	DefaultTokenExpiry = 90 * 24 * time.Hour

	minSecretLen = 32
)

var (
	ErrNoSecret   = errors.New("API secret is not configured")
	ErrWeakSecret = fmt.Errorf("API secret must be at least %d bytes for HMAC-SHA256", minSecretLen)
)

// AuthService manages JWT token generation and validation for the HTTP API
type AuthService struct {
	secretKey   []byte
	tokenExpiry time.Duration
	now         func() time.Time
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// NewAuthService initializes the authentication service
func NewAuthService(secretKey string, tokenExpiry time.Duration) (*AuthService, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, ErrNoSecret
	}
	if len(secretKey) < minSecretLen {
		return nil, ErrWeakSecret
	}
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}

	return &AuthService{
		secretKey:   []byte(secretKey),
		tokenExpiry: tokenExpiry,
		now:         time.Now,
	}, nil
}

// GenerateToken creates a new JWT token for the named API client
func (a *AuthService) GenerateToken(client string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.tokenExpiry)

	claims := CustomClaims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken verifies and parses a JWT token
func (a *AuthService) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(a.now))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
