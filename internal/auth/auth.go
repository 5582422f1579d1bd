// Package auth guards the admin console. One admin account comes from
// config (username plus bcrypt hash); a successful login yields a signed
// JWT the console stores under its fixed token key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenStorageKey is where the admin console keeps the issued token in
// its key-value store.
const TokenStorageKey = "takesmart_admin_token"

var ErrInvalidCredentials = errors.New("invalid credentials")

type Claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

type Manager struct {
	secret       []byte
	tokenTTL     time.Duration
	adminUser    string
	adminPwdHash string
}

func NewManager(secret string, tokenTTL time.Duration, adminUser, adminPwdHash string) *Manager {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Manager{
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		adminUser:    adminUser,
		adminPwdHash: adminPwdHash,
	}
}

// Login checks the credentials against the configured admin account and
// issues an access token. An unconfigured account never authenticates.
func (m *Manager) Login(username, password string) (string, error) {
	if m.adminUser == "" || m.adminPwdHash == "" {
		return "", ErrInvalidCredentials
	}
	if username != m.adminUser {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(m.adminPwdHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
		},
		Admin: true,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns its subject.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || !claims.Admin {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}

// HashPassword produces the bcrypt hash the ADMIN_PASSWORD_HASH setting
// expects.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
