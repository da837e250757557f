// internal/pkg/session/token.go
package session

import (
	"fmt"
	"time"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenType = "guest_session"

// Claims represents the guest session claims
type Claims struct {
	SessionID string `json:"sid"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Manager issues and validates signed guest session tokens
type Manager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewManager creates a new session manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		secret: []byte(cfg.Session.Secret),
		issuer: cfg.App.Name,
		expiry: cfg.Session.Expiry,
	}
}

// Expiry returns how long issued tokens stay valid
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

// NewSession creates a fresh session id and its signed token
func (m *Manager) NewSession() (sessionID, token string, err error) {
	sessionID = uuid.New().String()
	token, err = m.Issue(sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, token, nil
}

// Issue signs a token for an existing session id
func (m *Manager) Issue(sessionID string) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   fmt.Sprintf("session:%s", sessionID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses a token and returns the session id it carries
func (m *Manager) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session claims")
	}

	if claims.TokenType != tokenType {
		return "", fmt.Errorf("invalid token type: %s", claims.TokenType)
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return "", fmt.Errorf("invalid session id: %w", err)
	}

	return claims.SessionID, nil
}
