package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Dutrix96/batalla/internal/game"
)

const sessionTTL = 24 * time.Hour

// SessionClaims is the signed session payload. Subject carries the numeric
// user id.
type SessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager mints and validates HS256 session tokens.
type SessionManager struct {
	secret []byte
}

// NewSessionManager creates a manager with the shared signing secret.
func NewSessionManager(secret string) *SessionManager {
	return &SessionManager{secret: []byte(secret)}
}

// Create mints a session token for the account.
func (m *SessionManager) Create(u *game.User) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a session token and returns its claims and user id.
func (m *SessionManager) Parse(token string) (*SessionClaims, uint, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, 0, errors.New("invalid session token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, 0, errors.New("invalid session subject")
	}
	return &claims, uint(id), nil
}
