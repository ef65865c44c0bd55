// Package token issues and validates the signed bearer tokens used by the
// API.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid_token")

// Claims is the JWT payload carried by API tokens.
type Claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 tokens.
type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &Manager{secret: []byte(secret), issuer: issuer}, nil
}

// Issue signs a token for the given user.
func (m *Manager) Issue(userID snowflake.ID, email string, admin bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: email,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates the token signature and expiry and returns its claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID returns the subject as a snowflake id.
func (c *Claims) UserID() (snowflake.ID, error) {
	id, err := snowflake.ParseString(c.Subject)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}
