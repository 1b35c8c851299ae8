// internal/session/token.go
//
// Signed session tokens.
// A token binds a browser to exactly one game session: it carries the game ID
// and an expiry, signed with HS256. The signing key is derived from the
// configured secret with HKDF-SHA256 so the raw secret never signs anything.

package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const issuer = "yahtzee"

// ErrInvalidToken is returned for malformed, forged or expired tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the JWT claims of a session token.
type Claims struct {
	GameID string `json:"gid"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewManager derives the signing key from secret. Tokens expire after ttl.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte("yahtzee session v1")), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &Manager{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for gameID and returns it with its expiry.
func (m *Manager) Issue(gameID string) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return ss, exp, nil
}

// Parse verifies token and returns the game ID it carries.
func (m *Manager) Parse(token string) (string, error) {
	var claims Claims
	t, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !t.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.GameID == "" {
		return "", fmt.Errorf("%w: missing game id", ErrInvalidToken)
	}
	return claims.GameID, nil
}
