package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures the gate needs to tell apart.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the identity payload exactly as submitted at login time.
// The issuer does not validate its shape; the role stage reads its "role" key.
type Claims struct {
	Data map[string]any `json:"data"`
	JTI  string         `json:"jti"`
	jwt.RegisteredClaims
}

func (c *Claims) Role() string {
	v, ok := c.Data["role"].(string)

	if !ok {
		return ""
	}

	return v
}

func (c *Claims) Email() string {
	v, ok := c.Data["email"].(string)

	if !ok {
		return ""
	}

	return v
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs the payload verbatim with a fixed validity window.
func (m *Manager) Issue(payload map[string]any) (token string, jti string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	jti = uuid.NewString()
	expiresAt = now.Add(m.ttl)

	claims := Claims{
		Data: payload,
		JTI:  jti,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	token, err = t.SignedString(m.secret)

	return
}

// Verify checks signature and expiry. Expiry is reported as ErrTokenExpired so
// callers can answer with a distinguishable outcome; everything else collapses
// to ErrTokenInvalid.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}

		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}
