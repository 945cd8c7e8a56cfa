package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt        TokenVerifier
	revoker    auth.Revoker
	cookieName string
}

func NewAuthMiddleware(jwt TokenVerifier, revoker auth.Revoker, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:        jwt,
		revoker:    revoker,
		cookieName: cookieName,
	}
}

// RequireAuth is the access gate. Stateless, re-evaluated every request:
// no cookie -> 401, expired token -> 401 with a distinguishable code,
// anything else invalid (bad signature, malformed, revoked) -> 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(m.cookieName)

		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Unauthorized",
				},
			})
			return
		}

		claims, err := m.jwt.Verify(raw)

		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": gin.H{
						"code":    "token_expired",
						"message": "Token expired",
					},
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Forbidden",
				},
			})
			return
		}

		if m.revoker != nil {
			revoked, err := m.revoker.IsRevoked(c.Request.Context(), claims.JTI)

			if err != nil || revoked {
				// a denylist lookup failure closes the gate rather than opening it
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": gin.H{
						"code":    "forbidden",
						"message": "Forbidden",
					},
				})
				return
			}
		}

		// Stash the decoded identity payload on the context
		c.Set(ctxIdentityKey, claims.Data)
		c.Set(ctxEmailKey, claims.Email())
		c.Set(ctxRoleKey, claims.Role())
		c.Set(ctxJTIKey, claims.JTI)

		c.Next()
	}
}

// Optional helpers so handlers don’t need to know the magic keys.

func IdentityFromContext(c *gin.Context) (map[string]any, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return nil, false
	}
	data, ok := v.(map[string]any)
	return data, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
