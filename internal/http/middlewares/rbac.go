package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole is the authorization stage, separate from token validity and
// declared per route. The role comes from the decoded identity payload, never
// from a store lookup.
func (m *AuthMiddleware) RequireRole(allowed ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(allowed))

	for _, r := range allowed {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Missing role in identity",
				},
			})
			return
		}

		if _, ok := roleSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Insufficient role",
				},
			})
			return
		}

		c.Next()
	}
}
