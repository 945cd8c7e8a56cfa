package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/auth"
	"github.com/teamtune/payrollhub/internal/config"
)

type TokenIssuer interface {
	Issue(payload map[string]any) (token string, jti string, expiresAt time.Time, err error)
	Verify(token string) (*auth.Claims, error)
}

type AuthHandler struct {
	jwt     TokenIssuer
	revoker auth.Revoker
	cfg     config.Config
}

func NewAuthHandler(jwt TokenIssuer, revoker auth.Revoker, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		jwt:     jwt,
		revoker: revoker,
		cfg:     cfg,
	}
}

// IssueToken signs whatever identity payload the client submits and sets it
// as the session cookie. The payload's shape is not validated here; the gate
// and the role stage read it back on later requests.
func (h *AuthHandler) IssueToken(ctx *gin.Context) {
	payload := map[string]any{}

	if !BindJSON(ctx, &payload) {
		return
	}

	token, _, expiresAt, err := h.jwt.Issue(payload)

	if err != nil {
		RespondInternal(ctx, "Could not issue token")
		return
	}

	h.setSessionCookie(ctx, token, expiresAt)

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the cookie and denylists the token's JTI for its remaining
// lifetime, so a copied cookie cannot be replayed after logout.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	raw, err := ctx.Cookie(h.cfg.SessionCookie)

	if err == nil && raw != "" {
		claims, err := h.jwt.Verify(raw)

		// expired or garbage tokens need no denylist entry
		if err == nil && h.revoker != nil {
			until := time.Now().UTC().Add(time.Hour)

			if claims.ExpiresAt != nil {
				until = claims.ExpiresAt.Time
			}

			_ = h.revoker.Revoke(ctx.Request.Context(), claims.JTI, until)
		}
	}

	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// Cookie helpers. The cookie is http-only and cross-site capable so browser
// clients on another origin can carry it.

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteNoneMode)

	ctx.SetCookie(
		h.cfg.SessionCookie,
		token,
		maxAge,
		"/",
		"",
		true, // Secure: SameSite=None requires it
		true, // HttpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(
		h.cfg.SessionCookie,
		"",
		-1,
		"/",
		"",
		true,
		true,
	)
}
