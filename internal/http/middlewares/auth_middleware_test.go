package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/auth"
	"github.com/teamtune/payrollhub/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const cookieName = "JWT_TOKEN"

// fakeVerifier implements middlewares.TokenVerifier

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return &auth.Claims{}, nil
}

// fakeRevoker implements auth.Revoker

type fakeRevoker struct {
	isRevokedFn func(ctx context.Context, jti string) (bool, error)
}

func (f *fakeRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	return nil
}

func (f *fakeRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.isRevokedFn != nil {
		return f.isRevokedFn(ctx, jti)
	}
	return false, nil
}

func gateRouter(m *middlewares.AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		if _, ok := middlewares.IdentityFromContext(c); !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		email, _ := middlewares.EmailFromContext(c)
		role, _ := middlewares.RoleFromContext(c)

		c.JSON(http.StatusOK, gin.H{"email": email, "role": role})
	})

	r.GET("/protected", chain...)

	return r
}

func claimsFor(email, role, jti string) *auth.Claims {
	return &auth.Claims{
		Data: map[string]any{"email": email, "role": role},
		JTI:  jti,
	}
}

func TestRequireAuth(t *testing.T) {
	m := auth.NewManager("gate-test-secret", time.Hour)

	tests := []struct {
		name       string
		cookie     string
		verifier   middlewares.TokenVerifier
		revoker    *fakeRevoker
		wantStatus int
	}{
		{
			name:       "no_cookie",
			cookie:     "",
			verifier:   m,
			revoker:    &fakeRevoker{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired_token",
			cookie: "whatever",
			verifier: &fakeVerifier{verifyFn: func(string) (*auth.Claims, error) {
				return nil, auth.ErrTokenExpired
			}},
			revoker:    &fakeRevoker{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "invalid_token",
			cookie: "garbage",
			verifier: &fakeVerifier{verifyFn: func(string) (*auth.Claims, error) {
				return nil, auth.ErrTokenInvalid
			}},
			revoker:    &fakeRevoker{},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "revoked_token",
			cookie: "whatever",
			verifier: &fakeVerifier{verifyFn: func(string) (*auth.Claims, error) {
				return claimsFor("x@example.com", "user", "jti-revoked"), nil
			}},
			revoker: &fakeRevoker{isRevokedFn: func(_ context.Context, jti string) (bool, error) {
				return jti == "jti-revoked", nil
			}},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "denylist_lookup_error_closes_gate",
			cookie: "whatever",
			verifier: &fakeVerifier{verifyFn: func(string) (*auth.Claims, error) {
				return claimsFor("x@example.com", "user", "jti-1"), nil
			}},
			revoker: &fakeRevoker{isRevokedFn: func(context.Context, string) (bool, error) {
				return false, context.DeadlineExceeded
			}},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			gate := middlewares.NewAuthMiddleware(tt.verifier, tt.revoker, cookieName)
			r := gateRouter(gate)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: cookieName, Value: tt.cookie})
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAuthExposesIdentity(t *testing.T) {
	m := auth.NewManager("gate-test-secret", time.Hour)

	token, _, _, err := m.Issue(map[string]any{"email": "hr@example.com", "role": "hr"})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	gate := middlewares.NewAuthMiddleware(m, auth.NewMemoryRevoker(), cookieName)
	r := gateRouter(gate)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	body := w.Body.String()

	if body != `{"email":"hr@example.com","role":"hr"}` {
		t.Fatalf("unexpected identity echo: %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	m := auth.NewManager("gate-test-secret", time.Hour)

	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"admin_allowed", "admin", []string{"admin"}, http.StatusOK},
		{"hr_allowed_for_staff", "hr", []string{"hr", "admin"}, http.StatusOK},
		{"user_rejected", "user", []string{"hr", "admin"}, http.StatusForbidden},
		{"missing_role_rejected", "", []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			payload := map[string]any{"email": "someone@example.com"}

			if tt.role != "" {
				payload["role"] = tt.role
			}

			token, _, _, err := m.Issue(payload)

			if err != nil {
				t.Fatalf("issue failed: %v", err)
			}

			gate := middlewares.NewAuthMiddleware(m, auth.NewMemoryRevoker(), cookieName)
			r := gateRouter(gate, gate.RequireRole(tt.allowed...))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.AddCookie(&http.Cookie{Name: cookieName, Value: token})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
