package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/teamtune/payrollhub/internal/auth"
	"github.com/teamtune/payrollhub/internal/config"
	httpx "github.com/teamtune/payrollhub/internal/http"
	"github.com/teamtune/payrollhub/internal/repo/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIntents struct{}

func (stubIntents) CreateIntent(_ context.Context, _ float64, _ string) (string, error) {
	return "cs_test_stub", nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := config.Config{
		Env:            "dev",
		SessionCookie:  "JWT_TOKEN",
		JWTSecret:      "router-test-secret",
		TokenTTL:       time.Hour,
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	deps := httpx.Deps{
		Users:      memory.NewUsersRepo(),
		Worksheets: memory.NewWorksheetsRepo(),
		Payments:   memory.NewPaymentsRepo(),
		Intents:    stubIntents{},
		Tokens:     auth.NewManager(cfg.JWTSecret, cfg.TokenTTL),
		Revoker:    auth.NewMemoryRevoker(),
	}

	return httpx.NewRouterWithDeps(cfg, deps)
}

func login(t *testing.T, r *gin.Engine, email, role string) *http.Cookie {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"email": email, "role": role})

	req := httptest.NewRequest(http.MethodPost, "/jwt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == "JWT_TOKEN" {
			return c
		}
	}

	t.Fatal("login did not set the session cookie")
	return nil
}

func do(r *gin.Engine, method, path string, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	var req *http.Request

	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestSessionLifecycleThroughRouter(t *testing.T) {
	r := testRouter(t)

	// no cookie: the gate answers 401
	if w := do(r, http.MethodGet, "/employee-list", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("gate let an anonymous request through: %d %s", w.Code, w.Body.String())
	}

	// hr can read rosters
	hrCookie := login(t, r, "hr@example.com", "hr")

	if w := do(r, http.MethodGet, "/employee-list", hrCookie, ""); w.Code != http.StatusOK {
		t.Fatalf("hr roster read failed: %d %s", w.Code, w.Body.String())
	}

	// plain users cannot
	userCookie := login(t, r, "worker@example.com", "user")

	if w := do(r, http.MethodGet, "/employee-list", userCookie, ""); w.Code != http.StatusForbidden {
		t.Fatalf("role stage let a plain user through: %d %s", w.Code, w.Body.String())
	}

	// logout denylists the token; replaying the same cookie now fails closed
	if w := do(r, http.MethodPost, "/logout", hrCookie, ""); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodGet, "/employee-list", hrCookie, ""); w.Code != http.StatusForbidden {
		t.Fatalf("revoked cookie still worked: %d %s", w.Code, w.Body.String())
	}
}

func TestRegistrationAndAdminFlow(t *testing.T) {
	r := testRouter(t)

	// register
	w := do(r, http.MethodPost, "/users", nil, `{"email":"emp@example.com","name":"Employee"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", w.Code, w.Body.String())
	}

	var created struct {
		InsertedID string `json:"insertedId"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.InsertedID == "" {
		t.Fatalf("no insertedId in %s", w.Body.String())
	}

	// duplicate registration is a 200 no-op
	w = do(r, http.MethodPost, "/users", nil, `{"email":"emp@example.com"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("duplicate register got %d, want 200: %s", w.Code, w.Body.String())
	}

	// lookup is open
	if w = do(r, http.MethodGet, "/user/emp@example.com", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("user lookup failed: %d %s", w.Code, w.Body.String())
	}

	adminCookie := login(t, r, "admin@example.com", "admin")
	hrCookie := login(t, r, "hr@example.com", "hr")

	// hr verifies the new employee
	w = do(r, http.MethodPatch, "/users/"+created.InsertedID, hrCookie, `{"verify":true}`)

	if w.Code != http.StatusOK {
		t.Fatalf("verify failed: %d %s", w.Code, w.Body.String())
	}

	// admin promotes, then fires
	if w = do(r, http.MethodPatch, "/make-hr/"+created.InsertedID, adminCookie, ""); w.Code != http.StatusOK {
		t.Fatalf("make-hr failed: %d %s", w.Code, w.Body.String())
	}

	// hr may not use admin routes
	if w = do(r, http.MethodPatch, "/fire/"+created.InsertedID, hrCookie, ""); w.Code != http.StatusForbidden {
		t.Fatalf("hr reached an admin route: %d %s", w.Code, w.Body.String())
	}

	if w = do(r, http.MethodPatch, "/fire/"+created.InsertedID, adminCookie, ""); w.Code != http.StatusOK {
		t.Fatalf("fire failed: %d %s", w.Code, w.Body.String())
	}

	// admin deletes
	if w = do(r, http.MethodDelete, "/delete/"+created.InsertedID, adminCookie, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d %s", w.Code, w.Body.String())
	}

	if w = do(r, http.MethodGet, "/user/emp@example.com", nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted user still resolves: %d %s", w.Code, w.Body.String())
	}
}

func TestWorksheetAndPaymentRoutes(t *testing.T) {
	r := testRouter(t)

	date := time.Now().UTC().Format(time.RFC3339)

	w := do(r, http.MethodPost, "/worksheet", nil, `{"email":"w@example.com","task":"Content writing","hours":3,"date":"`+date+`"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("worksheet create failed: %d %s", w.Code, w.Body.String())
	}

	// the owner reads their own entries
	ownerCookie := login(t, r, "w@example.com", "user")

	w = do(r, http.MethodGet, "/worksheet/w@example.com", ownerCookie, "")

	if w.Code != http.StatusOK {
		t.Fatalf("owner worksheet read failed: %d %s", w.Code, w.Body.String())
	}

	var sheet struct {
		Count int `json:"count"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &sheet); err != nil || sheet.Count != 1 {
		t.Fatalf("unexpected worksheet envelope: %s", w.Body.String())
	}

	// another plain user may not
	otherCookie := login(t, r, "nosy@example.com", "user")

	if w = do(r, http.MethodGet, "/worksheet/w@example.com", otherCookie, ""); w.Code != http.StatusForbidden {
		t.Fatalf("ownership check missed: %d %s", w.Code, w.Body.String())
	}

	// payments
	w = do(r, http.MethodPost, "/payments", nil, `{"email":"w@example.com","amount":750.25,"month":"June","year":2026}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("payment create failed: %d %s", w.Code, w.Body.String())
	}

	if w = do(r, http.MethodGet, "/payments/w@example.com", ownerCookie, ""); w.Code != http.StatusOK {
		t.Fatalf("payment list failed: %d %s", w.Code, w.Body.String())
	}

	// intent passthrough
	w = do(r, http.MethodPost, "/paymentintent", nil, `{"salary": 19.99}`)

	if w.Code != http.StatusOK {
		t.Fatalf("payment intent failed: %d %s", w.Code, w.Body.String())
	}

	var intent map[string]string

	if err := json.Unmarshal(w.Body.Bytes(), &intent); err != nil || intent["clientSecret"] != "cs_test_stub" {
		t.Fatalf("unexpected intent body: %s", w.Body.String())
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := testRouter(t)

	if w := do(r, http.MethodGet, "/healthz", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}

	if w := do(r, http.MethodGet, "/readyz", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("readyz: %d", w.Code)
	}

	if w := do(r, http.MethodGet, "/metrics", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}

	if w := do(r, http.MethodPost, "/worksheet", nil, ""); w.Code == http.StatusOK {
		t.Fatal("empty worksheet post should not succeed")
	}
}
