package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teamtune/payrollhub/internal/auth"
)

const testSecret = "test-secret-key"

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	payload := map[string]any{
		"email": "alice@example.com",
		"role":  "hr",
		"name":  "Alice",
	}

	token, jti, expiresAt, err := m.Issue(payload)

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if jti == "" {
		t.Fatal("expected a non-empty jti")
	}

	if until := time.Until(expiresAt); until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("expiry %v not about an hour out", until)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// the payload must come back verbatim
	if claims.Data["email"] != "alice@example.com" || claims.Data["role"] != "hr" || claims.Data["name"] != "Alice" {
		t.Fatalf("payload not round-tripped: %#v", claims.Data)
	}

	if claims.Email() != "alice@example.com" {
		t.Fatalf("Email() = %q", claims.Email())
	}

	if claims.Role() != "hr" {
		t.Fatalf("Role() = %q", claims.Role())
	}

	if claims.JTI != jti {
		t.Fatalf("claims jti %q != issued jti %q", claims.JTI, jti)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := auth.NewManager(testSecret, -time.Minute)

	token, _, _, err := m.Issue(map[string]any{"email": "old@example.com"})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = m.Verify(token)

	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, _, _, err := m.Issue(map[string]any{"role": "user"})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// flip a character in the signature segment
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])

	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = m.Verify(strings.Join(parts, "."))

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := auth.NewManager(testSecret, time.Hour)
	verifier := auth.NewManager("other-secret", time.Hour)

	token, _, _, err := issuer.Issue(map[string]any{"role": "admin"})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = verifier.Verify(token)

	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestClaimsAccessorsOnEmptyPayload(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, _, _, err := m.Issue(map[string]any{})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Email() != "" || claims.Role() != "" {
		t.Fatalf("expected empty accessors, got email=%q role=%q", claims.Email(), claims.Role())
	}
}
