package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/teamtune/payrollhub/internal/auth"
)

func TestMemoryRevokerDenylists(t *testing.T) {
	r := auth.NewMemoryRevoker()
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")

	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if revoked {
		t.Fatal("fresh jti should not be revoked")
	}

	if err := r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err = r.IsRevoked(ctx, "jti-1")

	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if !revoked {
		t.Fatal("jti should be revoked")
	}

	// an unrelated jti stays clean
	revoked, _ = r.IsRevoked(ctx, "jti-2")

	if revoked {
		t.Fatal("unrelated jti should not be revoked")
	}
}

func TestMemoryRevokerExpiresEntries(t *testing.T) {
	r := auth.NewMemoryRevoker()
	ctx := context.Background()

	// entry already past its expiry is dropped on lookup
	if err := r.Revoke(ctx, "stale", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	revoked, err := r.IsRevoked(ctx, "stale")

	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	if revoked {
		t.Fatal("entry past its expiry should read as not revoked")
	}
}
