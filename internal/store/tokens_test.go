package store

import (
	"context"
	"testing"
	"time"

	"github.com/jkovac/inventar/internal/db"
)

func TestRevokeToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected unknown jti to be not revoked")
	}

	expiry := time.Now().Add(time.Hour)
	if err := RevokeToken(ctx, database, "some-jti", expiry); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ = IsTokenRevoked(ctx, database, "some-jti")
	if !revoked {
		t.Error("expected jti to be revoked")
	}

	// Revoking twice is harmless.
	if err := RevokeToken(ctx, database, "some-jti", expiry); err != nil {
		t.Errorf("second revocation should succeed, got %v", err)
	}
}

func TestRevokeTokenCleansExpired(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := RevokeToken(ctx, database, "old-jti", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	// Any later revocation sweeps expired entries.
	if err := RevokeToken(ctx, database, "new-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}

	revoked, _ := IsTokenRevoked(ctx, database, "old-jti")
	if revoked {
		t.Error("expected expired revocation to be cleaned up")
	}
}
