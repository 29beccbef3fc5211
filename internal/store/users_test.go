package store

import (
	"context"
	"testing"

	"github.com/jkovac/inventar/internal/db"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash", "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Email != "alice@example.com" || user.Role != "admin" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.Status != "active" {
		t.Errorf("expected default status active, got %q", user.Status)
	}

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("expected same user by email, got %+v", byEmail)
	}
}

func TestGetUserMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := GetUser(ctx, database, 42)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user != nil {
		t.Error("expected nil for missing user")
	}

	user, err = GetUserByEmail(ctx, database, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user != nil {
		t.Error("expected nil for missing email")
	}
}

func TestDuplicateActiveEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash", "admin"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := CreateUser(ctx, database, "Other", "alice@example.com", "hash", "user"); err == nil {
		t.Error("expected unique constraint violation for duplicate active email")
	}
}

func TestEmailReusableAfterSoftDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := CreateUser(ctx, database, "Alice", "alice@example.com", "hash", "admin")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := DeleteUser(ctx, database, first.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	second, err := CreateUser(ctx, database, "Alice Again", "alice@example.com", "hash", "admin")
	if err != nil {
		t.Fatalf("expected email reusable after soft delete: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a new user row")
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "Alice", "alice@example.com", "old", "admin")
	if err := UpdateUserPassword(ctx, database, user.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	updated, _ := GetUser(ctx, database, user.ID)
	if updated.PasswordHash != "new" {
		t.Errorf("expected updated hash, got %q", updated.PasswordHash)
	}
}
