package store

import (
	"context"
	"testing"

	"github.com/uft-palmas/achados/internal/db"
	"github.com/uft-palmas/achados/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, &model.User{
		Username:     "testuser",
		Email:        "test@example.com",
		FirstName:    "Maria",
		PasswordHash: "hash123",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.IsStaff {
		t.Error("expected regular user")
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.DisplayName() != "Maria" {
		t.Errorf("expected display name 'Maria', got %q", got.DisplayName())
	}
}

func TestGetUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "alice")

	user, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}

	missing, err := GetUserByUsername(ctx, database, "bob")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestDuplicateUsernameRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "alice")
	_, err := CreateUser(ctx, database, &model.User{Username: "alice", PasswordHash: "h"})
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
}

func TestEmailInUse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustUser(t, database, "alice")

	taken, err := EmailInUse(ctx, database, "ALICE@example.com", 0)
	if err != nil {
		t.Fatalf("EmailInUse: %v", err)
	}
	if !taken {
		t.Error("expected email to be taken regardless of case")
	}

	own, _ := EmailInUse(ctx, database, "alice@example.com", alice.ID)
	if own {
		t.Error("a user's own email must not count as taken")
	}
}

func TestListUsers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "user1")
	mustUser(t, database, "user2")

	users, err := ListUsers(ctx, database)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 users, got %d", len(users))
	}
}

func TestDeleteUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustUser(t, database, "deleteme")
	DeleteUser(ctx, database, user.ID)

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("expected 0 users after delete, got %d", len(users))
	}

	// The username becomes available again.
	if _, err := CreateUser(ctx, database, &model.User{Username: "deleteme", PasswordHash: "h"}); err != nil {
		t.Errorf("expected username reuse after delete: %v", err)
	}
}

func TestUpdateUserProfileAndPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustUser(t, database, "pwuser")
	user.FirstName = "Paulo"
	user.LastName = "Souza"
	if err := UpdateUserProfile(ctx, database, user); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	if err := SetUserStaff(ctx, database, user.ID, true); err != nil {
		t.Fatalf("SetUserStaff: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.DisplayName() != "Paulo Souza" {
		t.Errorf("expected 'Paulo Souza', got %q", got.DisplayName())
	}
	if got.PasswordHash != "newhash" {
		t.Errorf("expected 'newhash', got %q", got.PasswordHash)
	}
	if !got.IsStaff {
		t.Error("expected staff flag")
	}
}
