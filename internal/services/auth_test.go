package services

import (
	"errors"
	"testing"

	"github.com/oomip/gatherly/internal/config"
	"github.com/oomip/gatherly/internal/models"
	"github.com/oomip/gatherly/internal/utils"
	"gorm.io/gorm"
)

func authFixture(t *testing.T) (*gorm.DB, *AuthService) {
	t.Helper()
	utils.SetJWTSecret("test-secret-key")
	db := testDB(t)
	svc := NewAuthService(db, &config.JWTConfig{Secret: "test-secret-key", ExpireHour: 1})
	return db, svc
}

func TestLogin(t *testing.T) {
	db, svc := authFixture(t)
	user := createTestUser(t, db, "alice")

	result, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("login should return a token")
	}
	if result.User.ID != user.ID {
		t.Errorf("User.ID = %q, expected %q", result.User.ID, user.ID)
	}

	// A session record backs the token.
	var count int64
	db.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("session count = %d, expected 1", count)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, svc := authFixture(t)
	createTestUser(t, db, "alice")

	_, err := svc.Login(&LoginRequest{Username: "alice", Password: "wrong"}, "", "")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}

	_, err = svc.Login(&LoginRequest{Username: "nobody", Password: "password123"}, "", "")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestValidateSession(t *testing.T) {
	db, svc := authFixture(t)
	user := createTestUser(t, db, "alice")

	result, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := svc.ValidateSession(result.Token)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("UserID = %q, expected %q", claims.UserID, user.ID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, expected %q", claims.Username, "alice")
	}
}

func TestValidateSession_AfterLogout(t *testing.T) {
	db, svc := authFixture(t)
	createTestUser(t, db, "alice")

	result, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := svc.Logout(result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	// The JWT is still cryptographically valid but the session is gone.
	if _, err := utils.ParseToken(result.Token); err != nil {
		t.Fatalf("token itself should still parse: %v", err)
	}
	if _, err := svc.ValidateSession(result.Token); err == nil {
		t.Error("expected validation to fail after logout")
	}
}

func TestLogout_UnknownToken(t *testing.T) {
	_, svc := authFixture(t)

	if err := svc.Logout("not-a-real-token"); err != nil {
		t.Errorf("logout of unknown token should be a no-op, got %v", err)
	}
	if err := svc.Logout(""); err != nil {
		t.Errorf("logout of empty token should be a no-op, got %v", err)
	}
}

func TestRevokeUserSessions(t *testing.T) {
	db, svc := authFixture(t)
	user := createTestUser(t, db, "alice")

	first, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}, "", "")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	second, err := svc.Login(&LoginRequest{Username: "alice", Password: "password123"}, "", "")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if err := svc.RevokeUserSessions(user.ID); err != nil {
		t.Fatalf("RevokeUserSessions failed: %v", err)
	}

	if _, err := svc.ValidateSession(first.Token); err == nil {
		t.Error("first session should be revoked")
	}
	if _, err := svc.ValidateSession(second.Token); err == nil {
		t.Error("second session should be revoked")
	}
}

func TestUserIdsToUsernames(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	names, err := svc.IdsToUsernames([]string{bob.ID, "missing", alice.ID})
	if err != nil {
		t.Fatalf("IdsToUsernames failed: %v", err)
	}

	want := []string{"bob", DeletedUsername, "alice"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, expected %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, expected %q", i, names[i], want[i])
		}
	}

	empty, err := svc.IdsToUsernames(nil)
	if err != nil {
		t.Fatalf("IdsToUsernames(nil) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("IdsToUsernames(nil) = %v, expected empty", empty)
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	createTestUser(t, db, "alice")

	_, err := svc.Create(&CreateUserRequest{Username: "alice", Password: "password123"})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	// Rename collision is rejected.
	if _, err := svc.Update(alice.ID, &UpdateUserRequest{Username: "bob"}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken renaming to a taken username, got %v", err)
	}

	updated, err := svc.Update(alice.ID, &UpdateUserRequest{Username: "alice2"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Username != "alice2" {
		t.Errorf("Username = %q, expected %q", updated.Username, "alice2")
	}

	if _, err := svc.GetByUsername("alice2"); err != nil {
		t.Errorf("renamed user should resolve by new name: %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(db)
	alice := createTestUser(t, db, "alice")

	if err := svc.Delete(alice.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := svc.GetByID(alice.ID)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}

	if err := svc.Delete(alice.ID); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError deleting twice, got %v", err)
	}
}
