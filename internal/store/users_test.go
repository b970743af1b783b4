package store

import (
	"errors"
	"testing"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
)

func TestUserStore_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)

	user := &models.User{
		Name:         "Ada Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hash",
	}
	if err := users.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	found, err := users.FindByEmail("ada@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("FindByEmail() id = %d, want %d", found.ID, user.ID)
	}

	if _, err := users.FindByEmail("nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("FindByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)

	first := &models.User{Name: "First", Email: "taken@example.com", PasswordHash: "hash"}
	if err := users.Create(first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := &models.User{Name: "Second", Email: "taken@example.com", PasswordHash: "hash"}
	if err := users.Create(second); !errors.Is(err, apperr.ErrEmailTaken) {
		t.Errorf("Create() error = %v, want ErrEmailTaken", err)
	}
}

func TestUserStore_UpdateEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)

	alice := createTestUser(t, db, "alice@example.com")
	createTestUser(t, db, "bob@example.com")

	err := users.Update(alice.ID, map[string]any{"email": "bob@example.com"})
	if !errors.Is(err, apperr.ErrEmailTaken) {
		t.Errorf("Update() error = %v, want ErrEmailTaken", err)
	}

	// Updating to the address she already has is not a conflict.
	if err := users.Update(alice.ID, map[string]any{"email": "alice@example.com"}); err != nil {
		t.Errorf("Update() error = %v", err)
	}
}

func TestUserStore_DeleteCascadesTasks(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	createTestTask(t, db, owner.ID, nil)
	createTestTask(t, db, owner.ID, nil)

	if err := users.Delete(owner.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var remaining int64
	if err := db.Model(&models.Task{}).Where("owner_id = ?", owner.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("failed to count tasks: %v", err)
	}
	if remaining != 0 {
		t.Errorf("remaining tasks = %d, want 0 after owner delete", remaining)
	}
}
