package store

import (
	"errors"
	"testing"
	"time"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
)

func TestTaskStore_OwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	task := createTestTask(t, db, alice.ID, nil)

	t.Run("get by other owner", func(t *testing.T) {
		_, err := tasks.Get(task.ID, bob.ID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get by missing id", func(t *testing.T) {
		_, err := tasks.Get(99999, bob.ID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update by other owner", func(t *testing.T) {
		title := "hijacked"
		err := tasks.Update(task.ID, bob.ID, TaskPatch{Title: &title})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}

		fresh, err := tasks.Get(task.ID, alice.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if fresh.Title != "Test Task" {
			t.Errorf("title changed to %q by a non-owner", fresh.Title)
		}
	})

	t.Run("delete by other owner", func(t *testing.T) {
		err := tasks.Delete(task.ID, bob.ID)
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}

		if _, err := tasks.Get(task.ID, alice.ID); err != nil {
			t.Errorf("task disappeared after non-owner delete: %v", err)
		}
	})

	t.Run("owner still has full access", func(t *testing.T) {
		if _, err := tasks.Get(task.ID, alice.ID); err != nil {
			t.Errorf("Get() error = %v", err)
		}
		if err := tasks.Delete(task.ID, alice.ID); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	})
}

func TestTaskStore_PartialUpdate(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	due := time.Now().AddDate(0, 0, 3)
	task := createTestTask(t, db, owner.ID, func(task *models.Task) {
		task.Title = "Original title"
		task.Description = "Original description"
		task.Priority = models.PriorityHigh
		task.DueDate = timePtr(due)
	})

	completed := true
	if err := tasks.Update(task.ID, owner.ID, TaskPatch{Completed: &completed}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fresh, err := tasks.Get(task.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if !fresh.Completed {
		t.Error("completed was not set")
	}
	if fresh.Title != "Original title" {
		t.Errorf("title = %q, want untouched original", fresh.Title)
	}
	if fresh.Description != "Original description" {
		t.Errorf("description = %q, want untouched original", fresh.Description)
	}
	if fresh.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want untouched high", fresh.Priority)
	}
	if fresh.DueDate == nil {
		t.Error("due date was cleared by an unrelated patch")
	}
}

func TestTaskStore_DueDateClearVsOmit(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	task := createTestTask(t, db, owner.ID, func(task *models.Task) {
		task.DueDate = timePtr(time.Now().AddDate(0, 0, 5))
	})

	t.Run("omitted due date stays", func(t *testing.T) {
		title := "renamed"
		if err := tasks.Update(task.ID, owner.ID, TaskPatch{Title: &title}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		fresh, err := tasks.Get(task.ID, owner.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if fresh.DueDate == nil {
			t.Error("due date cleared by a patch that omitted it")
		}
	})

	t.Run("explicit clear removes it", func(t *testing.T) {
		if err := tasks.Update(task.ID, owner.ID, TaskPatch{ClearDueDate: true}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		fresh, err := tasks.Get(task.ID, owner.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if fresh.DueDate != nil {
			t.Errorf("due date = %v, want cleared", fresh.DueDate)
		}
	})
}

func TestTaskStore_OverdueCompletionBlocked(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	t.Run("overdue task cannot complete", func(t *testing.T) {
		task := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(yesterday)
		})

		completed := true
		err := tasks.Update(task.ID, owner.ID, TaskPatch{Completed: &completed})
		if !errors.Is(err, apperr.ErrOverdueTask) {
			t.Errorf("Update() error = %v, want ErrOverdueTask", err)
		}
	})

	t.Run("task due tomorrow completes", func(t *testing.T) {
		task := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(tomorrow)
		})

		completed := true
		if err := tasks.Update(task.ID, owner.ID, TaskPatch{Completed: &completed}); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	})

	t.Run("patch moving the due date rescues completion", func(t *testing.T) {
		task := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(yesterday)
		})

		completed := true
		patch := TaskPatch{Completed: &completed, DueDate: timePtr(tomorrow)}
		if err := tasks.Update(task.ID, owner.ID, patch); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	})

	t.Run("editing an overdue task without completing works", func(t *testing.T) {
		task := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(yesterday)
		})

		title := "still editable"
		if err := tasks.Update(task.ID, owner.ID, TaskPatch{Title: &title}); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	})

	t.Run("uncompleting an overdue task works", func(t *testing.T) {
		task := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(yesterday)
			task.Completed = true
		})

		completed := false
		if err := tasks.Update(task.ID, owner.ID, TaskPatch{Completed: &completed}); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	})
}

func TestTaskStore_Toggle(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	task := createTestTask(t, db, owner.ID, nil)

	toggled, err := tasks.Toggle(task.ID, owner.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !toggled.Completed {
		t.Error("first toggle should complete the task")
	}

	toggled, err = tasks.Toggle(task.ID, owner.ID)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if toggled.Completed {
		t.Error("second toggle should un-complete the task")
	}

	t.Run("toggle respects the overdue rule", func(t *testing.T) {
		overdue := createTestTask(t, db, owner.ID, func(task *models.Task) {
			task.DueDate = timePtr(time.Now().AddDate(0, 0, -1))
		})

		_, err := tasks.Toggle(overdue.ID, owner.ID)
		if !errors.Is(err, apperr.ErrOverdueTask) {
			t.Errorf("Toggle() error = %v, want ErrOverdueTask", err)
		}
	})
}

func TestTaskStore_MarkAllCompletedIncludesOverdue(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	owner := createTestUser(t, db, "owner@example.com")
	overdue := createTestTask(t, db, owner.ID, func(task *models.Task) {
		task.DueDate = timePtr(time.Now().AddDate(0, 0, -2))
	})

	// The bulk flip is a single owner-scoped statement with no per-task
	// due-date check, unlike the single-task completed transition.
	updated, err := tasks.MarkAllCompleted(owner.ID)
	if err != nil {
		t.Fatalf("MarkAllCompleted() error = %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	fresh, err := tasks.Get(overdue.ID, owner.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !fresh.Completed {
		t.Error("overdue task was skipped by the bulk flip")
	}
}

func TestTaskStore_BulkOperations(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewTaskStore(db)

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for i := 0; i < 3; i++ {
		createTestTask(t, db, alice.ID, func(task *models.Task) { task.Completed = true })
	}
	createTestTask(t, db, alice.ID, nil)
	createTestTask(t, db, alice.ID, nil)
	bobDone := createTestTask(t, db, bob.ID, func(task *models.Task) { task.Completed = true })

	t.Run("delete completed is owner scoped", func(t *testing.T) {
		deleted, err := tasks.DeleteCompleted(alice.ID)
		if err != nil {
			t.Fatalf("DeleteCompleted() error = %v", err)
		}
		if deleted != 3 {
			t.Errorf("deleted = %d, want 3", deleted)
		}

		if _, err := tasks.Get(bobDone.ID, bob.ID); err != nil {
			t.Errorf("bob's completed task was removed: %v", err)
		}
	})

	t.Run("delete completed with no matches is success", func(t *testing.T) {
		deleted, err := tasks.DeleteCompleted(alice.ID)
		if err != nil {
			t.Fatalf("DeleteCompleted() error = %v", err)
		}
		if deleted != 0 {
			t.Errorf("deleted = %d, want 0", deleted)
		}
	})

	t.Run("mark all completed reports the flipped count", func(t *testing.T) {
		updated, err := tasks.MarkAllCompleted(alice.ID)
		if err != nil {
			t.Fatalf("MarkAllCompleted() error = %v", err)
		}
		if updated != 2 {
			t.Errorf("updated = %d, want 2", updated)
		}

		updated, err = tasks.MarkAllCompleted(alice.ID)
		if err != nil {
			t.Fatalf("MarkAllCompleted() error = %v", err)
		}
		if updated != 0 {
			t.Errorf("second pass updated = %d, want 0", updated)
		}
	})
}
