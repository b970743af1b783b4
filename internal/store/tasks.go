package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
)

// TaskStore persists tasks. Every statement it issues conjoins the task
// id with the owner id, so a task belonging to another user behaves
// exactly like a task that does not exist.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// TaskPatch carries the columns an update touches. A nil field is left
// out of the UPDATE entirely; ClearDueDate sets due_date to NULL, which
// is distinct from not touching it.
type TaskPatch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
}

func (s *TaskStore) Create(task *models.Task) error {
	if err := s.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// Get returns the task only when it belongs to ownerID.
func (s *TaskStore) Get(taskID, ownerID uint) (*models.Task, error) {
	var task models.Task

	if err := s.db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}

	return &task, nil
}

// Update applies the patch to the owner's task. Transitioning a task
// into completed is rejected with ErrOverdueTask when its effective due
// date, after the patch, is already past.
func (s *TaskStore) Update(taskID, ownerID uint, patch TaskPatch) error {
	current, err := s.Get(taskID, ownerID)
	if err != nil {
		return err
	}

	if patch.Completed != nil && *patch.Completed && !current.Completed {
		due := current.DueDate
		if patch.ClearDueDate {
			due = nil
		}
		if patch.DueDate != nil {
			due = patch.DueDate
		}
		effective := models.Task{DueDate: due}
		if effective.Overdue(time.Now()) {
			return apperr.ErrOverdueTask
		}
	}

	updates := map[string]any{}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}
	if patch.Priority != nil {
		updates["priority"] = *patch.Priority
	}
	if patch.ClearDueDate {
		updates["due_date"] = nil
	} else if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}

	if len(updates) == 0 {
		return nil
	}

	result := s.db.Model(&models.Task{}).Where("id = ? AND owner_id = ?", taskID, ownerID).Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Toggle flips the completion flag. It is a read-then-write composition
// of Get and Update, not a separate primitive, so the overdue rule
// applies to the completed transition here too.
func (s *TaskStore) Toggle(taskID, ownerID uint) (*models.Task, error) {
	current, err := s.Get(taskID, ownerID)
	if err != nil {
		return nil, err
	}

	next := !current.Completed

	if err := s.Update(taskID, ownerID, TaskPatch{Completed: &next}); err != nil {
		return nil, err
	}

	return s.Get(taskID, ownerID)
}

func (s *TaskStore) Delete(taskID, ownerID uint) error {
	result := s.db.Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&models.Task{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// DeleteCompleted removes every completed task the owner has and reports
// how many went away. Zero matches is a success, not an error.
func (s *TaskStore) DeleteCompleted(ownerID uint) (int64, error) {
	result := s.db.Where("owner_id = ? AND completed = ?", ownerID, true).Delete(&models.Task{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete completed tasks: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// MarkAllCompleted flips every pending task the owner has to completed
// and reports how many changed.
func (s *TaskStore) MarkAllCompleted(ownerID uint) (int64, error) {
	result := s.db.Model(&models.Task{}).
		Where("owner_id = ? AND completed = ?", ownerID, false).
		Update("completed", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark tasks completed: %w", result.Error)
	}

	return result.RowsAffected, nil
}
