package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/apperr"
	"github.com/CarlosSilva09/TaskFlow/internal/models"
)

// UserStore persists identity records.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. A duplicate email is reported as
// apperr.ErrEmailTaken whether it is caught by the pre-check or by the
// unique index itself.
func (s *UserStore) Create(user *models.User) error {
	var count int64

	if err := s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing email: %w", err)
	}

	if count > 0 {
		return apperr.ErrEmailTaken
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User

	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User

	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// Update applies the supplied column values to one user. When the patch
// changes the email, uniqueness is re-checked against every other user.
func (s *UserStore) Update(id uint, updates map[string]any) error {
	if email, ok := updates["email"].(string); ok {
		var count int64

		if err := s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing email: %w", err)
		}

		if count > 0 {
			return apperr.ErrEmailTaken
		}
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// Delete removes the user. Their tasks go with them through the foreign
// key cascade.
func (s *UserStore) Delete(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&models.User{})

	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
