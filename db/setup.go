package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/CarlosSilva09/TaskFlow/internal/models"
)

// Connect opens the database handle the rest of the application receives
// by injection at startup. There is no package-level instance.
func Connect(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	return database, nil
}

// Migrate brings the schema up to date. All statements run inside one
// transaction: either the whole schema lands or none of it does.
func Migrate(database *gorm.DB) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.User{},
			&models.Task{},
		} {
			if err := tx.AutoMigrate(model); err != nil {
				return err
			}
		}
		return nil
	})
}
