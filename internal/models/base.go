package models

import "time"

// BaseModel is the shared primary key and timestamp columns. Deletes in
// this application are hard deletes, so there is no DeletedAt.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
