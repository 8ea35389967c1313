package models

import (
	"time"
)

// Task is the ownerless public resource: any caller may read or mutate it
type Task struct {
	ID          int64
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
