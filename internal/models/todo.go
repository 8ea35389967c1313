package models

import (
	"time"
)

// Todo belongs to exactly one user. UserID is set once at creation and
// never changes afterwards.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
