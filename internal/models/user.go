package models

import (
	"time"
)

type User struct {
	ID           int64
	CreatedAt    time.Time
	Username     string
	Email        string // optional, empty string when not provided
	PasswordHash string
}
