package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role is stored and carried in token claims, but grants no
// elevated data access: every transaction operation is scoped to the owner.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"` // Hidden from JSON responses
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
