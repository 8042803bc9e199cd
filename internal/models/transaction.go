package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction types
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Transaction represents a single income or expense record owned by a user.
// UserID is stamped from the authenticated principal on creation and never
// changes afterwards.
type Transaction struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`
	Amount    float64   `json:"amount" db:"amount"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
