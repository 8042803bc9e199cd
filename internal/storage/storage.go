// Package storage declares the persistence contracts consumed by handlers.
// Ownership scoping lives here: transaction lookups always combine the record
// id with the caller's user id in a single filter, so a record that exists but
// belongs to someone else is indistinguishable from one that does not exist.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"FINTRACK_BACK-END/internal/models"
)

// ErrNotFound indicates a record does not exist or is not owned by the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures user persistence operations needed by handlers.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

// TransactionStore captures the ownership-scoped transaction operations.
// Every method takes the owner's id; implementations must never return or
// touch a record owned by a different user.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactionsByOwner(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
	UpdateOwnedTransaction(ctx context.Context, userID, id uuid.UUID, txType string, amount float64) (models.Transaction, error)
	DeleteOwnedTransaction(ctx context.Context, userID, id uuid.UUID) error
}

// Store is the full persistence surface used by the application.
type Store interface {
	UserStore
	TransactionStore

	Ping(ctx context.Context) error
}
