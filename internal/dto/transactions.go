package dto

// CreateTransactionRequest represents the payload for creating a transaction.
// UserID is tolerated in the payload for backwards compatibility but is never
// read: ownership always comes from the authenticated principal.
type CreateTransactionRequest struct {
	Type   string  `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	UserID string  `json:"userId,omitempty" validate:"-"`
}

// UpdateTransactionRequest represents the payload for updating a transaction
type UpdateTransactionRequest struct {
	Type   string  `json:"type" validate:"required,oneof=INCOME EXPENSE"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
	UserID string  `json:"userId,omitempty" validate:"-"`
}

// TransactionResponse represents transaction data in API responses
type TransactionResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	UserID    string  `json:"userId"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
