package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"FINTRACK_BACK-END/internal/dto"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/storage"
	"FINTRACK_BACK-END/internal/utils"
	"FINTRACK_BACK-END/internal/validation"
)

// msgTransactionNotFound is deliberately ambiguous between "does not exist"
// and "exists but is not yours", so other users' record ids cannot be probed.
const msgTransactionNotFound = "Transaction not found or does not belong to the user"

// TransactionsHandler manages transaction-related endpoints
type TransactionsHandler struct {
	store storage.TransactionStore
}

// NewTransactionsHandler creates a new TransactionsHandler
func NewTransactionsHandler(store storage.TransactionStore) *TransactionsHandler {
	return &TransactionsHandler{store: store}
}

// Transactions dispatches by HTTP method for /transactions and /transactions/{id}
func (h *TransactionsHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateTransaction(w, r)
	case http.MethodGet:
		h.ListTransactions(w, r)
	case http.MethodPut:
		h.UpdateTransaction(w, r)
	case http.MethodDelete:
		h.DeleteTransaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateTransaction handles POST /transactions
// @Summary Add a new transaction
// @Description Create a transaction owned by the authenticated user
// @Tags transaction
// @Accept json
// @Produce json
// @Param payload body dto.CreateTransactionRequest true "Transaction payload"
// @Security BearerAuth
// @Success 201 {object} utils.Envelope "Transaction created successfully"
// @Failure 400 {object} utils.Envelope "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /transactions [post]
func (h *TransactionsHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateTransactionRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if err := validation.CheckPayload(req); err != nil {
		utils.WriteFailureResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	// Ownership comes from the token, never from the payload. A userId in
	// the request body is accepted by the schema and then ignored.
	now := time.Now()
	tx := models.Transaction{
		ID:        uuid.New(),
		Type:      req.Type,
		Amount:    req.Amount,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := h.store.CreateTransaction(r.Context(), tx)
	if err != nil {
		log.Printf("create transaction: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccessResponse(w, http.StatusCreated, toTransactionResponse(created), "Transaction created successfully")
}

// ListTransactions handles GET /transactions
// @Summary Get all transactions
// @Description List the authenticated user's transactions
// @Tags transaction
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope "Transactions fetched successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /transactions [get]
func (h *TransactionsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	txs, err := h.store.ListTransactionsByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("list transactions: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		resp = append(resp, toTransactionResponse(tx))
	}
	utils.WriteSuccessResponse(w, http.StatusOK, resp, "Transactions fetched successfully")
}

// UpdateTransaction handles PUT /transactions/{id}
// @Summary Update a transaction
// @Description Overwrite type and amount of a transaction owned by the authenticated user
// @Tags transaction
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param payload body dto.UpdateTransactionRequest true "Transaction payload"
// @Security BearerAuth
// @Success 200 {object} utils.Envelope "Transaction updated successfully"
// @Failure 400 {object} utils.Envelope "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.Envelope "Transaction not found or does not belong to the user"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /transactions/{id} [put]
func (h *TransactionsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	id, ok := transactionIDFromPath(r.URL.Path)
	if !ok {
		utils.WriteFailureResponse(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}

	var req dto.UpdateTransactionRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return
	}

	if err := validation.CheckPayload(req); err != nil {
		utils.WriteFailureResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.store.UpdateOwnedTransaction(r.Context(), userID, id, req.Type, req.Amount)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteFailureResponse(w, http.StatusNotFound, msgTransactionNotFound)
			return
		}
		log.Printf("update transaction: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccessResponse(w, http.StatusOK, toTransactionResponse(updated), "Transaction updated successfully")
}

// DeleteTransaction handles DELETE /transactions/{id}
// @Summary Delete a transaction
// @Description Permanently remove a transaction owned by the authenticated user
// @Tags transaction
// @Produce json
// @Param id path string true "Transaction ID"
// @Security BearerAuth
// @Success 200 {object} utils.Envelope "Transaction deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} utils.Envelope "Transaction not found or does not belong to the user"
// @Failure 500 {object} utils.Envelope "Internal server error"
// @Router /transactions/{id} [delete]
func (h *TransactionsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	id, ok := transactionIDFromPath(r.URL.Path)
	if !ok {
		utils.WriteFailureResponse(w, http.StatusNotFound, msgTransactionNotFound)
		return
	}

	err := h.store.DeleteOwnedTransaction(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			utils.WriteFailureResponse(w, http.StatusNotFound, msgTransactionNotFound)
			return
		}
		log.Printf("delete transaction: %v", err)
		utils.WriteFailureResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccessResponse(w, http.StatusOK, nil, "Transaction deleted successfully")
}

// transactionIDFromPath extracts the {id} segment of /transactions/{id}.
// A malformed id is reported the same way as a missing record.
func transactionIDFromPath(path string) (uuid.UUID, bool) {
	raw := strings.TrimPrefix(path, "/transactions/")
	if raw == "" || raw == path || strings.Contains(raw, "/") {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func toTransactionResponse(tx models.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:        tx.ID.String(),
		Type:      tx.Type,
		Amount:    tx.Amount,
		UserID:    tx.UserID.String(),
		CreatedAt: utils.FormatTimestamp(tx.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(tx.UpdatedAt),
	}
}
