package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/middleware"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/storage"
)

// memStore is an in-memory storage.Store used by handler tests. Transactions
// are kept in a slice so listing preserves insertion order, matching the
// Postgres implementation's ORDER BY created_at.
type memStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
	txs   []models.Transaction

	// failNext forces the next storage call to return this error
	failNext error
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]models.User{}}
}

func (m *memStore) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *memStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return models.User{}, err
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return models.User{}, err
	}
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (m *memStore) FindUserByID(_ context.Context, id uuid.UUID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return models.User{}, err
	}
	user, ok := m.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memStore) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return models.Transaction{}, err
	}
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *memStore) ListTransactionsByOwner(_ context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	owned := []models.Transaction{}
	for _, tx := range m.txs {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}
	return owned, nil
}

func (m *memStore) UpdateOwnedTransaction(_ context.Context, userID, id uuid.UUID, txType string, amount float64) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return models.Transaction{}, err
	}
	for i, tx := range m.txs {
		if tx.ID == id && tx.UserID == userID {
			m.txs[i].Type = txType
			m.txs[i].Amount = amount
			m.txs[i].UpdatedAt = time.Now()
			return m.txs[i], nil
		}
	}
	return models.Transaction{}, storage.ErrNotFound
}

func (m *memStore) DeleteOwnedTransaction(_ context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeErr(); err != nil {
		return err
	}
	for i, tx := range m.txs {
		if tx.ID == id && tx.UserID == userID {
			m.txs = append(m.txs[:i], m.txs[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) Ping(context.Context) error {
	return nil
}

// testConfig returns a minimal config for handler tests
func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:         "test-secret",
			AccessTokenTTL: time.Hour,
		},
	}
}

// newTestMux wires the API routes onto a fresh mux so tests do not share the
// process-wide default mux.
func newTestMux(cfg *config.Config, store storage.Store) *http.ServeMux {
	authHandler := NewAuthHandler(store, cfg)
	txHandler := NewTransactionsHandler(store)

	mux := http.NewServeMux()
	mux.HandleFunc("/register", authHandler.Register)
	mux.HandleFunc("/login", authHandler.Login)
	mux.HandleFunc("/user/me", middleware.AuthMiddleware(authHandler.GetCurrentUser, &cfg.JWT))
	mux.HandleFunc("/transactions", middleware.AuthMiddleware(txHandler.Transactions, &cfg.JWT))
	mux.HandleFunc("/transactions/", middleware.AuthMiddleware(txHandler.Transactions, &cfg.JWT))
	return mux
}

// envelope mirrors utils.Envelope with raw data for per-test decoding
type envelope struct {
	Status     bool            `json:"status"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	StatusCode int             `json:"statusCode"`
}
