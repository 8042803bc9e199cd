package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"FINTRACK_BACK-END/internal/config"
	"FINTRACK_BACK-END/internal/models"
	"FINTRACK_BACK-END/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// uniqueViolation is the Postgres error code for unique constraint failures
const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users and transactions.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects a pgx pool using the application config and prepares the
// schema. Simple protocol keeps the pool compatible with PgBouncer-style
// connection poolers.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "fintrack-backend"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.Database.QueryTimeout.Milliseconds())
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.bootstrap(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) bootstrap(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'USER',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			type TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			user_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_id_idx ON transactions (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row. A duplicate email surfaces as
// storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, name, email, phone, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, phone, password_hash, role, created_at, updated_at;
	`
	row := s.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUserByEmail fetches a user by email address.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, name, email, phone, password_hash, role, created_at, updated_at
		  FROM users
		 WHERE email = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// FindUserByID fetches a user by primary key.
func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const query = `
		SELECT id, name, email, phone, password_hash, role, created_at, updated_at
		  FROM users
		 WHERE id = $1;
	`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// CreateTransaction inserts a transaction. The caller is responsible for
// stamping UserID from the authenticated principal before calling.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	const query = `
		INSERT INTO transactions (id, type, amount, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, type, amount, user_id, created_at, updated_at;
	`
	row := s.pool.QueryRow(ctx, query, tx.ID, tx.Type, tx.Amount, tx.UserID, tx.CreatedAt, tx.UpdatedAt)
	return scanTransaction(row)
}

// ListTransactionsByOwner returns the caller's transactions in insertion order.
func (s *Store) ListTransactionsByOwner(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	const query = `
		SELECT id, type, amount, user_id, created_at, updated_at
		  FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at;
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Type, &tx.Amount, &tx.UserID, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// UpdateOwnedTransaction overwrites type and amount of the record matching
// both id and user_id in a single statement. No match, whether the record is
// missing or owned by someone else, surfaces as storage.ErrNotFound.
func (s *Store) UpdateOwnedTransaction(ctx context.Context, userID, id uuid.UUID, txType string, amount float64) (models.Transaction, error) {
	const query = `
		UPDATE transactions
		   SET type = $1, amount = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5
		RETURNING id, type, amount, user_id, created_at, updated_at;
	`
	row := s.pool.QueryRow(ctx, query, txType, amount, time.Now(), id, userID)
	return scanTransaction(row)
}

// DeleteOwnedTransaction removes the record matching both id and user_id.
func (s *Store) DeleteOwnedTransaction(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone,
		&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(&tx.ID, &tx.Type, &tx.Amount, &tx.UserID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, storage.ErrNotFound
		}
		return models.Transaction{}, err
	}
	return tx, nil
}
