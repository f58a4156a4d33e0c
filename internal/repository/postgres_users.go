package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// PostgresUsersRepository users table access.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	user_id::text,
	COALESCE(nickname, '') as nickname,
	COALESCE(email, '') as email,
	account_hash,
	password_hash,
	role,
	COALESCE(status, 'active') as status,
	created_at
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.UserID,
		&u.Nickname,
		&u.Email,
		&u.AccountHash,
		&u.PasswordHash,
		&u.Role,
		&u.Status,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1::uuid`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *PostgresUsersRepository) GetByAccountHash(ctx context.Context, accountHash string) (*domain.User, error) {
	if accountHash == "" {
		return nil, fmt.Errorf("account_hash is required")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE account_hash = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, accountHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("account: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by account: %w", err)
	}
	return u, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, u *domain.User) (string, error) {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = "active"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, nickname, email, account_hash, password_hash, role, status)
		 VALUES ($1::uuid, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7)`,
		u.UserID, u.Nickname, u.Email, u.AccountHash, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	return u.UserID, nil
}
