package auth

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

type Repository struct {
	db *postgres.Client
}

func NewRepository(db *postgres.Client) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`
	err := r.db.DB.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.PasswordHash,
	).Scan(&user.CreatedAt)
	return postgres.MapError(err)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT id, username, email, first_name, last_name, password_hash, created_at FROM users WHERE username = $1`
	return scanUser(r.db.DB.QueryRowContext(ctx, query, username))
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `SELECT id, username, email, first_name, last_name, password_hash, created_at FROM users WHERE id = $1`
	return scanUser(r.db.DB.QueryRowContext(ctx, query, id))
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`
	_, err := r.db.DB.ExecContext(ctx, query, id, passwordHash)
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
