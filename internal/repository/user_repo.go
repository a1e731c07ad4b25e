package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// UserRepository handles data access for authentication accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user row.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
        INSERT INTO users (id, login, password_hash, role, employee_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, u.ID, u.Login, u.PasswordHash, u.Role, u.EmployeeID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// GetByLogin returns a user by login.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE login = $1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, login); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1`
	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ExistsLogin checks whether a login is already taken.
func (r *UserRepository) ExistsLogin(ctx context.Context, login string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, q, login); err != nil {
		return false, err
	}
	return exists, nil
}
