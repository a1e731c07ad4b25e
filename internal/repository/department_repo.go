package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// DepartmentRepository handles data access for departments.
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new DepartmentRepository.
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Create inserts a department row.
func (r *DepartmentRepository) Create(ctx context.Context, d *models.Department) error {
	const q = `
        INSERT INTO departments (id, name, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, d.ID, d.Name).Scan(&d.CreatedAt, &d.UpdatedAt)
}

// GetByID returns a department by id.
func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	const q = `SELECT * FROM departments WHERE id = $1`
	var d models.Department
	if err := r.db.GetContext(ctx, &d, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrDepartmentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// GetByNames returns departments whose name matches any of the given names,
// case-insensitively. Used to resolve topology roles back to rows.
func (r *DepartmentRepository) GetByNames(ctx context.Context, names []string) ([]models.Department, error) {
	if len(names) == 0 {
		return nil, nil
	}
	const q = `SELECT * FROM departments WHERE LOWER(name) = ANY($1) ORDER BY name`
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	var list []models.Department
	if err := r.db.SelectContext(ctx, &list, q, pq.Array(lowered)); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAll returns all departments ordered by name.
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]models.Department, error) {
	const q = `SELECT * FROM departments ORDER BY name`
	var list []models.Department
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Update renames a department.
func (r *DepartmentRepository) Update(ctx context.Context, d *models.Department) error {
	const q = `UPDATE departments SET name = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, d.ID, d.Name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrDepartmentNotFound
	}
	return nil
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM departments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrDepartmentNotFound
	}
	return nil
}
