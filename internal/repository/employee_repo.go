package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// EmployeeRepository handles data access for employees.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts an employee row.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	const q = `
        INSERT INTO employees (id, name, phone, department_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, e.ID, e.Name, e.Phone, e.DepartmentID).
		Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an employee with its department name.
func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	const q = `
        SELECT e.*, d.name AS department_name
        FROM employees e
        JOIN departments d ON e.department_id = d.id
        WHERE e.id = $1`
	var e models.Employee
	if err := r.db.GetContext(ctx, &e, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByDepartment returns employees of one department.
func (r *EmployeeRepository) GetByDepartment(ctx context.Context, departmentID uuid.UUID) ([]models.Employee, error) {
	const q = `
        SELECT e.*, d.name AS department_name
        FROM employees e
        JOIN departments d ON e.department_id = d.id
        WHERE e.department_id = $1
        ORDER BY e.name`
	var list []models.Employee
	if err := r.db.SelectContext(ctx, &list, q, departmentID); err != nil {
		return nil, err
	}
	return list, nil
}

// GetAll returns all employees.
func (r *EmployeeRepository) GetAll(ctx context.Context) ([]models.Employee, error) {
	const q = `
        SELECT e.*, d.name AS department_name
        FROM employees e
        JOIN departments d ON e.department_id = d.id
        ORDER BY e.name`
	var list []models.Employee
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Update modifies an employee's name, phone and department.
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	const q = `
        UPDATE employees SET name = $2, phone = $3, department_id = $4, updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, e.ID, e.Name, e.Phone, e.DepartmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrEmployeeNotFound
	}
	return nil
}

// Delete removes an employee.
func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM employees WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrEmployeeNotFound
	}
	return nil
}
