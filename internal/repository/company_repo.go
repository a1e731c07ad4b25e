package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// CompanyRepository handles data access for outsourcing companies.
type CompanyRepository struct {
	db *sqlx.DB
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db *sqlx.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a company row.
func (r *CompanyRepository) Create(ctx context.Context, c *models.OutsourceCompany) error {
	const q = `
        INSERT INTO outsource_companies (id, name, phone, address, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        RETURNING created_at, updated_at`
	return r.db.QueryRowxContext(ctx, q, c.ID, c.Name, c.Phone, c.Address).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a company by id.
func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OutsourceCompany, error) {
	const q = `SELECT * FROM outsource_companies WHERE id = $1`
	var c models.OutsourceCompany
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCompanyNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetAll returns all companies ordered by name.
func (r *CompanyRepository) GetAll(ctx context.Context) ([]models.OutsourceCompany, error) {
	const q = `SELECT * FROM outsource_companies ORDER BY name`
	var list []models.OutsourceCompany
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Update modifies a company's contact fields.
func (r *CompanyRepository) Update(ctx context.Context, c *models.OutsourceCompany) error {
	const q = `
        UPDATE outsource_companies SET name = $2, phone = $3, address = $4, updated_at = NOW()
        WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Phone, c.Address)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrCompanyNotFound
	}
	return nil
}

// Delete removes a company.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM outsource_companies WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrCompanyNotFound
	}
	return nil
}
