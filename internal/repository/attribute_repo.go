package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
)

// AttributeRepository handles the color and size reference tables. Both are
// flat id+name tables with identical access patterns.
type AttributeRepository struct {
	db *sqlx.DB
}

// NewAttributeRepository creates a new AttributeRepository.
func NewAttributeRepository(db *sqlx.DB) *AttributeRepository {
	return &AttributeRepository{db: db}
}

// CreateColor inserts a color.
func (r *AttributeRepository) CreateColor(ctx context.Context, c *models.Color) error {
	const q = `INSERT INTO colors (id, name) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name)
	return err
}

// GetAllColors returns all colors ordered by name.
func (r *AttributeRepository) GetAllColors(ctx context.Context) ([]models.Color, error) {
	const q = `SELECT * FROM colors ORDER BY name`
	var list []models.Color
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteColor removes a color by id.
func (r *AttributeRepository) DeleteColor(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "colors", id)
}

// CreateSize inserts a size.
func (r *AttributeRepository) CreateSize(ctx context.Context, s *models.Size) error {
	const q = `INSERT INTO sizes (id, name) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.Name)
	return err
}

// GetAllSizes returns all sizes ordered by name.
func (r *AttributeRepository) GetAllSizes(ctx context.Context) ([]models.Size, error) {
	const q = `SELECT * FROM sizes ORDER BY name`
	var list []models.Size
	if err := r.db.SelectContext(ctx, &list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteSize removes a size by id.
func (r *AttributeRepository) DeleteSize(ctx context.Context, id uuid.UUID) error {
	return r.deleteByID(ctx, "sizes", id)
}

func (r *AttributeRepository) deleteByID(ctx context.Context, table string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
