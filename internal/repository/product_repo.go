package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// ProductRepository handles data access for products and their attribute sets.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a product and attaches the given color/size ids in one
// transaction.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product, colorIDs, sizeIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO products (id, model, created_at, updated_at)
        VALUES ($1, $2, NOW(), NOW())
        RETURNING created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, q, p.ID, p.Model).Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	if err := attachAttributes(ctx, tx, p.ID, colorIDs, sizeIDs); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateAttributes replaces a product's color/size attribute sets.
func (r *ProductRepository) UpdateAttributes(ctx context.Context, productID uuid.UUID, colorIDs, sizeIDs []uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_colors WHERE product_id = $1`, productID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM product_sizes WHERE product_id = $1`, productID); err != nil {
		return err
	}
	if err := attachAttributes(ctx, tx, productID, colorIDs, sizeIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func attachAttributes(ctx context.Context, tx *sqlx.Tx, productID uuid.UUID, colorIDs, sizeIDs []uuid.UUID) error {
	for _, cid := range colorIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_colors (product_id, color_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			productID, cid); err != nil {
			return err
		}
	}
	for _, sid := range sizeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_sizes (product_id, size_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			productID, sid); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a product with colors, sizes and files populated.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	if err := r.loadAttributes(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) loadAttributes(ctx context.Context, p *models.Product) error {
	const colorQ = `
        SELECT c.* FROM colors c
        JOIN product_colors pc ON pc.color_id = c.id
        WHERE pc.product_id = $1 ORDER BY c.name`
	if err := r.db.SelectContext(ctx, &p.Colors, colorQ, p.ID); err != nil {
		return err
	}
	const sizeQ = `
        SELECT s.* FROM sizes s
        JOIN product_sizes ps ON ps.size_id = s.id
        WHERE ps.product_id = $1 ORDER BY s.name`
	if err := r.db.SelectContext(ctx, &p.Sizes, sizeQ, p.ID); err != nil {
		return err
	}
	const fileQ = `SELECT * FROM product_files WHERE product_id = $1 ORDER BY created_at DESC`
	return r.db.SelectContext(ctx, &p.Files, fileQ, p.ID)
}

// GetAll returns all products with attributes, optionally filtered by model
// substring.
func (r *ProductRepository) GetAll(ctx context.Context, model string) ([]models.Product, error) {
	q := `SELECT * FROM products`
	args := []interface{}{}
	if model != "" {
		q += ` WHERE model ILIKE $1`
		args = append(args, "%"+model+"%")
	}
	q += ` ORDER BY model`

	var list []models.Product
	if err := r.db.SelectContext(ctx, &list, q, args...); err != nil {
		return nil, err
	}
	for i := range list {
		if err := r.loadAttributes(ctx, &list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Delete removes a product and its attribute links.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM products WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return utils.ErrProductNotFound
	}
	return nil
}

// CreateFile records an uploaded product reference file.
func (r *ProductRepository) CreateFile(ctx context.Context, f *models.ProductFile) error {
	const q = `
        INSERT INTO product_files (id, product_id, object_key, file_name, content_type, size_bytes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING created_at`
	return r.db.QueryRowxContext(ctx, q,
		f.ID, f.ProductID, f.ObjectKey, f.FileName, f.ContentType, f.SizeBytes,
	).Scan(&f.CreatedAt)
}

// GetFile returns a product file by id.
func (r *ProductRepository) GetFile(ctx context.Context, id uuid.UUID) (*models.ProductFile, error) {
	const q = `SELECT * FROM product_files WHERE id = $1`
	var f models.ProductFile
	if err := r.db.GetContext(ctx, &f, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

// DeleteFile removes a product file record and returns it so the caller can
// delete the stored object too.
func (r *ProductRepository) DeleteFile(ctx context.Context, id uuid.UUID) (*models.ProductFile, error) {
	const q = `DELETE FROM product_files WHERE id = $1 RETURNING id, product_id, object_key, file_name, content_type, size_bytes, created_at`
	var f models.ProductFile
	if err := r.db.GetContext(ctx, &f, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByIDs returns products for the given ids, attributes not populated.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `SELECT * FROM products WHERE id = ANY($1)`
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	var list []models.Product
	if err := r.db.SelectContext(ctx, &list, q, pq.Array(strIDs)); err != nil {
		return nil, err
	}
	return list, nil
}
