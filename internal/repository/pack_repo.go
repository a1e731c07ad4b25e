package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// PackRepository serves the read side of product packs: pending queues,
// department history, detail pages and filtered listings.
type PackRepository struct {
	db *sqlx.DB
}

// NewPackRepository creates a new PackRepository.
func NewPackRepository(db *sqlx.DB) *PackRepository {
	return &PackRepository{db: db}
}

// GetByID returns a pack with its full process history, newest process first.
func (r *PackRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	const q = `SELECT * FROM product_packs WHERE id = $1`
	var p models.ProductPack
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPackNotFound
		}
		return nil, err
	}

	const procQ = `SELECT * FROM product_processes WHERE pack_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &p.Processes, procQ, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestProcess returns the orchestrator-maintained current process of a pack.
func (r *PackRepository) LatestProcess(ctx context.Context, packID uuid.UUID) (*models.ProductProcess, error) {
	const q = `
        SELECT pr.* FROM product_processes pr
        JOIN product_packs p ON p.latest_process_id = pr.id
        WHERE p.id = $1`
	var pr models.ProductProcess
	if err := r.db.GetContext(ctx, &pr, q, packID); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPackNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// GetPendingByDepartment returns packs at the department that still carry an
// unresolved Pending process, each with that Pending process attached.
func (r *PackRepository) GetPendingByDepartment(ctx context.Context, departmentID uuid.UUID) ([]models.ProductPack, error) {
	const q = `
        SELECT p.* FROM product_packs p
        WHERE p.department_id = $1
          AND EXISTS (
              SELECT 1 FROM product_processes pr
              WHERE pr.pack_id = p.id AND pr.status = $2
          )
        ORDER BY p.created_at DESC`

	var packs []models.ProductPack
	if err := r.db.SelectContext(ctx, &packs, q, departmentID, models.ProcessPending); err != nil {
		return nil, err
	}

	const procQ = `SELECT * FROM product_processes WHERE pack_id = $1 AND status = $2`
	for i := range packs {
		if err := r.db.SelectContext(ctx, &packs[i].Processes, procQ, packs[i].ID, models.ProcessPending); err != nil {
			return nil, err
		}
	}
	return packs, nil
}

// GetLineage returns every pack of a lineage: the root plus all fragments
// split off it, oldest first.
func (r *PackRepository) GetLineage(ctx context.Context, rootID uuid.UUID) ([]models.ProductPack, error) {
	const q = `
        SELECT * FROM product_packs
        WHERE id = $1 OR parent_id = $1
        ORDER BY created_at ASC`
	var packs []models.ProductPack
	if err := r.db.SelectContext(ctx, &packs, q, rootID); err != nil {
		return nil, err
	}
	return packs, nil
}

// PackFilter holds filters for pack listing queries.
type PackFilter struct {
	DepartmentID  *uuid.UUID
	ProductID     *uuid.UUID
	Status        *string
	ProcessIsOver *bool
	Model         *string
	StartDate     *string
	EndDate       *string
	Page          int
	Limit         int
}

// PackListResult contains paginated pack results.
type PackListResult struct {
	Packs      []models.ProductPack
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// List returns packs matching the filter with pagination. Status filters on
// the pack's latest process.
func (r *PackRepository) List(ctx context.Context, filter *PackFilter) (*PackListResult, error) {
	baseQ := `FROM product_packs p
              JOIN products prod ON p.product_id = prod.id
              LEFT JOIN product_processes lp ON p.latest_process_id = lp.id
              WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.DepartmentID != nil {
		baseQ += fmt.Sprintf(" AND p.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.ProductID != nil {
		baseQ += fmt.Sprintf(" AND p.product_id = $%d", argIdx)
		args = append(args, *filter.ProductID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseQ += fmt.Sprintf(" AND lp.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.ProcessIsOver != nil {
		baseQ += fmt.Sprintf(" AND p.process_is_over = $%d", argIdx)
		args = append(args, *filter.ProcessIsOver)
		argIdx++
	}
	if filter.Model != nil && *filter.Model != "" {
		baseQ += fmt.Sprintf(" AND prod.model ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.Model+"%")
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseQ += fmt.Sprintf(" AND p.created_at >= $%d::date", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseQ += fmt.Sprintf(" AND p.created_at < ($%d::date + interval '1 day')", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit
	totalPages := (total + filter.Limit - 1) / filter.Limit

	selectQ := fmt.Sprintf("SELECT p.* %s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var packs []models.ProductPack
	if err := r.db.SelectContext(ctx, &packs, selectQ, args...); err != nil {
		return nil, err
	}

	return &PackListResult{
		Packs:      packs,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetHistoryByDepartment returns processes recorded at a department, newest
// first, with pagination.
func (r *PackRepository) GetHistoryByDepartment(ctx context.Context, departmentID uuid.UUID, page, limit int) ([]models.ProductProcess, int, error) {
	const countQ = `SELECT COUNT(*) FROM product_processes WHERE department_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, departmentID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	const q = `
        SELECT * FROM product_processes
        WHERE department_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	var procs []models.ProductProcess
	if err := r.db.SelectContext(ctx, &procs, q, departmentID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return procs, total, nil
}
