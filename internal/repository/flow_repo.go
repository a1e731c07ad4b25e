package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fabrikasoft/fabrika-api/internal/flow"
	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// FlowRepository is the persistence collaborator of the pack flow engine.
// All state-changing pack operations run through InTx so the check-and-append
// sequence on a pack is serialized by a row lock on the pack itself.
type FlowRepository struct {
	db *sqlx.DB
}

// NewFlowRepository creates a new FlowRepository.
func NewFlowRepository(db *sqlx.DB) *FlowRepository {
	return &FlowRepository{db: db}
}

// FlowTx exposes the mutations available inside a flow transaction.
type FlowTx struct {
	tx *sqlx.Tx
}

// InTx runs fn within a single database transaction. Postgres serialization
// and deadlock failures are translated to utils.ErrConflict so the caller can
// decide about a retry.
func (r *FlowRepository) InTx(ctx context.Context, fn func(flow.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&FlowTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return translateConflict(err)
	}
	if err := tx.Commit(); err != nil {
		return translateConflict(err)
	}
	return nil
}

// translateConflict maps retryable Postgres errors to ErrConflict.
func translateConflict(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %v", utils.ErrConflict, err)
		}
	}
	return err
}

// GetPackForUpdate loads a pack and locks its row for the duration of the
// transaction, serializing concurrent senders and acceptors of the same pack.
func (t *FlowTx) GetPackForUpdate(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	const q = `SELECT * FROM product_packs WHERE id = $1 FOR UPDATE`
	var p models.ProductPack
	if err := t.tx.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPackNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreatePack inserts a pack row.
func (t *FlowTx) CreatePack(ctx context.Context, p *models.ProductPack) error {
	const q = `
        INSERT INTO product_packs (
            id, parent_id, product_id, department_id, department_name,
            total_count, process_is_over, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW(),NOW())
        RETURNING created_at, updated_at`
	return t.tx.QueryRowxContext(ctx, q,
		p.ID, p.ParentID, p.ProductID, p.DepartmentID, p.DepartmentName,
		p.TotalCount, p.ProcessIsOver,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// CreateProcess appends a process row and repoints the pack's latest-process
// pointer at it.
func (t *FlowTx) CreateProcess(ctx context.Context, pr *models.ProductProcess) error {
	const q = `
        INSERT INTO product_processes (
            id, pack_id, status, department_id, employee_id,
            accept_count, sent_count, invalid_count, residue_count, invalid_reason,
            sender_department_id, sender_department, receiver_department_id, receiver_department,
            outsource_company_id, is_outsourced, process_is_over, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW())
        RETURNING created_at`
	if err := t.tx.QueryRowxContext(ctx, q,
		pr.ID, pr.PackID, pr.Status, pr.DepartmentID, pr.EmployeeID,
		pr.AcceptCount, pr.SentCount, pr.InvalidCount, pr.ResidueCount, pr.InvalidReason,
		pr.SenderDepartmentID, pr.SenderDepartment, pr.ReceiverDepartmentID, pr.ReceiverDepartment,
		pr.OutsourceCompanyID, pr.IsOutsourced, pr.ProcessIsOver,
	).Scan(&pr.CreatedAt); err != nil {
		return err
	}

	const upd = `UPDATE product_packs SET latest_process_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, upd, pr.PackID, pr.ID)
	return err
}

// DeletePendingProcess removes the pack's Pending row, if any, and reports
// whether one was removed. The delete-if-exists semantics make a concurrent
// double accept lose cleanly.
func (t *FlowTx) DeletePendingProcess(ctx context.Context, packID uuid.UUID) (bool, error) {
	const q = `DELETE FROM product_processes WHERE pack_id = $1 AND status = $2`
	res, err := t.tx.ExecContext(ctx, q, packID, models.ProcessPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// HasPendingProcess reports whether the pack has an unresolved Pending row.
func (t *FlowTx) HasPendingProcess(ctx context.Context, packID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM product_processes WHERE pack_id = $1 AND status = $2)`
	var exists bool
	err := t.tx.GetContext(ctx, &exists, q, packID, models.ProcessPending)
	return exists, err
}

// CumulativeCounts sums the dispatched and rejected units across the pack's
// entire process history. Pending rows are excluded: their sentCount belongs
// to the sender's accounting, not the receiver's.
func (t *FlowTx) CumulativeCounts(ctx context.Context, packID uuid.UUID) (sent, invalid int64, err error) {
	const q = `
        SELECT COALESCE(SUM(sent_count), 0)    AS sent,
               COALESCE(SUM(invalid_count), 0) AS invalid
        FROM product_processes
        WHERE pack_id = $1 AND status <> $2`
	row := struct {
		Sent    int64 `db:"sent"`
		Invalid int64 `db:"invalid"`
	}{}
	if err = t.tx.GetContext(ctx, &row, q, packID, models.ProcessPending); err != nil {
		return 0, 0, err
	}
	return row.Sent, row.Invalid, nil
}

// MarkPackOver sets the pack's completion flag.
func (t *FlowTx) MarkPackOver(ctx context.Context, packID uuid.UUID, over bool) error {
	const q = `UPDATE product_packs SET process_is_over = $2, updated_at = NOW() WHERE id = $1`
	_, err := t.tx.ExecContext(ctx, q, packID, over)
	return err
}

// Reference lookups used by the orchestrator before mutating anything.

// GetPack returns a pack without locking it.
func (r *FlowRepository) GetPack(ctx context.Context, id uuid.UUID) (*models.ProductPack, error) {
	const q = `SELECT * FROM product_packs WHERE id = $1`
	var p models.ProductPack
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPackNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetDepartment returns a department by id.
func (r *FlowRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
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

// GetEmployee returns an employee by id.
func (r *FlowRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
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

// GetProduct returns a product by id (attributes not populated).
func (r *FlowRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1`
	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetCompany returns an outsourcing company by id.
func (r *FlowRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.OutsourceCompany, error) {
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
