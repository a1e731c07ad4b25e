package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fabrikasoft/fabrika-api/internal/models"
)

// DashboardRepository aggregates production statistics across packs and processes.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// OverallStats is the factory-wide production summary.
type OverallStats struct {
	TotalPacks     int64 `db:"total_packs" json:"totalPacks"`
	ActivePacks    int64 `db:"active_packs" json:"activePacks"`
	CompletedPacks int64 `db:"completed_packs" json:"completedPacks"`
	TotalAccepted  int64 `db:"total_accepted" json:"totalAccepted"`
	TotalSent      int64 `db:"total_sent" json:"totalSent"`
	TotalInvalid   int64 `db:"total_invalid" json:"totalInvalid"`
}

// DepartmentStats is a per-department production summary.
type DepartmentStats struct {
	DepartmentID   string `db:"department_id" json:"departmentId"`
	DepartmentName string `db:"department_name" json:"departmentName"`
	AcceptCount    int64  `db:"accept_count" json:"acceptCount"`
	SentCount      int64  `db:"sent_count" json:"sentCount"`
	InvalidCount   int64  `db:"invalid_count" json:"invalidCount"`
	ResidueCount   int64  `db:"residue_count" json:"residueCount"`
	PendingCount   int64  `db:"pending_count" json:"pendingCount"`
}

// GetOverallStats returns factory-wide totals, optionally bounded by a date range.
// Pending rows are excluded from the sums: their counts belong to the sender's
// accounting until the receiver accepts.
func (r *DashboardRepository) GetOverallStats(ctx context.Context, from, to *time.Time) (*OverallStats, error) {
	q := `
        SELECT
            COUNT(DISTINCT pp.id)                                       AS total_packs,
            COUNT(DISTINCT pp.id) FILTER (WHERE NOT pp.process_is_over) AS active_packs,
            COUNT(DISTINCT pp.id) FILTER (WHERE pp.process_is_over)     AS completed_packs,
            COALESCE(SUM(pr.accept_count)  FILTER (WHERE pr.status <> $1), 0) AS total_accepted,
            COALESCE(SUM(pr.sent_count)    FILTER (WHERE pr.status <> $1), 0) AS total_sent,
            COALESCE(SUM(pr.invalid_count) FILTER (WHERE pr.status <> $1), 0) AS total_invalid
        FROM product_packs pp
        LEFT JOIN product_processes pr ON pr.pack_id = pp.id`
	args := []interface{}{models.ProcessPending}
	argIdx := 2

	if from != nil {
		q += fmt.Sprintf(" WHERE pp.created_at >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		if from != nil {
			q += fmt.Sprintf(" AND pp.created_at <= $%d", argIdx)
		} else {
			q += fmt.Sprintf(" WHERE pp.created_at <= $%d", argIdx)
		}
		args = append(args, *to)
	}

	var s OverallStats
	if err := r.db.GetContext(ctx, &s, q, args...); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetDepartmentStats returns per-department totals, optionally bounded by a
// date range. Residue is derived as accepted minus what already moved on or
// got rejected. Date conditions go into the join so departments with no
// activity still appear with zero rows.
func (r *DashboardRepository) GetDepartmentStats(ctx context.Context, from, to *time.Time) ([]DepartmentStats, error) {
	join := `LEFT JOIN product_processes pr ON pr.department_id = d.id`
	args := []interface{}{models.ProcessPending}
	argIdx := 2

	if from != nil {
		join += fmt.Sprintf(" AND pr.created_at >= $%d", argIdx)
		args = append(args, *from)
		argIdx++
	}
	if to != nil {
		join += fmt.Sprintf(" AND pr.created_at <= $%d", argIdx)
		args = append(args, *to)
	}

	q := `
        SELECT
            d.id   AS department_id,
            d.name AS department_name,
            COALESCE(SUM(pr.accept_count)  FILTER (WHERE pr.status <> $1), 0) AS accept_count,
            COALESCE(SUM(pr.sent_count)    FILTER (WHERE pr.status <> $1), 0) AS sent_count,
            COALESCE(SUM(pr.invalid_count) FILTER (WHERE pr.status <> $1), 0) AS invalid_count,
            COALESCE(SUM(pr.accept_count)  FILTER (WHERE pr.status <> $1), 0)
              - COALESCE(SUM(pr.sent_count)    FILTER (WHERE pr.status <> $1), 0)
              - COALESCE(SUM(pr.invalid_count) FILTER (WHERE pr.status <> $1), 0) AS residue_count,
            COUNT(pr.id) FILTER (WHERE pr.status = $1) AS pending_count
        FROM departments d
        ` + join + `
        GROUP BY d.id, d.name
        ORDER BY d.name`

	var stats []DepartmentStats
	if err := r.db.SelectContext(ctx, &stats, q, args...); err != nil {
		return nil, err
	}
	return stats, nil
}
