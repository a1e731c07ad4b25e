package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessStatus is the lifecycle state recorded on a process row.
type ProcessStatus string

const (
	// ProcessPending marks units in transit, not yet confirmed by the
	// receiving department. At most one Pending row may exist per pack; it
	// is deleted exactly once, at acceptance.
	ProcessPending ProcessStatus = "Pending"
	// ProcessAccepted marks a confirmed delivery or intake.
	ProcessAccepted ProcessStatus = "QabulQilingan"
	// ProcessPartiallySent marks a dispatch that left residue behind.
	ProcessPartiallySent ProcessStatus = "To'liq yuborilmagan"
	// ProcessFullySent marks the dispatch that drained the pack.
	ProcessFullySent ProcessStatus = "Yuborilgan"
)

// ProductPack is one batch of a product moving through the workflow. Packs
// related by ParentID form a flattened lineage: every fragment split off a
// root pack carries the root's id, never an intermediate ancestor's.
type ProductPack struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ParentID        *uuid.UUID `db:"parent_id" json:"parentId,omitempty"`
	ProductID       uuid.UUID  `db:"product_id" json:"productId"`
	DepartmentID    uuid.UUID  `db:"department_id" json:"departmentId"`
	DepartmentName  string     `db:"department_name" json:"departmentName"`
	TotalCount      int64      `db:"total_count" json:"totalCount"`
	ProcessIsOver   bool       `db:"process_is_over" json:"processIsOver"`
	LatestProcessID *uuid.UUID `db:"latest_process_id" json:"latestProcessId,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"-"`

	// Populated on detail reads only.
	Processes []ProductProcess `db:"-" json:"processes,omitempty"`
	Product   *Product         `db:"-" json:"product,omitempty"`
}

// RootID returns the lineage key a child of this pack must carry.
func (p *ProductPack) RootID() uuid.UUID {
	if p.ParentID != nil {
		return *p.ParentID
	}
	return p.ID
}

// ProductProcess is an immutable event row: one per state-changing action.
// The Pending row is the single mutable exception, consumed at acceptance.
type ProductProcess struct {
	ID                   uuid.UUID     `db:"id" json:"id"`
	PackID               uuid.UUID     `db:"pack_id" json:"packId"`
	Status               ProcessStatus `db:"status" json:"status"`
	DepartmentID         uuid.UUID     `db:"department_id" json:"departmentId"`
	EmployeeID           uuid.UUID     `db:"employee_id" json:"employeeId"`
	AcceptCount          int64         `db:"accept_count" json:"acceptCount"`
	SentCount            int64         `db:"sent_count" json:"sentCount"`
	InvalidCount         int64         `db:"invalid_count" json:"invalidCount"`
	ResidueCount         int64         `db:"residue_count" json:"residueCount"`
	InvalidReason        string        `db:"invalid_reason" json:"invalidReason,omitempty"`
	SenderDepartmentID   *uuid.UUID    `db:"sender_department_id" json:"senderDepartmentId,omitempty"`
	SenderDepartment     *string       `db:"sender_department" json:"senderDepartment,omitempty"`
	ReceiverDepartmentID *uuid.UUID    `db:"receiver_department_id" json:"receiverDepartmentId,omitempty"`
	ReceiverDepartment   *string       `db:"receiver_department" json:"receiverDepartment,omitempty"`
	OutsourceCompanyID   *uuid.UUID    `db:"outsource_company_id" json:"outsourceCompanyId,omitempty"`
	IsOutsourced         bool          `db:"is_outsourced" json:"isOutsourced"`
	ProcessIsOver        bool          `db:"process_is_over" json:"processIsOver"`
	CreatedAt            time.Time     `db:"created_at" json:"createdAt"`
}
