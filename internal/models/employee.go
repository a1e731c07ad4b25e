package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a department worker who performs pack operations.
type Employee struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	DepartmentID   uuid.UUID `db:"department_id" json:"departmentId"`
	DepartmentName string    `db:"department_name" json:"departmentName,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"-"`
}
