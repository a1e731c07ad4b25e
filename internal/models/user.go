package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes administrative accounts from department accounts.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// User is an authenticated account bound to an employee.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Login        string     `db:"login" json:"login"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         UserRole   `db:"role" json:"role"`
	EmployeeID   *uuid.UUID `db:"employee_id" json:"employeeId,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`

	Employee *Employee `db:"-" json:"employee,omitempty"`
}
