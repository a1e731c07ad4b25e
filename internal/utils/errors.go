package utils

import "errors"

// Common application errors used across services. Reconciliation arithmetic
// errors live in internal/flow; everything else is declared here.
var (
	ErrPackNotFound       = errors.New("PACK_NOT_FOUND")
	ErrDepartmentNotFound = errors.New("DEPARTMENT_NOT_FOUND")
	ErrEmployeeNotFound   = errors.New("EMPLOYEE_NOT_FOUND")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrCompanyNotFound    = errors.New("COMPANY_NOT_FOUND")
	ErrFileNotFound       = errors.New("FILE_NOT_FOUND")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")

	ErrNoPendingProcess  = errors.New("NO_PENDING_PROCESS")
	ErrPendingUnresolved = errors.New("PENDING_UNRESOLVED")
	ErrIllegalTransition = errors.New("ILLEGAL_TRANSITION")
	ErrPackClosed        = errors.New("PACK_CLOSED")
	ErrConflict          = errors.New("CONCURRENT_MODIFICATION_CONFLICT")

	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrLoginTaken         = errors.New("LOGIN_TAKEN")
)
