package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fabrikasoft/fabrika-api/internal/flow"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// respondError maps domain errors to HTTP status codes and writes the
// standard error envelope. The sentinel's message doubles as the API error
// code.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrPackNotFound),
		errors.Is(err, utils.ErrDepartmentNotFound),
		errors.Is(err, utils.ErrEmployeeNotFound),
		errors.Is(err, utils.ErrProductNotFound),
		errors.Is(err, utils.ErrCompanyNotFound),
		errors.Is(err, utils.ErrFileNotFound),
		errors.Is(err, utils.ErrUserNotFound):
		utils.Error(c, 404, sentinelCode(err), err.Error())

	case errors.Is(err, flow.ErrNegativeCount),
		errors.Is(err, flow.ErrInvalidExceedsTotal),
		errors.Is(err, flow.ErrInsufficientAvailable),
		errors.Is(err, flow.ErrUnknownDepartmentRole),
		errors.Is(err, utils.ErrIllegalTransition):
		utils.Error(c, 400, sentinelCode(err), err.Error())

	case errors.Is(err, utils.ErrNoPendingProcess),
		errors.Is(err, utils.ErrPendingUnresolved),
		errors.Is(err, utils.ErrPackClosed),
		errors.Is(err, utils.ErrConflict),
		errors.Is(err, utils.ErrLoginTaken):
		utils.Error(c, 409, sentinelCode(err), err.Error())

	case errors.Is(err, utils.ErrInvalidCredentials),
		errors.Is(err, utils.ErrInvalidToken):
		utils.Error(c, 401, sentinelCode(err), err.Error())

	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

// sentinelCode extracts the sentinel's UPPER_SNAKE code even when the error
// has been wrapped with extra context.
func sentinelCode(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		err = e
	}
	return err.Error()
}
