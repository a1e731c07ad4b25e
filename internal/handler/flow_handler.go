package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// FlowHandler exposes the three pack flow operations.
type FlowHandler struct {
	flowService *service.PackFlowService
}

// NewFlowHandler constructs a FlowHandler.
func NewFlowHandler(flowService *service.PackFlowService) *FlowHandler {
	return &FlowHandler{flowService: flowService}
}

// Intake creates a new pack at a department.
func (h *FlowHandler) Intake(c *gin.Context) {
	var req struct {
		DepartmentID  uuid.UUID `json:"departmentId" binding:"required"`
		ProductID     uuid.UUID `json:"productId" binding:"required"`
		EmployeeID    uuid.UUID `json:"employeeId" binding:"required"`
		TotalCount    int64     `json:"totalCount" binding:"required"`
		InvalidCount  int64     `json:"invalidCount"`
		InvalidReason string    `json:"invalidReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	pack, err := h.flowService.Intake(c.Request.Context(), service.IntakeInput{
		DepartmentID:  req.DepartmentID,
		ProductID:     req.ProductID,
		EmployeeID:    req.EmployeeID,
		TotalCount:    req.TotalCount,
		InvalidCount:  req.InvalidCount,
		InvalidReason: req.InvalidReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 201, "Pack created", gin.H{"pack": pack})
}

// Send dispatches units from a pack to another department.
func (h *FlowHandler) Send(c *gin.Context) {
	packID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid pack id")
		return
	}

	var req struct {
		TargetDepartmentID uuid.UUID  `json:"targetDepartmentId" binding:"required"`
		EmployeeID         uuid.UUID  `json:"employeeId" binding:"required"`
		SendCount          int64      `json:"sendCount" binding:"required"`
		InvalidCount       int64      `json:"invalidCount"`
		InvalidReason      string     `json:"invalidReason"`
		OutsourceCompanyID *uuid.UUID `json:"outsourceCompanyId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	out, err := h.flowService.Send(c.Request.Context(), service.SendInput{
		SourcePackID:       packID,
		TargetDepartmentID: req.TargetDepartmentID,
		EmployeeID:         req.EmployeeID,
		SendCount:          req.SendCount,
		InvalidCount:       req.InvalidCount,
		InvalidReason:      req.InvalidReason,
		OutsourceCompanyID: req.OutsourceCompanyID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Pack sent", gin.H{
		"sourceProcess": out.SourceProcess,
		"newPack":       out.NewPack,
	})
}

// Accept confirms a pending delivery at the receiving department.
func (h *FlowHandler) Accept(c *gin.Context) {
	packID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid pack id")
		return
	}

	var req struct {
		EmployeeID    uuid.UUID `json:"employeeId" binding:"required"`
		InvalidCount  int64     `json:"invalidCount"`
		InvalidReason string    `json:"invalidReason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	out, err := h.flowService.Accept(c.Request.Context(), service.AcceptInput{
		PackID:        packID,
		EmployeeID:    req.EmployeeID,
		InvalidCount:  req.InvalidCount,
		InvalidReason: req.InvalidReason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Pack accepted", gin.H{
		"process":    out.Process,
		"isComplete": out.IsComplete,
	})
}
