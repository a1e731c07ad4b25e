package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// DepartmentHandler handles department CRUD and topology endpoints.
type DepartmentHandler struct {
	deptService *service.DepartmentService
}

// NewDepartmentHandler constructs a DepartmentHandler.
func NewDepartmentHandler(deptService *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptService: deptService}
}

// Create registers a department.
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	dept, err := h.deptService.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Department created", gin.H{"department": dept})
}

// GetAll returns all departments.
func (h *DepartmentHandler) GetAll(c *gin.Context) {
	depts, err := h.deptService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Departments retrieved", gin.H{"departments": depts})
}

// GetByID returns one department.
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}

	dept, err := h.deptService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Department retrieved", gin.H{"department": dept})
}

// Update renames a department.
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	dept, err := h.deptService.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Department updated", gin.H{"department": dept})
}

// Delete removes a department.
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}

	if err := h.deptService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Department deleted", nil)
}

// GetNext returns the departments legally reachable from this one.
func (h *DepartmentHandler) GetNext(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}

	depts, err := h.deptService.NextDepartments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Next departments retrieved", gin.H{"departments": depts})
}
