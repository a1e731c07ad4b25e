package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// EmployeeHandler handles employee CRUD endpoints.
type EmployeeHandler struct {
	employeeRepo *repository.EmployeeRepository
}

// NewEmployeeHandler constructs an EmployeeHandler.
func NewEmployeeHandler(employeeRepo *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employeeRepo: employeeRepo}
}

// Create registers an employee at a department.
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req struct {
		Name         string    `json:"name" binding:"required"`
		Phone        *string   `json:"phone"`
		DepartmentID uuid.UUID `json:"departmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	e := &models.Employee{
		ID:           uuid.New(),
		Name:         req.Name,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
	}
	if err := h.employeeRepo.Create(c.Request.Context(), e); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Employee created", gin.H{"employee": e})
}

// GetAll returns employees, optionally filtered by department.
func (h *EmployeeHandler) GetAll(c *gin.Context) {
	var (
		employees []models.Employee
		err       error
	)
	if v := c.Query("departmentId"); v != "" {
		deptID, parseErr := uuid.Parse(v)
		if parseErr != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
			return
		}
		employees, err = h.employeeRepo.GetByDepartment(c.Request.Context(), deptID)
	} else {
		employees, err = h.employeeRepo.GetAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Employees retrieved", gin.H{"employees": employees})
}

// GetByID returns one employee.
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid employee id")
		return
	}

	e, err := h.employeeRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Employee retrieved", gin.H{"employee": e})
}

// Update edits an employee.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid employee id")
		return
	}

	var req struct {
		Name         string    `json:"name" binding:"required"`
		Phone        *string   `json:"phone"`
		DepartmentID uuid.UUID `json:"departmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	e := &models.Employee{
		ID:           id,
		Name:         req.Name,
		Phone:        req.Phone,
		DepartmentID: req.DepartmentID,
	}
	if err := h.employeeRepo.Update(c.Request.Context(), e); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Employee updated", gin.H{"employee": e})
}

// Delete removes an employee.
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid employee id")
		return
	}

	if err := h.employeeRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Employee deleted", nil)
}
