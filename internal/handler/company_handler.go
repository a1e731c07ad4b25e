package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// CompanyHandler handles outsourcing company CRUD endpoints.
type CompanyHandler struct {
	companyRepo *repository.CompanyRepository
}

// NewCompanyHandler constructs a CompanyHandler.
func NewCompanyHandler(companyRepo *repository.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companyRepo: companyRepo}
}

// Create registers an outsourcing company.
func (h *CompanyHandler) Create(c *gin.Context) {
	var req struct {
		Name    string  `json:"name" binding:"required"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	company := &models.OutsourceCompany{
		ID:      uuid.New(),
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.companyRepo.Create(c.Request.Context(), company); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Company created", gin.H{"company": company})
}

// GetAll returns all outsourcing companies.
func (h *CompanyHandler) GetAll(c *gin.Context) {
	companies, err := h.companyRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Companies retrieved", gin.H{"companies": companies})
}

// GetByID returns one company.
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid company id")
		return
	}

	company, err := h.companyRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Company retrieved", gin.H{"company": company})
}

// Update edits a company.
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid company id")
		return
	}

	var req struct {
		Name    string  `json:"name" binding:"required"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	company := &models.OutsourceCompany{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.companyRepo.Update(c.Request.Context(), company); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Company updated", gin.H{"company": company})
}

// Delete removes a company.
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid company id")
		return
	}

	if err := h.companyRepo.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Company deleted", nil)
}
