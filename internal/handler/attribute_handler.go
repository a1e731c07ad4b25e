package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/models"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// AttributeHandler handles the color and size reference lists.
type AttributeHandler struct {
	attrRepo *repository.AttributeRepository
}

// NewAttributeHandler constructs an AttributeHandler.
func NewAttributeHandler(attrRepo *repository.AttributeRepository) *AttributeHandler {
	return &AttributeHandler{attrRepo: attrRepo}
}

// CreateColor adds a color.
func (h *AttributeHandler) CreateColor(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	color := &models.Color{ID: uuid.New(), Name: req.Name}
	if err := h.attrRepo.CreateColor(c.Request.Context(), color); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Color created", gin.H{"color": color})
}

// GetColors returns all colors.
func (h *AttributeHandler) GetColors(c *gin.Context) {
	colors, err := h.attrRepo.GetAllColors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Colors retrieved", gin.H{"colors": colors})
}

// DeleteColor removes a color.
func (h *AttributeHandler) DeleteColor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid color id")
		return
	}
	if err := h.attrRepo.DeleteColor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Color deleted", nil)
}

// CreateSize adds a size.
func (h *AttributeHandler) CreateSize(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	size := &models.Size{ID: uuid.New(), Name: req.Name}
	if err := h.attrRepo.CreateSize(c.Request.Context(), size); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Size created", gin.H{"size": size})
}

// GetSizes returns all sizes.
func (h *AttributeHandler) GetSizes(c *gin.Context) {
	sizes, err := h.attrRepo.GetAllSizes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Sizes retrieved", gin.H{"sizes": sizes})
}

// DeleteSize removes a size.
func (h *AttributeHandler) DeleteSize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid size id")
		return
	}
	if err := h.attrRepo.DeleteSize(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Size deleted", nil)
}
