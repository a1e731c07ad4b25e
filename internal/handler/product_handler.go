package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// maxUploadSize caps product reference files at 20 MiB.
const maxUploadSize = 20 << 20

// ProductHandler handles product catalog endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create registers a product with its attribute sets.
func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		Model    string      `json:"model" binding:"required"`
		ColorIDs []uuid.UUID `json:"colorIds"`
		SizeIDs  []uuid.UUID `json:"sizeIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Create(c.Request.Context(), service.CreateProductInput{
		Model:    req.Model,
		ColorIDs: req.ColorIDs,
		SizeIDs:  req.SizeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Product created", gin.H{"product": product})
}

// GetAll returns products with an optional model filter.
func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.productService.GetAll(c.Request.Context(), c.Query("model"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Products retrieved", gin.H{"products": products})
}

// GetByID returns one product with attributes and file URLs.
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved", gin.H{"product": product})
}

// UpdateAttributes replaces a product's color and size sets.
func (h *ProductHandler) UpdateAttributes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	var req struct {
		ColorIDs []uuid.UUID `json:"colorIds"`
		SizeIDs  []uuid.UUID `json:"sizeIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.UpdateAttributes(c.Request.Context(), id, req.ColorIDs, req.SizeIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product updated", gin.H{"product": product})
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}

// UploadFile stores a reference file for the product.
func (h *ProductHandler) UploadFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Missing file")
		return
	}
	if fileHeader.Size > maxUploadSize {
		utils.Error(c, 400, "FILE_TOO_LARGE", "File exceeds the upload limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Cannot read file")
		return
	}
	defer f.Close()

	file, err := h.productService.UploadFile(
		c.Request.Context(), id, f,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "File uploaded", gin.H{"file": file})
}

// DeleteFile removes a product reference file.
func (h *ProductHandler) DeleteFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid file id")
		return
	}

	if err := h.productService.DeleteFile(c.Request.Context(), fileID); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "File deleted", nil)
}
