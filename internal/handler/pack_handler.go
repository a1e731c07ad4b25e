package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// PackHandler serves pack read endpoints: detail, pending queues, history,
// lineage and filtered listings.
type PackHandler struct {
	packService *service.PackService
}

// NewPackHandler constructs a PackHandler.
func NewPackHandler(packService *service.PackService) *PackHandler {
	return &PackHandler{packService: packService}
}

// GetPack returns a pack with its full process history.
func (h *PackHandler) GetPack(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid pack id")
		return
	}

	pack, err := h.packService.GetDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Pack retrieved", gin.H{"pack": pack})
}

// GetLineage returns every pack in the lineage of the given pack.
func (h *PackHandler) GetLineage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid pack id")
		return
	}

	packs, err := h.packService.GetLineage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Lineage retrieved", gin.H{"packs": packs})
}

// GetPending returns the department's unconfirmed deliveries.
func (h *PackHandler) GetPending(c *gin.Context) {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}

	packs, err := h.packService.GetPending(c.Request.Context(), deptID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Pending packs retrieved", gin.H{"packs": packs})
}

// GetHistory returns the processes recorded at a department, paginated.
func (h *PackHandler) GetHistory(c *gin.Context) {
	deptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
		return
	}
	page, limit := pageParams(c)

	procs, total, err := h.packService.GetHistory(c.Request.Context(), deptID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "History retrieved", gin.H{
		"processes": procs,
	}, page, limit, total)
}

// ListPacks returns packs matching the query filters.
func (h *PackHandler) ListPacks(c *gin.Context) {
	filter := &repository.PackFilter{}
	filter.Page, filter.Limit = pageParams(c)

	if v := c.Query("departmentId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid department id")
			return
		}
		filter.DepartmentID = &id
	}
	if v := c.Query("productId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.Error(c, 400, "INVALID_REQUEST", "Invalid product id")
			return
		}
		filter.ProductID = &id
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}
	if v := c.Query("isOver"); v != "" {
		over := v == "true"
		filter.ProcessIsOver = &over
	}
	if v := c.Query("model"); v != "" {
		filter.Model = &v
	}
	if v := c.Query("startDate"); v != "" {
		filter.StartDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		filter.EndDate = &v
	}

	res, err := h.packService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Packs retrieved", gin.H{
		"packs": res.Packs,
	}, res.Page, res.Limit, res.TotalItems)
}

func pageParams(c *gin.Context) (page, limit int) {
	page, limit = 1, 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}
