package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// DashboardHandler serves aggregate production statistics.
type DashboardHandler struct {
	dashService *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashService: dashService}
}

// GetStats returns overall and per-department aggregates, optionally bounded
// by startDate/endDate (YYYY-MM-DD, end inclusive).
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashService.GetStats(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	utils.Success(c, 200, "Dashboard stats retrieved", gin.H{
		"overall":     stats.Overall,
		"departments": stats.Departments,
	})
}
