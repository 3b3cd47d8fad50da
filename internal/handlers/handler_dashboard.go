package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
}

// registerDashboardRoutes registers the admin home-screen aggregate route.
func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade) {
	h := &dashboardHandler{dashboardService: dashboardService}
	rg.GET("/dashboard/summary", h.getSummary)
}

// getSummary godoc
// @Summary Dashboard summary
// @Description Returns budget, client, order, invoice and payment aggregates for the admin home screen
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.DashboardSummary
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *dashboardHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load dashboard summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
