package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

// registerAuditRoutes registers the audit trail read routes. Admin only.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := &auditHandler{auditService: auditService}
	audit := rg.Group("/audit-logs", middleware.RequireAdmin())
	{
		audit.GET("/:entityType/:entityID", h.listByEntity)
	}
}

// listByEntity godoc
// @Summary List audit entries for an entity
// @Description Returns the most recent audit trail entries for one entity, newest first
// @Tags audit
// @Produce json
// @Param entityType path string true "Entity type (e.g. budget)"
// @Param entityID path string true "Entity ID"
// @Param limit query int false "Max entries (default 50, cap 200)"
// @Success 200 {array} domain.AuditLog
// @Failure 403 {object} map[string]string "Admin access required"
// @Security BearerAuth
// @Router /audit-logs/{entityType}/{entityID} [get]
func (h *auditHandler) listByEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.auditService.ListByEntity(c.Request.Context(), c.Param("entityType"), c.Param("entityID"), limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list audit entries")
		return
	}
	c.JSON(http.StatusOK, logs)
}
