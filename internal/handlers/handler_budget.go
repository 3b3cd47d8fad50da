package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

// budgetHandler handles HTTP requests related to budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
	notifier      portsplat.ChangeNotifier
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade, notifier portsplat.ChangeNotifier) *budgetHandler {
	return &budgetHandler{budgetService: bs, notifier: notifier}
}

// registerBudgetRoutes registers routes related to budgets.
func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade, notifier portsplat.ChangeNotifier) {
	h := newBudgetHandler(budgetService, notifier)

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:id", h.getBudget)
		budgets.PUT("/:id", h.updateBudget)
		budgets.DELETE("/:id", h.deleteBudget)

		budgets.POST("/:id/items", h.addItem)
		budgets.DELETE("/:id/items/:itemID", h.removeItem)

		budgets.POST("/:id/status", h.transitionStatus)

		budgets.GET("/:id/comments", h.listComments)
		budgets.POST("/:id/comments", h.addComment)
		budgets.GET("/:id/comments/stream", h.streamComments)
	}
}

// requestMeta captures actor and transport details for the audit trail.
func requestMeta(c *gin.Context) dto.RequestMeta {
	actorID, _ := middleware.GetUserIDFromContext(c)
	return dto.RequestMeta{
		ActorID:   actorID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// createBudget godoc
// @Summary Create a budget
// @Description Creates a new draft budget with zero totals
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBudget", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create budget")
		return
	}

	logger.Info("Budget created", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget, time.Now().UTC()))
}

// listBudgets godoc
// @Summary List budgets
// @Description Retrieves budgets, newest first, optionally filtered by status or client
// @Tags budgets
// @Produce json
// @Param status query string false "Budget status filter"
// @Param client_id query string false "Client filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListBudgetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetsResponse(budgets, time.Now().UTC()))
}

// getBudget godoc
// @Summary Get a budget
// @Description Retrieves a budget with its items
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} dto.BudgetDetailResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	budget, items, err := h.budgetService.GetBudget(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetDetailResponse(budget, items, time.Now().UTC()))
}

// updateBudget godoc
// @Summary Update budget details
// @Description Updates descriptive fields of an unlocked budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 422 {object} map[string]string "Budget is locked"
// @Security BearerAuth
// @Router /budgets/{id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.UpdateBudgetDetails(c.Request.Context(), budgetID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget, time.Now().UTC()))
}

// deleteBudget godoc
// @Summary Delete a budget
// @Description Deletes a budget; its items and comments go with it
// @Tags budgets
// @Param id path string true "Budget ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	if err := h.budgetService.DeleteBudget(c.Request.Context(), budgetID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// addItem godoc
// @Summary Add an item to a budget
// @Description Adds a line item and returns the budget with refreshed totals
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param item body dto.AddBudgetItemRequest true "Item details"
// @Success 201 {object} dto.AddItemResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 422 {object} map[string]string "Budget is locked"
// @Security BearerAuth
// @Router /budgets/{id}/items [post]
func (h *budgetHandler) addItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	var req dto.AddBudgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	budget, item, err := h.budgetService.AddItem(c.Request.Context(), budgetID, req, requestMeta(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusCreated, dto.AddItemResponse{
		Budget: dto.ToBudgetResponse(budget, time.Now().UTC()),
		Item:   dto.ToBudgetItemResponse(item),
	})
}

// removeItem godoc
// @Summary Remove an item from a budget
// @Description Removes a line item and returns the budget with refreshed totals
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Param itemID path string true "Item ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget or item not found"
// @Failure 422 {object} map[string]string "Budget is locked"
// @Security BearerAuth
// @Router /budgets/{id}/items/{itemID} [delete]
func (h *budgetHandler) removeItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")
	itemID := c.Param("itemID")

	budget, err := h.budgetService.RemoveItem(c.Request.Context(), budgetID, itemID, requestMeta(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget, time.Now().UTC()))
}

// transitionStatus godoc
// @Summary Change budget status
// @Description Moves the budget along its status machine; approval locks it
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param transition body dto.TransitionBudgetStatusRequest true "Target status and optional notes"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /budgets/{id}/status [post]
func (h *budgetHandler) transitionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	var req dto.TransitionBudgetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.TransitionStatus(c.Request.Context(), budgetID, req, requestMeta(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to change budget status")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget, time.Now().UTC()))
}

// listComments godoc
// @Summary List budget comments
// @Description Retrieves the budget's comment thread oldest first
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {array} dto.BudgetCommentResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /budgets/{id}/comments [get]
func (h *budgetHandler) listComments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	comments, err := h.budgetService.ListComments(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list comments")
		return
	}
	responses := make([]dto.BudgetCommentResponse, len(comments))
	for i := range comments {
		responses[i] = dto.ToBudgetCommentResponse(&comments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// addComment godoc
// @Summary Comment on a budget
// @Description Appends a comment; client comments may pull a sent budget into revision
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param comment body dto.AddCommentRequest true "Comment content"
// @Success 201 {object} dto.BudgetCommentResponse
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /budgets/{id}/comments [post]
func (h *budgetHandler) addComment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	var req dto.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Staff replies are flagged so the revision policy ignores them.
	// Portal tokens carry the client role and count as client comments.
	role, _ := middleware.GetUserRoleFromContext(c)
	isAdminReply := role.IsStaff()

	comment, err := h.budgetService.AppendComment(c.Request.Context(), budgetID, req, isAdminReply, requestMeta(c))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToBudgetCommentResponse(comment))
}

// streamComments godoc
// @Summary Stream comment events
// @Description Server-sent events; emits one event per comment insert on the budget
// @Tags budgets
// @Produce text/event-stream
// @Param id path string true "Budget ID"
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /budgets/{id}/comments/stream [get]
func (h *budgetHandler) streamComments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("id")

	events, cancel, err := h.notifier.SubscribeComments(c.Request.Context(), budgetID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to subscribe to comments")
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("comment", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
