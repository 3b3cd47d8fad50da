package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

// serviceOrderHandler handles HTTP requests related to service orders.
type serviceOrderHandler struct {
	orderService portssvc.ServiceOrderSvcFacade
}

func newServiceOrderHandler(os portssvc.ServiceOrderSvcFacade) *serviceOrderHandler {
	return &serviceOrderHandler{orderService: os}
}

// registerServiceOrderRoutes registers routes related to service orders.
func registerServiceOrderRoutes(rg *gin.RouterGroup, orderService portssvc.ServiceOrderSvcFacade) {
	h := newServiceOrderHandler(orderService)

	orders := rg.Group("/service-orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrder)
		orders.POST("/:id/status", h.changeStatus)
	}
}

// createOrder godoc
// @Summary Open a service order
// @Description Opens an execution record from an approved budget and reserves an order number
// @Tags service-orders
// @Accept json
// @Produce json
// @Param order body dto.CreateServiceOrderRequest true "Order details"
// @Success 201 {object} dto.ServiceOrderResponse
// @Failure 400 {object} map[string]string "Budget is not approved"
// @Failure 404 {object} map[string]string "Budget not found"
// @Security BearerAuth
// @Router /service-orders [post]
func (h *serviceOrderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)
	order, err := h.orderService.CreateOrder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to open service order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToServiceOrderResponse(order))
}

// listOrders godoc
// @Summary List service orders
// @Tags service-orders
// @Produce json
// @Param search query string false "Matches order number or description"
// @Param status query string false "Order status filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.ServiceOrderResponse
// @Security BearerAuth
// @Router /service-orders [get]
func (h *serviceOrderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list service orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrdersResponse(orders))
}

// getOrder godoc
// @Summary Get a service order
// @Tags service-orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.ServiceOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /service-orders/{id} [get]
func (h *serviceOrderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	order, err := h.orderService.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve service order")
		return
	}
	c.JSON(http.StatusOK, dto.ToServiceOrderResponse(order))
}

// updateOrder godoc
// @Summary Update a service order
// @Tags service-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param order body dto.UpdateServiceOrderRequest true "Fields to update"
// @Success 200 {object} dto.ServiceOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /service-orders/{id} [put]
func (h *serviceOrderHandler) updateOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update service order")
		return
	}
	c.JSON(http.StatusOK, dto.ToServiceOrderResponse(order))
}

// changeStatus godoc
// @Summary Change service order status
// @Description pending -> in_progress -> completed, with cancellation from either active state
// @Tags service-orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param transition body dto.ChangeOrderStatusRequest true "Target status"
// @Success 200 {object} dto.ServiceOrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 422 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /service-orders/{id}/status [post]
func (h *serviceOrderHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	order, err := h.orderService.ChangeOrderStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to change order status")
		return
	}
	c.JSON(http.StatusOK, dto.ToServiceOrderResponse(order))
}
