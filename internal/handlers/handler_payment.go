package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
)

// paymentHandler handles HTTP requests related to the financial ledger.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: ps}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("", h.listPayments)
		payments.GET("/summary", h.summary)
		payments.GET("/:id", h.getPayment)
		payments.POST("/:id/pay", h.markPaid)
		payments.POST("/:id/cancel", h.cancelPayment)
	}
}

// createPayment godoc
// @Summary Register a receivable
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment, time.Now().UTC()))
}

// listPayments godoc
// @Summary List payments
// @Description Retrieves the ledger ordered by due date; overdue is computed, not stored
// @Tags payments
// @Produce json
// @Param status query string false "pending, paid, overdue or cancelled"
// @Param period query string false "overdue, this_month or next_30_days"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.PaymentResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments, time.Now().UTC()))
}

// summary godoc
// @Summary Ledger summary
// @Description Returns receivable, received, overdue and next-30-days sums
// @Tags payments
// @Produce json
// @Success 200 {object} domain.PaymentsSummary
// @Security BearerAuth
// @Router /payments/summary [get]
func (h *paymentHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.paymentService.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to summarize payments")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{id} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payment, err := h.paymentService.GetPaymentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, time.Now().UTC()))
}

// markPaid godoc
// @Summary Settle a payment
// @Description Stamps the payment date and flips status to paid
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 422 {object} map[string]string "Payment is cancelled"
// @Security BearerAuth
// @Router /payments/{id}/pay [post]
func (h *paymentHandler) markPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	payment, err := h.paymentService.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to settle payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment, time.Now().UTC()))
}

// cancelPayment godoc
// @Summary Cancel a payment
// @Tags payments
// @Param id path string true "Payment ID"
// @Success 204 "Cancelled"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 422 {object} map[string]string "Payment already settled"
// @Security BearerAuth
// @Router /payments/{id}/cancel [post]
func (h *paymentHandler) cancelPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.paymentService.CancelPayment(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to cancel payment")
		return
	}
	c.Status(http.StatusNoContent)
}
