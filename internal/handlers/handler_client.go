package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
	"github.com/pedrootoniel/arsol-orcamento/internal/platform/config"
	"github.com/pedrootoniel/arsol-orcamento/internal/utils"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	cfg           *config.Config
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cfg *config.Config, cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{cfg: cfg, clientService: cs}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, cfg *config.Config, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(cfg, clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.PATCH("/:id/active", h.setClientActive)
		clients.DELETE("/:id", h.deleteClient)
		clients.POST("/:id/portal-token", middleware.RequireAdmin(), h.issuePortalToken)
	}

	// Registry lookup used to prefill the company client form.
	rg.GET("/cnpj/:cnpj", h.lookupCNPJ)
}

// createClient godoc
// @Summary Register a client
// @Description Registers a residential, commercial or industrial client
// @Tags clients
// @Accept json
// @Produce json
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Document already registered"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create client")
		return
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Retrieves clients ordered by name, optionally filtered by search text
// @Tags clients
// @Produce json
// @Param search query string false "Matches name, email or document"
// @Param only_active query bool false "Hide deactivated clients"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.ClientResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	clients, err := h.clientService.ListClients(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, dto.ToListClientsResponse(clients))
}

// getClient godoc
// @Summary Get a client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// updateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// setClientActive godoc
// @Summary Activate or deactivate a client
// @Description Soft delete; deactivated clients disappear from active listings
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Param active query bool true "New active state"
// @Success 204 "Updated"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id}/active [patch]
func (h *clientHandler) setClientActive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	active, err := strconv.ParseBool(c.Query("active"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'active' must be true or false"})
		return
	}

	if err := h.clientService.SetClientActive(c.Request.Context(), c.Param("id"), active); err != nil {
		respondServiceError(c, logger, err, "Failed to update client")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteClient godoc
// @Summary Delete a client
// @Description Hard delete; fails while budgets or invoices still reference the client
// @Tags clients
// @Param id path string true "Client ID"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Client still referenced"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupCNPJ godoc
// @Summary Look up a CNPJ
// @Description Queries the public registry to prefill company client data
// @Tags clients
// @Produce json
// @Param cnpj path string true "CNPJ, digits only or formatted"
// @Success 200 {object} platform.CNPJRecord
// @Failure 404 {object} map[string]string "CNPJ not found"
// @Security BearerAuth
// @Router /cnpj/{cnpj} [get]
func (h *clientHandler) lookupCNPJ(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	record, err := h.clientService.LookupCNPJ(c.Request.Context(), c.Param("cnpj"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to look up CNPJ")
		return
	}
	c.JSON(http.StatusOK, record)
}

// issuePortalToken godoc
// @Summary Issue a portal token for a client
// @Description Creates a client-scoped JWT so the customer can read and comment on budgets
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} dto.PortalTokenResponse
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 422 {object} map[string]string "Client is inactive"
// @Security BearerAuth
// @Router /clients/{id}/portal-token [post]
func (h *clientHandler) issuePortalToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	client, err := h.clientService.GetClientByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load client")
		return
	}
	if !client.IsActive {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Client is inactive"})
		return
	}

	token, expiresAt, err := utils.GenerateJWT(client.ClientID, string(domain.RoleClient), h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign portal token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Info("Portal token issued", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusOK, dto.PortalTokenResponse{Token: token, ExpiresAt: expiresAt})
}
