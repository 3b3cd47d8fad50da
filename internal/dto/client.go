package dto

import (
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// CreateClientRequest defines the data needed to register a client.
type CreateClientRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone"`
	Document   string `json:"document"`
	ClientType string `json:"client_type" binding:"required,oneof=residential commercial industrial"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Notes      string `json:"notes"`
}

// UpdateClientRequest defines the fields open for update.
type UpdateClientRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Phone      *string `json:"phone"`
	Document   *string `json:"document"`
	ClientType *string `json:"client_type" binding:"omitempty,oneof=residential commercial industrial"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Notes      *string `json:"notes"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Search     string `form:"search"`
	OnlyActive bool   `form:"only_active"`
	Limit      int    `form:"limit,default=20"`
	Offset     int    `form:"offset,default=0"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Document   string    `json:"document"`
	ClientType string    `json:"client_type"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	Notes      string    `json:"notes"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToClientResponse converts a domain.Client to ClientResponse.
func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ClientID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Document:   c.Document,
		ClientType: string(c.ClientType),
		Address:    c.Address,
		City:       c.City,
		State:      c.State,
		Notes:      c.Notes,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToListClientsResponse converts a client slice to response DTOs.
func ToListClientsResponse(clients []domain.Client) []ClientResponse {
	responses := make([]ClientResponse, len(clients))
	for i := range clients {
		responses[i] = ToClientResponse(&clients[i])
	}
	return responses
}
