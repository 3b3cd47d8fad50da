package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// ClientSvcFacade exposes client register operations.
type ClientSvcFacade interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error)
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	SetClientActive(ctx context.Context, clientID string, active bool) error
	DeleteClient(ctx context.Context, clientID string) error

	// LookupCNPJ fetches registry data to prefill a company client form.
	LookupCNPJ(ctx context.Context, cnpj string) (*portsplat.CNPJRecord, error)
}
