package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// ListClientsFilter narrows a client listing.
type ListClientsFilter struct {
	Search     string // matches name, email or document
	OnlyActive bool
	Limit      int
	Offset     int
}

// ClientReader defines read operations for client data.
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, filter ListClientsFilter) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data.
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error
	UpdateClient(ctx context.Context, client domain.Client) error

	// SetClientActive toggles the soft-delete flag.
	SetClientActive(ctx context.Context, clientID string, active bool, now time.Time) error

	DeleteClient(ctx context.Context, clientID string) error
}

// ClientRepositoryFacade combines all client repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
