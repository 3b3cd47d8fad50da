package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

type clientService struct {
	clientRepo portsrepo.ClientRepositoryFacade
	cnpjLookup portsplat.CNPJLookup
}

// NewClientService creates the client register service.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade, cnpjLookup portsplat.CNPJLookup) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo, cnpjLookup: cnpjLookup}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// normalizeDocument strips formatting from a CPF or CNPJ.
func normalizeDocument(document string) string {
	var b strings.Builder
	for _, r := range document {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	clientType := domain.ClientType(req.ClientType)
	if !clientType.IsValid() {
		return nil, fmt.Errorf("%w: unknown client type %q", apperrors.ErrValidation, req.ClientType)
	}
	document := normalizeDocument(req.Document)
	if document != "" && len(document) != 11 && len(document) != 14 {
		return nil, fmt.Errorf("%w: document must be a CPF (11 digits) or CNPJ (14 digits)", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	client := domain.Client{
		ClientID:   uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Phone:      req.Phone,
		Document:   document,
		ClientType: clientType,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Notes:      req.Notes,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save client: %w", err)
	}
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	return s.clientRepo.FindClientByID(ctx, clientID)
}

func (s *clientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, error) {
	return s.clientRepo.ListClients(ctx, portsrepo.ListClientsFilter{
		Search:     strings.TrimSpace(params.Search),
		OnlyActive: params.OnlyActive,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", apperrors.ErrValidation)
		}
		client.Name = name
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Document != nil {
		document := normalizeDocument(*req.Document)
		if document != "" && len(document) != 11 && len(document) != 14 {
			return nil, fmt.Errorf("%w: document must be a CPF (11 digits) or CNPJ (14 digits)", apperrors.ErrValidation)
		}
		client.Document = document
	}
	if req.ClientType != nil {
		clientType := domain.ClientType(*req.ClientType)
		if !clientType.IsValid() {
			return nil, fmt.Errorf("%w: unknown client type %q", apperrors.ErrValidation, *req.ClientType)
		}
		client.ClientType = clientType
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.State != nil {
		client.State = *req.State
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	client.UpdatedAt = time.Now().UTC()
	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) SetClientActive(ctx context.Context, clientID string, active bool) error {
	return s.clientRepo.SetClientActive(ctx, clientID, active, time.Now().UTC())
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	return s.clientRepo.DeleteClient(ctx, clientID)
}

func (s *clientService) LookupCNPJ(ctx context.Context, cnpj string) (*portsplat.CNPJRecord, error) {
	document := normalizeDocument(cnpj)
	if len(document) != 14 {
		return nil, fmt.Errorf("%w: CNPJ must have 14 digits", apperrors.ErrValidation)
	}
	if s.cnpjLookup == nil {
		return nil, fmt.Errorf("%w: CNPJ lookup is not configured", apperrors.ErrNotFound)
	}
	return s.cnpjLookup.Lookup(ctx, document)
}
