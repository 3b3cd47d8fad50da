package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
	"github.com/pedrootoniel/arsol-orcamento/internal/utils"
)

type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	clientRepo  portsrepo.ClientReader
}

// NewInvoiceService creates the NFe invoice service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, clientRepo portsrepo.ClientReader) portssvc.InvoiceSvcFacade {
	return &invoiceService{invoiceRepo: invoiceRepo, clientRepo: clientRepo}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice builds a draft invoice. Issuer and customer data are copied
// onto the invoice row so later register edits do not rewrite history.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, []domain.InvoiceProduct, error) {
	client, err := s.clientRepo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	issueDate := now
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}
	series := req.Series
	if series == 0 {
		series = 1
	}

	invoice := domain.Invoice{
		InvoiceID:          uuid.NewString(),
		ClientID:           client.ClientID,
		CompanyID:          req.CompanyID,
		Number:             req.Number,
		Series:             series,
		Status:             domain.InvoiceDraft,
		IssueDate:          issueDate,
		CustomerName:       client.Name,
		CustomerDocument:   client.Document,
		CustomerAddress:    client.Address,
		CustomerCity:       client.City,
		CustomerState:      client.State,
		ServiceDescription: req.ServiceDescription,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if req.CompanyID != "" {
		companies, err := s.invoiceRepo.ListCompanies(ctx, false)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load issuing companies: %w", err)
		}
		found := false
		for i := range companies {
			if companies[i].CompanyID == req.CompanyID {
				invoice.CompanyName = companies[i].CompanyName
				invoice.CompanyDocument = companies[i].CNPJ
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: issuing company %s", apperrors.ErrNotFound, req.CompanyID)
		}
	}

	products := make([]domain.InvoiceProduct, len(req.Products))
	total := decimal.Zero
	for i, p := range req.Products {
		if p.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: product quantity must be positive", apperrors.ErrValidation)
		}
		if p.UnitPrice.IsNegative() {
			return nil, nil, fmt.Errorf("%w: product unit price must not be negative", apperrors.ErrValidation)
		}
		lineTotal := p.Quantity.Mul(p.UnitPrice)
		products[i] = domain.InvoiceProduct{
			ProductID:      uuid.NewString(),
			InvoiceID:      invoice.InvoiceID,
			SequenceNumber: i + 1,
			ProductCode:    p.ProductCode,
			Description:    p.Description,
			NCM:            p.NCM,
			Quantity:       p.Quantity,
			UnitPrice:      p.UnitPrice,
			Total:          lineTotal,
		}
		total = total.Add(lineTotal)
	}
	invoice.ServiceTotal = total
	invoice.LiquidValue = total

	if err := s.invoiceRepo.SaveInvoiceWithProducts(ctx, invoice, products); err != nil {
		return nil, nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return &invoice, products, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceProduct, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.invoiceRepo.FindProductsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invoice products: %w", err)
	}
	return invoice, products, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, limit int, offset int) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListInvoices(ctx, limit, offset)
}

// AuthorizeInvoice flips a draft to authorized and stamps an access key.
func (s *invoiceService) AuthorizeInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status != domain.InvoiceDraft {
		return nil, fmt.Errorf("%w: only draft invoices can be authorized, invoice is %s",
			apperrors.ErrInvalidTransition, invoice.Status)
	}

	accessKey, err := utils.GenerateAccessKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access key: %w", err)
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceAuthorized, accessKey, now); err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceAuthorized
	invoice.AccessKey = accessKey
	invoice.UpdatedAt = now

	logger.Info("Invoice authorized",
		slog.String("invoice_id", invoiceID),
		slog.String("nfe_number", invoice.Number),
	)
	return invoice, nil
}

func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Status == domain.InvoiceCancelled {
		return invoice, nil
	}

	now := time.Now().UTC()
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, invoiceID, domain.InvoiceCancelled, invoice.AccessKey, now); err != nil {
		return nil, err
	}
	invoice.Status = domain.InvoiceCancelled
	invoice.UpdatedAt = now
	return invoice, nil
}

// DeleteInvoice removes a draft. Authorized and cancelled invoices are fiscal
// records and stay.
func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string) error {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != domain.InvoiceDraft {
		return fmt.Errorf("%w: only draft invoices can be deleted", apperrors.ErrValidation)
	}
	return s.invoiceRepo.DeleteInvoice(ctx, invoiceID)
}

func (s *invoiceService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*domain.Company, error) {
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:             uuid.NewString(),
		CNPJ:                  normalizeDocument(req.CNPJ),
		TradeName:             req.TradeName,
		CompanyName:           req.CompanyName,
		MunicipalRegistration: req.MunicipalRegistration,
		Address:               req.Address,
		City:                  req.City,
		State:                 req.State,
		ZipCode:               req.ZipCode,
		Phone:                 req.Phone,
		Email:                 req.Email,
		IsActive:              true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if len(company.CNPJ) != 14 {
		return nil, fmt.Errorf("%w: CNPJ must have 14 digits", apperrors.ErrValidation)
	}

	if err := s.invoiceRepo.SaveCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	return &company, nil
}

func (s *invoiceService) ListCompanies(ctx context.Context, onlyActive bool) ([]domain.Company, error) {
	return s.invoiceRepo.ListCompanies(ctx, onlyActive)
}
