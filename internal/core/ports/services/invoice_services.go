package services

import (
	"context"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// InvoiceSvcFacade exposes NFe invoice and issuing company operations.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*domain.Invoice, []domain.InvoiceProduct, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, []domain.InvoiceProduct, error)
	ListInvoices(ctx context.Context, limit int, offset int) ([]domain.Invoice, error)

	// AuthorizeInvoice flips a draft to authorized and stamps the access key.
	AuthorizeInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	CancelInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, invoiceID string) error

	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest) (*domain.Company, error)
	ListCompanies(ctx context.Context, onlyActive bool) ([]domain.Company, error)
}
