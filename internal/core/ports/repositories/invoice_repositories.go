package repositories

import (
	"context"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
)

// InvoiceReader defines read operations for NFe invoices and issuers.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	FindProductsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceProduct, error)
	ListInvoices(ctx context.Context, limit int, offset int) ([]domain.Invoice, error)
	ListCompanies(ctx context.Context, onlyActive bool) ([]domain.Company, error)
}

// InvoiceWriter defines write operations for NFe invoices and issuers.
type InvoiceWriter interface {
	// SaveInvoiceWithProducts inserts the invoice and its product rows in a
	// single transaction.
	SaveInvoiceWithProducts(ctx context.Context, invoice domain.Invoice, products []domain.InvoiceProduct) error

	// UpdateInvoiceStatus flips the fiscal status; the access key is stamped
	// on authorization.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, accessKey string, now time.Time) error

	DeleteInvoice(ctx context.Context, invoiceID string) error
	SaveCompany(ctx context.Context, company domain.Company) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
