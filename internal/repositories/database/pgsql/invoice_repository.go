package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

// newPgxInvoiceRepository creates a new repository for NFe invoices.
func newPgxInvoiceRepository(pool *pgxpool.Pool) portsrepo.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, client_id, company_id, nfe_number, nfe_series, nfe_key, status, issue_date,
	company_name, company_document, customer_name, customer_document, customer_address, customer_city, customer_state,
	service_description, service_total, liquid_value, created_at, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var companyID, accessKey *string
	err := row.Scan(
		&inv.InvoiceID, &inv.ClientID, &companyID, &inv.Number, &inv.Series, &accessKey, &inv.Status, &inv.IssueDate,
		&inv.CompanyName, &inv.CompanyDocument, &inv.CustomerName, &inv.CustomerDocument,
		&inv.CustomerAddress, &inv.CustomerCity, &inv.CustomerState,
		&inv.ServiceDescription, &inv.ServiceTotal, &inv.LiquidValue, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if companyID != nil {
		inv.CompanyID = *companyID
	}
	if accessKey != nil {
		inv.AccessKey = *accessKey
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM nfe_invoices WHERE invoice_id = $1;`
	invoice, err := scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		return nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, err)
	}
	return invoice, nil
}

func (r *PgxInvoiceRepository) FindProductsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.InvoiceProduct, error) {
	query := `
		SELECT product_id, invoice_id, sequence_number, product_code, description, ncm, quantity, unit_price, total
		FROM nfe_products
		WHERE invoice_id = $1
		ORDER BY sequence_number;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products of invoice %s: %w", invoiceID, err)
	}
	defer rows.Close()

	var products []domain.InvoiceProduct
	for rows.Next() {
		var p domain.InvoiceProduct
		var ncm *string
		if err := rows.Scan(&p.ProductID, &p.InvoiceID, &p.SequenceNumber, &p.ProductCode,
			&p.Description, &ncm, &p.Quantity, &p.UnitPrice, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice product: %w", err)
		}
		if ncm != nil {
			p.NCM = *ncm
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice products: %w", err)
	}
	return products, nil
}

func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, limit int, offset int) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM nfe_invoices ORDER BY issue_date DESC, created_at DESC`
	args := []any{}
	argPos := 1
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}
	return invoices, nil
}

func (r *PgxInvoiceRepository) ListCompanies(ctx context.Context, onlyActive bool) ([]domain.Company, error) {
	query := `
		SELECT company_id, cnpj, trade_name, company_name, municipal_registration,
			address, city, state, zip_code, phone, email, is_active, created_at, updated_at
		FROM companies
	`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY trade_name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		var municipalReg *string
		if err := rows.Scan(&c.CompanyID, &c.CNPJ, &c.TradeName, &c.CompanyName, &municipalReg,
			&c.Address, &c.City, &c.State, &c.ZipCode, &c.Phone, &c.Email,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		if municipalReg != nil {
			c.MunicipalRegistration = *municipalReg
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}
	return companies, nil
}

// SaveInvoiceWithProducts inserts the invoice and its product rows in a
// single transaction.
func (r *PgxInvoiceRepository) SaveInvoiceWithProducts(ctx context.Context, invoice domain.Invoice, products []domain.InvoiceProduct) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	invoiceQuery := `
		INSERT INTO nfe_invoices (invoice_id, client_id, company_id, nfe_number, nfe_series, status, issue_date,
			company_name, company_document, customer_name, customer_document, customer_address, customer_city, customer_state,
			service_description, service_total, liquid_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	if _, err := tx.Exec(ctx, invoiceQuery,
		invoice.InvoiceID, invoice.ClientID, nullable(invoice.CompanyID), invoice.Number, invoice.Series,
		invoice.Status, invoice.IssueDate,
		invoice.CompanyName, invoice.CompanyDocument, invoice.CustomerName, invoice.CustomerDocument,
		invoice.CustomerAddress, invoice.CustomerCity, invoice.CustomerState,
		invoice.ServiceDescription, invoice.ServiceTotal, invoice.LiquidValue,
		invoice.CreatedAt, invoice.UpdatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: NFe number %s series %d already exists", apperrors.ErrDuplicate, invoice.Number, invoice.Series)
		}
		return fmt.Errorf("failed to insert invoice %s: %w", invoice.InvoiceID, err)
	}

	productQuery := `
		INSERT INTO nfe_products (product_id, invoice_id, sequence_number, product_code, description, ncm, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, p := range products {
		if _, err := tx.Exec(ctx, productQuery,
			p.ProductID, p.InvoiceID, p.SequenceNumber, p.ProductCode, p.Description,
			nullable(p.NCM), p.Quantity, p.UnitPrice, p.Total,
		); err != nil {
			return fmt.Errorf("failed to insert product %d of invoice %s: %w", p.SequenceNumber, invoice.InvoiceID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, accessKey string, now time.Time) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE nfe_invoices SET status = $1, nfe_key = $2, updated_at = $3 WHERE invoice_id = $4;`,
		status, nullable(accessKey), now, invoiceID,
	)
	if err != nil {
		return fmt.Errorf("failed to update status of invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM nfe_invoices WHERE invoice_id = $1;`, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice %s: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return nil
}

func (r *PgxInvoiceRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	query := `
		INSERT INTO companies (company_id, cnpj, trade_name, company_name, municipal_registration,
			address, city, state, zip_code, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		company.CompanyID, company.CNPJ, company.TradeName, company.CompanyName, nullable(company.MunicipalRegistration),
		company.Address, company.City, company.State, company.ZipCode, company.Phone, company.Email,
		company.IsActive, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: company with CNPJ %s already exists", apperrors.ErrDuplicate, company.CNPJ)
		}
		return fmt.Errorf("failed to save company %s: %w", company.CompanyID, err)
	}
	return nil
}
