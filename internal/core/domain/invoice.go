package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the fiscal state of an NFe invoice.
type InvoiceStatus string

const (
	InvoiceDraft      InvoiceStatus = "draft"
	InvoiceAuthorized InvoiceStatus = "authorized"
	InvoiceCancelled  InvoiceStatus = "cancelled"
)

// Company is an issuing company registered for NFe emission.
type Company struct {
	CompanyID             string `json:"id"`
	CNPJ                  string `json:"cnpj"`
	TradeName             string `json:"trade_name"`
	CompanyName           string `json:"company_name"`
	MunicipalRegistration string `json:"municipal_registration,omitempty"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zip_code"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email"`
	IsActive              bool   `json:"is_active"`
	AuditFields
}

// Invoice is an NFe-style tax invoice. Issuer and customer data are
// denormalized onto the row so the document survives later edits to the
// client or company registers.
type Invoice struct {
	InvoiceID          string          `json:"id"`
	ClientID           string          `json:"client_id"`
	CompanyID          string          `json:"company_id,omitempty"`
	Number             string          `json:"nfe_number"`
	Series             int             `json:"nfe_series"`
	AccessKey          string          `json:"nfe_key,omitempty"` // set on authorization
	Status             InvoiceStatus   `json:"status"`
	IssueDate          time.Time       `json:"issue_date"`
	CompanyName        string          `json:"company_name"`
	CompanyDocument    string          `json:"company_document"`
	CustomerName       string          `json:"customer_name"`
	CustomerDocument   string          `json:"customer_document"`
	CustomerAddress    string          `json:"customer_address"`
	CustomerCity       string          `json:"customer_city"`
	CustomerState      string          `json:"customer_state"`
	ServiceDescription string          `json:"service_description"`
	ServiceTotal       decimal.Decimal `json:"service_total"`
	LiquidValue        decimal.Decimal `json:"liquid_value"`
	AuditFields
}

// InvoiceProduct is one line of an invoice.
type InvoiceProduct struct {
	ProductID      string          `json:"id"`
	InvoiceID      string          `json:"invoice_id"`
	SequenceNumber int             `json:"sequence_number"`
	ProductCode    string          `json:"product_code"`
	Description    string          `json:"description"`
	NCM            string          `json:"ncm,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}
