package dto

import (
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceProductRequest is one product line on a new invoice.
type InvoiceProductRequest struct {
	ProductCode string          `json:"product_code"`
	Description string          `json:"description" binding:"required"`
	NCM         string          `json:"ncm"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateInvoiceRequest issues a new NFe draft for a client.
type CreateInvoiceRequest struct {
	ClientID           string                  `json:"client_id" binding:"required"`
	CompanyID          string                  `json:"company_id"`
	Number             string                  `json:"nfe_number" binding:"required"`
	Series             int                     `json:"nfe_series"`
	IssueDate          *time.Time              `json:"issue_date"`
	ServiceDescription string                  `json:"service_description"`
	Products           []InvoiceProductRequest `json:"products" binding:"required,min=1,dive"`
}

// InvoiceProductResponse defines one product line returned for an invoice.
type InvoiceProductResponse struct {
	ID             string          `json:"id"`
	SequenceNumber int             `json:"sequence_number"`
	ProductCode    string          `json:"product_code"`
	Description    string          `json:"description"`
	NCM            string          `json:"ncm,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	ID                 string                   `json:"id"`
	ClientID           string                   `json:"client_id"`
	CompanyID          string                   `json:"company_id,omitempty"`
	Number             string                   `json:"nfe_number"`
	Series             int                      `json:"nfe_series"`
	AccessKey          string                   `json:"nfe_key,omitempty"`
	Status             string                   `json:"status"`
	IssueDate          time.Time                `json:"issue_date"`
	CompanyName        string                   `json:"company_name"`
	CompanyDocument    string                   `json:"company_document"`
	CustomerName       string                   `json:"customer_name"`
	CustomerDocument   string                   `json:"customer_document"`
	ServiceDescription string                   `json:"service_description"`
	ServiceTotal       decimal.Decimal          `json:"service_total"`
	LiquidValue        decimal.Decimal          `json:"liquid_value"`
	Products           []InvoiceProductResponse `json:"products,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

// CreateCompanyRequest registers an NFe issuing company.
type CreateCompanyRequest struct {
	CNPJ                  string `json:"cnpj" binding:"required"`
	TradeName             string `json:"trade_name" binding:"required"`
	CompanyName           string `json:"company_name" binding:"required"`
	MunicipalRegistration string `json:"municipal_registration"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	ZipCode               string `json:"zip_code"`
	Phone                 string `json:"phone"`
	Email                 string `json:"email" binding:"omitempty,email"`
}

// CompanyResponse defines the data returned for an issuing company.
type CompanyResponse struct {
	ID                    string    `json:"id"`
	CNPJ                  string    `json:"cnpj"`
	TradeName             string    `json:"trade_name"`
	CompanyName           string    `json:"company_name"`
	MunicipalRegistration string    `json:"municipal_registration,omitempty"`
	Address               string    `json:"address"`
	City                  string    `json:"city"`
	State                 string    `json:"state"`
	ZipCode               string    `json:"zip_code"`
	Phone                 string    `json:"phone"`
	Email                 string    `json:"email"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
}

// ToInvoiceProductResponse converts one product line.
func ToInvoiceProductResponse(p *domain.InvoiceProduct) InvoiceProductResponse {
	return InvoiceProductResponse{
		ID:             p.ProductID,
		SequenceNumber: p.SequenceNumber,
		ProductCode:    p.ProductCode,
		Description:    p.Description,
		NCM:            p.NCM,
		Quantity:       p.Quantity,
		UnitPrice:      p.UnitPrice,
		Total:          p.Total,
	}
}

// ToInvoiceResponse converts a domain.Invoice plus products to its DTO.
func ToInvoiceResponse(inv *domain.Invoice, products []domain.InvoiceProduct) InvoiceResponse {
	productResponses := make([]InvoiceProductResponse, len(products))
	for i := range products {
		productResponses[i] = ToInvoiceProductResponse(&products[i])
	}
	return InvoiceResponse{
		ID:                 inv.InvoiceID,
		ClientID:           inv.ClientID,
		CompanyID:          inv.CompanyID,
		Number:             inv.Number,
		Series:             inv.Series,
		AccessKey:          inv.AccessKey,
		Status:             string(inv.Status),
		IssueDate:          inv.IssueDate,
		CompanyName:        inv.CompanyName,
		CompanyDocument:    inv.CompanyDocument,
		CustomerName:       inv.CustomerName,
		CustomerDocument:   inv.CustomerDocument,
		ServiceDescription: inv.ServiceDescription,
		ServiceTotal:       inv.ServiceTotal,
		LiquidValue:        inv.LiquidValue,
		Products:           productResponses,
		CreatedAt:          inv.CreatedAt,
	}
}

// ToCompanyResponse converts a domain.Company to CompanyResponse.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:                    c.CompanyID,
		CNPJ:                  c.CNPJ,
		TradeName:             c.TradeName,
		CompanyName:           c.CompanyName,
		MunicipalRegistration: c.MunicipalRegistration,
		Address:               c.Address,
		City:                  c.City,
		State:                 c.State,
		ZipCode:               c.ZipCode,
		Phone:                 c.Phone,
		Email:                 c.Email,
		IsActive:              c.IsActive,
		CreatedAt:             c.CreatedAt,
	}
}
