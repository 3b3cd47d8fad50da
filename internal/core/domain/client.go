package domain

// ClientType classifies a client by the kind of installation they contract.
type ClientType string

const (
	ClientResidential ClientType = "residential"
	ClientCommercial  ClientType = "commercial"
	ClientIndustrial  ClientType = "industrial"
)

// IsValid reports whether t is a known client type.
func (t ClientType) IsValid() bool {
	switch t {
	case ClientResidential, ClientCommercial, ClientIndustrial:
		return true
	}
	return false
}

// Client is a customer of the business; budgets and invoices reference it.
type Client struct {
	ClientID   string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Document   string     `json:"document"` // CPF or CNPJ, digits only
	ClientType ClientType `json:"client_type"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	Notes      string     `json:"notes"`
	IsActive   bool       `json:"is_active"`
	AuditFields
}
