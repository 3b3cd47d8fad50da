package cnpjlookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
)

// BrasilAPIClient queries the BrasilAPI public registry for CNPJ data.
type BrasilAPIClient struct {
	baseURL string
	client  *http.Client
}

// New creates a client against the given base URL, e.g.
// https://brasilapi.com.br/api/cnpj/v1.
func New(baseURL string, timeout time.Duration) *BrasilAPIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BrasilAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ portsplat.CNPJLookup = (*BrasilAPIClient)(nil)

type brasilAPIResponse struct {
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"razao_social"`
	NomeFantasia string `json:"nome_fantasia"`
	Logradouro   string `json:"logradouro"`
	Numero       string `json:"numero"`
	Bairro       string `json:"bairro"`
	Municipio    string `json:"municipio"`
	UF           string `json:"uf"`
	CEP          string `json:"cep"`
	DDDTelefone1 string `json:"ddd_telefone_1"`
	Email        string `json:"email"`
}

// Lookup fetches registry data for a 14-digit CNPJ.
func (c *BrasilAPIClient) Lookup(ctx context.Context, cnpj string) (*portsplat.CNPJRecord, error) {
	url := c.baseURL + "/" + cnpj
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CNPJ lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CNPJ lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: CNPJ %s", apperrors.ErrNotFound, cnpj)
	default:
		return nil, fmt.Errorf("CNPJ lookup returned status %d", resp.StatusCode)
	}

	var body brasilAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode CNPJ lookup response: %w", err)
	}

	address := body.Logradouro
	if body.Numero != "" {
		address = address + ", " + body.Numero
	}
	if body.Bairro != "" {
		address = address + " - " + body.Bairro
	}

	return &portsplat.CNPJRecord{
		CNPJ:        body.CNPJ,
		CompanyName: body.RazaoSocial,
		TradeName:   body.NomeFantasia,
		Address:     address,
		City:        body.Municipio,
		State:       body.UF,
		ZipCode:     body.CEP,
		Phone:       body.DDDTelefone1,
		Email:       body.Email,
	}, nil
}
