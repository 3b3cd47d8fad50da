package cnpjlookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
)

func TestLookup_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/12345678000195", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"cnpj": "12345678000195",
			"razao_social": "ARSOL ENERGIA SOLAR LTDA",
			"nome_fantasia": "ArSol",
			"logradouro": "Rua das Placas",
			"numero": "100",
			"bairro": "Centro",
			"municipio": "Fortaleza",
			"uf": "CE",
			"cep": "60000000",
			"ddd_telefone_1": "85999990000",
			"email": "contato@arsol.com.br"
		}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	record, err := client.Lookup(context.Background(), "12345678000195")

	require.NoError(t, err)
	assert.Equal(t, "ARSOL ENERGIA SOLAR LTDA", record.CompanyName)
	assert.Equal(t, "ArSol", record.TradeName)
	assert.Equal(t, "Rua das Placas, 100 - Centro", record.Address)
	assert.Equal(t, "Fortaleza", record.City)
	assert.Equal(t, "CE", record.State)
}

func TestLookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Lookup(context.Background(), "00000000000000")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestLookup_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Lookup(context.Background(), "12345678000195")

	assert.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
}
