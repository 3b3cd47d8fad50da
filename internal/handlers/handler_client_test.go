package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
	"github.com/pedrootoniel/arsol-orcamento/internal/platform/config"
	"github.com/pedrootoniel/arsol-orcamento/internal/utils"
)

// --- Mock ClientService ---

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context, params dto.ListClientsParams) ([]domain.Client, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, clientID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) SetClientActive(ctx context.Context, clientID string, active bool) error {
	args := m.Called(ctx, clientID, active)
	return args.Error(0)
}

func (m *MockClientService) DeleteClient(ctx context.Context, clientID string) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func (m *MockClientService) LookupCNPJ(ctx context.Context, cnpj string) (*portsplat.CNPJRecord, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsplat.CNPJRecord), args.Error(1)
}

var _ portssvc.ClientSvcFacade = (*MockClientService)(nil)

// --- Test Suite ---

type ClientHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	clientService *MockClientService
	cfg           *config.Config
	userID        string
}

func (suite *ClientHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "arsol-test",
	}
	suite.userID = uuid.NewString()

	suite.clientService = new(MockClientService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.cfg.JWTSecret))
	registerClientRoutes(v1, suite.cfg, suite.clientService)
}

func (suite *ClientHandlerTestSuite) doRequest(method, path, role string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := utils.GenerateJWT(suite.userID, role, suite.cfg.JWTSecret, time.Hour, "arsol-test")
		require.NoError(suite.T(), err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *ClientHandlerTestSuite) activeClient() *domain.Client {
	return &domain.Client{
		ClientID:   uuid.NewString(),
		Name:       "Condomínio Sol Nascente",
		Email:      "sindico@solnascente.com.br",
		ClientType: domain.ClientCommercial,
		IsActive:   true,
	}
}

func (suite *ClientHandlerTestSuite) TestIssuePortalToken_TokenCarriesClientRole() {
	client := suite.activeClient()
	suite.clientService.On("GetClientByID", mock.Anything, client.ClientID).Return(client, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/clients/"+client.ClientID+"/portal-token", "admin", nil)

	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.PortalTokenResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := utils.ParseAndValidateJWT(resp.Token, suite.cfg.JWTSecret)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), client.ClientID, claims.Subject)
	assert.Equal(suite.T(), string(domain.RoleClient), claims.Role)
	suite.clientService.AssertExpectations(suite.T())
}

func (suite *ClientHandlerTestSuite) TestIssuePortalToken_RequiresAdmin() {
	clientID := uuid.NewString()

	rec := suite.doRequest(http.MethodPost, "/api/v1/clients/"+clientID+"/portal-token", "technician", nil)

	assert.Equal(suite.T(), http.StatusForbidden, rec.Code)
	suite.clientService.AssertNotCalled(suite.T(), "GetClientByID", mock.Anything, mock.Anything)
}

func (suite *ClientHandlerTestSuite) TestIssuePortalToken_InactiveClient() {
	client := suite.activeClient()
	client.IsActive = false
	suite.clientService.On("GetClientByID", mock.Anything, client.ClientID).Return(client, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/clients/"+client.ClientID+"/portal-token", "admin", nil)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (suite *ClientHandlerTestSuite) TestIssuePortalToken_UnknownClient() {
	clientID := uuid.NewString()
	suite.clientService.On("GetClientByID", mock.Anything, clientID).Return(nil, apperrors.ErrNotFound).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/clients/"+clientID+"/portal-token", "admin", nil)

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func TestClientHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ClientHandlerTestSuite))
}
