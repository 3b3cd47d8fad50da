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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
	"github.com/pedrootoniel/arsol-orcamento/internal/middleware"
	"github.com/pedrootoniel/arsol-orcamento/internal/platform/notify"
	"github.com/pedrootoniel/arsol-orcamento/internal/utils"
)

// --- Mock BudgetService ---

type MockBudgetService struct {
	mock.Mock
}

func (m *MockBudgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.Budget, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) GetBudget(ctx context.Context, budgetID string) (*domain.Budget, []domain.BudgetItem, error) {
	args := m.Called(ctx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	var items []domain.BudgetItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.BudgetItem)
	}
	return budget, items, args.Error(2)
}

func (m *MockBudgetService) ListBudgets(ctx context.Context, params dto.ListBudgetsParams) ([]domain.Budget, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Budget), args.Error(1)
}

func (m *MockBudgetService) UpdateBudgetDetails(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetService) TransitionStatus(ctx context.Context, budgetID string, req dto.TransitionBudgetStatusRequest, meta dto.RequestMeta) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID, req, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) AddItem(ctx context.Context, budgetID string, req dto.AddBudgetItemRequest, meta dto.RequestMeta) (*domain.Budget, *domain.BudgetItem, error) {
	args := m.Called(ctx, budgetID, req, meta)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	var item *domain.BudgetItem
	if args.Get(1) != nil {
		item = args.Get(1).(*domain.BudgetItem)
	}
	return budget, item, args.Error(2)
}

func (m *MockBudgetService) RemoveItem(ctx context.Context, budgetID string, itemID string, meta dto.RequestMeta) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID, itemID, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Budget), args.Error(1)
}

func (m *MockBudgetService) AppendComment(ctx context.Context, budgetID string, req dto.AddCommentRequest, isAdminReply bool, meta dto.RequestMeta) (*domain.BudgetComment, error) {
	args := m.Called(ctx, budgetID, req, isAdminReply, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BudgetComment), args.Error(1)
}

func (m *MockBudgetService) ListComments(ctx context.Context, budgetID string) ([]domain.BudgetComment, error) {
	args := m.Called(ctx, budgetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BudgetComment), args.Error(1)
}

var _ portssvc.BudgetSvcFacade = (*MockBudgetService)(nil)

// --- Test Suite ---

type BudgetHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	budgetService *MockBudgetService
	jwtSecret     string
	userID        string
}

func (suite *BudgetHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.budgetService = new(MockBudgetService)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerBudgetRoutes(v1, suite.budgetService, notify.NoopNotifier{})
}

func (suite *BudgetHandlerTestSuite) authToken(role string) string {
	token, _, err := utils.GenerateJWT(suite.userID, role, suite.jwtSecret, time.Hour, "arsol-test")
	require.NoError(suite.T(), err)
	return token
}

func (suite *BudgetHandlerTestSuite) doRequest(method, path, role string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+suite.authToken(role))
	}
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *BudgetHandlerTestSuite) TestCreateBudget_Success() {
	now := time.Now().UTC()
	budget := &domain.Budget{
		BudgetID: uuid.NewString(),
		Title:    "Instalação solar 5kWp",
		Status:   domain.BudgetDraft,
		Version:  1,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	suite.budgetService.On("CreateBudget", mock.Anything, mock.MatchedBy(func(req dto.CreateBudgetRequest) bool {
		return req.Title == "Instalação solar 5kWp"
	}), suite.userID).Return(budget, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets", "admin", gin.H{
		"title": "Instalação solar 5kWp",
	})

	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.BudgetResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(suite.T(), budget.BudgetID, resp.ID)
	assert.Equal(suite.T(), "draft", resp.Status)
	assert.Equal(suite.T(), "draft", resp.EffectiveStatus)
	suite.budgetService.AssertExpectations(suite.T())
}

func (suite *BudgetHandlerTestSuite) TestCreateBudget_MissingToken() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets", "", gin.H{"title": "Sem token"})

	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	suite.budgetService.AssertNotCalled(suite.T(), "CreateBudget", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetHandlerTestSuite) TestCreateBudget_MissingTitle() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets", "admin", gin.H{"description": "sem título"})

	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *BudgetHandlerTestSuite) TestGetBudget_NotFound() {
	budgetID := uuid.NewString()
	suite.budgetService.On("GetBudget", mock.Anything, budgetID).Return(nil, nil, apperrors.ErrNotFound).Once()

	rec := suite.doRequest(http.MethodGet, "/api/v1/budgets/"+budgetID, "admin", nil)

	assert.Equal(suite.T(), http.StatusNotFound, rec.Code)
}

func (suite *BudgetHandlerTestSuite) TestUpdateBudget_Locked() {
	budgetID := uuid.NewString()
	suite.budgetService.On("UpdateBudgetDetails", mock.Anything, budgetID, mock.Anything).
		Return(nil, apperrors.ErrBudgetLocked).Once()

	rec := suite.doRequest(http.MethodPut, "/api/v1/budgets/"+budgetID, "admin", gin.H{"title": "Novo"})

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, rec.Code)
}

func (suite *BudgetHandlerTestSuite) TestTransitionStatus_Conflict() {
	budgetID := uuid.NewString()
	suite.budgetService.On("TransitionStatus", mock.Anything, budgetID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConflict).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets/"+budgetID+"/status", "admin", gin.H{
		"status": "approved",
	})

	assert.Equal(suite.T(), http.StatusConflict, rec.Code)
}

func (suite *BudgetHandlerTestSuite) TestAddItem_ReturnsItemAndTotals() {
	budgetID := uuid.NewString()
	now := time.Now().UTC()
	budget := &domain.Budget{
		BudgetID:       budgetID,
		Title:          "Reforma elétrica",
		Status:         domain.BudgetDraft,
		TotalMaterials: decimal.NewFromInt(1500),
		Version:        2,
		AuditFields:    domain.AuditFields{CreatedAt: now, UpdatedAt: now},
	}
	item := &domain.BudgetItem{
		ItemID:    uuid.NewString(),
		BudgetID:  budgetID,
		Category:  domain.CategorySolar,
		Quantity:  decimal.NewFromInt(10),
		UnitPrice: decimal.NewFromInt(150),
		CreatedAt: now,
	}
	suite.budgetService.On("AddItem", mock.Anything, budgetID, mock.Anything,
		mock.MatchedBy(func(meta dto.RequestMeta) bool { return meta.ActorID == suite.userID })).
		Return(budget, item, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets/"+budgetID+"/items", "admin", gin.H{
		"description": "Painel solar 550W",
		"quantity":    "10",
		"unit_price":  "150",
		"category":    "solar",
	})

	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.AddItemResponse
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(suite.T(), item.ItemID, resp.Item.ID)
	assert.True(suite.T(), resp.Item.LineTotal.Equal(decimal.NewFromInt(1500)))
	assert.True(suite.T(), resp.Budget.TotalMaterials.Equal(decimal.NewFromInt(1500)))
}

func (suite *BudgetHandlerTestSuite) TestAddComment_StaffFlagSet() {
	budgetID := uuid.NewString()
	comment := &domain.BudgetComment{
		CommentID:    uuid.NewString(),
		BudgetID:     budgetID,
		AuthorID:     suite.userID,
		Content:      "Resposta da equipe",
		IsAdminReply: true,
		CreatedAt:    time.Now().UTC(),
	}
	suite.budgetService.On("AppendComment", mock.Anything, budgetID, mock.Anything, true, mock.Anything).
		Return(comment, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets/"+budgetID+"/comments", "technician", gin.H{
		"comment": "Resposta da equipe",
	})

	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	suite.budgetService.AssertExpectations(suite.T())
}

func (suite *BudgetHandlerTestSuite) TestAddComment_PortalClientNotStaff() {
	budgetID := uuid.NewString()
	comment := &domain.BudgetComment{
		CommentID:    uuid.NewString(),
		BudgetID:     budgetID,
		AuthorID:     suite.userID,
		Content:      "Podem revisar o valor da mão de obra?",
		IsAdminReply: false,
		CreatedAt:    time.Now().UTC(),
	}
	suite.budgetService.On("AppendComment", mock.Anything, budgetID, mock.Anything, false, mock.Anything).
		Return(comment, nil).Once()

	rec := suite.doRequest(http.MethodPost, "/api/v1/budgets/"+budgetID+"/comments", "client", gin.H{
		"comment": "Podem revisar o valor da mão de obra?",
	})

	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
	suite.budgetService.AssertExpectations(suite.T())
}

func TestBudgetHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetHandlerTestSuite))
}
