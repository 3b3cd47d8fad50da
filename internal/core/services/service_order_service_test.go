package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// --- Mock ServiceOrderRepository ---

type MockServiceOrderRepository struct {
	mock.Mock
}

func (m *MockServiceOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.ServiceOrder, error) {
	args := m.Called(ctx, orderID)
	var order *domain.ServiceOrder
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.ServiceOrder)
	}
	return order, args.Error(1)
}

func (m *MockServiceOrderRepository) ListOrders(ctx context.Context, filter portsrepo.ListOrdersFilter) ([]domain.ServiceOrder, error) {
	args := m.Called(ctx, filter)
	var orders []domain.ServiceOrder
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.ServiceOrder)
	}
	return orders, args.Error(1)
}

func (m *MockServiceOrderRepository) NextOrderNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockServiceOrderRepository) SaveOrder(ctx context.Context, order domain.ServiceOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockServiceOrderRepository) UpdateOrder(ctx context.Context, order domain.ServiceOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// --- Test Suite ---

type ServiceOrderServiceTestSuite struct {
	suite.Suite
	orderRepo  *MockServiceOrderRepository
	budgetRepo *MockBudgetRepository
	service    portssvc.ServiceOrderSvcFacade
	ctx        context.Context
}

func (suite *ServiceOrderServiceTestSuite) SetupTest() {
	suite.orderRepo = new(MockServiceOrderRepository)
	suite.budgetRepo = new(MockBudgetRepository)
	suite.service = services.NewServiceOrderService(suite.orderRepo, suite.budgetRepo)
	suite.ctx = context.Background()
}

func (suite *ServiceOrderServiceTestSuite) approvedBudget() *domain.Budget {
	return &domain.Budget{
		BudgetID: uuid.NewString(),
		ClientID: uuid.NewString(),
		Title:    "Instalação solar 5kWp",
		Status:   domain.BudgetApproved,
		IsLocked: true,
		Version:  4,
	}
}

func (suite *ServiceOrderServiceTestSuite) TestCreateOrder_FromApprovedBudget() {
	budget := suite.approvedBudget()
	year := time.Now().UTC().Year()
	orderNumber := fmt.Sprintf("OS-%d-0007", year)

	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.orderRepo.On("NextOrderNumber", suite.ctx, year).Return(orderNumber, nil).Once()
	suite.orderRepo.On("SaveOrder", suite.ctx, mock.MatchedBy(func(o domain.ServiceOrder) bool {
		return o.OrderNumber == orderNumber &&
			o.BudgetID == budget.BudgetID &&
			o.ClientID == budget.ClientID &&
			o.Status == domain.OrderPending
	})).Return(nil).Once()

	order, err := suite.service.CreateOrder(suite.ctx, dto.CreateServiceOrderRequest{
		BudgetID: budget.BudgetID,
	}, "admin-1")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), orderNumber, order.OrderNumber)
	assert.Equal(suite.T(), budget.Title, order.Description, "description falls back to the budget title")
	suite.orderRepo.AssertExpectations(suite.T())
}

func (suite *ServiceOrderServiceTestSuite) TestCreateOrder_BudgetNotApproved() {
	budget := suite.approvedBudget()
	budget.Status = domain.BudgetSent
	budget.IsLocked = false
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()

	order, err := suite.service.CreateOrder(suite.ctx, dto.CreateServiceOrderRequest{
		BudgetID: budget.BudgetID,
	}, "admin-1")

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.orderRepo.AssertNotCalled(suite.T(), "NextOrderNumber", mock.Anything, mock.Anything)
}

func (suite *ServiceOrderServiceTestSuite) TestCreateOrder_BudgetMissing() {
	budgetID := uuid.NewString()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budgetID).Return(nil, apperrors.ErrNotFound).Once()

	order, err := suite.service.CreateOrder(suite.ctx, dto.CreateServiceOrderRequest{BudgetID: budgetID}, "admin-1")

	assert.Nil(suite.T(), order)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *ServiceOrderServiceTestSuite) TestChangeOrderStatus_AllowedEdge() {
	order := &domain.ServiceOrder{
		OrderID:     uuid.NewString(),
		OrderNumber: "OS-2026-0001",
		Status:      domain.OrderPending,
	}
	suite.orderRepo.On("FindOrderByID", suite.ctx, order.OrderID).Return(order, nil).Once()
	suite.orderRepo.On("UpdateOrder", suite.ctx, mock.MatchedBy(func(o domain.ServiceOrder) bool {
		return o.Status == domain.OrderInProgress
	})).Return(nil).Once()

	updated, err := suite.service.ChangeOrderStatus(suite.ctx, order.OrderID, dto.ChangeOrderStatusRequest{
		Status: "in_progress",
	})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.OrderInProgress, updated.Status)
	suite.orderRepo.AssertExpectations(suite.T())
}

func (suite *ServiceOrderServiceTestSuite) TestChangeOrderStatus_CompletedIsTerminal() {
	order := &domain.ServiceOrder{
		OrderID: uuid.NewString(),
		Status:  domain.OrderCompleted,
	}
	suite.orderRepo.On("FindOrderByID", suite.ctx, order.OrderID).Return(order, nil).Once()

	updated, err := suite.service.ChangeOrderStatus(suite.ctx, order.OrderID, dto.ChangeOrderStatusRequest{
		Status: "in_progress",
	})

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidTransition)
	suite.orderRepo.AssertNotCalled(suite.T(), "UpdateOrder", mock.Anything, mock.Anything)
}

func (suite *ServiceOrderServiceTestSuite) TestListOrders_UnknownStatus() {
	orders, err := suite.service.ListOrders(suite.ctx, dto.ListOrdersParams{Status: "bogus"})

	assert.Nil(suite.T(), orders)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func TestServiceOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceOrderServiceTestSuite))
}
