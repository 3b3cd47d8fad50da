package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pedrootoniel/arsol-orcamento/internal/apperrors"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/domain"
	portsplat "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/platform"
	portsrepo "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/repositories"
	portssvc "github.com/pedrootoniel/arsol-orcamento/internal/core/ports/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/core/services"
	"github.com/pedrootoniel/arsol-orcamento/internal/dto"
)

// --- Mock BudgetRepository ---

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.Budget, error) {
	args := m.Called(ctx, budgetID)
	var budget *domain.Budget
	if args.Get(0) != nil {
		budget = args.Get(0).(*domain.Budget)
	}
	return budget, args.Error(1)
}

func (m *MockBudgetRepository) FindItemsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetItem, error) {
	args := m.Called(ctx, budgetID)
	var items []domain.BudgetItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.BudgetItem)
	}
	return items, args.Error(1)
}

func (m *MockBudgetRepository) ListBudgets(ctx context.Context, filter portsrepo.ListBudgetsFilter) ([]domain.Budget, error) {
	args := m.Called(ctx, filter)
	var budgets []domain.Budget
	if args.Get(0) != nil {
		budgets = args.Get(0).([]domain.Budget)
	}
	return budgets, args.Error(1)
}

func (m *MockBudgetRepository) SaveBudget(ctx context.Context, budget domain.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetDetails(ctx context.Context, budget domain.Budget, expectedVersion int64) error {
	args := m.Called(ctx, budget, expectedVersion)
	return args.Error(0)
}

func (m *MockBudgetRepository) UpdateBudgetStatus(ctx context.Context, budget domain.Budget, expectedVersion int64) error {
	args := m.Called(ctx, budget, expectedVersion)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveItemWithTotals(ctx context.Context, item domain.BudgetItem, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error {
	args := m.Called(ctx, item, totals, expectedVersion, now)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteItemWithTotals(ctx context.Context, budgetID string, itemID string, totals domain.BudgetTotals, expectedVersion int64, now time.Time) error {
	args := m.Called(ctx, budgetID, itemID, totals, expectedVersion, now)
	return args.Error(0)
}

func (m *MockBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	args := m.Called(ctx, budgetID)
	return args.Error(0)
}

func (m *MockBudgetRepository) SaveComment(ctx context.Context, comment domain.BudgetComment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockBudgetRepository) FindCommentsByBudgetID(ctx context.Context, budgetID string) ([]domain.BudgetComment, error) {
	args := m.Called(ctx, budgetID)
	var comments []domain.BudgetComment
	if args.Get(0) != nil {
		comments = args.Get(0).([]domain.BudgetComment)
	}
	return comments, args.Error(1)
}

// --- Mock AuditLogRepository ---

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListAuditLogsByEntity(ctx context.Context, entityType string, entityID string, limit int) ([]domain.AuditLog, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	var logs []domain.AuditLog
	if args.Get(0) != nil {
		logs = args.Get(0).([]domain.AuditLog)
	}
	return logs, args.Error(1)
}

// --- Mock IPResolver ---

type MockIPResolver struct {
	mock.Mock
}

func (m *MockIPResolver) ResolvePublicIP(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// --- Mock ChangeNotifier ---

type MockChangeNotifier struct {
	mock.Mock
}

func (m *MockChangeNotifier) PublishCommentAdded(ctx context.Context, event portsplat.CommentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockChangeNotifier) SubscribeComments(ctx context.Context, budgetID string) (<-chan portsplat.CommentEvent, func(), error) {
	args := m.Called(ctx, budgetID)
	var events <-chan portsplat.CommentEvent
	if args.Get(0) != nil {
		events = args.Get(0).(<-chan portsplat.CommentEvent)
	}
	var cancel func()
	if args.Get(1) != nil {
		cancel = args.Get(1).(func())
	}
	return events, cancel, args.Error(2)
}

// --- Test Suite ---

type BudgetServiceTestSuite struct {
	suite.Suite
	budgetRepo *MockBudgetRepository
	auditRepo  *MockAuditLogRepository
	ipResolver *MockIPResolver
	notifier   *MockChangeNotifier
	service    portssvc.BudgetSvcFacade
	ctx        context.Context
	meta       dto.RequestMeta
}

func (suite *BudgetServiceTestSuite) SetupTest() {
	suite.budgetRepo = new(MockBudgetRepository)
	suite.auditRepo = new(MockAuditLogRepository)
	suite.ipResolver = new(MockIPResolver)
	suite.notifier = new(MockChangeNotifier)
	suite.service = services.NewBudgetService(
		suite.budgetRepo,
		suite.auditRepo,
		suite.ipResolver,
		suite.notifier,
		services.BudgetServiceConfig{
			CommentsTriggerRevision: true,
			DefaultValidityDays:     30,
			IPLookupTimeout:         time.Second,
		},
	)
	suite.ctx = context.Background()
	suite.meta = dto.RequestMeta{
		ActorID:   uuid.NewString(),
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
	}
}

// serviceWith rebuilds the service over the suite mocks with different
// workflow knobs.
func (suite *BudgetServiceTestSuite) serviceWith(cfg services.BudgetServiceConfig) portssvc.BudgetSvcFacade {
	return services.NewBudgetService(suite.budgetRepo, suite.auditRepo, suite.ipResolver, suite.notifier, cfg)
}

func (suite *BudgetServiceTestSuite) sentBudget() *domain.Budget {
	now := time.Now().UTC()
	validity := now.AddDate(0, 0, 15)
	return &domain.Budget{
		BudgetID:        uuid.NewString(),
		ClientID:        uuid.NewString(),
		Title:           "Instalação solar 5kWp",
		Status:          domain.BudgetSent,
		ValidityDate:    &validity,
		TotalMaterials:  decimal.Zero,
		TotalLabor:      decimal.Zero,
		TotalAdditional: decimal.Zero,
		Version:         3,
		AuditFields: domain.AuditFields{
			CreatedAt: now.AddDate(0, 0, -2),
			UpdatedAt: now.AddDate(0, 0, -1),
		},
	}
}

// --- CreateBudget ---

func (suite *BudgetServiceTestSuite) TestCreateBudget_Success() {
	suite.budgetRepo.On("SaveBudget", suite.ctx, mock.AnythingOfType("domain.Budget")).Return(nil).Once()

	budget, err := suite.service.CreateBudget(suite.ctx, dto.CreateBudgetRequest{
		Title:    "  Orçamento piscina  ",
		ClientID: "client-1",
	}, "creator-1")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), budget)
	assert.Equal(suite.T(), "Orçamento piscina", budget.Title)
	assert.Equal(suite.T(), domain.BudgetDraft, budget.Status)
	assert.EqualValues(suite.T(), 1, budget.Version)
	assert.True(suite.T(), budget.GrandTotal().IsZero())
	require.NotNil(suite.T(), budget.ValidityDate, "default validity window should apply")
	assert.WithinDuration(suite.T(), time.Now().UTC().AddDate(0, 0, 30), *budget.ValidityDate, time.Minute)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_EmptyTitle() {
	budget, err := suite.service.CreateBudget(suite.ctx, dto.CreateBudgetRequest{Title: "   "}, "creator-1")

	assert.Nil(suite.T(), budget)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
	suite.budgetRepo.AssertNotCalled(suite.T(), "SaveBudget", mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_ExplicitValidityWins() {
	validity := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	suite.budgetRepo.On("SaveBudget", suite.ctx, mock.AnythingOfType("domain.Budget")).Return(nil).Once()

	budget, err := suite.service.CreateBudget(suite.ctx, dto.CreateBudgetRequest{
		Title:        "Troca de inversor",
		ValidityDate: &validity,
	}, "creator-1")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), budget.ValidityDate)
	assert.True(suite.T(), budget.ValidityDate.Equal(validity))
}

func (suite *BudgetServiceTestSuite) TestCreateBudget_NoClientNoValidity() {
	service := suite.serviceWith(services.BudgetServiceConfig{DefaultValidityDays: 0})
	suite.budgetRepo.On("SaveBudget", suite.ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.ClientID == "" && b.ValidityDate == nil
	})).Return(nil).Once()

	budget, err := service.CreateBudget(suite.ctx, dto.CreateBudgetRequest{Title: "Visita técnica"}, "creator-1")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), budget)
	assert.Empty(suite.T(), budget.ClientID)
	assert.Nil(suite.T(), budget.ValidityDate)
	suite.budgetRepo.AssertExpectations(suite.T())
}

// --- ListBudgets ---

func (suite *BudgetServiceTestSuite) TestListBudgets_UnknownStatus() {
	budgets, err := suite.service.ListBudgets(suite.ctx, dto.ListBudgetsParams{Status: "bogus"})

	assert.Nil(suite.T(), budgets)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestListBudgets_PassesFilter() {
	expected := portsrepo.ListBudgetsFilter{Status: domain.BudgetSent, ClientID: "client-1", Limit: 10, Offset: 20}
	suite.budgetRepo.On("ListBudgets", suite.ctx, expected).Return([]domain.Budget{}, nil).Once()

	_, err := suite.service.ListBudgets(suite.ctx, dto.ListBudgetsParams{
		Status: "sent", ClientID: "client-1", Limit: 10, Offset: 20,
	})

	require.NoError(suite.T(), err)
	suite.budgetRepo.AssertExpectations(suite.T())
}

// --- UpdateBudgetDetails ---

func (suite *BudgetServiceTestSuite) TestUpdateBudgetDetails_LockedBudget() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetApproved
	budget.IsLocked = true
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()

	newTitle := "Novo título"
	updated, err := suite.service.UpdateBudgetDetails(suite.ctx, budget.BudgetID, dto.UpdateBudgetRequest{Title: &newTitle})

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrBudgetLocked)
	suite.budgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetDetails", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestUpdateBudgetDetails_BumpsVersion() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("UpdateBudgetDetails", suite.ctx, mock.AnythingOfType("domain.Budget"), int64(3)).Return(nil).Once()

	newTitle := "Instalação solar 7kWp"
	updated, err := suite.service.UpdateBudgetDetails(suite.ctx, budget.BudgetID, dto.UpdateBudgetRequest{Title: &newTitle})

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Instalação solar 7kWp", updated.Title)
	assert.EqualValues(suite.T(), 4, updated.Version)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestUpdateBudgetDetails_ConcurrentChange() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("UpdateBudgetDetails", suite.ctx, mock.AnythingOfType("domain.Budget"), int64(3)).
		Return(apperrors.ErrConflict).Once()

	desc := "atualização tardia"
	updated, err := suite.service.UpdateBudgetDetails(suite.ctx, budget.BudgetID, dto.UpdateBudgetRequest{Description: &desc})

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
}

// --- AddItem / RemoveItem ---

func (suite *BudgetServiceTestSuite) TestAddItem_RecomputesTotals() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetDraft
	existing := domain.BudgetItem{
		ItemID:    uuid.NewString(),
		BudgetID:  budget.BudgetID,
		Category:  domain.CategoryLabor,
		Quantity:  decimal.NewFromInt(8),
		UnitPrice: decimal.NewFromInt(100),
	}
	budget.TotalLabor = decimal.NewFromInt(800)

	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("FindItemsByBudgetID", suite.ctx, budget.BudgetID).Return([]domain.BudgetItem{existing}, nil).Once()

	wantTotals := domain.BudgetTotals{
		Materials:  decimal.NewFromInt(1500),
		Labor:      decimal.NewFromInt(800),
		Additional: decimal.Zero,
	}
	suite.budgetRepo.On("SaveItemWithTotals", suite.ctx, mock.AnythingOfType("domain.BudgetItem"),
		mock.MatchedBy(func(t domain.BudgetTotals) bool {
			return t.Materials.Equal(wantTotals.Materials) &&
				t.Labor.Equal(wantTotals.Labor) &&
				t.Additional.Equal(wantTotals.Additional)
		}), int64(3), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	updated, item, err := suite.service.AddItem(suite.ctx, budget.BudgetID, dto.AddBudgetItemRequest{
		Description: "Painel solar 550W",
		Quantity:    decimal.NewFromInt(10),
		UnitPrice:   decimal.NewFromInt(150),
		Category:    "solar",
	}, suite.meta)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), item)
	assert.Equal(suite.T(), domain.CategorySolar, item.Category)
	assert.True(suite.T(), updated.TotalMaterials.Equal(decimal.NewFromInt(1500)))
	assert.True(suite.T(), updated.TotalLabor.Equal(decimal.NewFromInt(800)))
	assert.EqualValues(suite.T(), 4, updated.Version)
	suite.budgetRepo.AssertExpectations(suite.T())
	suite.auditRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestAddItem_LockedBudget() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetApproved
	budget.IsLocked = true
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("FindItemsByBudgetID", suite.ctx, budget.BudgetID).Return([]domain.BudgetItem{}, nil).Once()

	_, _, err := suite.service.AddItem(suite.ctx, budget.BudgetID, dto.AddBudgetItemRequest{
		Description: "Cabo flexível",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(10),
		Category:    "electrical",
	}, suite.meta)

	assert.ErrorIs(suite.T(), err, apperrors.ErrBudgetLocked)
	suite.budgetRepo.AssertNotCalled(suite.T(), "SaveItemWithTotals",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestAddItem_InvalidQuantity() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetDraft
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("FindItemsByBudgetID", suite.ctx, budget.BudgetID).Return([]domain.BudgetItem{}, nil).Once()

	_, _, err := suite.service.AddItem(suite.ctx, budget.BudgetID, dto.AddBudgetItemRequest{
		Description: "Item inválido",
		Quantity:    decimal.Zero,
		UnitPrice:   decimal.NewFromInt(10),
		Category:    "material",
	}, suite.meta)

	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestRemoveItem_NotInBudget() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetDraft
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("FindItemsByBudgetID", suite.ctx, budget.BudgetID).Return([]domain.BudgetItem{}, nil).Once()

	updated, err := suite.service.RemoveItem(suite.ctx, budget.BudgetID, uuid.NewString(), suite.meta)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.budgetRepo.AssertNotCalled(suite.T(), "DeleteItemWithTotals",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestRemoveItem_RecomputesRemaining() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetDraft
	toRemove := domain.BudgetItem{
		ItemID: uuid.NewString(), BudgetID: budget.BudgetID,
		Category: domain.CategoryMaterial, Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50),
	}
	kept := domain.BudgetItem{
		ItemID: uuid.NewString(), BudgetID: budget.BudgetID,
		Category: domain.CategoryService, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(300),
	}
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("FindItemsByBudgetID", suite.ctx, budget.BudgetID).Return([]domain.BudgetItem{toRemove, kept}, nil).Once()
	suite.budgetRepo.On("DeleteItemWithTotals", suite.ctx, budget.BudgetID, toRemove.ItemID,
		mock.MatchedBy(func(t domain.BudgetTotals) bool {
			// service items land in the additional bucket
			return t.Materials.IsZero() && t.Additional.Equal(decimal.NewFromInt(300))
		}), int64(3), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	updated, err := suite.service.RemoveItem(suite.ctx, budget.BudgetID, toRemove.ItemID, suite.meta)

	require.NoError(suite.T(), err)
	assert.True(suite.T(), updated.TotalMaterials.IsZero())
	assert.True(suite.T(), updated.TotalAdditional.Equal(decimal.NewFromInt(300)))
	suite.budgetRepo.AssertExpectations(suite.T())
}

// --- TransitionStatus ---

func (suite *BudgetServiceTestSuite) TestTransitionStatus_ApprovalLocksAndStampsIP() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.ipResolver.On("ResolvePublicIP", mock.Anything).Return("203.0.113.9", nil).Once()
	suite.budgetRepo.On("UpdateBudgetStatus", suite.ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Status == domain.BudgetApproved && b.IsLocked && b.ApprovalIP == "203.0.113.9" && b.ApprovalDate != nil
	}), int64(3)).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	updated, err := suite.service.TransitionStatus(suite.ctx, budget.BudgetID,
		dto.TransitionBudgetStatusRequest{Status: "approved", Notes: "cliente aprovou por telefone"}, suite.meta)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.BudgetApproved, updated.Status)
	assert.True(suite.T(), updated.IsLocked)
	assert.Equal(suite.T(), "cliente aprovou por telefone", updated.ApprovalNotes)
	assert.EqualValues(suite.T(), 4, updated.Version)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestTransitionStatus_IPLookupFailureRecordsUnknown() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.ipResolver.On("ResolvePublicIP", mock.Anything).Return("", errors.New("lookup timed out")).Once()
	suite.budgetRepo.On("UpdateBudgetStatus", suite.ctx, mock.AnythingOfType("domain.Budget"), int64(3)).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	updated, err := suite.service.TransitionStatus(suite.ctx, budget.BudgetID,
		dto.TransitionBudgetStatusRequest{Status: "approved"}, suite.meta)

	require.NoError(suite.T(), err, "approval must not depend on the IP lookup")
	assert.Equal(suite.T(), portsplat.UnknownIP, updated.ApprovalIP)
}

func (suite *BudgetServiceTestSuite) TestTransitionStatus_RejectionRecordsReason() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("UpdateBudgetStatus", suite.ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Status == domain.BudgetRejected && !b.IsLocked && b.RejectionDate != nil
	}), int64(3)).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()

	updated, err := suite.service.TransitionStatus(suite.ctx, budget.BudgetID,
		dto.TransitionBudgetStatusRequest{Status: "rejected", Notes: "preço acima do esperado"}, suite.meta)

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "preço acima do esperado", updated.RejectionReason)
}

func (suite *BudgetServiceTestSuite) TestTransitionStatus_InvalidEdge() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetDraft
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()

	updated, err := suite.service.TransitionStatus(suite.ctx, budget.BudgetID,
		dto.TransitionBudgetStatusRequest{Status: "approved"}, suite.meta)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrInvalidTransition)
	suite.budgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestTransitionStatus_DraftNotRequestable() {
	updated, err := suite.service.TransitionStatus(suite.ctx, uuid.NewString(),
		dto.TransitionBudgetStatusRequest{Status: "draft"}, suite.meta)

	assert.Nil(suite.T(), updated)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

// --- Comments ---

func (suite *BudgetServiceTestSuite) TestAppendComment_ClientCommentReopensSentBudget() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("SaveComment", suite.ctx, mock.AnythingOfType("domain.BudgetComment")).Return(nil).Once()
	suite.budgetRepo.On("UpdateBudgetStatus", suite.ctx, mock.MatchedBy(func(b domain.Budget) bool {
		return b.Status == domain.BudgetRevision
	}), int64(3)).Return(nil).Once()
	suite.auditRepo.On("SaveAuditLog", suite.ctx, mock.AnythingOfType("domain.AuditLog")).Return(nil).Once()
	suite.notifier.On("PublishCommentAdded", suite.ctx, mock.AnythingOfType("platform.CommentEvent")).Return(nil).Once()

	comment, err := suite.service.AppendComment(suite.ctx, budget.BudgetID,
		dto.AddCommentRequest{Content: "Pode detalhar o prazo de instalação?"}, false, suite.meta)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), comment)
	assert.False(suite.T(), comment.IsAdminReply)
	suite.budgetRepo.AssertExpectations(suite.T())
}

func (suite *BudgetServiceTestSuite) TestAppendComment_AdminReplyDoesNotReopen() {
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("SaveComment", suite.ctx, mock.AnythingOfType("domain.BudgetComment")).Return(nil).Once()
	suite.notifier.On("PublishCommentAdded", suite.ctx, mock.AnythingOfType("platform.CommentEvent")).Return(nil).Once()

	comment, err := suite.service.AppendComment(suite.ctx, budget.BudgetID,
		dto.AddCommentRequest{Content: "Prazo estimado de 10 dias úteis."}, true, suite.meta)

	require.NoError(suite.T(), err)
	assert.True(suite.T(), comment.IsAdminReply)
	suite.budgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestAppendComment_RevisionDisabledKeepsStatus() {
	service := suite.serviceWith(services.BudgetServiceConfig{
		CommentsTriggerRevision: false,
		DefaultValidityDays:     30,
		IPLookupTimeout:         time.Second,
	})
	budget := suite.sentBudget()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("SaveComment", suite.ctx, mock.AnythingOfType("domain.BudgetComment")).Return(nil).Once()
	suite.notifier.On("PublishCommentAdded", suite.ctx, mock.AnythingOfType("platform.CommentEvent")).Return(nil).Once()

	comment, err := service.AppendComment(suite.ctx, budget.BudgetID,
		dto.AddCommentRequest{Content: "O valor do inversor está correto?"}, false, suite.meta)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), comment)
	assert.False(suite.T(), comment.IsAdminReply)
	suite.budgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestAppendComment_AllowedOnLockedBudget() {
	budget := suite.sentBudget()
	budget.Status = domain.BudgetApproved
	budget.IsLocked = true
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budget.BudgetID).Return(budget, nil).Once()
	suite.budgetRepo.On("SaveComment", suite.ctx, mock.AnythingOfType("domain.BudgetComment")).Return(nil).Once()
	suite.notifier.On("PublishCommentAdded", suite.ctx, mock.AnythingOfType("platform.CommentEvent")).Return(nil).Once()

	comment, err := suite.service.AppendComment(suite.ctx, budget.BudgetID,
		dto.AddCommentRequest{Content: "Quando começa a obra?"}, false, suite.meta)

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), comment)
	suite.budgetRepo.AssertNotCalled(suite.T(), "UpdateBudgetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BudgetServiceTestSuite) TestAppendComment_EmptyContent() {
	comment, err := suite.service.AppendComment(suite.ctx, uuid.NewString(),
		dto.AddCommentRequest{Content: "   "}, false, suite.meta)

	assert.Nil(suite.T(), comment)
	assert.ErrorIs(suite.T(), err, apperrors.ErrValidation)
}

func (suite *BudgetServiceTestSuite) TestListComments_UnknownBudget() {
	budgetID := uuid.NewString()
	suite.budgetRepo.On("FindBudgetByID", suite.ctx, budgetID).Return(nil, apperrors.ErrNotFound).Once()

	comments, err := suite.service.ListComments(suite.ctx, budgetID)

	assert.Nil(suite.T(), comments)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestBudgetServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}
