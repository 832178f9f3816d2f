package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/core/services"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// MockInvoiceRepository is a mock type for the InvoiceRepositoryFacade interface
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice, lines []domain.InvoiceLine, discounts []domain.InvoiceDiscount) error {
	args := m.Called(ctx, invoice, lines, discounts)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveAdjustment(ctx context.Context, adjustment domain.InvoiceAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

func (m *MockInvoiceRepository) RecalculateTotals(ctx context.Context, invoiceID string) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, invoiceID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, status *domain.InvoiceStatus, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(*string), args.Error(2)
}

func (m *MockInvoiceRepository) ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, corporateAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Get(1).(*string), args.Error(2)
}

// MockFolioReader is a mock type for the FolioReader interface
type MockFolioReader struct {
	mock.Mock
}

var _ portsrepo.FolioReader = (*MockFolioReader)(nil)

func (m *MockFolioReader) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioReader) ListFolios(ctx context.Context, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Folio), args.Get(1).(*string), args.Error(2)
}

// MockDiscountRepository is a mock type for the DiscountRepositoryFacade interface
type MockDiscountRepository struct {
	mock.Mock
}

var _ portsrepo.DiscountRepositoryFacade = (*MockDiscountRepository)(nil)

func (m *MockDiscountRepository) SaveDiscount(ctx context.Context, discount domain.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) FindDiscountByID(ctx context.Context, discountID string) (*domain.Discount, error) {
	args := m.Called(ctx, discountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindDiscountsByIDs(ctx context.Context, discountIDs []string) (map[string]domain.Discount, error) {
	args := m.Called(ctx, discountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Discount), args.Error(1)
}

func (m *MockDiscountRepository) ListDiscounts(ctx context.Context, activeOnly bool, limit int, nextToken *string) ([]domain.Discount, *string, error) {
	args := m.Called(ctx, activeOnly, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Discount), args.Get(1).(*string), args.Error(2)
}

// --- Test Suite Setup ---

type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo  *MockInvoiceRepository
	mockFolioRepo    *MockFolioReader
	mockDiscountRepo *MockDiscountRepository
	service          portssvc.InvoiceSvcFacade
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockFolioRepo = new(MockFolioReader)
	suite.mockDiscountRepo = new(MockDiscountRepository)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockFolioRepo, suite.mockDiscountRepo)
}

// billableFolio builds an open folio with a taxed room charge (2 x 100.00 at
// 10%) and an untaxed service charge (1 x 50.00).
func billableFolio() *domain.Folio {
	taxRuleID := uuid.NewString()
	rule := &domain.TaxRule{
		TaxRuleID: taxRuleID,
		Name:      "City Tax",
		Rate:      decimal.NewFromInt(10),
		IsActive:  true,
	}
	return &domain.Folio{
		FolioID:     uuid.NewString(),
		GuestName:   "Ada Lovelace",
		FolioNumber: "3FA85F6457",
		Currency:    "USD",
		Status:      domain.FolioOpen,
		Items: []domain.FolioItem{
			{
				FolioItemID: uuid.NewString(),
				Description: "Deluxe room",
				ItemType:    domain.ItemRoom,
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(100),
				TaxRuleID:   &taxRuleID,
				TaxRule:     rule,
			},
			{
				FolioItemID: uuid.NewString(),
				Description: "Laundry",
				ItemType:    domain.ItemService,
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(50),
			},
		},
	}
}

// --- Test Cases ---

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folio := billableFolio()
	req := dto.CreateInvoiceRequest{FolioID: folio.FolioID}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]domain.InvoiceDiscount")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.NotEmpty(invoice.InvoiceID)
	suite.NotEmpty(invoice.InvoiceNumber)
	suite.Equal(domain.InvoiceIssued, invoice.Status)
	suite.Equal(folio.FolioID, invoice.FolioID)
	suite.Equal("USD", invoice.Currency)
	suite.Equal(actorID, invoice.CreatedBy)
	suite.WithinDuration(time.Now(), invoice.IssuedAt, time.Second)

	// 2 x 100 + 1 x 50 = 250 net, 10% tax on the room line only.
	suite.True(invoice.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal was %s", invoice.Subtotal)
	suite.True(invoice.TaxTotal.Equal(decimal.NewFromInt(20)), "tax total was %s", invoice.TaxTotal)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(270)), "total was %s", invoice.Total)

	// Each line keeps a weak reference back to its folio item.
	suite.Require().Len(invoice.Lines, 2)
	suite.Require().NotNil(invoice.Lines[0].FolioItemID)
	suite.Equal(folio.Items[0].FolioItemID, *invoice.Lines[0].FolioItemID)
	suite.True(invoice.Lines[0].NetAmount.Equal(decimal.NewFromInt(200)))
	suite.True(invoice.Lines[0].TaxAmount.Equal(decimal.NewFromInt(20)))
	suite.True(invoice.Lines[1].TaxAmount.Equal(decimal.Zero))

	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_PercentageDiscount() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folio := billableFolio()
	discountID := uuid.NewString()
	req := dto.CreateInvoiceRequest{FolioID: folio.FolioID, DiscountIDs: []string{discountID}}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockDiscountRepo.On("FindDiscountsByIDs", ctx, []string{discountID}).Return(map[string]domain.Discount{
		discountID: {
			DiscountID:   discountID,
			Name:         "Summer 10",
			DiscountType: domain.DiscountPercentage,
			Value:        decimal.NewFromInt(10),
			IsActive:     true,
		},
	}, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]domain.InvoiceDiscount")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)

	// 10% of the 270.00 gross base, frozen at creation time.
	suite.Require().Len(invoice.Discounts, 1)
	suite.True(invoice.Discounts[0].AppliedAmount.Equal(decimal.NewFromInt(27)), "applied amount was %s", invoice.Discounts[0].AppliedAmount)
	suite.True(invoice.DiscountTotal.Equal(decimal.NewFromInt(27)))
	suite.True(invoice.Total.Equal(decimal.NewFromInt(243)), "total was %s", invoice.Total)

	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockDiscountRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_FolioNotFound() {
	ctx := context.Background()
	folioID := uuid.NewString()

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(nil, apperrors.ErrNotFound).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, dto.CreateInvoiceRequest{FolioID: folioID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// An empty folio still invoices: the snapshot has no lines and every total
// is zero. Back office uses this to close out no-show reservations.
func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_EmptyFolio() {
	ctx := context.Background()
	folio := &domain.Folio{
		FolioID:     uuid.NewString(),
		FolioNumber: "9E2C41B7A0",
		Currency:    "USD",
		Status:      domain.FolioOpen,
	}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]domain.InvoiceDiscount")).Return(nil).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, dto.CreateInvoiceRequest{FolioID: folio.FolioID}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.Equal(domain.InvoiceIssued, invoice.Status)
	suite.Empty(invoice.Lines)
	suite.True(invoice.Subtotal.IsZero(), "subtotal was %s", invoice.Subtotal)
	suite.True(invoice.TaxTotal.IsZero(), "tax total was %s", invoice.TaxTotal)
	suite.True(invoice.Total.IsZero(), "total was %s", invoice.Total)
	suite.True(invoice.BalanceDue().IsZero(), "balance due was %s", invoice.BalanceDue())
	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_UnknownDiscount() {
	ctx := context.Background()
	folio := billableFolio()
	discountID := uuid.NewString()

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockDiscountRepo.On("FindDiscountsByIDs", ctx, []string{discountID}).Return(map[string]domain.Discount{}, nil).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, dto.CreateInvoiceRequest{FolioID: folio.FolioID, DiscountIDs: []string{discountID}}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDiscountRepo.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_InapplicableDiscount() {
	ctx := context.Background()
	folio := billableFolio()
	discountID := uuid.NewString()

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockDiscountRepo.On("FindDiscountsByIDs", ctx, []string{discountID}).Return(map[string]domain.Discount{
		discountID: {
			DiscountID:   discountID,
			DiscountType: domain.DiscountFixed,
			Value:        decimal.NewFromInt(5),
			IsActive:     false,
		},
	}, nil).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, dto.CreateInvoiceRequest{FolioID: folio.FolioID, DiscountIDs: []string{discountID}}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CreateInvoice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoiceFromFolio_SaveError() {
	ctx := context.Background()
	folio := billableFolio()
	expectedErr := assert.AnError

	suite.mockFolioRepo.On("FindFolioByID", ctx, folio.FolioID).Return(folio, nil).Once()
	suite.mockInvoiceRepo.On("CreateInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceLine"), mock.AnythingOfType("[]domain.InvoiceDiscount")).Return(expectedErr).Once()

	invoice, err := suite.service.CreateInvoiceFromFolio(ctx, dto.CreateInvoiceRequest{FolioID: folio.FolioID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, expectedErr)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestPostCreditNote_StoresNegativeAmount() {
	ctx := context.Background()
	actorID := uuid.NewString()
	invoiceID := uuid.NewString()
	issued := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceIssued, Total: decimal.NewFromInt(100)}
	reloaded := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceIssued, Total: decimal.NewFromInt(75)}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(issued, nil).Once()
	suite.mockInvoiceRepo.On("SaveAdjustment", ctx, mock.MatchedBy(func(adj domain.InvoiceAdjustment) bool {
		return adj.InvoiceID == invoiceID &&
			adj.AdjustmentType == domain.AdjustmentCredit &&
			adj.Amount.Equal(decimal.NewFromInt(-25))
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(reloaded, nil).Once()

	invoice, err := suite.service.PostCreditNote(ctx, invoiceID, dto.AdjustmentRequest{Amount: decimal.NewFromInt(25), Reason: "goodwill"}, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(75)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestPostDebitNote_StoresPositiveAmount() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	issued := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceIssued, Total: decimal.NewFromInt(100)}
	reloaded := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceIssued, Total: decimal.NewFromInt(110)}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(issued, nil).Once()
	suite.mockInvoiceRepo.On("SaveAdjustment", ctx, mock.MatchedBy(func(adj domain.InvoiceAdjustment) bool {
		return adj.AdjustmentType == domain.AdjustmentDebit && adj.Amount.Equal(decimal.NewFromInt(10))
	})).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(reloaded, nil).Once()

	invoice, err := suite.service.PostDebitNote(ctx, invoiceID, dto.AdjustmentRequest{Amount: decimal.NewFromInt(10), Reason: "minibar"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(invoice.Total.Equal(decimal.NewFromInt(110)))
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestPostCreditNote_NonPositiveAmount() {
	ctx := context.Background()

	invoice, err := suite.service.PostCreditNote(ctx, uuid.NewString(), dto.AdjustmentRequest{Amount: decimal.Zero}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrAdjustmentNotPositive)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveAdjustment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestPostDebitNote_VoidInvoice() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	void := &domain.Invoice{InvoiceID: invoiceID, Status: domain.InvoiceVoid}

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(void, nil).Once()

	invoice, err := suite.service.PostDebitNote(ctx, invoiceID, dto.AdjustmentRequest{Amount: decimal.NewFromInt(10)}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrInvoiceVoid)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveAdjustment", mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_NotFound() {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(nil, apperrors.ErrNotFound).Once()

	invoice, err := suite.service.GetInvoiceByID(ctx, invoiceID)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
