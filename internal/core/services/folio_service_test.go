package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/core/services"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// MockFolioRepository is a mock type for the FolioRepositoryFacade interface
type MockFolioRepository struct {
	mock.Mock
}

var _ portsrepo.FolioRepositoryFacade = (*MockFolioRepository)(nil)

func (m *MockFolioRepository) SaveFolio(ctx context.Context, folio domain.Folio) error {
	args := m.Called(ctx, folio)
	return args.Error(0)
}

func (m *MockFolioRepository) UpdateFolioStatus(ctx context.Context, folioID string, status domain.FolioStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, folioID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockFolioRepository) SaveFolioItem(ctx context.Context, item domain.FolioItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockFolioRepository) UpdateFolioItem(ctx context.Context, item domain.FolioItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockFolioRepository) FindFolioItemByID(ctx context.Context, folioItemID string) (*domain.FolioItem, error) {
	args := m.Called(ctx, folioItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioItem), args.Error(1)
}

func (m *MockFolioRepository) AttachDiscount(ctx context.Context, link domain.FolioDiscount) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockFolioRepository) FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

func (m *MockFolioRepository) ListFolios(ctx context.Context, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Folio), args.Get(1).(*string), args.Error(2)
}

// MockReservationReader is a mock type for the ReservationReader interface
type MockReservationReader struct {
	mock.Mock
}

var _ portsrepo.ReservationReader = (*MockReservationReader)(nil)

func (m *MockReservationReader) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationReader) ListReservations(ctx context.Context, status *domain.ReservationStatus, limit int, nextToken *string) ([]domain.Reservation, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*string), args.Error(2)
}

// MockGuestReader is a mock type for the GuestReader interface
type MockGuestReader struct {
	mock.Mock
}

var _ portsrepo.GuestReader = (*MockGuestReader)(nil)

func (m *MockGuestReader) FindGuestByID(ctx context.Context, guestID string) (*domain.Guest, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

func (m *MockGuestReader) ListGuests(ctx context.Context, limit int, nextToken *string) ([]domain.Guest, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Guest), args.Get(1).(*string), args.Error(2)
}

// MockTaxRuleRepository is a mock type for the TaxRuleRepositoryFacade interface
type MockTaxRuleRepository struct {
	mock.Mock
}

var _ portsrepo.TaxRuleRepositoryFacade = (*MockTaxRuleRepository)(nil)

func (m *MockTaxRuleRepository) SaveTaxRule(ctx context.Context, rule domain.TaxRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockTaxRuleRepository) UpdateTaxRule(ctx context.Context, rule domain.TaxRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockTaxRuleRepository) FindTaxRuleByID(ctx context.Context, taxRuleID string) (*domain.TaxRule, error) {
	args := m.Called(ctx, taxRuleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRule), args.Error(1)
}

func (m *MockTaxRuleRepository) ListTaxRules(ctx context.Context, activeOnly bool) ([]domain.TaxRule, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRule), args.Error(1)
}

// --- Test Suite Setup ---

type FolioServiceTestSuite struct {
	suite.Suite
	mockFolioRepo       *MockFolioRepository
	mockReservationRepo *MockReservationReader
	mockGuestRepo       *MockGuestReader
	mockTaxRuleRepo     *MockTaxRuleRepository
	mockDiscountRepo    *MockDiscountRepository
	service             portssvc.FolioSvcFacade
}

func (suite *FolioServiceTestSuite) SetupTest() {
	suite.mockFolioRepo = new(MockFolioRepository)
	suite.mockReservationRepo = new(MockReservationReader)
	suite.mockGuestRepo = new(MockGuestReader)
	suite.mockTaxRuleRepo = new(MockTaxRuleRepository)
	suite.mockDiscountRepo = new(MockDiscountRepository)
	suite.service = services.NewFolioService(
		suite.mockFolioRepo,
		suite.mockReservationRepo,
		suite.mockGuestRepo,
		suite.mockTaxRuleRepo,
		suite.mockDiscountRepo,
	)
}

// --- Test Cases ---

func (suite *FolioServiceTestSuite) TestCreateFolio_FromReservation() {
	ctx := context.Background()
	actorID := uuid.NewString()
	reservationID := uuid.NewString()
	corporateAccountID := uuid.NewString()
	guestID := uuid.NewString()
	reservation := &domain.Reservation{
		ReservationID:      reservationID,
		GuestID:            guestID,
		CorporateAccountID: &corporateAccountID,
		Status:             domain.ReservationCheckedIn,
	}
	guest := &domain.Guest{GuestID: guestID, FirstName: "Ada", LastName: "Lovelace"}

	suite.mockReservationRepo.On("FindReservationByID", ctx, reservationID).Return(reservation, nil).Once()
	suite.mockGuestRepo.On("FindGuestByID", ctx, guestID).Return(guest, nil).Once()
	suite.mockFolioRepo.On("SaveFolio", ctx, mock.AnythingOfType("domain.Folio")).Return(nil).Once()

	folio, err := suite.service.CreateFolio(ctx, dto.CreateFolioRequest{ReservationID: &reservationID}, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(folio)
	suite.NotEmpty(folio.FolioID)
	suite.NotEmpty(folio.FolioNumber)
	suite.Equal(domain.FolioOpen, folio.Status)
	suite.Equal("Ada Lovelace", folio.GuestName)
	suite.Equal("USD", folio.Currency)
	suite.Require().NotNil(folio.CorporateAccountID)
	suite.Equal(corporateAccountID, *folio.CorporateAccountID)
	suite.Equal(actorID, folio.CreatedBy)

	suite.mockReservationRepo.AssertExpectations(suite.T())
	suite.mockGuestRepo.AssertExpectations(suite.T())
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestCreateFolio_WalkIn() {
	ctx := context.Background()

	suite.mockFolioRepo.On("SaveFolio", ctx, mock.AnythingOfType("domain.Folio")).Return(nil).Once()

	folio, err := suite.service.CreateFolio(ctx, dto.CreateFolioRequest{GuestName: "Walk In", Currency: "EUR"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("Walk In", folio.GuestName)
	suite.Equal("EUR", folio.Currency)
	suite.Nil(folio.ReservationID)
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestCreateFolio_WalkInWithoutName() {
	ctx := context.Background()

	folio, err := suite.service.CreateFolio(ctx, dto.CreateFolioRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(folio)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrFolioGuestMissing)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "SaveFolio", mock.Anything, mock.Anything)
}

func (suite *FolioServiceTestSuite) TestAddItem_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	taxRuleID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}
	rule := &domain.TaxRule{TaxRuleID: taxRuleID, Name: "VAT", Rate: decimal.NewFromInt(20), IsActive: true}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockTaxRuleRepo.On("FindTaxRuleByID", ctx, taxRuleID).Return(rule, nil).Once()
	suite.mockFolioRepo.On("SaveFolioItem", ctx, mock.AnythingOfType("domain.FolioItem")).Return(nil).Once()

	item, err := suite.service.AddItem(ctx, folioID, dto.AddFolioItemRequest{
		Description: "Room night",
		ItemType:    domain.ItemRoom,
		Quantity:    decimal.NewFromInt(2),
		UnitPrice:   decimal.NewFromInt(120),
		TaxRuleID:   &taxRuleID,
	}, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Equal(folioID, item.FolioID)
	suite.True(item.LineTotal().Equal(decimal.NewFromInt(240)))
	suite.True(item.TaxAmount().Equal(decimal.NewFromInt(48)), "tax amount was %s", item.TaxAmount())
	suite.Require().NotNil(item.PostedBy)
	suite.Equal(actorID, *item.PostedBy)
	suite.WithinDuration(time.Now(), item.PostedAt, time.Second)

	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockTaxRuleRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestAddItem_DefaultsQuantityToOne() {
	ctx := context.Background()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockFolioRepo.On("SaveFolioItem", ctx, mock.MatchedBy(func(item domain.FolioItem) bool {
		return item.Quantity.Equal(decimal.NewFromInt(1))
	})).Return(nil).Once()

	item, err := suite.service.AddItem(ctx, folioID, dto.AddFolioItemRequest{
		Description: "Minibar",
		ItemType:    domain.ItemService,
		UnitPrice:   decimal.NewFromInt(15),
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(item.Quantity.Equal(decimal.NewFromInt(1)))
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestAddItem_ClosedFolio() {
	ctx := context.Background()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioClosed}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()

	item, err := suite.service.AddItem(ctx, folioID, dto.AddFolioItemRequest{
		Description: "Late charge",
		ItemType:    domain.ItemService,
		UnitPrice:   decimal.NewFromInt(10),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrFolioNotOpen)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "SaveFolioItem", mock.Anything, mock.Anything)
}

func (suite *FolioServiceTestSuite) TestAddItem_NegativePriceOnlyForAdjustments() {
	ctx := context.Background()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Twice()
	suite.mockFolioRepo.On("SaveFolioItem", ctx, mock.AnythingOfType("domain.FolioItem")).Return(nil).Once()

	// A negative service charge is rejected.
	item, err := suite.service.AddItem(ctx, folioID, dto.AddFolioItemRequest{
		Description: "Bad correction",
		ItemType:    domain.ItemService,
		UnitPrice:   decimal.NewFromInt(-20),
	}, uuid.NewString())
	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrValidation)

	// The same amount posts fine as an adjustment.
	item, err = suite.service.AddItem(ctx, folioID, dto.AddFolioItemRequest{
		Description: "Goodwill correction",
		ItemType:    domain.ItemAdjustment,
		UnitPrice:   decimal.NewFromInt(-20),
	}, uuid.NewString())
	suite.Require().NoError(err)
	suite.True(item.LineTotal().Equal(decimal.NewFromInt(-20)))

	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestUpdateItem_RejectsForeignItem() {
	ctx := context.Background()
	folioID := uuid.NewString()
	itemID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}
	item := &domain.FolioItem{FolioItemID: itemID, FolioID: uuid.NewString()}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockFolioRepo.On("FindFolioItemByID", ctx, itemID).Return(item, nil).Once()

	updated, err := suite.service.UpdateItem(ctx, folioID, itemID, dto.UpdateFolioItemRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrItemNotOnFolio)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "UpdateFolioItem", mock.Anything, mock.Anything)
}

func (suite *FolioServiceTestSuite) TestUpdateItem_AppliesPartialChanges() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	itemID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}
	item := &domain.FolioItem{
		FolioItemID: itemID,
		FolioID:     folioID,
		Description: "Room night",
		ItemType:    domain.ItemRoom,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(100),
	}
	newPrice := decimal.NewFromInt(90)

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockFolioRepo.On("FindFolioItemByID", ctx, itemID).Return(item, nil).Once()
	suite.mockFolioRepo.On("UpdateFolioItem", ctx, mock.MatchedBy(func(updated domain.FolioItem) bool {
		return updated.UnitPrice.Equal(newPrice) && updated.Description == "Room night"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateItem(ctx, folioID, itemID, dto.UpdateFolioItemRequest{UnitPrice: &newPrice}, actorID)

	suite.Require().NoError(err)
	suite.True(updated.UnitPrice.Equal(newPrice))
	suite.Equal(actorID, updated.LastUpdatedBy)
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestUpdateFolioStatus_ValidTransition() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockFolioRepo.On("UpdateFolioStatus", ctx, folioID, domain.FolioClosed, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.UpdateFolioStatus(ctx, folioID, domain.FolioClosed, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.FolioClosed, updated.Status)
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestUpdateFolioStatus_SettledIsTerminal() {
	ctx := context.Background()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioSettled}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()

	updated, err := suite.service.UpdateFolioStatus(ctx, folioID, domain.FolioOpen, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "UpdateFolioStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FolioServiceTestSuite) TestUpdateFolioStatus_ClosedCanReopen() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioClosed}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockFolioRepo.On("UpdateFolioStatus", ctx, folioID, domain.FolioOpen, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.UpdateFolioStatus(ctx, folioID, domain.FolioOpen, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.FolioOpen, updated.Status)
	suite.mockFolioRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestAttachDiscount_FreezesValue() {
	ctx := context.Background()
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	discountID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}
	discount := &domain.Discount{
		DiscountID:   discountID,
		Name:         "Loyalty",
		DiscountType: domain.DiscountPercentage,
		Value:        decimal.NewFromInt(15),
		IsActive:     true,
	}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockDiscountRepo.On("FindDiscountByID", ctx, discountID).Return(discount, nil).Once()
	suite.mockFolioRepo.On("AttachDiscount", ctx, mock.MatchedBy(func(link domain.FolioDiscount) bool {
		return link.FolioID == folioID && link.DiscountID == discountID && link.AppliedValue.Equal(decimal.NewFromInt(15))
	})).Return(nil).Once()

	link, err := suite.service.AttachDiscount(ctx, folioID, dto.AttachFolioDiscountRequest{DiscountID: discountID}, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(link)
	suite.True(link.AppliedValue.Equal(decimal.NewFromInt(15)))
	suite.mockFolioRepo.AssertExpectations(suite.T())
	suite.mockDiscountRepo.AssertExpectations(suite.T())
}

func (suite *FolioServiceTestSuite) TestAttachDiscount_Expired() {
	ctx := context.Background()
	folioID := uuid.NewString()
	discountID := uuid.NewString()
	folio := &domain.Folio{FolioID: folioID, Status: domain.FolioOpen}
	ended := time.Now().UTC().Add(-72 * time.Hour)
	discount := &domain.Discount{
		DiscountID:   discountID,
		DiscountType: domain.DiscountFixed,
		Value:        decimal.NewFromInt(10),
		IsActive:     true,
		EndDate:      &ended,
	}

	suite.mockFolioRepo.On("FindFolioByID", ctx, folioID).Return(folio, nil).Once()
	suite.mockDiscountRepo.On("FindDiscountByID", ctx, discountID).Return(discount, nil).Once()

	link, err := suite.service.AttachDiscount(ctx, folioID, dto.AttachFolioDiscountRequest{DiscountID: discountID}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(link)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrDiscountNotApplicable)
	suite.mockFolioRepo.AssertNotCalled(suite.T(), "AttachDiscount", mock.Anything, mock.Anything)
}

func TestFolioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FolioServiceTestSuite))
}
