package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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

// MockGuestRepository is a mock type for the GuestRepositoryFacade interface
type MockGuestRepository struct {
	mock.Mock
}

var _ portsrepo.GuestRepositoryFacade = (*MockGuestRepository)(nil)

func (m *MockGuestRepository) SaveGuest(ctx context.Context, guest domain.Guest) error {
	args := m.Called(ctx, guest)
	return args.Error(0)
}

func (m *MockGuestRepository) UpdateGuest(ctx context.Context, guest domain.Guest) error {
	args := m.Called(ctx, guest)
	return args.Error(0)
}

func (m *MockGuestRepository) DeleteGuest(ctx context.Context, guestID string) error {
	args := m.Called(ctx, guestID)
	return args.Error(0)
}

func (m *MockGuestRepository) FindGuestByID(ctx context.Context, guestID string) (*domain.Guest, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

func (m *MockGuestRepository) ListGuests(ctx context.Context, limit int, nextToken *string) ([]domain.Guest, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Guest), args.Get(1).(*string), args.Error(2)
}

// --- Test Suite Setup ---

type GuestServiceTestSuite struct {
	suite.Suite
	mockRepo *MockGuestRepository
	service  portssvc.GuestSvcFacade
}

func (suite *GuestServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockGuestRepository)
	suite.service = services.NewGuestService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *GuestServiceTestSuite) TestCreateGuest_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	req := dto.CreateGuestRequest{
		FirstName:   "Grace",
		LastName:    "Hopper",
		Email:       "grace@example.com",
		PhoneNumber: "+1-555-0101",
	}

	suite.mockRepo.On("SaveGuest", ctx, mock.AnythingOfType("domain.Guest")).Return(nil).Once()

	guest, err := suite.service.CreateGuest(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(guest)
	suite.NotEmpty(guest.GuestID)
	suite.Equal(req.FirstName, guest.FirstName)
	suite.Equal(req.LastName, guest.LastName)
	suite.Equal(req.Email, guest.Email)
	suite.Equal(actorID, guest.CreatedBy)
	suite.Equal(actorID, guest.LastUpdatedBy)
	suite.WithinDuration(time.Now(), guest.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GuestServiceTestSuite) TestCreateGuest_SaveError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("SaveGuest", ctx, mock.AnythingOfType("domain.Guest")).Return(expectedErr).Once()

	guest, err := suite.service.CreateGuest(ctx, dto.CreateGuestRequest{FirstName: "A", LastName: "B"}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(guest)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GuestServiceTestSuite) TestUpdateGuest_AppliesPartialChanges() {
	ctx := context.Background()
	actorID := uuid.NewString()
	guestID := uuid.NewString()
	existing := &domain.Guest{
		GuestID:   guestID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
	}
	newEmail := "g.hopper@example.com"

	suite.mockRepo.On("FindGuestByID", ctx, guestID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateGuest", ctx, mock.MatchedBy(func(guest domain.Guest) bool {
		return guest.Email == newEmail && guest.FirstName == "Grace"
	})).Return(nil).Once()

	guest, err := suite.service.UpdateGuest(ctx, guestID, dto.UpdateGuestRequest{Email: &newEmail}, actorID)

	suite.Require().NoError(err)
	suite.Equal(newEmail, guest.Email)
	suite.Equal(actorID, guest.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *GuestServiceTestSuite) TestUpdateGuest_NotFound() {
	ctx := context.Background()
	guestID := uuid.NewString()

	suite.mockRepo.On("FindGuestByID", ctx, guestID).Return(nil, apperrors.ErrNotFound).Once()

	guest, err := suite.service.UpdateGuest(ctx, guestID, dto.UpdateGuestRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(guest)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateGuest", mock.Anything, mock.Anything)
}

func (suite *GuestServiceTestSuite) TestDeleteGuest_NotFound() {
	ctx := context.Background()
	guestID := uuid.NewString()

	suite.mockRepo.On("DeleteGuest", ctx, guestID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteGuest(ctx, guestID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *GuestServiceTestSuite) TestListGuests_CapsLimit() {
	ctx := context.Background()
	guests := []domain.Guest{{GuestID: uuid.NewString()}}
	next := "token"

	// Limits above 100 fall back to the default page size.
	suite.mockRepo.On("ListGuests", ctx, 20, (*string)(nil)).Return(guests, &next, nil).Once()

	resp, err := suite.service.ListGuests(ctx, dto.ListGuestsParams{Limit: 500})

	suite.Require().NoError(err)
	suite.Len(resp.Guests, 1)
	suite.Equal(&next, resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestGuestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GuestServiceTestSuite))
}
