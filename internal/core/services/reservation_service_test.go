package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/core/services"
	"github.com/hoteliq/billing_backend/internal/dto"
)

// MockReservationRepository is a mock type for the ReservationRepositoryFacade interface
type MockReservationRepository struct {
	mock.Mock
}

var _ portsrepo.ReservationRepositoryFacade = (*MockReservationRepository)(nil)

func (m *MockReservationRepository) SaveReservation(ctx context.Context, reservation domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateReservation(ctx context.Context, reservation domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateReservationStatus(ctx context.Context, reservationID string, status domain.ReservationStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, reservationID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockReservationRepository) FindReservationByID(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListReservations(ctx context.Context, status *domain.ReservationStatus, limit int, nextToken *string) ([]domain.Reservation, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*string), args.Error(2)
}

// --- Test Suite Setup ---

type ReservationServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockReservationRepository
	mockGuestRepo *MockGuestReader
	service       portssvc.ReservationSvcFacade
}

func (suite *ReservationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReservationRepository)
	suite.mockGuestRepo = new(MockGuestReader)
	suite.service = services.NewReservationService(suite.mockRepo, suite.mockGuestRepo)
}

// --- Test Cases ---

func (suite *ReservationServiceTestSuite) TestCreateReservation_Success() {
	ctx := context.Background()
	actorID := uuid.NewString()
	guestID := uuid.NewString()
	checkIn := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	req := dto.CreateReservationRequest{
		GuestID:           guestID,
		ReservationNumber: "RES-1001",
		CheckIn:           checkIn,
		CheckOut:          checkIn.Add(72 * time.Hour),
		RoomNumber:        "204",
	}

	suite.mockGuestRepo.On("FindGuestByID", ctx, guestID).Return(&domain.Guest{GuestID: guestID}, nil).Once()
	suite.mockRepo.On("SaveReservation", ctx, mock.AnythingOfType("domain.Reservation")).Return(nil).Once()

	reservation, err := suite.service.CreateReservation(ctx, req, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reservation)
	suite.NotEmpty(reservation.ReservationID)
	suite.Equal(domain.ReservationBooked, reservation.Status)
	suite.Equal(1, reservation.NumberOfGuests) // defaults to one
	suite.Equal(actorID, reservation.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockGuestRepo.AssertExpectations(suite.T())
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_CheckOutBeforeCheckIn() {
	ctx := context.Background()
	checkIn := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	reservation, err := suite.service.CreateReservation(ctx, dto.CreateReservationRequest{
		GuestID:           uuid.NewString(),
		ReservationNumber: "RES-1002",
		CheckIn:           checkIn,
		CheckOut:          checkIn.Add(-24 * time.Hour),
		RoomNumber:        "204",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reservation)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrCheckOutBeforeCheckIn)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveReservation", mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_UnknownGuest() {
	ctx := context.Background()
	guestID := uuid.NewString()
	checkIn := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	suite.mockGuestRepo.On("FindGuestByID", ctx, guestID).Return(nil, apperrors.ErrNotFound).Once()

	reservation, err := suite.service.CreateReservation(ctx, dto.CreateReservationRequest{
		GuestID:           guestID,
		ReservationNumber: "RES-1003",
		CheckIn:           checkIn,
		CheckOut:          checkIn.Add(24 * time.Hour),
		RoomNumber:        "101",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reservation)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveReservation", mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestUpdateReservationStatus_BookedToCheckedIn() {
	ctx := context.Background()
	actorID := uuid.NewString()
	reservationID := uuid.NewString()
	booked := &domain.Reservation{ReservationID: reservationID, Status: domain.ReservationBooked}

	suite.mockRepo.On("FindReservationByID", ctx, reservationID).Return(booked, nil).Once()
	suite.mockRepo.On("UpdateReservationStatus", ctx, reservationID, domain.ReservationCheckedIn, actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reservation, err := suite.service.UpdateReservationStatus(ctx, reservationID, domain.ReservationCheckedIn, actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReservationCheckedIn, reservation.Status)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReservationServiceTestSuite) TestUpdateReservationStatus_InvalidTransition() {
	ctx := context.Background()
	reservationID := uuid.NewString()
	checkedOut := &domain.Reservation{ReservationID: reservationID, Status: domain.ReservationCheckedOut}

	suite.mockRepo.On("FindReservationByID", ctx, reservationID).Return(checkedOut, nil).Once()

	reservation, err := suite.service.UpdateReservationStatus(ctx, reservationID, domain.ReservationCheckedIn, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reservation)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateReservationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestUpdateReservation_TerminalState() {
	ctx := context.Background()
	reservationID := uuid.NewString()
	cancelled := &domain.Reservation{ReservationID: reservationID, Status: domain.ReservationCancelled}

	suite.mockRepo.On("FindReservationByID", ctx, reservationID).Return(cancelled, nil).Once()

	reservation, err := suite.service.UpdateReservation(ctx, reservationID, dto.UpdateReservationRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(reservation)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.ErrorIs(err, services.ErrReservationTerminal)
}

func TestReservationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReservationServiceTestSuite))
}
