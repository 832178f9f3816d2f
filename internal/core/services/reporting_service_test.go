package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portsrepo "github.com/hoteliq/billing_backend/internal/core/ports/repositories"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/core/services"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetDailyReport(ctx context.Context, date time.Time) (*domain.DailyReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyReport), args.Error(1)
}

func (m *MockReportingRepository) GetTaxSummary(ctx context.Context, start, end time.Time) ([]domain.TaxSummaryRow, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxSummaryRow), args.Error(1)
}

func (m *MockReportingRepository) ListOutstandingInvoices(ctx context.Context) ([]domain.OutstandingInvoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingInvoice), args.Error(1)
}

var _ portsrepo.ReportingRepositoryFacade = (*MockReportingRepository)(nil)

// --- Test Suite ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingSvcFacade
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func (suite *ReportingServiceTestSuite) TestGetDailyReport_TruncatesToDate() {
	ctx := context.Background()
	day := time.Date(2026, 8, 28, 15, 42, 7, 0, time.UTC)
	expected := &domain.DailyReport{
		Date:          time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		TotalInvoices: 3,
		Revenue:       decimal.NewFromInt(810),
		Payments:      decimal.NewFromInt(500),
	}

	suite.mockRepo.On("GetDailyReport", ctx, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)).Return(expected, nil).Once()

	report, err := suite.service.GetDailyReport(ctx, day)

	suite.Require().NoError(err)
	suite.Equal(3, report.TotalInvoices)
	suite.True(report.Revenue.Equal(decimal.NewFromInt(810)), "Expected revenue 810, got %s", report.Revenue)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetTaxSummary_Success() {
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.TaxSummaryRow{
		{TaxRule: "City Tax", TaxableAmount: decimal.NewFromInt(1200), TaxAmount: decimal.NewFromInt(120)},
	}

	suite.mockRepo.On("GetTaxSummary", ctx, from, to).Return(rows, nil).Once()

	summary, err := suite.service.GetTaxSummary(ctx, from, to)

	suite.Require().NoError(err)
	suite.Require().Len(summary, 1)
	suite.Equal("City Tax", summary[0].TaxRule)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestGetTaxSummary_ReversedRange() {
	ctx := context.Background()
	from := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	summary, err := suite.service.GetTaxSummary(ctx, from, to)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetTaxSummary", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestListOutstandingInvoices_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("ListOutstandingInvoices", ctx).Return(nil, expectedErr).Once()

	outstanding, err := suite.service.ListOutstandingInvoices(ctx)

	suite.Require().Error(err)
	suite.Nil(outstanding)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
