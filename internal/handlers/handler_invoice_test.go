package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hoteliq/billing_backend/internal/apperrors"
	"github.com/hoteliq/billing_backend/internal/core/domain"
	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
	"github.com/hoteliq/billing_backend/internal/dto"
	"github.com/hoteliq/billing_backend/internal/handlers"
	"github.com/hoteliq/billing_backend/internal/platform/config"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoiceFromFolio(ctx context.Context, req dto.CreateInvoiceRequest, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) ListInvoicesByCorporateAccount(ctx context.Context, corporateAccountID string, limit int, nextToken *string) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, corporateAccountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) PostCreditNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockInvoiceService) PostDebitNote(ctx context.Context, invoiceID string, req dto.AdjustmentRequest, actorID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, actorID string) (*domain.Payment, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) RefundPayment(ctx context.Context, paymentID string, req dto.RefundPaymentRequest, actorID string) (*domain.PaymentRefund, error) {
	args := m.Called(ctx, paymentID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentRefund), args.Error(1)
}
func (m *MockPaymentService) VoidPayment(ctx context.Context, paymentID string, actorID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock WebhookService ---
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) IngestEvent(ctx context.Context, req dto.IngestWebhookRequest) (*domain.WebhookEvent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEvent), args.Error(1)
}
func (m *MockWebhookService) GetEventByID(ctx context.Context, eventID string) (*domain.WebhookEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookEvent), args.Error(1)
}
func (m *MockWebhookService) ListEvents(ctx context.Context, params dto.ListWebhookEventsParams) (*dto.ListWebhookEventsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListWebhookEventsResponse), args.Error(1)
}

var _ portssvc.WebhookSvcFacade = (*MockWebhookService)(nil)

// --- Test Suite ---
type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	mockPaymentService *MockPaymentService
	mockWebhookService *MockWebhookService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *InvoiceHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "billing-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockInvoiceService = new(MockInvoiceService)
	suite.mockPaymentService = new(MockPaymentService)
	suite.mockWebhookService = new(MockWebhookService)

	cfg := &config.Config{
		JWTSecret:        suite.jwtSecret,
		WebhookRateLimit: "120-M",
		IsProduction:     true, // skips swagger registration
	}
	container := &portssvc.ServiceContainer{
		InvoiceSvc: suite.mockInvoiceService,
		PaymentSvc: suite.mockPaymentService,
		WebhookSvc: suite.mockWebhookService,
	}
	handlers.RegisterRoutes(suite.router, cfg, container)
}

// --- Test Cases ---

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_Success() {
	actorID := uuid.NewString()
	folioID := uuid.NewString()
	expected := &domain.Invoice{
		InvoiceID:     uuid.NewString(),
		FolioID:       folioID,
		InvoiceNumber: "7D90AC41E2B8",
		Status:        domain.InvoiceIssued,
		Currency:      "USD",
		Total:         decimal.NewFromInt(270),
	}

	suite.mockInvoiceService.On("CreateInvoiceFromFolio",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool { return req.FolioID == folioID }),
		actorID,
	).Return(expected, nil).Once()

	body, _ := json.Marshal(dto.CreateInvoiceRequest{FolioID: folioID})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)

	var responseBody dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &responseBody))
	suite.Equal(expected.InvoiceID, responseBody.InvoiceID)
	// The response materializes the derived balance alongside the stored totals.
	suite.True(responseBody.BalanceDue.Equal(decimal.NewFromInt(270)))
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestCreateInvoice_MissingToken() {
	body, _ := json.Marshal(dto.CreateInvoiceRequest{FolioID: uuid.NewString()})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "CreateInvoiceFromFolio", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceHandlerTestSuite) TestGetInvoice_NotFound() {
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("GetInvoiceByID", mock.Anything, invoiceID).
		Return(nil, fmt.Errorf("failed to find invoice %s: %w", invoiceID, apperrors.ErrNotFound)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/"+invoiceID, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(uuid.NewString()))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestPostCreditNote_VoidInvoiceConflict() {
	actorID := uuid.NewString()
	invoiceID := uuid.NewString()

	suite.mockInvoiceService.On("PostCreditNote", mock.Anything, invoiceID, mock.AnythingOfType("dto.AdjustmentRequest"), actorID).
		Return(nil, fmt.Errorf("%w: invoice is void", apperrors.ErrConflict)).Once()

	body, _ := json.Marshal(dto.AdjustmentRequest{Amount: decimal.NewFromInt(25), Reason: "goodwill"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/credit-notes", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestCreateNestedPayment_URLWinsOverBody() {
	actorID := uuid.NewString()
	invoiceID := uuid.NewString()
	posted := &domain.Payment{PaymentID: uuid.NewString(), InvoiceID: invoiceID, Amount: decimal.NewFromInt(50), Status: domain.PaymentPosted}

	// The body names a different invoice; the URL must win.
	suite.mockPaymentService.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req dto.CreatePaymentRequest) bool {
		return req.InvoiceID == invoiceID
	}), actorID).Return(posted, nil).Once()

	body, _ := json.Marshal(dto.CreatePaymentRequest{InvoiceID: uuid.NewString(), Amount: decimal.NewFromInt(50)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(actorID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestWebhookIngest_Accepted() {
	payload := []byte(`{"event_type":"checkout.completed"}`)
	stored := &domain.WebhookEvent{
		WebhookEventID: uuid.NewString(),
		Source:         domain.SourcePMS,
		EventType:      "checkout.completed",
		Payload:        payload,
		Status:         "received",
	}

	suite.mockWebhookService.On("IngestEvent", mock.Anything, mock.MatchedBy(func(req dto.IngestWebhookRequest) bool {
		return req.Source == domain.SourcePMS && req.EventType == "checkout.completed"
	})).Return(stored, nil).Once()

	// No Authorization header; webhook ingestion is a public route.
	req, _ := http.NewRequest(http.MethodPost, "/webhooks/pms", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", "checkout.completed")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusAccepted, w.Code)
	suite.mockWebhookService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestWebhookIngest_UnknownSource() {
	suite.mockWebhookService.On("IngestEvent", mock.Anything, mock.AnythingOfType("dto.IngestWebhookRequest")).
		Return(nil, fmt.Errorf("%w: unknown webhook source", apperrors.ErrValidation)).Once()

	req, _ := http.NewRequest(http.MethodPost, "/webhooks/crm", bytes.NewReader([]byte(`{}`)))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockWebhookService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
