package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"

	portssvc "github.com/hoteliq/billing_backend/internal/core/ports/services"
)

// Client talks to the PayPal Orders v2 REST API. OAuth2 token refresh is
// handled by the client-credentials transport.
type Client struct {
	baseURL    string
	returnURL  string
	cancelURL  string
	httpClient *http.Client
}

var _ portssvc.PaymentGatewaySvc = (*Client)(nil)

// NewClient creates a PayPal gateway client. baseURL selects the sandbox or
// live environment.
func NewClient(baseURL, clientID, clientSecret, returnURL, cancelURL string) *Client {
	oauthCfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     baseURL + "/v1/oauth2/token",
	}
	httpClient := oauthCfg.Client(context.Background())
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL:    baseURL,
		returnURL:  returnURL,
		cancelURL:  cancelURL,
		httpClient: httpClient,
	}
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnitPayload struct {
	ReferenceID string        `json:"reference_id"`
	Amount      amountPayload `json:"amount"`
}

type linkPayload struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		Payments    struct {
			Captures []struct {
				ID     string        `json:"id"`
				Status string        `json:"status"`
				Amount amountPayload `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
	Payer struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	Links []linkPayload `json:"links"`
}

type refundResponse struct {
	ID     string        `json:"id"`
	Status string        `json:"status"`
	Amount amountPayload `json:"amount"`
}

// CreateOrder creates a CAPTURE-intent order for the given amount and returns
// the approval URL the payer must visit.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, invoiceRef string) (*portssvc.GatewayOrder, error) {
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []purchaseUnitPayload{
			{
				ReferenceID: invoiceRef,
				Amount: amountPayload{
					CurrencyCode: currency,
					Value:        amount.StringFixed(2),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": c.returnURL,
			"cancel_url": c.cancelURL,
		},
	}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &resp); err != nil {
		return nil, fmt.Errorf("paypal create order: %w", err)
	}

	order := &portssvc.GatewayOrder{OrderID: resp.ID, Status: resp.Status}
	for _, link := range resp.Links {
		if link.Rel == "approve" || link.Rel == "payer-action" {
			order.ApprovalURL = link.Href
			break
		}
	}
	return order, nil
}

// CaptureOrder captures an approved order and returns the capture details,
// including the invoice reference the order was created with.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*portssvc.GatewayCapture, error) {
	var resp orderResponse
	path := "/v2/checkout/orders/" + orderID + "/capture"
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("paypal capture order %s: %w", orderID, err)
	}

	if len(resp.PurchaseUnits) == 0 || len(resp.PurchaseUnits[0].Payments.Captures) == 0 {
		return nil, fmt.Errorf("paypal capture order %s: response contains no capture", orderID)
	}
	unit := resp.PurchaseUnits[0]
	cap := unit.Payments.Captures[0]

	amount, err := decimal.NewFromString(cap.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("paypal capture order %s: invalid capture amount %q: %w", orderID, cap.Amount.Value, err)
	}

	return &portssvc.GatewayCapture{
		CaptureID:  cap.ID,
		Status:     cap.Status,
		Amount:     amount,
		Currency:   cap.Amount.CurrencyCode,
		InvoiceRef: unit.ReferenceID,
		PayerEmail: resp.Payer.EmailAddress,
	}, nil
}

// RefundCapture refunds part or all of a captured payment.
func (c *Client) RefundCapture(ctx context.Context, captureID string, amount decimal.Decimal, currency string) (*portssvc.GatewayRefund, error) {
	body := map[string]interface{}{
		"amount": amountPayload{
			CurrencyCode: currency,
			Value:        amount.StringFixed(2),
		},
	}

	var resp refundResponse
	path := "/v2/payments/captures/" + captureID + "/refund"
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("paypal refund capture %s: %w", captureID, err)
	}

	refunded, err := decimal.NewFromString(resp.Amount.Value)
	if err != nil {
		return nil, fmt.Errorf("paypal refund capture %s: invalid refund amount %q: %w", captureID, resp.Amount.Value, err)
	}

	return &portssvc.GatewayRefund{RefundID: resp.ID, Status: resp.Status, Amount: refunded}, nil
}

// GetOrderStatus fetches the current status of an order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil, &resp); err != nil {
		return "", fmt.Errorf("paypal get order %s: %w", orderID, err)
	}
	return resp.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}
