package infra

// paypal.go — PayPal Orders v2 REST client.
// Token handling is delegated to golang.org/x/oauth2 client-credentials,
// which caches and refreshes the bearer token transparently.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/config"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	paypalSandboxBase = "https://api-m.sandbox.paypal.com"
	paypalLiveBase    = "https://api-m.paypal.com"
)

// PayPalOrder is the subset of the Orders v2 resource the backend consumes.
type PayPalOrder struct {
	ID            string `json:"id"`
	Status        string `json:"status"` // CREATED | APPROVED | COMPLETED | VOIDED
	PurchaseUnits []struct {
		ReferenceID string `json:"reference_id"`
		InvoiceID   string `json:"invoice_id"`
		Payments    *struct {
			Captures []PayPalCapture `json:"captures"`
		} `json:"payments,omitempty"`
	} `json:"purchase_units"`
	Links []struct {
		Href   string `json:"href"`
		Rel    string `json:"rel"`
		Method string `json:"method"`
	} `json:"links"`
}

// PayPalCapture is one capture inside an order's payment collection.
type PayPalCapture struct {
	ID     string `json:"id"`
	Status string `json:"status"` // COMPLETED | DECLINED | PENDING
	Amount struct {
		CurrencyCode string `json:"currency_code"`
		Value        string `json:"value"`
	} `json:"amount"`
}

// ApproveLink returns the buyer-facing approval URL of a freshly created order.
func (o *PayPalOrder) ApproveLink() string {
	for _, l := range o.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// FirstCapture returns the first capture of the first purchase unit, if any.
func (o *PayPalOrder) FirstCapture() *PayPalCapture {
	for _, pu := range o.PurchaseUnits {
		if pu.Payments != nil && len(pu.Payments.Captures) > 0 {
			return &pu.Payments.Captures[0]
		}
	}
	return nil
}

// PayPalClient talks to the PayPal Orders v2 API.
type PayPalClient struct {
	baseURL    string
	currency   string
	httpClient *http.Client
}

// NewPayPalClient builds a client for the configured mode. The returned
// http.Client injects OAuth2 bearer tokens on every request.
func NewPayPalClient(cfg *config.Config) *PayPalClient {
	base := paypalSandboxBase
	if cfg.PayPalMode == "live" {
		base = paypalLiveBase
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.PayPalClientID,
		ClientSecret: cfg.PayPalClientSecret,
		TokenURL:     base + "/v1/oauth2/token",
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 30 * time.Second

	return &PayPalClient{
		baseURL:    base,
		currency:   cfg.PayPalCurrency,
		httpClient: httpClient,
	}
}

// CreateOrder creates a CAPTURE-intent order over the given amount.
// invoiceNumber travels as the purchase unit's invoice_id so the payment
// shows up referenced in the merchant account.
func (c *PayPalClient) CreateOrder(ctx context.Context, amount decimal.Decimal, invoiceNumber, description string) (*PayPalOrder, error) {
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"reference_id": invoiceNumber,
			"invoice_id":   invoiceNumber,
			"description":  description,
			"amount": map[string]string{
				"currency_code": c.currency,
				"value":         amount.StringFixed(2),
			},
		}},
	}
	return c.do(ctx, http.MethodPost, "/v2/checkout/orders", body)
}

// CaptureOrder captures an approved order.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	return c.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil)
}

// GetOrder fetches the current state of an order.
func (c *PayPalClient) GetOrder(ctx context.Context, orderID string) (*PayPalOrder, error) {
	return c.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil)
}

func (c *PayPalClient) do(ctx context.Context, method, path string, body interface{}) (*PayPalOrder, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("paypal: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("paypal: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paypal: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("paypal: api returned %d: %s", resp.StatusCode, string(data))
	}

	var order PayPalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("paypal: decode response: %w", err)
	}
	return &order, nil
}
