package dto

import "github.com/shopspring/decimal"

type PaymentResponse struct {
	ID            string          `json:"id"`
	InvoiceID     string          `json:"invoice_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id"`
	PaidAt        *string         `json:"paid_at"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// CreatePaymentRequest books a manual ledger entry. An omitted status means
// pending (an announced bank transfer); completed entries settle immediately.
type CreatePaymentRequest struct {
	InvoiceID     string          `json:"invoice_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required,oneof=cash bank_transfer paypal stripe credit_card"`
	Status        string          `json:"status" validate:"omitempty,oneof=pending completed"`
	TransactionID *string         `json:"transaction_id"`
	Notes         *string         `json:"notes"`
}

// UpdatePaymentRequest edits a pending ledger entry.
type UpdatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Method        *string          `json:"method" validate:"omitempty,oneof=cash bank_transfer paypal stripe credit_card"`
	TransactionID *string          `json:"transaction_id"`
	Notes         *string          `json:"notes"`
}

type CreatePayPalOrderRequest struct {
	InvoiceID string `json:"invoice_id" validate:"required,uuid"`
}

type CreatePayPalOrderResponse struct {
	OrderID    string          `json:"order_id"`
	ApproveURL string          `json:"approve_url"`
	Amount     decimal.Decimal `json:"amount"`
}

type CapturePayPalOrderRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	InvoiceID string `json:"invoice_id" validate:"required,uuid"`
}
