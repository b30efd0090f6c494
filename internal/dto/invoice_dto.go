package dto

import "github.com/shopspring/decimal"

type InvoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" validate:"required,uuid"`
	Items      []InvoiceItemRequest `json:"items"`
	Notes      *string              `json:"notes"`
}

type UpdateInvoiceRequest struct {
	Items []InvoiceItemRequest `json:"items" validate:"required,min=1"`
	Notes *string              `json:"notes"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Method        string          `json:"method" validate:"required,oneof=cash bank_transfer paypal stripe credit_card"`
	TransactionID *string         `json:"transaction_id"`
	Notes         *string         `json:"notes"`
}

type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type TaxLineResponse struct {
	Rate decimal.Decimal `json:"rate"`
	Net  decimal.Decimal `json:"net"`
	Tax  decimal.Decimal `json:"tax"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Number        *string               `json:"number"`
	Status        string                `json:"status"`
	IssuedAt      *string               `json:"issued_at"`
	DueAt         *string               `json:"due_at"`
	SmallBusiness bool                  `json:"small_business"`
	TotalNet      decimal.Decimal       `json:"total_net"`
	TotalTax      decimal.Decimal       `json:"total_tax"`
	TotalGross    decimal.Decimal       `json:"total_gross"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	Balance       decimal.Decimal       `json:"balance"`
	Items         []InvoiceItemResponse `json:"items"`
	TaxBreakdown  []TaxLineResponse     `json:"tax_breakdown,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	CreatedAt     string                `json:"created_at"`
}
