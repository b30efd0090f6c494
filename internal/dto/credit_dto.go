package dto

import "github.com/shopspring/decimal"

type CreateCreditPackageRequest struct {
	Name        string          `json:"name" validate:"required"`
	Units       int             `json:"units" validate:"required,min=1"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	ValidMonths int             `json:"valid_months" validate:"min=0"`
}

type CreditPackageResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Units       int             `json:"units"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	ValidMonths int             `json:"valid_months"`
	Active      bool            `json:"active"`
}

type PurchaseCreditRequest struct {
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	PackageID  string `json:"package_id" validate:"required,uuid"`
}

type CustomerCreditResponse struct {
	ID             string  `json:"id"`
	CustomerID     string  `json:"customer_id"`
	PackageID      string  `json:"package_id"`
	UnitsTotal     int     `json:"units_total"`
	UnitsRemaining int     `json:"units_remaining"`
	ExpiresAt      *string `json:"expires_at"`
	InvoiceID      *string `json:"invoice_id"`
}
