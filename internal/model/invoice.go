package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status values. Draft and open are the only states that accept edits
// or payments respectively; paid and cancelled are terminal.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusOpen      = "open"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice is a customer invoice. Number is assigned on issue (RE-YYYY-NNNNN,
// backed by a Postgres sequence) and stays NULL while the invoice is a draft.
// SmallBusiness snapshots the §19 UStG setting at creation time so later
// setting changes never alter an existing invoice.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Customer      *Customer `gorm:"foreignKey:CustomerID"`
	Number        *string   `gorm:"type:varchar(20);uniqueIndex"`
	Status        string    `gorm:"type:varchar(20);not null;default:'draft'"`
	IssuedAt      *time.Time
	DueAt         *time.Time      `gorm:"index"`
	SmallBusiness bool            `gorm:"not null;default:false"`
	TotalNet      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTax      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalGross    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Notes         *string
	// PDFPath is relative to PDF_STORAGE_PATH env var
	PDFPath   *string       `gorm:"column:pdf_path"`
	Items     []InvoiceItem `gorm:"foreignKey:InvoiceID"`
	Payments  []Payment     `gorm:"foreignKey:InvoiceID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceItem is a single line on an invoice. TaxRate is stored per line even
// in small-business mode so the original rate survives a setting change.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Description string          `gorm:"type:varchar(255);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Terminal reports whether the invoice can no longer change status.
func (i *Invoice) Terminal() bool {
	return i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled
}

// AcceptsPayment reports whether a payment may be recorded in the current status.
func (i *Invoice) AcceptsPayment() bool {
	return i.Status == InvoiceStatusOpen || i.Status == InvoiceStatusOverdue
}
