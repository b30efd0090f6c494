package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment status values. Rows are append-only: a pending payment may be
// completed or failed, but amounts and method are never edited afterwards.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment method values.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodPayPal       = "paypal"
	PaymentMethodStripe       = "stripe"
	PaymentMethodCreditCard   = "credit_card"
)

// Payment is one ledger entry against an invoice. The (method, transaction_id)
// pair is unique so a replayed gateway capture cannot create a second row.
type Payment struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Invoice   *Invoice        `gorm:"foreignKey:InvoiceID"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method    string          `gorm:"type:varchar(30);not null"`
	Status    string          `gorm:"type:varchar(20);not null;default:'pending'"`
	// TransactionID is the external reference (PayPal capture id, bank reference)
	TransactionID *string `gorm:"type:varchar(100)"`
	PaidAt        *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
