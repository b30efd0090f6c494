package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditPackage is a prepaid bundle of training units (e.g. 10er-Karte).
type CreditPackage struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Units     int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19"`
	// ValidMonths limits how long purchased units stay usable (0 = unlimited)
	ValidMonths int  `gorm:"not null;default:12"`
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerCredit tracks the remaining units of a purchased package.
type CustomerCredit struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID     uuid.UUID      `gorm:"type:uuid;index;not null"`
	PackageID      uuid.UUID      `gorm:"type:uuid;not null"`
	Package        *CreditPackage `gorm:"foreignKey:PackageID"`
	UnitsTotal     int            `gorm:"not null"`
	UnitsRemaining int            `gorm:"not null"`
	ExpiresAt      *time.Time
	// InvoiceID links the purchase to the draft invoice created for it
	InvoiceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
