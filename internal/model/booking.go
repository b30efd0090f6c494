package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking status values.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking reserves a slot in a training session for a customer's dog.
type Booking struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID  uuid.UUID        `gorm:"type:uuid;index;not null"`
	Session    *TrainingSession `gorm:"foreignKey:SessionID"`
	CustomerID uuid.UUID        `gorm:"type:uuid;index;not null"`
	Customer   *Customer        `gorm:"foreignKey:CustomerID"`
	DogID      uuid.UUID        `gorm:"type:uuid;index;not null"`
	Dog        *Dog             `gorm:"foreignKey:DogID"`
	Status     string           `gorm:"type:varchar(20);not null;default:'confirmed'"`
	// CreditID is set when the booking consumed a unit from a credit package
	CreditID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
