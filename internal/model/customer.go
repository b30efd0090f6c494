package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the billing/contact profile attached to a user account.
// Trainers are assigned customers via TrainerID; customers see only themselves.
type Customer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	User       *User      `gorm:"foreignKey:UserID"`
	TrainerID  *uuid.UUID `gorm:"type:uuid;index"`
	FirstName  string     `gorm:"type:varchar(100);not null"`
	LastName   string     `gorm:"type:varchar(100);not null"`
	Phone      *string    `gorm:"type:varchar(50)"`
	Street     *string    `gorm:"type:varchar(255)"`
	PostalCode *string    `gorm:"type:varchar(20)"`
	City       *string    `gorm:"type:varchar(100)"`
	Notes      *string
	Dogs       []Dog `gorm:"foreignKey:CustomerID"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
