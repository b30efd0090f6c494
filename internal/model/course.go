package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Course is a bookable training offer.
// Type: "single" | "group" | "open_group"
type Course struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description *string
	Type        string          `gorm:"type:varchar(20);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19"`
	Capacity    int             `gorm:"not null;default:8"`
	TrainerID   *uuid.UUID      `gorm:"type:uuid;index"`
	Active      bool            `gorm:"not null;default:true"`
	Sessions    []TrainingSession `gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TrainingSession is a dated occurrence of a course.
type TrainingSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Course    *Course   `gorm:"foreignKey:CourseID"`
	StartsAt  time.Time `gorm:"not null;index"`
	EndsAt    time.Time `gorm:"not null"`
	Location  *string   `gorm:"type:varchar(255)"`
	Cancelled bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
