package model

import (
	"time"

	"github.com/google/uuid"
)

// Dog belongs to a customer and is the subject of bookings and anamnesis forms.
type Dog struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Breed        *string    `gorm:"type:varchar(100)"`
	BirthDate    *time.Time `gorm:"type:date"`
	Sex          *string    `gorm:"type:varchar(10)"` // "m" | "f"
	Neutered     bool       `gorm:"not null;default:false"`
	ChipNumber   *string    `gorm:"type:varchar(50)"`
	Notes        *string
	Vaccinations []Vaccination `gorm:"foreignKey:DogID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Vaccination records a single shot for a dog.
type Vaccination struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DogID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	Name         string     `gorm:"type:varchar(100);not null"`
	VaccinatedAt time.Time  `gorm:"type:date;not null"`
	ValidUntil   *time.Time `gorm:"type:date"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
