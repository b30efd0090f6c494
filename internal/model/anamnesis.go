package model

import (
	"time"

	"github.com/google/uuid"
)

// AnamnesisTemplate is an intake questionnaire assembled by the school.
type AnamnesisTemplate struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Active    bool      `gorm:"not null;default:true"`
	Questions []AnamnesisQuestion `gorm:"foreignKey:TemplateID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnamnesisQuestion is one question in a template, ordered by Position.
// Type: "text" | "boolean" | "select"
type AnamnesisQuestion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateID uuid.UUID `gorm:"type:uuid;index;not null"`
	Question   string    `gorm:"type:text;not null"`
	Type       string    `gorm:"type:varchar(20);not null;default:'text'"`
	// Options holds the select choices as a JSON array, empty otherwise
	Options   *string `gorm:"type:text"`
	Position  int     `gorm:"not null;default:0"`
	Required  bool    `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Anamnesis response status values.
const (
	AnamnesisStatusInProgress = "in_progress"
	AnamnesisStatusCompleted  = "completed"
)

// AnamnesisResponse is a customer's (partially) filled questionnaire for a dog.
type AnamnesisResponse struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateID  uuid.UUID          `gorm:"type:uuid;index;not null"`
	Template    *AnamnesisTemplate `gorm:"foreignKey:TemplateID"`
	CustomerID  uuid.UUID          `gorm:"type:uuid;index;not null"`
	DogID       uuid.UUID          `gorm:"type:uuid;index;not null"`
	Status      string             `gorm:"type:varchar(20);not null;default:'in_progress'"`
	CompletedAt *time.Time
	Answers     []AnamnesisAnswer `gorm:"foreignKey:ResponseID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AnamnesisAnswer stores the answer text for one question of a response.
type AnamnesisAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResponseID uuid.UUID `gorm:"type:uuid;index;not null"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null"`
	Answer     string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
