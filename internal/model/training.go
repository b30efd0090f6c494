package model

import (
	"time"

	"github.com/google/uuid"
)

// Attachment file type values, derived from the upload's MIME type.
const (
	AttachmentTypeImage    = "image"
	AttachmentTypeVideo    = "video"
	AttachmentTypeDocument = "document"
)

// TrainingLog documents one dog's progress: what was worked on, how the dog
// behaved, and what the owner should practice until the next session.
type TrainingLog struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DogID           uuid.UUID        `gorm:"type:uuid;index;not null"`
	Dog             *Dog             `gorm:"foreignKey:DogID"`
	SessionID       *uuid.UUID       `gorm:"type:uuid;index"`
	Session         *TrainingSession `gorm:"foreignKey:SessionID"`
	TrainerID       uuid.UUID        `gorm:"type:uuid;index;not null"`
	Trainer         *User            `gorm:"foreignKey:TrainerID"`
	LogDate         time.Time        `gorm:"type:date;not null;index"`
	Title           string           `gorm:"type:varchar(255);not null"`
	Notes           *string
	Recommendations *string
	Attachments     []TrainingAttachment `gorm:"foreignKey:TrainingLogID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TrainingAttachment is an uploaded file (photo, video, document) on a log.
type TrainingAttachment struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TrainingLogID uuid.UUID `gorm:"type:uuid;index;not null"`
	FileType      string    `gorm:"type:varchar(20);not null;index"`
	// FilePath is where the file sits on disk; FileName is the upload's
	// original name, used for downloads.
	FilePath   string `gorm:"type:varchar(500);not null"`
	FileName   string `gorm:"type:varchar(255);not null"`
	UploadedAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
