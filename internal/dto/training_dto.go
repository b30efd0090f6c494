package dto

type CreateTrainingLogRequest struct {
	DogID           string  `json:"dog_id" validate:"required,uuid"`
	SessionID       *string `json:"session_id" validate:"omitempty,uuid"`
	LogDate         string  `json:"log_date" validate:"required"` // YYYY-MM-DD
	Title           string  `json:"title" validate:"required,max=255"`
	Notes           *string `json:"notes"`
	Recommendations *string `json:"recommendations"`
}

type UpdateTrainingLogRequest struct {
	LogDate         *string `json:"log_date"`
	Title           *string `json:"title" validate:"omitempty,max=255"`
	Notes           *string `json:"notes"`
	Recommendations *string `json:"recommendations"`
}

type TrainingLogResponse struct {
	ID              string                       `json:"id"`
	DogID           string                       `json:"dog_id"`
	DogName         string                       `json:"dog_name,omitempty"`
	SessionID       *string                      `json:"session_id"`
	TrainerID       string                       `json:"trainer_id"`
	TrainerName     string                       `json:"trainer_name,omitempty"`
	LogDate         string                       `json:"log_date"`
	Title           string                       `json:"title"`
	Notes           *string                      `json:"notes"`
	Recommendations *string                      `json:"recommendations"`
	Attachments     []TrainingAttachmentResponse `json:"attachments"`
	CreatedAt       string                       `json:"created_at"`
}

type TrainingAttachmentResponse struct {
	ID            string `json:"id"`
	TrainingLogID string `json:"training_log_id"`
	FileType      string `json:"file_type"`
	FileName      string `json:"file_name"`
	UploadedAt    string `json:"uploaded_at"`
}
