package dto

type CreateTemplateRequest struct {
	Name      string                  `json:"name" validate:"required"`
	Questions []TemplateQuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type TemplateQuestionInput struct {
	Question string  `json:"question" validate:"required"`
	Type     string  `json:"type" validate:"required,oneof=text boolean select"`
	Required bool    `json:"required"`
	Options  *string `json:"options"` // JSON array for select questions
}

type TemplateQuestionResponse struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Type     string  `json:"type"`
	Position int     `json:"position"`
	Required bool    `json:"required"`
	Options  *string `json:"options"`
}

type TemplateResponse struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Active    bool                       `json:"active"`
	Questions []TemplateQuestionResponse `json:"questions,omitempty"`
}

type StartResponseRequest struct {
	TemplateID string `json:"template_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	DogID      string `json:"dog_id" validate:"required,uuid"`
}

type SubmitAnswersRequest struct {
	Answers  []AnswerInput `json:"answers" validate:"required,dive"`
	Complete bool          `json:"complete"`
}

type AnswerInput struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Answer     string `json:"answer"`
}

type AnswerResponse struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type AnamnesisResponseDTO struct {
	ID          string           `json:"id"`
	TemplateID  string           `json:"template_id"`
	CustomerID  string           `json:"customer_id"`
	DogID       string           `json:"dog_id"`
	Status      string           `json:"status"`
	CompletedAt *string          `json:"completed_at"`
	Answers     []AnswerResponse `json:"answers,omitempty"`
}
