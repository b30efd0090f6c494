package dto

import "github.com/shopspring/decimal"

type CreateCourseRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description"`
	Type        string          `json:"type" validate:"required,oneof=single group open_group"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Capacity    int             `json:"capacity" validate:"min=1"`
	TrainerID   *string         `json:"trainer_id"`
}

type UpdateCourseRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Type        string           `json:"type" validate:"omitempty,oneof=single group open_group"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	Capacity    *int             `json:"capacity"`
	TrainerID   *string          `json:"trainer_id"`
}

type CourseResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Type        string          `json:"type"`
	Price       decimal.Decimal `json:"price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Capacity    int             `json:"capacity"`
	TrainerID   *string         `json:"trainer_id"`
	Active      bool            `json:"active"`
}

type CreateSessionRequest struct {
	StartsAt string  `json:"starts_at" validate:"required"` // RFC 3339
	EndsAt   string  `json:"ends_at" validate:"required"`   // RFC 3339
	Location *string `json:"location"`
}

type SessionResponse struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"course_id"`
	StartsAt  string  `json:"starts_at"`
	EndsAt    string  `json:"ends_at"`
	Location  *string `json:"location"`
	Cancelled bool    `json:"cancelled"`
	Booked    int64   `json:"booked"`
}
