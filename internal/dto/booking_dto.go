package dto

type CreateBookingRequest struct {
	SessionID  string `json:"session_id" validate:"required,uuid"`
	CustomerID string `json:"customer_id" validate:"required,uuid"`
	DogID      string `json:"dog_id" validate:"required,uuid"`
	UseCredit  bool   `json:"use_credit"`
}

type BookingResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	CustomerID string  `json:"customer_id"`
	DogID      string  `json:"dog_id"`
	Status     string  `json:"status"`
	CreditID   *string `json:"credit_id"`
	CourseName string  `json:"course_name,omitempty"`
	StartsAt   string  `json:"starts_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}
