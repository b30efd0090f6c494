package dto

type CreateCustomerRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone"`
	Street    *string `json:"street"`
	PostalCode *string `json:"postal_code"`
	City      *string `json:"city"`
	TrainerID *string `json:"trainer_id"`
}

type UpdateCustomerRequest struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Phone      *string `json:"phone"`
	Street     *string `json:"street"`
	PostalCode *string `json:"postal_code"`
	City       *string `json:"city"`
	TrainerID  *string `json:"trainer_id"`
	Notes      *string `json:"notes"`
}

type CustomerResponse struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Email      string        `json:"email,omitempty"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Phone      *string       `json:"phone"`
	Street     *string       `json:"street"`
	PostalCode *string       `json:"postal_code"`
	City       *string       `json:"city"`
	TrainerID  *string       `json:"trainer_id"`
	Notes      *string       `json:"notes,omitempty"`
	Dogs       []DogResponse `json:"dogs,omitempty"`
	CreatedAt  string        `json:"created_at"`
}
