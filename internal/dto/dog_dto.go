package dto

type CreateDogRequest struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	Name       string  `json:"name" validate:"required"`
	Breed      *string `json:"breed"`
	BirthDate  *string `json:"birth_date"` // YYYY-MM-DD
	Sex        *string `json:"sex" validate:"omitempty,oneof=m f"`
	Neutered   bool    `json:"neutered"`
	ChipNumber *string `json:"chip_number"`
	Notes      *string `json:"notes"`
}

type UpdateDogRequest struct {
	Name       string  `json:"name"`
	Breed      *string `json:"breed"`
	BirthDate  *string `json:"birth_date"`
	Sex        *string `json:"sex" validate:"omitempty,oneof=m f"`
	Neutered   *bool   `json:"neutered"`
	ChipNumber *string `json:"chip_number"`
	Notes      *string `json:"notes"`
}

type VaccinationRequest struct {
	Name         string  `json:"name" validate:"required"`
	VaccinatedAt string  `json:"vaccinated_at" validate:"required"` // YYYY-MM-DD
	ValidUntil   *string `json:"valid_until"`
}

type VaccinationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	VaccinatedAt string  `json:"vaccinated_at"`
	ValidUntil   *string `json:"valid_until"`
}

type DogResponse struct {
	ID           string                `json:"id"`
	CustomerID   string                `json:"customer_id"`
	Name         string                `json:"name"`
	Breed        *string               `json:"breed"`
	BirthDate    *string               `json:"birth_date"`
	Sex          *string               `json:"sex"`
	Neutered     bool                  `json:"neutered"`
	ChipNumber   *string               `json:"chip_number"`
	Notes        *string               `json:"notes,omitempty"`
	Vaccinations []VaccinationResponse `json:"vaccinations,omitempty"`
}
