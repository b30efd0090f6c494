package service

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type DogService interface {
	Create(ctx context.Context, req dto.CreateDogRequest) (*model.Dog, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDogRequest) (*model.Dog, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Dog, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Dog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVaccination(ctx context.Context, dogID uuid.UUID, req dto.VaccinationRequest) (*model.Vaccination, error)
	ListVaccinations(ctx context.Context, dogID uuid.UUID) ([]model.Vaccination, error)
}

type dogService struct {
	dogs      repository.DogRepository
	customers repository.CustomerRepository
}

func NewDogService(dogs repository.DogRepository, customers repository.CustomerRepository) DogService {
	return &dogService{dogs: dogs, customers: customers}
}

func (s *dogService) Create(ctx context.Context, req dto.CreateDogRequest) (*model.Dog, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Kunden-ID")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, apierror.Validation("Kunde nicht gefunden")
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, apierror.Validation("Geburtsdatum muss im Format JJJJ-MM-TT angegeben werden")
	}

	dog := &model.Dog{
		CustomerID: customerID,
		Name:       req.Name,
		Breed:      req.Breed,
		BirthDate:  birthDate,
		Sex:        req.Sex,
		Neutered:   req.Neutered,
		ChipNumber: req.ChipNumber,
		Notes:      req.Notes,
	}
	if err := s.dogs.Create(ctx, dog); err != nil {
		return nil, err
	}
	return dog, nil
}

func (s *dogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDogRequest) (*model.Dog, error) {
	dog, err := s.dogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		dog.Name = req.Name
	}
	if req.Breed != nil {
		dog.Breed = req.Breed
	}
	if req.BirthDate != nil {
		birthDate, err := parseDate(req.BirthDate)
		if err != nil {
			return nil, apierror.Validation("Geburtsdatum muss im Format JJJJ-MM-TT angegeben werden")
		}
		dog.BirthDate = birthDate
	}
	if req.Sex != nil {
		dog.Sex = req.Sex
	}
	if req.Neutered != nil {
		dog.Neutered = *req.Neutered
	}
	if req.ChipNumber != nil {
		dog.ChipNumber = req.ChipNumber
	}
	if req.Notes != nil {
		dog.Notes = req.Notes
	}

	if err := s.dogs.Update(ctx, dog); err != nil {
		return nil, err
	}
	return dog, nil
}

func (s *dogService) Get(ctx context.Context, id uuid.UUID) (*model.Dog, error) {
	return s.dogs.FindByID(ctx, id)
}

func (s *dogService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Dog, error) {
	return s.dogs.ListByCustomer(ctx, customerID)
}

func (s *dogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.dogs.Delete(ctx, id)
}

func (s *dogService) AddVaccination(ctx context.Context, dogID uuid.UUID, req dto.VaccinationRequest) (*model.Vaccination, error) {
	if _, err := s.dogs.FindByID(ctx, dogID); err != nil {
		return nil, err
	}

	vaccinatedAt, err := time.Parse(dateLayout, req.VaccinatedAt)
	if err != nil {
		return nil, apierror.Validation("Impfdatum muss im Format JJJJ-MM-TT angegeben werden")
	}
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, apierror.Validation("Gültigkeitsdatum muss im Format JJJJ-MM-TT angegeben werden")
	}

	v := &model.Vaccination{
		DogID:        dogID,
		Name:         req.Name,
		VaccinatedAt: vaccinatedAt,
		ValidUntil:   validUntil,
	}
	if err := s.dogs.AddVaccination(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *dogService) ListVaccinations(ctx context.Context, dogID uuid.UUID) ([]model.Vaccination, error) {
	return s.dogs.ListVaccinations(ctx, dogID)
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
