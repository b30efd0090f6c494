package service

import (
	"context"
	"errors"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CustomerService interface {
	// Create is the admin path: it provisions the user account together with
	// the customer profile.
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerService struct {
	customers repository.CustomerRepository
	users     repository.UserRepository
	invoices  repository.InvoiceRepository
}

func NewCustomerService(customers repository.CustomerRepository, users repository.UserRepository, invoices repository.InvoiceRepository) CustomerService {
	return &customerService{customers: customers, users: users, invoices: invoices}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*model.Customer, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierror.Conflict("E-Mail-Adresse wird bereits verwendet")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var trainerID *uuid.UUID
	if req.TrainerID != nil && *req.TrainerID != "" {
		id, err := uuid.Parse(*req.TrainerID)
		if err != nil {
			return nil, apierror.Validation("Ungültige Trainer-ID")
		}
		trainerID = &id
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.FirstName + " " + req.LastName,
		Role:         middleware.RoleCustomer,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		UserID:     user.ID,
		TrainerID:  trainerID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Street:     req.Street,
		PostalCode: req.PostalCode,
		City:       req.City,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	customer.User = user
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*model.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.Street != nil {
		customer.Street = req.Street
	}
	if req.PostalCode != nil {
		customer.PostalCode = req.PostalCode
	}
	if req.City != nil {
		customer.City = req.City
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}
	if req.TrainerID != nil {
		if *req.TrainerID == "" {
			customer.TrainerID = nil
		} else {
			trainerID, err := uuid.Parse(*req.TrainerID)
			if err != nil {
				return nil, apierror.Validation("Ungültige Trainer-ID")
			}
			customer.TrainerID = &trainerID
		}
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *customerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	return s.customers.FindByUserID(ctx, userID)
}

func (s *customerService) List(ctx context.Context) ([]model.Customer, error) {
	return s.customers.List(ctx)
}

func (s *customerService) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.Customer, error) {
	return s.customers.ListByTrainer(ctx, trainerID)
}

// Delete removes a customer and deactivates the login. Customers with
// non-cancelled invoices are kept for the books.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return err
	}

	invoices, err := s.invoices.List(ctx, "", &id)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if inv.Status != model.InvoiceStatusCancelled {
			return apierror.InvalidState("Kunde mit Rechnungen kann nicht gelöscht werden")
		}
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	return s.users.Deactivate(ctx, customer.UserID)
}
