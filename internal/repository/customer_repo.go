package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	List(ctx context.Context) ([]model.Customer, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("User").Preload("Dogs").First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Preload("User").Preload("Dogs").Where("user_id = ?", userID).First(&c).Error
	return &c, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Preload("User").Order("last_name, first_name").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) ListByTrainer(ctx context.Context, trainerID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Preload("User").
		Where("trainer_id = ?", trainerID).
		Order("last_name, first_name").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, id).Error
}
