package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DogRepository interface {
	Create(ctx context.Context, d *model.Dog) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dog, error)
	Update(ctx context.Context, d *model.Dog) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Dog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVaccination(ctx context.Context, v *model.Vaccination) error
	ListVaccinations(ctx context.Context, dogID uuid.UUID) ([]model.Vaccination, error)
}

type dogRepo struct{ db *gorm.DB }

func NewDogRepository(db *gorm.DB) DogRepository { return &dogRepo{db: db} }

func (r *dogRepo) Create(ctx context.Context, d *model.Dog) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dog, error) {
	var d model.Dog
	err := r.db.WithContext(ctx).Preload("Vaccinations").First(&d, id).Error
	return &d, err
}

func (r *dogRepo) Update(ctx context.Context, d *model.Dog) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dogRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Dog, error) {
	var dogs []model.Dog
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("name").Find(&dogs).Error
	return dogs, err
}

func (r *dogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dog{}, id).Error
}

func (r *dogRepo) AddVaccination(ctx context.Context, v *model.Vaccination) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *dogRepo) ListVaccinations(ctx context.Context, dogID uuid.UUID) ([]model.Vaccination, error) {
	var vaccinations []model.Vaccination
	err := r.db.WithContext(ctx).Where("dog_id = ?", dogID).Order("vaccinated_at DESC").Find(&vaccinations).Error
	return vaccinations, err
}
