package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnamnesisRepository interface {
	CreateTemplate(ctx context.Context, t *model.AnamnesisTemplate) error
	FindTemplateByID(ctx context.Context, id uuid.UUID) (*model.AnamnesisTemplate, error)
	UpdateTemplate(ctx context.Context, t *model.AnamnesisTemplate) error
	ListTemplates(ctx context.Context) ([]model.AnamnesisTemplate, error)

	CreateResponse(ctx context.Context, resp *model.AnamnesisResponse) error
	FindResponseByID(ctx context.Context, id uuid.UUID) (*model.AnamnesisResponse, error)
	UpdateResponse(ctx context.Context, resp *model.AnamnesisResponse) error
	ListResponsesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.AnamnesisResponse, error)
	SaveAnswer(ctx context.Context, a *model.AnamnesisAnswer) error
}

type anamnesisRepo struct{ db *gorm.DB }

func NewAnamnesisRepository(db *gorm.DB) AnamnesisRepository { return &anamnesisRepo{db: db} }

func (r *anamnesisRepo) CreateTemplate(ctx context.Context, t *model.AnamnesisTemplate) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *anamnesisRepo) FindTemplateByID(ctx context.Context, id uuid.UUID) (*model.AnamnesisTemplate, error) {
	var t model.AnamnesisTemplate
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&t, id).Error
	return &t, err
}

func (r *anamnesisRepo) UpdateTemplate(ctx context.Context, t *model.AnamnesisTemplate) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *anamnesisRepo) ListTemplates(ctx context.Context) ([]model.AnamnesisTemplate, error) {
	var templates []model.AnamnesisTemplate
	err := r.db.WithContext(ctx).Where("active = true").Order("name").Find(&templates).Error
	return templates, err
}

func (r *anamnesisRepo) CreateResponse(ctx context.Context, resp *model.AnamnesisResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *anamnesisRepo) FindResponseByID(ctx context.Context, id uuid.UUID) (*model.AnamnesisResponse, error) {
	var resp model.AnamnesisResponse
	err := r.db.WithContext(ctx).
		Preload("Template.Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Answers").
		First(&resp, id).Error
	return &resp, err
}

func (r *anamnesisRepo) UpdateResponse(ctx context.Context, resp *model.AnamnesisResponse) error {
	return r.db.WithContext(ctx).Save(resp).Error
}

func (r *anamnesisRepo) ListResponsesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.AnamnesisResponse, error) {
	var responses []model.AnamnesisResponse
	err := r.db.WithContext(ctx).Preload("Template").
		Where("customer_id = ?", customerID).Order("created_at DESC").Find(&responses).Error
	return responses, err
}

func (r *anamnesisRepo) SaveAnswer(ctx context.Context, a *model.AnamnesisAnswer) error {
	return r.db.WithContext(ctx).Save(a).Error
}
