package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepository interface {
	CreatePackage(ctx context.Context, p *model.CreditPackage) error
	FindPackageByID(ctx context.Context, id uuid.UUID) (*model.CreditPackage, error)
	UpdatePackage(ctx context.Context, p *model.CreditPackage) error
	ListPackages(ctx context.Context, includeInactive bool) ([]model.CreditPackage, error)

	CreateCredit(ctx context.Context, tx *gorm.DB, c *model.CustomerCredit) error
	FindCreditByID(ctx context.Context, id uuid.UUID) (*model.CustomerCredit, error)
	UpdateCreditTx(tx *gorm.DB, c *model.CustomerCredit) error
	ListCreditsByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerCredit, error)
	DB() *gorm.DB
}

type creditRepo struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) CreditRepository { return &creditRepo{db: db} }

func (r *creditRepo) DB() *gorm.DB { return r.db }

func (r *creditRepo) CreatePackage(ctx context.Context, p *model.CreditPackage) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *creditRepo) FindPackageByID(ctx context.Context, id uuid.UUID) (*model.CreditPackage, error) {
	var p model.CreditPackage
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *creditRepo) UpdatePackage(ctx context.Context, p *model.CreditPackage) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *creditRepo) ListPackages(ctx context.Context, includeInactive bool) ([]model.CreditPackage, error) {
	var packages []model.CreditPackage
	q := r.db.WithContext(ctx).Order("name")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&packages).Error
	return packages, err
}

func (r *creditRepo) CreateCredit(ctx context.Context, tx *gorm.DB, c *model.CustomerCredit) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(c).Error
}

func (r *creditRepo) FindCreditByID(ctx context.Context, id uuid.UUID) (*model.CustomerCredit, error) {
	var c model.CustomerCredit
	err := r.db.WithContext(ctx).Preload("Package").First(&c, id).Error
	return &c, err
}

func (r *creditRepo) UpdateCreditTx(tx *gorm.DB, c *model.CustomerCredit) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(c).Error
}

func (r *creditRepo) ListCreditsByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CustomerCredit, error) {
	var credits []model.CustomerCredit
	err := r.db.WithContext(ctx).Preload("Package").
		Where("customer_id = ?", customerID).Order("created_at DESC").Find(&credits).Error
	return credits, err
}
