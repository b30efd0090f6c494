package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	// FindByMethodAndTransactionID resolves the ledger uniqueness key.
	FindByMethodAndTransactionID(ctx context.Context, method, transactionID string) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, invoiceID *uuid.UUID) ([]model.Payment, error)
	// SumCompleted projects the settled amount for an invoice from the ledger.
	SumCompleted(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	DB() *gorm.DB
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) DB() *gorm.DB { return r.db }

func (r *paymentRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Preload("Invoice").First(&p, id).Error
	return &p, err
}

func (r *paymentRepo) FindByMethodAndTransactionID(ctx context.Context, method, transactionID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).
		Where("method = ? AND transaction_id = ?", method, transactionID).
		First(&p).Error
	return &p, err
}

func (r *paymentRepo) Update(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paymentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Payment{}, id).Error
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", id).Update("status", status).Error
}

func (r *paymentRepo) List(ctx context.Context, invoiceID *uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if invoiceID != nil {
		q = q.Where("invoice_id = ?", *invoiceID)
	}
	err := q.Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) SumCompleted(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("invoice_id = ? AND status = ?", invoiceID, model.PaymentStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}
