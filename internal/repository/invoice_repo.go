package repository

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	Update(ctx context.Context, inv *model.Invoice) error
	UpdateTx(tx *gorm.DB, inv *model.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, customerID *uuid.UUID) ([]model.Invoice, error)
	// ListOverdueCandidates returns open invoices whose due date is before asOf.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]model.Invoice, error)
	// ListOverdueOlderThan returns overdue/open invoices due more than minDays ago.
	ListOverdueOlderThan(ctx context.Context, asOf time.Time, minDays int) ([]model.Invoice, error)
	// NextInvoiceNumber draws the next value from the invoice number sequence.
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").Preload("Customer.User").
		First(&inv, id).Error
	return &inv, err
}

func (r *invoiceRepo) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").Preload("Customer.User").
		Where("number = ?", number).First(&inv).Error
	return &inv, err
}

func (r *invoiceRepo) Update(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *invoiceRepo) UpdateTx(tx *gorm.DB, inv *model.Invoice) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(inv).Error
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Items").Delete(&model.Invoice{ID: id}).Error
}

func (r *invoiceRepo) List(ctx context.Context, status string, customerID *uuid.UUID) ([]model.Invoice, error) {
	var invoices []model.Invoice
	q := r.db.WithContext(ctx).Preload("Items").Preload("Customer.User").Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	err := q.Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at IS NOT NULL AND due_at < ?", model.InvoiceStatusOpen, asOf).
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) ListOverdueOlderThan(ctx context.Context, asOf time.Time, minDays int) ([]model.Invoice, error) {
	cutoff := asOf.AddDate(0, 0, -minDays)
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer.User").Preload("Payments").
		Where("status IN ? AND due_at IS NOT NULL AND due_at <= ?",
			[]string{model.InvoiceStatusOpen, model.InvoiceStatusOverdue}, cutoff).
		Order("due_at").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	// Postgres sequence guarantees gap-free-enough, strictly increasing numbers
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('invoice_number_seq')").Scan(&num).Error
	return num, err
}
