package service

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubInvoiceRepo is an in-memory InvoiceRepository. DB() returns nil so
// runTx executes callbacks directly.
type stubInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	seq      int64
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[uuid.UUID]*model.Invoice)}
}

func (r *stubInvoiceRepo) Create(_ context.Context, _ *gorm.DB, inv *model.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByNumber(_ context.Context, number string) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.Number != nil && *inv.Number == number {
			return inv, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *stubInvoiceRepo) UpdateTx(_ *gorm.DB, inv *model.Invoice) error {
	return r.Update(context.Background(), inv)
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) List(_ context.Context, status string, customerID *uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if status != "" && status != "all" && inv.Status != status {
			continue
		}
		if customerID != nil && inv.CustomerID != *customerID {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *stubInvoiceRepo) ListOverdueCandidates(_ context.Context, asOf time.Time) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if inv.Status == model.InvoiceStatusOpen && inv.DueAt != nil && inv.DueAt.Before(asOf) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) ListOverdueOlderThan(_ context.Context, asOf time.Time, minDays int) ([]model.Invoice, error) {
	cutoff := asOf.AddDate(0, 0, -minDays)
	var out []model.Invoice
	for _, inv := range r.invoices {
		open := inv.Status == model.InvoiceStatusOpen || inv.Status == model.InvoiceStatusOverdue
		if open && inv.DueAt != nil && !inv.DueAt.After(cutoff) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubInvoiceRepo) DB() *gorm.DB { return nil }

// stubPaymentRepo is an in-memory PaymentRepository.
type stubPaymentRepo struct {
	payments []*model.Payment
}

func (r *stubPaymentRepo) Create(_ context.Context, _ *gorm.DB, p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments = append(r.payments, p)
	return nil
}

func (r *stubPaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) FindByMethodAndTransactionID(_ context.Context, method, transactionID string) (*model.Payment, error) {
	for _, p := range r.payments {
		if p.Method == method && p.TransactionID != nil && *p.TransactionID == transactionID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) Update(_ context.Context, p *model.Payment) error {
	for i, existing := range r.payments {
		if existing.ID == p.ID {
			r.payments[i] = p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, p := range r.payments {
		if p.ID == id {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	for _, p := range r.payments {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) List(_ context.Context, invoiceID *uuid.UUID) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.payments {
		if invoiceID == nil || p.InvoiceID == *invoiceID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) SumCompleted(_ context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.payments {
		if p.InvoiceID == invoiceID && p.Status == model.PaymentStatusCompleted {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (r *stubPaymentRepo) DB() *gorm.DB { return nil }

// stubCustomerRepo holds customers by id.
type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) ListByTrainer(_ context.Context, trainerID uuid.UUID) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.TrainerID != nil && *c.TrainerID == trainerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

// stubSettings is a fixed-answer SettingsService.
type stubSettings struct {
	smallBusiness bool
}

func (s *stubSettings) Get(_ context.Context, key string) (*model.Setting, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubSettings) GetBool(_ context.Context, key string) bool {
	return key == model.SettingCompanySmallBusiness && s.smallBusiness
}

func (s *stubSettings) Set(_ context.Context, key, value, typ string) (*model.Setting, error) {
	return &model.Setting{Key: key, Value: value, Type: typ}, nil
}

func (s *stubSettings) List(_ context.Context) ([]model.Setting, error) { return nil, nil }

func (s *stubSettings) CompanyInfo(_ context.Context) infra.CompanyInfo { return infra.CompanyInfo{} }

// stubNotifier records enqueued events.
type stubNotifier struct {
	events []string
}

func (n *stubNotifier) EnqueueEvent(_ context.Context, eventType string, _ interface{}) error {
	n.events = append(n.events, eventType)
	return nil
}

var (
	_ repository.InvoiceRepository  = (*stubInvoiceRepo)(nil)
	_ repository.PaymentRepository  = (*stubPaymentRepo)(nil)
	_ repository.CustomerRepository = (*stubCustomerRepo)(nil)
	_ SettingsService               = (*stubSettings)(nil)
	_ Notifier                      = (*stubNotifier)(nil)
)
