package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubInvoiceRepo is an in-memory InvoiceRepository for sweep tests.
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
		return nil, errors.New("not found")
	}
	return inv, nil
}

func (r *stubInvoiceRepo) FindByNumber(_ context.Context, number string) (*model.Invoice, error) {
	for _, inv := range r.invoices {
		if inv.Number != nil && *inv.Number == number {
			return inv, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubInvoiceRepo) Update(_ context.Context, inv *model.Invoice) error {
	if _, ok := r.invoices[inv.ID]; !ok {
		return errors.New("not found")
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

func (r *stubInvoiceRepo) List(_ context.Context, status string, _ *uuid.UUID) ([]model.Invoice, error) {
	var out []model.Invoice
	for _, inv := range r.invoices {
		if status == "" || status == "all" || inv.Status == status {
			out = append(out, *inv)
		}
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

var _ repository.InvoiceRepository = (*stubInvoiceRepo)(nil)

// stubDispatcher records enqueued events.
type stubDispatcher struct {
	events []string
	fail   bool
}

func (d *stubDispatcher) EnqueueEvent(_ context.Context, eventType string, _ interface{}) error {
	if d.fail {
		return errors.New("redis down")
	}
	d.events = append(d.events, eventType)
	return nil
}

var _ EventDispatcher = (*stubDispatcher)(nil)

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedInvoice(repo *stubInvoiceRepo, status string, dueDaysAgo int, now time.Time) *model.Invoice {
	due := now.AddDate(0, 0, -dueDaysAgo)
	inv := &model.Invoice{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Status:     status,
		DueAt:      &due,
	}
	repo.invoices[inv.ID] = inv
	return inv
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestReminderSweep_MarksOverdue(t *testing.T) {
	repo := newStubInvoiceRepo()
	now := time.Now()
	pastDue := seedInvoice(repo, model.InvoiceStatusOpen, 3, now)
	notDue := seedInvoice(repo, model.InvoiceStatusOpen, -5, now)
	paid := seedInvoice(repo, model.InvoiceStatusPaid, 10, now)

	sweep := NewReminderSweep(repo, &stubDispatcher{})
	report := sweep.Run(context.Background(), now, 7, false)

	assert.Equal(t, 1, report.MarkedOverdue)
	assert.Equal(t, model.InvoiceStatusOverdue, repo.invoices[pastDue.ID].Status)
	assert.Equal(t, model.InvoiceStatusOpen, repo.invoices[notDue.ID].Status)
	assert.Equal(t, model.InvoiceStatusPaid, repo.invoices[paid.ID].Status)
}

func TestReminderSweep_IsIdempotent(t *testing.T) {
	repo := newStubInvoiceRepo()
	now := time.Now()
	seedInvoice(repo, model.InvoiceStatusOpen, 3, now)

	sweep := NewReminderSweep(repo, &stubDispatcher{})
	first := sweep.Run(context.Background(), now, 7, false)
	second := sweep.Run(context.Background(), now, 7, false)

	assert.Equal(t, 1, first.MarkedOverdue)
	assert.Equal(t, 0, second.MarkedOverdue, "second sweep must find no open candidates")
}

func TestReminderSweep_EnqueuesRemindersPastMinDays(t *testing.T) {
	repo := newStubInvoiceRepo()
	now := time.Now()
	seedInvoice(repo, model.InvoiceStatusOverdue, 10, now) // reminder due
	seedInvoice(repo, model.InvoiceStatusOverdue, 2, now)  // too fresh

	dispatcher := &stubDispatcher{}
	sweep := NewReminderSweep(repo, dispatcher)
	report := sweep.Run(context.Background(), now, 7, false)

	assert.Equal(t, 1, report.Reminders)
	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, EventPaymentReminder, dispatcher.events[0])
}

func TestReminderSweep_DryRunTouchesNothing(t *testing.T) {
	repo := newStubInvoiceRepo()
	now := time.Now()
	inv := seedInvoice(repo, model.InvoiceStatusOpen, 10, now)

	dispatcher := &stubDispatcher{}
	sweep := NewReminderSweep(repo, dispatcher)
	report := sweep.Run(context.Background(), now, 7, true)

	assert.Equal(t, 1, report.MarkedOverdue)
	assert.Equal(t, 1, report.Reminders)
	assert.Equal(t, model.InvoiceStatusOpen, repo.invoices[inv.ID].Status, "dry run must not change status")
	assert.Empty(t, dispatcher.events, "dry run must not enqueue events")
}

func TestReminderSweep_FailureIsolation(t *testing.T) {
	repo := newStubInvoiceRepo()
	now := time.Now()
	seedInvoice(repo, model.InvoiceStatusOverdue, 10, now)
	seedInvoice(repo, model.InvoiceStatusOverdue, 12, now)

	dispatcher := &stubDispatcher{fail: true}
	sweep := NewReminderSweep(repo, dispatcher)
	report := sweep.Run(context.Background(), now, 7, false)

	// Both enqueues fail; the sweep still finishes and reports them.
	assert.Equal(t, 0, report.Reminders)
	assert.Equal(t, 2, report.Failures)
}
