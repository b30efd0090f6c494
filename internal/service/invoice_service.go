package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/billing"
	"github.com/wlmost/dog-school-app-sub001/internal/config"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/infra"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Notifier enqueues domain events for async processing. *worker.Dispatcher
// satisfies it; services accept the interface so tests can stub it out.
type Notifier interface {
	EnqueueEvent(ctx context.Context, eventType string, payload interface{}) error
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// maxNumberAttempts caps retries when the drawn invoice number collides with
// an existing row (possible after a manual sequence reset).
const maxNumberAttempts = 3

type InvoiceService interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (*model.Invoice, error)
	// CreateForCustomer builds a draft invoice from prepared items; used by the
	// credit purchase flow which already holds a customer id.
	CreateForCustomer(ctx context.Context, customerID uuid.UUID, items []dto.InvoiceItemRequest, notes *string) (*model.Invoice, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceRequest) (*model.Invoice, error)
	Issue(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	RecordPayment(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, method string, transactionID, notes *string) (*model.Payment, error)
	MarkAsPaid(ctx context.Context, id uuid.UUID, method string, notes *string) (*model.Invoice, error)
	// RefreshSettlement re-derives the invoice status from the completed
	// ledger sum; called after a pending payment completes.
	RefreshSettlement(ctx context.Context, invoiceID uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, status string, customerID *uuid.UUID) ([]model.Invoice, error)
	// Balance returns the completed-ledger sum and the remaining amount due.
	Balance(ctx context.Context, inv *model.Invoice) (paid, remaining decimal.Decimal, err error)
}

type invoiceService struct {
	invoices   repository.InvoiceRepository
	payments   repository.PaymentRepository
	customers  repository.CustomerRepository
	settings   SettingsService
	dispatcher Notifier
	cfg        *config.Config
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	customers repository.CustomerRepository,
	settings SettingsService,
	dispatcher Notifier,
	cfg *config.Config,
) InvoiceService {
	return &invoiceService{
		invoices:   invoices,
		payments:   payments,
		customers:  customers,
		settings:   settings,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func (s *invoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*model.Invoice, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Kunden-ID")
	}
	return s.CreateForCustomer(ctx, customerID, req.Items, req.Notes)
}

func (s *invoiceService) CreateForCustomer(ctx context.Context, customerID uuid.UUID, items []dto.InvoiceItemRequest, notes *string) (*model.Invoice, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("Kunde nicht gefunden")
		}
		return nil, err
	}

	modelItems, lines, err := buildItems(items)
	if err != nil {
		return nil, err
	}

	// Snapshot the §19 UStG mode now; later setting changes must not alter
	// this invoice.
	smallBusiness := s.settings.GetBool(ctx, model.SettingCompanySmallBusiness)
	totals, err := billing.Total(lines, smallBusiness)
	if err != nil {
		return nil, err
	}

	inv := &model.Invoice{
		CustomerID:    customerID,
		Status:        model.InvoiceStatusDraft,
		SmallBusiness: smallBusiness,
		TotalNet:      totals.Net,
		TotalTax:      totals.Tax,
		TotalGross:    totals.Gross,
		Notes:         notes,
		Items:         modelItems,
	}

	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		return s.invoices.Create(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) UpdateDraft(ctx context.Context, id uuid.UUID, req dto.UpdateInvoiceRequest) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, apierror.InvalidState("Nur Entwürfe können bearbeitet werden")
	}

	modelItems, lines, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}
	totals, err := billing.Total(lines, inv.SmallBusiness)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		if tx != nil {
			if err := tx.Where("invoice_id = ?", inv.ID).Delete(&model.InvoiceItem{}).Error; err != nil {
				return err
			}
		}
		for i := range modelItems {
			modelItems[i].InvoiceID = inv.ID
		}
		inv.Items = modelItems
		inv.TotalNet = totals.Net
		inv.TotalTax = totals.Tax
		inv.TotalGross = totals.Gross
		inv.Notes = req.Notes
		return s.invoices.UpdateTx(tx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Issue moves a draft to open: it draws the next invoice number, stamps issue
// and due dates, renders the PDF and fires invoice.created. Number collisions
// are retried a bounded number of times.
func (s *invoiceService) Issue(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusDraft {
		return nil, apierror.InvalidState("Rechnung wurde bereits gestellt")
	}
	if len(inv.Items) == 0 {
		return nil, apierror.Validation("Rechnung ohne Positionen kann nicht gestellt werden")
	}

	now := time.Now()
	dueDays := 14
	if s.cfg != nil && s.cfg.InvoiceDueDays > 0 {
		dueDays = s.cfg.InvoiceDueDays
	}
	due := now.AddDate(0, 0, dueDays)

	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		lastErr = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
			seq, err := s.invoices.NextInvoiceNumber(ctx, tx)
			if err != nil {
				return err
			}
			number := fmt.Sprintf("RE-%d-%05d", now.Year(), seq)
			inv.Number = &number
			inv.Status = model.InvoiceStatusOpen
			inv.IssuedAt = &now
			inv.DueAt = &due
			return s.invoices.UpdateTx(tx, inv)
		})
		if lastErr == nil {
			break
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, lastErr
		}
	}
	if lastErr != nil {
		return nil, apierror.Conflict("Rechnungsnummer konnte nicht vergeben werden")
	}

	s.renderPDF(ctx, inv)
	s.notify(ctx, worker.EventInvoiceCreated, worker.InvoiceEventPayload{InvoiceID: inv.ID.String()})
	return inv, nil
}

// renderPDF writes the invoice PDF and stores its path. Failures are logged
// and do not roll back the issue: the document can be regenerated later.
func (s *invoiceService) renderPDF(ctx context.Context, inv *model.Invoice) {
	if s.cfg == nil || s.cfg.PDFStoragePath == "" {
		return
	}
	lines := make([]billing.Line, len(inv.Items))
	for i, item := range inv.Items {
		lines[i] = billing.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice, TaxRate: item.TaxRate}
	}
	totals, err := billing.Total(lines, inv.SmallBusiness)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice: pdf totals failed")
		return
	}
	breakdown := make([]infra.InvoiceTaxLine, len(totals.Breakdown))
	for i, tl := range totals.Breakdown {
		breakdown[i] = infra.InvoiceTaxLine{Rate: tl.Rate, Net: tl.Net, Tax: tl.Tax}
	}

	path, err := infra.GenerateInvoicePDF(inv, s.settings.CompanyInfo(ctx), breakdown, s.cfg.PDFStoragePath)
	if err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice: pdf generation failed")
		return
	}
	inv.PDFPath = &path
	if err := s.invoices.Update(ctx, inv); err != nil {
		log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("invoice: pdf path update failed")
	}
}

// RecordPayment appends a completed ledger entry and settles the invoice when
// the completed sum covers the gross total. When transactionID is set and a
// row with the same (method, transaction id) already exists, that row is
// returned unchanged — gateway replays must not double-book.
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal, method string, transactionID, notes *string) (*model.Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apierror.Validation("Zahlbetrag muss größer als null sein")
	}

	// Idempotency first: a replay must resolve to the original row even after
	// the invoice has settled and no longer accepts payments.
	if transactionID != nil && *transactionID != "" {
		existing, err := s.payments.FindByMethodAndTransactionID(ctx, method, *transactionID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptsPayment() {
		return nil, apierror.InvalidState("Rechnung im Status %q akzeptiert keine Zahlungen", inv.Status)
	}

	paidBefore, err := s.payments.SumCompleted(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	payment := &model.Payment{
		InvoiceID:     invoiceID,
		Amount:        amount,
		Method:        method,
		Status:        model.PaymentStatusCompleted,
		TransactionID: transactionID,
		PaidAt:        &now,
		Notes:         notes,
	}

	settled := billing.IsSettled(billing.RemainingBalance(inv.TotalGross, paidBefore.Add(amount)))
	err = runTx(ctx, s.invoices.DB(), func(tx *gorm.DB) error {
		if err := s.payments.Create(ctx, tx, payment); err != nil {
			return err
		}
		if settled {
			inv.Status = model.InvoiceStatusPaid
			return s.invoices.UpdateTx(tx, inv)
		}
		return nil
	})
	if err != nil {
		// A concurrent replay can hit the partial unique index first; resolve
		// to the winning row instead of failing.
		if errors.Is(err, gorm.ErrDuplicatedKey) && transactionID != nil {
			if existing, ferr := s.payments.FindByMethodAndTransactionID(ctx, method, *transactionID); ferr == nil {
				return existing, nil
			}
			return nil, apierror.Conflict("Zahlung mit dieser Transaktions-ID existiert bereits")
		}
		return nil, err
	}

	if settled {
		s.notify(ctx, worker.EventInvoicePaid, worker.InvoiceEventPayload{InvoiceID: inv.ID.String()})
	}
	return payment, nil
}

// MarkAsPaid settles the remaining balance with a manual payment, e.g. a bank
// transfer spotted on the account statement.
func (s *invoiceService) MarkAsPaid(ctx context.Context, id uuid.UUID, method string, notes *string) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.AcceptsPayment() {
		return nil, apierror.InvalidState("Rechnung im Status %q kann nicht als bezahlt markiert werden", inv.Status)
	}

	paid, err := s.payments.SumCompleted(ctx, id)
	if err != nil {
		return nil, err
	}
	remaining := billing.RemainingBalance(inv.TotalGross, paid)
	if billing.IsSettled(remaining) {
		inv.Status = model.InvoiceStatusPaid
		if err := s.invoices.Update(ctx, inv); err != nil {
			return nil, err
		}
		return inv, nil
	}

	if method == "" {
		method = model.PaymentMethodBankTransfer
	}
	if _, err := s.RecordPayment(ctx, id, remaining, method, nil, notes); err != nil {
		return nil, err
	}
	return s.invoices.FindByID(ctx, id)
}

// RefreshSettlement settles the invoice if the completed ledger now covers
// the gross total. A no-op for invoices that no longer accept payments.
func (s *invoiceService) RefreshSettlement(ctx context.Context, invoiceID uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !inv.AcceptsPayment() {
		return nil
	}
	paid, err := s.payments.SumCompleted(ctx, invoiceID)
	if err != nil {
		return err
	}
	if !billing.IsSettled(billing.RemainingBalance(inv.TotalGross, paid)) {
		return nil
	}
	inv.Status = model.InvoiceStatusPaid
	if err := s.invoices.Update(ctx, inv); err != nil {
		return err
	}
	s.notify(ctx, worker.EventInvoicePaid, worker.InvoiceEventPayload{InvoiceID: inv.ID.String()})
	return nil
}

func (s *invoiceService) Cancel(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusPaid {
		return nil, apierror.InvalidState("Bezahlte Rechnungen können nicht storniert werden")
	}
	if inv.Status == model.InvoiceStatusCancelled {
		return inv, nil
	}
	inv.Status = model.InvoiceStatusCancelled
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if inv.Status != model.InvoiceStatusDraft {
		return apierror.InvalidState("Nur Entwürfe können gelöscht werden")
	}
	for _, p := range inv.Payments {
		if p.Status == model.PaymentStatusCompleted {
			return apierror.InvalidState("Rechnung mit verbuchten Zahlungen kann nicht gelöscht werden")
		}
	}
	return s.invoices.Delete(ctx, id)
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	return s.invoices.FindByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, status string, customerID *uuid.UUID) ([]model.Invoice, error) {
	return s.invoices.List(ctx, status, customerID)
}

func (s *invoiceService) Balance(ctx context.Context, inv *model.Invoice) (decimal.Decimal, decimal.Decimal, error) {
	paid, err := s.payments.SumCompleted(ctx, inv.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return paid, billing.RemainingBalance(inv.TotalGross, paid), nil
}

func (s *invoiceService) notify(ctx context.Context, eventType string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueEvent(ctx, eventType, payload); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("invoice: event enqueue failed")
	}
}

// buildItems validates request items and computes per-line amounts.
func buildItems(items []dto.InvoiceItemRequest) ([]model.InvoiceItem, []billing.Line, error) {
	if len(items) == 0 {
		return nil, nil, apierror.Validation("Mindestens eine Rechnungsposition ist erforderlich")
	}
	modelItems := make([]model.InvoiceItem, 0, len(items))
	lines := make([]billing.Line, 0, len(items))
	for _, it := range items {
		amount, err := billing.LineAmount(it.Quantity, it.UnitPrice)
		if err != nil {
			return nil, nil, err
		}
		if it.TaxRate.IsNegative() {
			return nil, nil, apierror.Validation("Steuersatz darf nicht negativ sein")
		}
		modelItems = append(modelItems, model.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Amount:      amount,
		})
		lines = append(lines, billing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, TaxRate: it.TaxRate})
	}
	return modelItems, lines, nil
}
