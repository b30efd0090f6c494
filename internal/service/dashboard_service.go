package service

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardResponse, error)
}

// dashboardService aggregates across tables directly; per-row repository
// access would just be N queries for numbers the database can produce in one.
type dashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) DashboardService {
	return &dashboardService{db: db}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{
		OutstandingTotal: decimal.Zero,
		RevenueThisMonth: decimal.Zero,
	}
	db := s.db.WithContext(ctx)

	if err := db.Model(&model.Customer{}).Count(&resp.CustomerCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Dog{}).Count(&resp.DogCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Invoice{}).
		Where("status = ?", model.InvoiceStatusOpen).
		Count(&resp.OpenInvoices).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Invoice{}).
		Where("status = ?", model.InvoiceStatusOverdue).
		Count(&resp.OverdueInvoices).Error; err != nil {
		return nil, err
	}

	// Outstanding = gross of open/overdue invoices minus what is already
	// settled against them.
	var outstanding decimal.NullDecimal
	err := db.Raw(`
		SELECT COALESCE(SUM(i.total_gross), 0) - COALESCE((
			SELECT SUM(p.amount) FROM payments p
			JOIN invoices i2 ON i2.id = p.invoice_id
			WHERE p.status = ? AND i2.status IN ?
		), 0)
		FROM invoices i WHERE i.status IN ?`,
		model.PaymentStatusCompleted,
		[]string{model.InvoiceStatusOpen, model.InvoiceStatusOverdue},
		[]string{model.InvoiceStatusOpen, model.InvoiceStatusOverdue},
	).Scan(&outstanding).Error
	if err != nil {
		return nil, err
	}
	if outstanding.Valid {
		resp.OutstandingTotal = outstanding.Decimal
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var revenue decimal.NullDecimal
	err = db.Model(&model.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ? AND paid_at >= ?", model.PaymentStatusCompleted, monthStart).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue.Valid {
		resp.RevenueThisMonth = revenue.Decimal
	}

	if err := db.Model(&model.TrainingSession{}).
		Where("starts_at > ? AND cancelled = false", now).
		Count(&resp.UpcomingSessions).Error; err != nil {
		return nil, err
	}
	return resp, nil
}
