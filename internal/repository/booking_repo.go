package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, b *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Booking, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type bookingRepo struct{ db *gorm.DB }

func NewBookingRepository(db *gorm.DB) BookingRepository { return &bookingRepo{db: db} }

func (r *bookingRepo) DB() *gorm.DB { return r.db }

func (r *bookingRepo) Create(ctx context.Context, tx *gorm.DB, b *model.Booking) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(b).Error
}

func (r *bookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).Preload("Session.Course").Preload("Customer.User").Preload("Dog").First(&b, id).Error
	return &b, err
}

func (r *bookingRepo) Update(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *bookingRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Preload("Session.Course").Preload("Dog").
		Where("customer_id = ?", customerID).Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).Preload("Customer").Preload("Dog").
		Where("session_id = ?", sessionID).Find(&bookings).Error
	return bookings, err
}
