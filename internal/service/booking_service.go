package service

import (
	"context"
	"sort"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type BookingService interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Booking, error)
}

type bookingService struct {
	bookings   repository.BookingRepository
	courses    repository.CourseRepository
	dogs       repository.DogRepository
	credits    repository.CreditRepository
	dispatcher Notifier
}

func NewBookingService(
	bookings repository.BookingRepository,
	courses repository.CourseRepository,
	dogs repository.DogRepository,
	credits repository.CreditRepository,
	dispatcher Notifier,
) BookingService {
	return &bookingService{
		bookings:   bookings,
		courses:    courses,
		dogs:       dogs,
		credits:    credits,
		dispatcher: dispatcher,
	}
}

// Create books a dog into a session. Capacity counts confirmed bookings only.
// With UseCredit set, one unit is consumed from the customer's oldest-expiring
// usable credit, atomically with the booking row.
func (s *bookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*model.Booking, error) {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Termin-ID")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Kunden-ID")
	}
	dogID, err := uuid.Parse(req.DogID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Hunde-ID")
	}

	session, err := s.courses.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Cancelled {
		return nil, apierror.InvalidState("Der Termin wurde abgesagt")
	}
	if session.StartsAt.Before(time.Now()) {
		return nil, apierror.InvalidState("Vergangene Termine können nicht gebucht werden")
	}

	dog, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog.CustomerID != customerID {
		return nil, apierror.Validation("Der Hund gehört nicht zu diesem Kunden")
	}

	booked, err := s.courses.CountBookings(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Course != nil && booked >= int64(session.Course.Capacity) {
		return nil, apierror.Conflict("Der Termin ist ausgebucht")
	}

	var credit *model.CustomerCredit
	if req.UseCredit {
		credit, err = s.usableCredit(ctx, customerID)
		if err != nil {
			return nil, err
		}
	}

	booking := &model.Booking{
		SessionID:  sessionID,
		CustomerID: customerID,
		DogID:      dogID,
		Status:     model.BookingStatusConfirmed,
	}
	if credit != nil {
		booking.CreditID = &credit.ID
	}

	err = runTx(ctx, s.bookings.DB(), func(tx *gorm.DB) error {
		if credit != nil {
			credit.UnitsRemaining--
			if err := s.credits.UpdateCreditTx(tx, credit); err != nil {
				return err
			}
		}
		return s.bookings.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		payload := worker.BookingEventPayload{BookingID: booking.ID.String()}
		if err := s.dispatcher.EnqueueEvent(ctx, worker.EventBookingCreated, payload); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("booking: event enqueue failed")
		}
	}
	return booking, nil
}

// usableCredit picks the credit that expires first among those with units left.
func (s *bookingService) usableCredit(ctx context.Context, customerID uuid.UUID) (*model.CustomerCredit, error) {
	credits, err := s.credits.ListCreditsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	usable := credits[:0]
	for i := range credits {
		c := credits[i]
		if c.UnitsRemaining <= 0 {
			continue
		}
		if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return nil, apierror.Validation("Kein nutzbares Guthaben vorhanden")
	}
	sort.Slice(usable, func(i, j int) bool {
		a, b := usable[i].ExpiresAt, usable[j].ExpiresAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return &usable[0], nil
}

// Cancel releases the slot and refunds a consumed credit unit.
func (s *bookingService) Cancel(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	booking.Status = model.BookingStatusCancelled
	err = runTx(ctx, s.bookings.DB(), func(tx *gorm.DB) error {
		if booking.CreditID != nil {
			credit, err := s.credits.FindCreditByID(ctx, *booking.CreditID)
			if err != nil {
				return err
			}
			credit.UnitsRemaining++
			if err := s.credits.UpdateCreditTx(tx, credit); err != nil {
				return err
			}
		}
		if tx != nil {
			return tx.Save(booking).Error
		}
		return s.bookings.Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *bookingService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.Booking, error) {
	return s.bookings.ListBySession(ctx, sessionID)
}
