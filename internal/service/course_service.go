package service

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var defaultTaxRate = decimal.NewFromInt(19)

type CourseService interface {
	Create(ctx context.Context, req dto.CreateCourseRequest) (*model.Course, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCourseRequest) (*model.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Course, error)
	List(ctx context.Context, includeInactive bool) ([]model.Course, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, courseID uuid.UUID, req dto.CreateSessionRequest) (*model.TrainingSession, error)
	CancelSession(ctx context.Context, sessionID uuid.UUID) (*model.TrainingSession, error)
	ListSessions(ctx context.Context, courseID uuid.UUID) ([]model.TrainingSession, error)
	SessionOccupancy(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type courseService struct {
	courses repository.CourseRepository
}

func NewCourseService(courses repository.CourseRepository) CourseService {
	return &courseService{courses: courses}
}

func (s *courseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*model.Course, error) {
	if req.Price.IsNegative() {
		return nil, apierror.Validation("Preis darf nicht negativ sein")
	}
	taxRate := req.TaxRate
	if taxRate.IsZero() {
		taxRate = defaultTaxRate
	}
	if taxRate.IsNegative() {
		return nil, apierror.Validation("Steuersatz darf nicht negativ sein")
	}

	var trainerID *uuid.UUID
	if req.TrainerID != nil && *req.TrainerID != "" {
		id, err := uuid.Parse(*req.TrainerID)
		if err != nil {
			return nil, apierror.Validation("Ungültige Trainer-ID")
		}
		trainerID = &id
	}

	capacity := req.Capacity
	if capacity <= 0 {
		capacity = 8
	}

	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Price:       req.Price,
		TaxRate:     taxRate,
		Capacity:    capacity,
		TrainerID:   trainerID,
		Active:      true,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Type != "" {
		course.Type = req.Type
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apierror.Validation("Preis darf nicht negativ sein")
		}
		course.Price = *req.Price
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return nil, apierror.Validation("Steuersatz darf nicht negativ sein")
		}
		course.TaxRate = *req.TaxRate
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, apierror.Validation("Kapazität muss mindestens 1 sein")
		}
		course.Capacity = *req.Capacity
	}
	if req.TrainerID != nil {
		if *req.TrainerID == "" {
			course.TrainerID = nil
		} else {
			trainerID, err := uuid.Parse(*req.TrainerID)
			if err != nil {
				return nil, apierror.Validation("Ungültige Trainer-ID")
			}
			course.TrainerID = &trainerID
		}
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *courseService) List(ctx context.Context, includeInactive bool) ([]model.Course, error) {
	return s.courses.List(ctx, includeInactive)
}

func (s *courseService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.courses.Deactivate(ctx, id)
}

func (s *courseService) CreateSession(ctx context.Context, courseID uuid.UUID, req dto.CreateSessionRequest) (*model.TrainingSession, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Active {
		return nil, apierror.InvalidState("Für inaktive Kurse können keine Termine angelegt werden")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, apierror.Validation("Startzeit muss im Format RFC 3339 angegeben werden")
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, apierror.Validation("Endzeit muss im Format RFC 3339 angegeben werden")
	}
	if !endsAt.After(startsAt) {
		return nil, apierror.Validation("Endzeit muss nach der Startzeit liegen")
	}

	session := &model.TrainingSession{
		CourseID: courseID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Location: req.Location,
	}
	if err := s.courses.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *courseService) CancelSession(ctx context.Context, sessionID uuid.UUID) (*model.TrainingSession, error) {
	session, err := s.courses.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Cancelled {
		return session, nil
	}
	session.Cancelled = true
	if err := s.courses.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *courseService) ListSessions(ctx context.Context, courseID uuid.UUID) ([]model.TrainingSession, error) {
	return s.courses.ListSessions(ctx, courseID)
}

func (s *courseService) SessionOccupancy(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	return s.courses.CountBookings(ctx, sessionID)
}
