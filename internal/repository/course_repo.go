package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	List(ctx context.Context, includeInactive bool) ([]model.Course, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	CreateSession(ctx context.Context, s *model.TrainingSession) error
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.TrainingSession, error)
	UpdateSession(ctx context.Context, s *model.TrainingSession) error
	ListSessions(ctx context.Context, courseID uuid.UUID) ([]model.TrainingSession, error)
	CountBookings(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type courseRepo struct{ db *gorm.DB }

func NewCourseRepository(db *gorm.DB) CourseRepository { return &courseRepo{db: db} }

func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).Preload("Sessions").First(&c, id).Error
	return &c, err
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *courseRepo) List(ctx context.Context, includeInactive bool) ([]model.Course, error) {
	var courses []model.Course
	q := r.db.WithContext(ctx).Order("name")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", id).Update("active", false).Error
}

func (r *courseRepo) CreateSession(ctx context.Context, s *model.TrainingSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *courseRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.TrainingSession, error) {
	var s model.TrainingSession
	err := r.db.WithContext(ctx).Preload("Course").First(&s, id).Error
	return &s, err
}

func (r *courseRepo) UpdateSession(ctx context.Context, s *model.TrainingSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *courseRepo) ListSessions(ctx context.Context, courseID uuid.UUID) ([]model.TrainingSession, error) {
	var sessions []model.TrainingSession
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("starts_at").Find(&sessions).Error
	return sessions, err
}

func (r *courseRepo) CountBookings(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("session_id = ? AND status = 'confirmed'", sessionID).Count(&n).Error
	return n, err
}
