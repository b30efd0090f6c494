package repository

import (
	"context"

	"github.com/wlmost/dog-school-app-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingLogFilter narrows ListLogs. Nil fields match everything.
type TrainingLogFilter struct {
	DogID     *uuid.UUID
	TrainerID *uuid.UUID
	SessionID *uuid.UUID
}

type TrainingRepository interface {
	CreateLog(ctx context.Context, l *model.TrainingLog) error
	FindLogByID(ctx context.Context, id uuid.UUID) (*model.TrainingLog, error)
	UpdateLog(ctx context.Context, l *model.TrainingLog) error
	DeleteLog(ctx context.Context, id uuid.UUID) error
	ListLogs(ctx context.Context, filter TrainingLogFilter) ([]model.TrainingLog, error)

	CreateAttachment(ctx context.Context, a *model.TrainingAttachment) error
	FindAttachmentByID(ctx context.Context, id uuid.UUID) (*model.TrainingAttachment, error)
	ListAttachments(ctx context.Context, logID uuid.UUID) ([]model.TrainingAttachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type trainingRepo struct{ db *gorm.DB }

func NewTrainingRepository(db *gorm.DB) TrainingRepository { return &trainingRepo{db: db} }

func (r *trainingRepo) CreateLog(ctx context.Context, l *model.TrainingLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *trainingRepo) FindLogByID(ctx context.Context, id uuid.UUID) (*model.TrainingLog, error) {
	var l model.TrainingLog
	err := r.db.WithContext(ctx).
		Preload("Dog").Preload("Session").Preload("Trainer").Preload("Attachments").
		First(&l, id).Error
	return &l, err
}

func (r *trainingRepo) UpdateLog(ctx context.Context, l *model.TrainingLog) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *trainingRepo) DeleteLog(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TrainingLog{}, id).Error
}

func (r *trainingRepo) ListLogs(ctx context.Context, filter TrainingLogFilter) ([]model.TrainingLog, error) {
	var logs []model.TrainingLog
	q := r.db.WithContext(ctx).
		Preload("Dog").Preload("Trainer").Preload("Attachments").
		Order("log_date DESC, created_at DESC")
	if filter.DogID != nil {
		q = q.Where("dog_id = ?", *filter.DogID)
	}
	if filter.TrainerID != nil {
		q = q.Where("trainer_id = ?", *filter.TrainerID)
	}
	if filter.SessionID != nil {
		q = q.Where("session_id = ?", *filter.SessionID)
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (r *trainingRepo) CreateAttachment(ctx context.Context, a *model.TrainingAttachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *trainingRepo) FindAttachmentByID(ctx context.Context, id uuid.UUID) (*model.TrainingAttachment, error) {
	var a model.TrainingAttachment
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *trainingRepo) ListAttachments(ctx context.Context, logID uuid.UUID) ([]model.TrainingAttachment, error) {
	var attachments []model.TrainingAttachment
	err := r.db.WithContext(ctx).
		Where("training_log_id = ?", logID).
		Order("uploaded_at DESC").
		Find(&attachments).Error
	return attachments, err
}

func (r *trainingRepo) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TrainingAttachment{}, id).Error
}
