package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TrainingService interface {
	CreateLog(ctx context.Context, trainerID uuid.UUID, req dto.CreateTrainingLogRequest) (*model.TrainingLog, error)
	UpdateLog(ctx context.Context, id uuid.UUID, req dto.UpdateTrainingLogRequest) (*model.TrainingLog, error)
	DeleteLog(ctx context.Context, id uuid.UUID) error
	GetLog(ctx context.Context, id uuid.UUID) (*model.TrainingLog, error)
	ListLogs(ctx context.Context, filter repository.TrainingLogFilter) ([]model.TrainingLog, error)

	// AddAttachment stores the uploaded file on disk and records it. The file
	// type is derived from contentType (image/*, video/*, everything else a
	// document).
	AddAttachment(ctx context.Context, logID uuid.UUID, fileName, contentType string, src io.Reader) (*model.TrainingAttachment, error)
	GetAttachment(ctx context.Context, id uuid.UUID) (*model.TrainingAttachment, error)
	ListAttachments(ctx context.Context, logID uuid.UUID) ([]model.TrainingAttachment, error)
	DeleteAttachment(ctx context.Context, id uuid.UUID) error
}

type trainingService struct {
	repo      repository.TrainingRepository
	dogs      repository.DogRepository
	uploadDir string
}

func NewTrainingService(repo repository.TrainingRepository, dogs repository.DogRepository, uploadDir string) TrainingService {
	return &trainingService{repo: repo, dogs: dogs, uploadDir: uploadDir}
}

func (s *trainingService) CreateLog(ctx context.Context, trainerID uuid.UUID, req dto.CreateTrainingLogRequest) (*model.TrainingLog, error) {
	dogID, err := uuid.Parse(req.DogID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Hunde-ID")
	}
	if _, err := s.dogs.FindByID(ctx, dogID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.Validation("Hund nicht gefunden")
		}
		return nil, err
	}

	logDate, err := time.Parse(dateLayout, req.LogDate)
	if err != nil {
		return nil, apierror.Validation("Ungültiges Datum %q, erwartet JJJJ-MM-TT", req.LogDate)
	}

	var sessionID *uuid.UUID
	if req.SessionID != nil {
		id, err := uuid.Parse(*req.SessionID)
		if err != nil {
			return nil, apierror.Validation("Ungültige Termin-ID")
		}
		sessionID = &id
	}

	entry := &model.TrainingLog{
		DogID:           dogID,
		SessionID:       sessionID,
		TrainerID:       trainerID,
		LogDate:         logDate,
		Title:           req.Title,
		Notes:           req.Notes,
		Recommendations: req.Recommendations,
	}
	if err := s.repo.CreateLog(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trainingService) UpdateLog(ctx context.Context, id uuid.UUID, req dto.UpdateTrainingLogRequest) (*model.TrainingLog, error) {
	entry, err := s.repo.FindLogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.LogDate != nil {
		logDate, err := time.Parse(dateLayout, *req.LogDate)
		if err != nil {
			return nil, apierror.Validation("Ungültiges Datum %q, erwartet JJJJ-MM-TT", *req.LogDate)
		}
		entry.LogDate = logDate
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Notes != nil {
		entry.Notes = req.Notes
	}
	if req.Recommendations != nil {
		entry.Recommendations = req.Recommendations
	}
	if err := s.repo.UpdateLog(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *trainingService) DeleteLog(ctx context.Context, id uuid.UUID) error {
	entry, err := s.repo.FindLogByID(ctx, id)
	if err != nil {
		return err
	}
	for _, a := range entry.Attachments {
		s.removeFile(a.FilePath)
	}
	return s.repo.DeleteLog(ctx, id)
}

func (s *trainingService) GetLog(ctx context.Context, id uuid.UUID) (*model.TrainingLog, error) {
	return s.repo.FindLogByID(ctx, id)
}

func (s *trainingService) ListLogs(ctx context.Context, filter repository.TrainingLogFilter) ([]model.TrainingLog, error) {
	return s.repo.ListLogs(ctx, filter)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

func (s *trainingService) AddAttachment(ctx context.Context, logID uuid.UUID, fileName, contentType string, src io.Reader) (*model.TrainingAttachment, error) {
	if s.uploadDir == "" {
		return nil, apierror.InvalidState("Dateiablage ist nicht konfiguriert")
	}
	if _, err := s.repo.FindLogByID(ctx, logID); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.uploadDir, "training-attachments", logID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	base := unsafeFilenameChars.ReplaceAllString(filepath.Base(fileName), "_")
	stored := fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
	path := filepath.Join(dir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		s.removeFile(path)
		return nil, err
	}
	if err := dst.Close(); err != nil {
		s.removeFile(path)
		return nil, err
	}

	now := time.Now()
	attachment := &model.TrainingAttachment{
		TrainingLogID: logID,
		FileType:      fileTypeFromMime(contentType),
		FilePath:      path,
		FileName:      filepath.Base(fileName),
		UploadedAt:    now,
	}
	if err := s.repo.CreateAttachment(ctx, attachment); err != nil {
		s.removeFile(path)
		return nil, err
	}
	return attachment, nil
}

func (s *trainingService) GetAttachment(ctx context.Context, id uuid.UUID) (*model.TrainingAttachment, error) {
	return s.repo.FindAttachmentByID(ctx, id)
}

func (s *trainingService) ListAttachments(ctx context.Context, logID uuid.UUID) ([]model.TrainingAttachment, error) {
	return s.repo.ListAttachments(ctx, logID)
}

func (s *trainingService) DeleteAttachment(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.repo.FindAttachmentByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	s.removeFile(attachment.FilePath)
	return nil
}

// removeFile deletes best-effort: a stale file on disk is preferable to a
// failed API call over an already-removed row.
func (s *trainingService) removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("training: attachment file not removed")
	}
}

func fileTypeFromMime(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.AttachmentTypeImage
	case strings.HasPrefix(contentType, "video/"):
		return model.AttachmentTypeVideo
	default:
		return model.AttachmentTypeDocument
	}
}
