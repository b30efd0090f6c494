package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubTrainingRepo is an in-memory TrainingRepository.
type stubTrainingRepo struct {
	logs        map[uuid.UUID]*model.TrainingLog
	attachments map[uuid.UUID]*model.TrainingAttachment
}

func newStubTrainingRepo() *stubTrainingRepo {
	return &stubTrainingRepo{
		logs:        make(map[uuid.UUID]*model.TrainingLog),
		attachments: make(map[uuid.UUID]*model.TrainingAttachment),
	}
}

func (r *stubTrainingRepo) CreateLog(_ context.Context, l *model.TrainingLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.logs[l.ID] = l
	return nil
}

func (r *stubTrainingRepo) FindLogByID(_ context.Context, id uuid.UUID) (*model.TrainingLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *l
	for _, a := range r.attachments {
		if a.TrainingLogID == id {
			out.Attachments = append(out.Attachments, *a)
		}
	}
	return &out, nil
}

func (r *stubTrainingRepo) UpdateLog(_ context.Context, l *model.TrainingLog) error {
	if _, ok := r.logs[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.logs[l.ID] = l
	return nil
}

func (r *stubTrainingRepo) DeleteLog(_ context.Context, id uuid.UUID) error {
	delete(r.logs, id)
	return nil
}

func (r *stubTrainingRepo) ListLogs(_ context.Context, filter repository.TrainingLogFilter) ([]model.TrainingLog, error) {
	var out []model.TrainingLog
	for _, l := range r.logs {
		if filter.DogID != nil && l.DogID != *filter.DogID {
			continue
		}
		if filter.TrainerID != nil && l.TrainerID != *filter.TrainerID {
			continue
		}
		if filter.SessionID != nil && (l.SessionID == nil || *l.SessionID != *filter.SessionID) {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubTrainingRepo) CreateAttachment(_ context.Context, a *model.TrainingAttachment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.attachments[a.ID] = a
	return nil
}

func (r *stubTrainingRepo) FindAttachmentByID(_ context.Context, id uuid.UUID) (*model.TrainingAttachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubTrainingRepo) ListAttachments(_ context.Context, logID uuid.UUID) ([]model.TrainingAttachment, error) {
	var out []model.TrainingAttachment
	for _, a := range r.attachments {
		if a.TrainingLogID == logID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubTrainingRepo) DeleteAttachment(_ context.Context, id uuid.UUID) error {
	delete(r.attachments, id)
	return nil
}

// stubDogRepo answers FindByID from a fixed set; everything else is unused
// by the training service.
type stubDogRepo struct {
	dogs map[uuid.UUID]*model.Dog
}

func newStubDogRepo() *stubDogRepo { return &stubDogRepo{dogs: make(map[uuid.UUID]*model.Dog)} }

func (r *stubDogRepo) Create(_ context.Context, d *model.Dog) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.dogs[d.ID] = d
	return nil
}

func (r *stubDogRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Dog, error) {
	d, ok := r.dogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *stubDogRepo) Update(_ context.Context, d *model.Dog) error { return nil }

func (r *stubDogRepo) ListByCustomer(_ context.Context, _ uuid.UUID) ([]model.Dog, error) {
	return nil, nil
}

func (r *stubDogRepo) Delete(_ context.Context, id uuid.UUID) error { return nil }

func (r *stubDogRepo) AddVaccination(_ context.Context, _ *model.Vaccination) error { return nil }

func (r *stubDogRepo) ListVaccinations(_ context.Context, _ uuid.UUID) ([]model.Vaccination, error) {
	return nil, nil
}

var (
	_ repository.TrainingRepository = (*stubTrainingRepo)(nil)
	_ repository.DogRepository      = (*stubDogRepo)(nil)
)

type trainingFixture struct {
	svc       TrainingService
	repo      *stubTrainingRepo
	dogID     uuid.UUID
	trainerID uuid.UUID
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()
	repo := newStubTrainingRepo()
	dogs := newStubDogRepo()
	dog := &model.Dog{Name: "Rex"}
	require.NoError(t, dogs.Create(context.Background(), dog))
	return &trainingFixture{
		svc:       NewTrainingService(repo, dogs, t.TempDir()),
		repo:      repo,
		dogID:     dog.ID,
		trainerID: uuid.New(),
	}
}

func (f *trainingFixture) createLog(t *testing.T) *model.TrainingLog {
	t.Helper()
	entry, err := f.svc.CreateLog(context.Background(), f.trainerID, dto.CreateTrainingLogRequest{
		DogID:   f.dogID.String(),
		LogDate: "2026-08-20",
		Title:   "Leinenführigkeit",
	})
	require.NoError(t, err)
	return entry
}

func TestCreateTrainingLog_UnknownDogRejected(t *testing.T) {
	f := newTrainingFixture(t)

	_, err := f.svc.CreateLog(context.Background(), f.trainerID, dto.CreateTrainingLogRequest{
		DogID:   uuid.New().String(),
		LogDate: "2026-08-20",
		Title:   "Leinenführigkeit",
	})
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Empty(t, f.repo.logs)
}

func TestCreateTrainingLog_BadDateRejected(t *testing.T) {
	f := newTrainingFixture(t)

	_, err := f.svc.CreateLog(context.Background(), f.trainerID, dto.CreateTrainingLogRequest{
		DogID:   f.dogID.String(),
		LogDate: "20.08.2026",
		Title:   "Leinenführigkeit",
	})
	var ve *apierror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAddAttachment_ClassifiesByMime(t *testing.T) {
	f := newTrainingFixture(t)
	entry := f.createLog(t)

	cases := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", model.AttachmentTypeImage},
		{"video/mp4", model.AttachmentTypeVideo},
		{"application/pdf", model.AttachmentTypeDocument},
	}
	for _, tc := range cases {
		a, err := f.svc.AddAttachment(context.Background(), entry.ID, "datei.bin", tc.contentType, strings.NewReader("inhalt"))
		require.NoError(t, err)
		assert.Equal(t, tc.want, a.FileType, tc.contentType)

		stored, err := os.ReadFile(a.FilePath)
		require.NoError(t, err)
		assert.Equal(t, "inhalt", string(stored))
	}
}

func TestAddAttachment_SanitizesFilename(t *testing.T) {
	f := newTrainingFixture(t)
	entry := f.createLog(t)

	a, err := f.svc.AddAttachment(context.Background(), entry.ID, "../böse datei.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, a.FilePath, "..")
	assert.NotContains(t, a.FilePath, " ")
	assert.Equal(t, "böse datei.jpg", a.FileName)
}

func TestDeleteAttachment_RemovesFile(t *testing.T) {
	f := newTrainingFixture(t)
	entry := f.createLog(t)

	a, err := f.svc.AddAttachment(context.Background(), entry.ID, "foto.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	require.FileExists(t, a.FilePath)

	require.NoError(t, f.svc.DeleteAttachment(context.Background(), a.ID))
	assert.NoFileExists(t, a.FilePath)
	_, err = f.svc.GetAttachment(context.Background(), a.ID)
	assert.Error(t, err)
}

func TestDeleteLog_RemovesAttachmentFiles(t *testing.T) {
	f := newTrainingFixture(t)
	entry := f.createLog(t)

	a, err := f.svc.AddAttachment(context.Background(), entry.ID, "foto.jpg", "image/jpeg", strings.NewReader("x"))
	require.NoError(t, err)
	require.FileExists(t, a.FilePath)

	require.NoError(t, f.svc.DeleteLog(context.Background(), entry.ID))
	assert.NoFileExists(t, a.FilePath)
}
