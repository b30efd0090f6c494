package service

import (
	"context"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"

	"github.com/google/uuid"
)

type AnamnesisService interface {
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*model.AnamnesisTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*model.AnamnesisTemplate, error)
	ListTemplates(ctx context.Context) ([]model.AnamnesisTemplate, error)
	DeactivateTemplate(ctx context.Context, id uuid.UUID) error

	StartResponse(ctx context.Context, req dto.StartResponseRequest) (*model.AnamnesisResponse, error)
	SubmitAnswers(ctx context.Context, responseID uuid.UUID, req dto.SubmitAnswersRequest) (*model.AnamnesisResponse, error)
	GetResponse(ctx context.Context, id uuid.UUID) (*model.AnamnesisResponse, error)
	ListResponsesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.AnamnesisResponse, error)
}

type anamnesisService struct {
	repo      repository.AnamnesisRepository
	customers repository.CustomerRepository
	dogs      repository.DogRepository
}

func NewAnamnesisService(repo repository.AnamnesisRepository, customers repository.CustomerRepository, dogs repository.DogRepository) AnamnesisService {
	return &anamnesisService{repo: repo, customers: customers, dogs: dogs}
}

func (s *anamnesisService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (*model.AnamnesisTemplate, error) {
	if len(req.Questions) == 0 {
		return nil, apierror.Validation("Fragebogen benötigt mindestens eine Frage")
	}

	questions := make([]model.AnamnesisQuestion, len(req.Questions))
	for i, q := range req.Questions {
		if q.Type == "select" && (q.Options == nil || *q.Options == "") {
			return nil, apierror.Validation("Auswahlfragen benötigen Antwortoptionen")
		}
		questions[i] = model.AnamnesisQuestion{
			Question: q.Question,
			Type:     q.Type,
			Options:  q.Options,
			Position: i,
			Required: q.Required,
		}
	}

	template := &model.AnamnesisTemplate{
		Name:      req.Name,
		Active:    true,
		Questions: questions,
	}
	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *anamnesisService) GetTemplate(ctx context.Context, id uuid.UUID) (*model.AnamnesisTemplate, error) {
	return s.repo.FindTemplateByID(ctx, id)
}

func (s *anamnesisService) ListTemplates(ctx context.Context) ([]model.AnamnesisTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *anamnesisService) DeactivateTemplate(ctx context.Context, id uuid.UUID) error {
	template, err := s.repo.FindTemplateByID(ctx, id)
	if err != nil {
		return err
	}
	template.Active = false
	return s.repo.UpdateTemplate(ctx, template)
}

func (s *anamnesisService) StartResponse(ctx context.Context, req dto.StartResponseRequest) (*model.AnamnesisResponse, error) {
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Vorlagen-ID")
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Kunden-ID")
	}
	dogID, err := uuid.Parse(req.DogID)
	if err != nil {
		return nil, apierror.Validation("Ungültige Hunde-ID")
	}

	template, err := s.repo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, apierror.InvalidState("Fragebogen ist nicht mehr aktiv")
	}

	dog, err := s.dogs.FindByID(ctx, dogID)
	if err != nil {
		return nil, err
	}
	if dog.CustomerID != customerID {
		return nil, apierror.Validation("Der Hund gehört nicht zu diesem Kunden")
	}

	resp := &model.AnamnesisResponse{
		TemplateID: templateID,
		CustomerID: customerID,
		DogID:      dogID,
		Status:     model.AnamnesisStatusInProgress,
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SubmitAnswers upserts the given answers. With Complete set, every required
// question must have an answer before the response flips to completed.
func (s *anamnesisService) SubmitAnswers(ctx context.Context, responseID uuid.UUID, req dto.SubmitAnswersRequest) (*model.AnamnesisResponse, error) {
	resp, err := s.repo.FindResponseByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if resp.Status == model.AnamnesisStatusCompleted {
		return nil, apierror.InvalidState("Abgeschlossene Fragebögen können nicht mehr geändert werden")
	}

	template, err := s.repo.FindTemplateByID(ctx, resp.TemplateID)
	if err != nil {
		return nil, err
	}
	questionIDs := make(map[uuid.UUID]bool, len(template.Questions))
	for _, q := range template.Questions {
		questionIDs[q.ID] = true
	}

	answered := make(map[uuid.UUID]bool, len(resp.Answers))
	for _, a := range resp.Answers {
		answered[a.QuestionID] = true
	}

	for _, in := range req.Answers {
		questionID, err := uuid.Parse(in.QuestionID)
		if err != nil {
			return nil, apierror.Validation("Ungültige Fragen-ID")
		}
		if !questionIDs[questionID] {
			return nil, apierror.Validation("Frage gehört nicht zu diesem Fragebogen")
		}
		answer := &model.AnamnesisAnswer{
			ResponseID: responseID,
			QuestionID: questionID,
			Answer:     in.Answer,
		}
		if err := s.repo.SaveAnswer(ctx, answer); err != nil {
			return nil, err
		}
		if in.Answer != "" {
			answered[questionID] = true
		}
	}

	if req.Complete {
		for _, q := range template.Questions {
			if q.Required && !answered[q.ID] {
				return nil, apierror.Validation("Pflichtfrage %q ist nicht beantwortet", q.Question)
			}
		}
		now := time.Now()
		resp.Status = model.AnamnesisStatusCompleted
		resp.CompletedAt = &now
		if err := s.repo.UpdateResponse(ctx, resp); err != nil {
			return nil, err
		}
	}
	return s.repo.FindResponseByID(ctx, responseID)
}

func (s *anamnesisService) GetResponse(ctx context.Context, id uuid.UUID) (*model.AnamnesisResponse, error) {
	return s.repo.FindResponseByID(ctx, id)
}

func (s *anamnesisService) ListResponsesByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.AnamnesisResponse, error) {
	return s.repo.ListResponsesByCustomer(ctx, customerID)
}
