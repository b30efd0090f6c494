package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnamnesisHandler struct{ svc service.AnamnesisService }

func NewAnamnesisHandler(svc service.AnamnesisService) *AnamnesisHandler {
	return &AnamnesisHandler{svc: svc}
}

// CreateTemplate godoc
// @Summary      Fragebogen-Vorlage anlegen
// @Tags         anamnesis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTemplateRequest true "Vorlage"
// @Success      201  {object} dto.TemplateResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/anamnesis/templates [post]
func (h *AnamnesisHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	template, err := h.svc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTemplateResponse(template))
}

// GetTemplate godoc
// @Summary      Fragebogen-Vorlage abrufen
// @Tags         anamnesis
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Vorlagen-UUID"
// @Success      200 {object} dto.TemplateResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/anamnesis/templates/{id} [get]
func (h *AnamnesisHandler) GetTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	template, err := h.svc.GetTemplate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateResponse(template))
}

// ListTemplates godoc
// @Summary      Fragebogen-Vorlagen auflisten
// @Tags         anamnesis
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TemplateResponse
// @Router       /api/v1/anamnesis/templates [get]
func (h *AnamnesisHandler) ListTemplates(c *gin.Context) {
	templates, err := h.svc.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.TemplateResponse, len(templates))
	for i := range templates {
		out[i] = toTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, out)
}

// DeactivateTemplate godoc
// @Summary      Fragebogen-Vorlage deaktivieren
// @Tags         anamnesis
// @Security     BearerAuth
// @Param        id path string true "Vorlagen-UUID"
// @Success      204
// @Router       /api/v1/anamnesis/templates/{id} [delete]
func (h *AnamnesisHandler) DeactivateTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateTemplate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StartResponse godoc
// @Summary      Fragebogen beginnen
// @Tags         anamnesis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.StartResponseRequest true "Zuordnung"
// @Success      201  {object} dto.AnamnesisResponseDTO
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/anamnesis/responses [post]
func (h *AnamnesisHandler) StartResponse(c *gin.Context) {
	var req dto.StartResponseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.StartResponse(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAnamnesisResponse(resp))
}

// SubmitAnswers godoc
// @Summary      Antworten einreichen
// @Description  Speichert Antworten. Mit complete=true wird der Fragebogen abgeschlossen; Pflichtfragen müssen dann beantwortet sein.
// @Tags         anamnesis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Fragebogen-UUID"
// @Param        body body dto.SubmitAnswersRequest true "Antworten"
// @Success      200  {object} dto.AnamnesisResponseDTO
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/anamnesis/responses/{id}/answers [post]
func (h *AnamnesisHandler) SubmitAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitAnswersRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SubmitAnswers(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnamnesisResponse(resp))
}

// GetResponse godoc
// @Summary      Fragebogen abrufen
// @Tags         anamnesis
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Fragebogen-UUID"
// @Success      200 {object} dto.AnamnesisResponseDTO
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/anamnesis/responses/{id} [get]
func (h *AnamnesisHandler) GetResponse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetResponse(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAnamnesisResponse(resp))
}

// ListResponses godoc
// @Summary      Fragebögen eines Kunden auflisten
// @Tags         anamnesis
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string true "Kunden-UUID"
// @Success      200 {array} dto.AnamnesisResponseDTO
// @Router       /api/v1/anamnesis/responses [get]
func (h *AnamnesisHandler) ListResponses(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Kunden-ID"))
		return
	}
	responses, err := h.svc.ListResponsesByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.AnamnesisResponseDTO, len(responses))
	for i := range responses {
		out[i] = toAnamnesisResponse(&responses[i])
	}
	c.JSON(http.StatusOK, out)
}
