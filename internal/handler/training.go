package handler

import (
	"net/http"
	"os"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/repository"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TrainingHandler struct{ svc service.TrainingService }

func NewTrainingHandler(svc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{svc: svc}
}

// CreateLog godoc
// @Summary      Trainingseintrag anlegen
// @Description  Dokumentiert den Trainingsfortschritt eines Hundes. Der Trainer ergibt sich aus dem angemeldeten Benutzer.
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTrainingLogRequest true "Eintrag"
// @Success      201  {object} dto.TrainingLogResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/training-logs [post]
func (h *TrainingHandler) CreateLog(c *gin.Context) {
	var req dto.CreateTrainingLogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	trainerID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Benutzer-ID"))
		return
	}
	entry, err := h.svc.CreateLog(c.Request.Context(), trainerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTrainingLogResponse(entry))
}

// GetLog godoc
// @Summary      Trainingseintrag abrufen
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Eintrags-UUID"
// @Success      200 {object} dto.TrainingLogResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/training-logs/{id} [get]
func (h *TrainingHandler) GetLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.svc.GetLog(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrainingLogResponse(entry))
}

// ListLogs godoc
// @Summary      Trainingseinträge auflisten
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Param        dog_id     query string false "Hunde-UUID"
// @Param        trainer_id query string false "Trainer-UUID"
// @Param        session_id query string false "Termin-UUID"
// @Success      200 {array} dto.TrainingLogResponse
// @Router       /api/v1/training-logs [get]
func (h *TrainingHandler) ListLogs(c *gin.Context) {
	var filter repository.TrainingLogFilter
	for param, dst := range map[string]**uuid.UUID{
		"dog_id":     &filter.DogID,
		"trainer_id": &filter.TrainerID,
		"session_id": &filter.SessionID,
	} {
		if raw := c.Query(param); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, apierror.New("Ungültiger Filter "+param))
				return
			}
			*dst = &id
		}
	}
	h.respondLogs(c, filter)
}

// ListByDog godoc
// @Summary      Trainingseinträge eines Hundes
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hunde-UUID"
// @Success      200 {array} dto.TrainingLogResponse
// @Router       /api/v1/dogs/{id}/training-logs [get]
func (h *TrainingHandler) ListByDog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respondLogs(c, repository.TrainingLogFilter{DogID: &id})
}

func (h *TrainingHandler) respondLogs(c *gin.Context, filter repository.TrainingLogFilter) {
	logs, err := h.svc.ListLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.TrainingLogResponse, len(logs))
	for i := range logs {
		out[i] = toTrainingLogResponse(&logs[i])
	}
	c.JSON(http.StatusOK, out)
}

// UpdateLog godoc
// @Summary      Trainingseintrag bearbeiten
// @Tags         training
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Eintrags-UUID"
// @Param        body body dto.UpdateTrainingLogRequest true "Änderungen"
// @Success      200  {object} dto.TrainingLogResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/v1/training-logs/{id} [put]
func (h *TrainingHandler) UpdateLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTrainingLogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	entry, err := h.svc.UpdateLog(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrainingLogResponse(entry))
}

// DeleteLog godoc
// @Summary      Trainingseintrag löschen
// @Description  Entfernt den Eintrag samt hochgeladener Dateien.
// @Tags         training
// @Security     BearerAuth
// @Param        id path string true "Eintrags-UUID"
// @Success      204
// @Router       /api/v1/training-logs/{id} [delete]
func (h *TrainingHandler) DeleteLog(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLog(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAttachment godoc
// @Summary      Datei zu einem Trainingseintrag hochladen
// @Description  Nimmt Fotos, Videos und Dokumente als multipart/form-data entgegen (Feld "file").
// @Tags         training
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        training_log_id formData string true "Eintrags-UUID"
// @Param        file            formData file   true "Datei"
// @Success      201 {object} dto.TrainingAttachmentResponse
// @Failure      422 {object} apierror.APIError
// @Router       /api/v1/training-attachments [post]
func (h *TrainingHandler) UploadAttachment(c *gin.Context) {
	logID, err := uuid.Parse(c.PostForm("training_log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Eintrags-ID"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Datei fehlt (Formularfeld \"file\")"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	attachment, err := h.svc.AddAttachment(
		c.Request.Context(), logID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTrainingAttachmentResponse(attachment))
}

// ListAttachments godoc
// @Summary      Dateien eines Trainingseintrags auflisten
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Param        training_log_id query string true "Eintrags-UUID"
// @Success      200 {array} dto.TrainingAttachmentResponse
// @Router       /api/v1/training-attachments [get]
func (h *TrainingHandler) ListAttachments(c *gin.Context) {
	logID, err := uuid.Parse(c.Query("training_log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Eintrags-ID"))
		return
	}
	attachments, err := h.svc.ListAttachments(c.Request.Context(), logID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.TrainingAttachmentResponse, len(attachments))
	for i := range attachments {
		out[i] = toTrainingAttachmentResponse(&attachments[i])
	}
	c.JSON(http.StatusOK, out)
}

// GetAttachment godoc
// @Summary      Datei-Metadaten abrufen
// @Tags         training
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Datei-UUID"
// @Success      200 {object} dto.TrainingAttachmentResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/training-attachments/{id} [get]
func (h *TrainingHandler) GetAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachment, err := h.svc.GetAttachment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrainingAttachmentResponse(attachment))
}

// DownloadAttachment godoc
// @Summary      Datei herunterladen
// @Tags         training
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path string true "Datei-UUID"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/training-attachments/{id}/download [get]
func (h *TrainingHandler) DownloadAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	attachment, err := h.svc.GetAttachment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := os.Stat(attachment.FilePath); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Datei nicht gefunden"))
		return
	}
	c.FileAttachment(attachment.FilePath, attachment.FileName)
}

// DeleteAttachment godoc
// @Summary      Datei löschen
// @Tags         training
// @Security     BearerAuth
// @Param        id path string true "Datei-UUID"
// @Success      204
// @Router       /api/v1/training-attachments/{id} [delete]
func (h *TrainingHandler) DeleteAttachment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
