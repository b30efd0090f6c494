package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	svc       service.SettingsService
	uploadDir string
}

func NewSettingsHandler(svc service.SettingsService, uploadDir string) *SettingsHandler {
	return &SettingsHandler{svc: svc, uploadDir: uploadDir}
}

// List godoc
// @Summary      Einstellungen auflisten
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.SettingResponse
// @Router       /api/v1/settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.SettingResponse, len(settings))
	for i := range settings {
		out[i] = toSettingResponse(&settings[i])
	}
	c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary      Einstellung abrufen
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        key path string true "Einstellungsschlüssel"
// @Success      200 {object} dto.SettingResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/settings/{key} [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.svc.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettingResponse(setting))
}

// Set godoc
// @Summary      Einstellung setzen
// @Description  Legt eine Einstellung an oder überschreibt sie. Datei-Einstellungen (z.B. das Firmenlogo) werden als multipart/form-data mit dem Feld "file" hochgeladen; der Einstellungs-Cache wird invalidiert.
// @Tags         settings
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        key  path string true "Einstellungsschlüssel"
// @Param        body body dto.UpdateSettingRequest true "Wert"
// @Success      200  {object} dto.SettingResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/settings/{key} [put]
func (h *SettingsHandler) Set(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		h.setFile(c)
		return
	}
	var req dto.UpdateSettingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	setting, err := h.svc.Set(c.Request.Context(), c.Param("key"), req.Value, req.Type)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettingResponse(setting))
}

// setFile stores an uploaded file and records its path as a file setting.
func (h *SettingsHandler) setFile(c *gin.Context) {
	if h.uploadDir == "" {
		respondError(c, apierror.InvalidState("Dateiablage ist nicht konfiguriert"))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Datei fehlt (Formularfeld \"file\")"))
		return
	}

	key := c.Param("key")
	name := fmt.Sprintf("%s_%d%s", key, time.Now().Unix(), filepath.Ext(fileHeader.Filename))
	path := filepath.Join(h.uploadDir, "settings", name)
	if err := c.SaveUploadedFile(fileHeader, path); err != nil {
		respondError(c, err)
		return
	}

	setting, err := h.svc.Set(c.Request.Context(), key, path, model.SettingTypeFile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSettingResponse(setting))
}
