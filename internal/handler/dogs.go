package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DogsHandler struct{ svc service.DogService }

func NewDogsHandler(svc service.DogService) *DogsHandler { return &DogsHandler{svc: svc} }

// Create godoc
// @Summary      Hund anlegen
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateDogRequest true "Hundedaten"
// @Success      201  {object} dto.DogResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/dogs [post]
func (h *DogsHandler) Create(c *gin.Context) {
	var req dto.CreateDogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	dog, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDogResponse(dog))
}

// Update godoc
// @Summary      Hund bearbeiten
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Hunde-UUID"
// @Param        body body dto.UpdateDogRequest true "Änderungen"
// @Success      200  {object} dto.DogResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/v1/dogs/{id} [put]
func (h *DogsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateDogRequest
	if !bindAndValidate(c, &req) {
		return
	}
	dog, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDogResponse(dog))
}

// Get godoc
// @Summary      Hund abrufen
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hunde-UUID"
// @Success      200 {object} dto.DogResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/dogs/{id} [get]
func (h *DogsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dog, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDogResponse(dog))
}

// ListByCustomer godoc
// @Summary      Hunde eines Kunden auflisten
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string true "Kunden-UUID"
// @Success      200 {array} dto.DogResponse
// @Router       /api/v1/dogs [get]
func (h *DogsHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Kunden-ID"))
		return
	}
	dogs, err := h.svc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.DogResponse, len(dogs))
	for i := range dogs {
		out[i] = toDogResponse(&dogs[i])
	}
	c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary      Hund löschen
// @Tags         dogs
// @Security     BearerAuth
// @Param        id path string true "Hunde-UUID"
// @Success      204
// @Router       /api/v1/dogs/{id} [delete]
func (h *DogsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddVaccination godoc
// @Summary      Impfung erfassen
// @Tags         dogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Hunde-UUID"
// @Param        body body dto.VaccinationRequest true "Impfung"
// @Success      201  {object} dto.VaccinationResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/dogs/{id}/vaccinations [post]
func (h *DogsHandler) AddVaccination(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.VaccinationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	v, err := h.svc.AddVaccination(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVaccinationResponse(v))
}

// ListVaccinations godoc
// @Summary      Impfungen eines Hundes auflisten
// @Tags         dogs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Hunde-UUID"
// @Success      200 {array} dto.VaccinationResponse
// @Router       /api/v1/dogs/{id}/vaccinations [get]
func (h *DogsHandler) ListVaccinations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	vaccinations, err := h.svc.ListVaccinations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.VaccinationResponse, len(vaccinations))
	for i := range vaccinations {
		out[i] = toVaccinationResponse(&vaccinations[i])
	}
	c.JSON(http.StatusOK, out)
}
