package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/middleware"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create godoc
// @Summary      Kunde anlegen
// @Description  Legt Benutzerkonto und Kundenprofil in einem Schritt an (Admin-Pfad).
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Kundendaten"
// @Success      201  {object} dto.CustomerResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// Update godoc
// @Summary      Kunde bearbeiten
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Kunden-UUID"
// @Param        body body dto.UpdateCustomerRequest true "Änderungen"
// @Success      200  {object} dto.CustomerResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/v1/customers/{id} [put]
func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Get godoc
// @Summary      Kunde abrufen
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Kunden-UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/customers/{id} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// Me godoc
// @Summary      Eigenes Kundenprofil abrufen
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/customers/me [get]
func (h *CustomersHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	customer, err := h.svc.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// List godoc
// @Summary      Kunden auflisten
// @Description  Admins sehen alle Kunden, Trainer nur die ihnen zugeordneten.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CustomerResponse
// @Router       /api/v1/customers [get]
func (h *CustomersHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if claims.Role == middleware.RoleTrainer {
		trainerID, perr := uuid.Parse(claims.UserID)
		if perr != nil {
			respondError(c, perr)
			return
		}
		list, lerr := h.svc.ListByTrainer(c.Request.Context(), trainerID)
		if lerr != nil {
			respondError(c, lerr)
			return
		}
		out := make([]dto.CustomerResponse, len(list))
		for i := range list {
			out[i] = toCustomerResponse(&list[i])
		}
		c.JSON(http.StatusOK, out)
		return
	}

	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CustomerResponse, len(list))
	for i := range list {
		out[i] = toCustomerResponse(&list[i])
	}
	c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary      Kunde löschen
// @Description  Löscht das Kundenprofil und deaktiviert das Konto. Kunden mit Rechnungen bleiben erhalten.
// @Tags         customers
// @Security     BearerAuth
// @Param        id path string true "Kunden-UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /api/v1/customers/{id} [delete]
func (h *CustomersHandler) Delete(c *gin.Context) {
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
