package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/model"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingsHandler struct{ svc service.BookingService }

func NewBookingsHandler(svc service.BookingService) *BookingsHandler {
	return &BookingsHandler{svc: svc}
}

// Create godoc
// @Summary      Termin buchen
// @Description  Bucht einen Hund in einen Termin. Mit use_credit wird eine Einheit vom Guthaben des Kunden abgebucht.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateBookingRequest true "Buchung"
// @Success      201  {object} dto.BookingResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/bookings [post]
func (h *BookingsHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if !bindAndValidate(c, &req) {
		return
	}
	booking, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

// Cancel godoc
// @Summary      Buchung stornieren
// @Description  Gibt den Platz frei und erstattet eine verbrauchte Guthaben-Einheit.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Buchungs-UUID"
// @Success      200 {object} dto.BookingResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/bookings/{id}/cancel [post]
func (h *BookingsHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.svc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

// Get godoc
// @Summary      Buchung abrufen
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Buchungs-UUID"
// @Success      200 {object} dto.BookingResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/bookings/{id} [get]
func (h *BookingsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(booking))
}

// List godoc
// @Summary      Buchungen auflisten
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string false "Kunden-UUID"
// @Param        session_id  query string false "Termin-UUID"
// @Success      200 {array} dto.BookingResponse
// @Router       /api/v1/bookings [get]
func (h *BookingsHandler) List(c *gin.Context) {
	if raw := c.Query("session_id"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Ungültige Termin-ID"))
			return
		}
		bookings, err := h.svc.ListBySession(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		h.respondList(c, bookings)
		return
	}

	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("customer_id oder session_id ist erforderlich"))
		return
	}
	bookings, err := h.svc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondList(c, bookings)
}

func (h *BookingsHandler) respondList(c *gin.Context, bookings []model.Booking) {
	out := make([]dto.BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = toBookingResponse(&bookings[i])
	}
	c.JSON(http.StatusOK, out)
}
