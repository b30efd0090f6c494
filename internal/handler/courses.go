package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type CoursesHandler struct{ svc service.CourseService }

func NewCoursesHandler(svc service.CourseService) *CoursesHandler {
	return &CoursesHandler{svc: svc}
}

// Create godoc
// @Summary      Kurs anlegen
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCourseRequest true "Kursdaten"
// @Success      201  {object} dto.CourseResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/courses [post]
func (h *CoursesHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	course, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCourseResponse(course))
}

// Update godoc
// @Summary      Kurs bearbeiten
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Kurs-UUID"
// @Param        body body dto.UpdateCourseRequest true "Änderungen"
// @Success      200  {object} dto.CourseResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/v1/courses/{id} [put]
func (h *CoursesHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	course, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

// Get godoc
// @Summary      Kurs abrufen
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Kurs-UUID"
// @Success      200 {object} dto.CourseResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/v1/courses/{id} [get]
func (h *CoursesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCourseResponse(course))
}

// List godoc
// @Summary      Kurse auflisten
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive query bool false "Auch deaktivierte Kurse"
// @Success      200 {array} dto.CourseResponse
// @Router       /api/v1/courses [get]
func (h *CoursesHandler) List(c *gin.Context) {
	courses, err := h.svc.List(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CourseResponse, len(courses))
	for i := range courses {
		out[i] = toCourseResponse(&courses[i])
	}
	c.JSON(http.StatusOK, out)
}

// Deactivate godoc
// @Summary      Kurs deaktivieren
// @Tags         courses
// @Security     BearerAuth
// @Param        id path string true "Kurs-UUID"
// @Success      204
// @Router       /api/v1/courses/{id} [delete]
func (h *CoursesHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateSession godoc
// @Summary      Termin anlegen
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Kurs-UUID"
// @Param        body body dto.CreateSessionRequest true "Termindaten"
// @Success      201  {object} dto.SessionResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/courses/{id}/sessions [post]
func (h *CoursesHandler) CreateSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	session, err := h.svc.CreateSession(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(session, 0))
}

// ListSessions godoc
// @Summary      Termine eines Kurses auflisten
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Kurs-UUID"
// @Success      200 {array} dto.SessionResponse
// @Router       /api/v1/courses/{id}/sessions [get]
func (h *CoursesHandler) ListSessions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sessions, err := h.svc.ListSessions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.SessionResponse, len(sessions))
	for i := range sessions {
		booked, err := h.svc.SessionOccupancy(c.Request.Context(), sessions[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		out[i] = toSessionResponse(&sessions[i], booked)
	}
	c.JSON(http.StatusOK, out)
}

// CancelSession godoc
// @Summary      Termin absagen
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Termin-UUID"
// @Success      200 {object} dto.SessionResponse
// @Router       /api/v1/sessions/{id}/cancel [post]
func (h *CoursesHandler) CancelSession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, err := h.svc.CancelSession(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(session, 0))
}
