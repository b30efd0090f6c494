package handler

import (
	"net/http"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
	"github.com/wlmost/dog-school-app-sub001/internal/dto"
	"github.com/wlmost/dog-school-app-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreditsHandler struct{ svc service.CreditService }

func NewCreditsHandler(svc service.CreditService) *CreditsHandler {
	return &CreditsHandler{svc: svc}
}

// CreatePackage godoc
// @Summary      Guthaben-Paket anlegen
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCreditPackageRequest true "Paketdaten"
// @Success      201  {object} dto.CreditPackageResponse
// @Failure      422  {object} apierror.APIError
// @Router       /api/v1/credits/packages [post]
func (h *CreditsHandler) CreatePackage(c *gin.Context) {
	var req dto.CreateCreditPackageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pkg, err := h.svc.CreatePackage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCreditPackageResponse(pkg))
}

// ListPackages godoc
// @Summary      Guthaben-Pakete auflisten
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive query bool false "Auch deaktivierte Pakete"
// @Success      200 {array} dto.CreditPackageResponse
// @Router       /api/v1/credits/packages [get]
func (h *CreditsHandler) ListPackages(c *gin.Context) {
	packages, err := h.svc.ListPackages(c.Request.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CreditPackageResponse, len(packages))
	for i := range packages {
		out[i] = toCreditPackageResponse(&packages[i])
	}
	c.JSON(http.StatusOK, out)
}

// DeactivatePackage godoc
// @Summary      Guthaben-Paket deaktivieren
// @Tags         credits
// @Security     BearerAuth
// @Param        id path string true "Paket-UUID"
// @Success      204
// @Router       /api/v1/credits/packages/{id} [delete]
func (h *CreditsHandler) DeactivatePackage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivatePackage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Purchase godoc
// @Summary      Guthaben-Paket kaufen
// @Description  Schreibt die Einheiten gut und legt einen Rechnungsentwurf über den Paketpreis an.
// @Tags         credits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PurchaseCreditRequest true "Kauf"
// @Success      201  {object} dto.CustomerCreditResponse
// @Failure      409  {object} apierror.APIError
// @Router       /api/v1/credits/purchase [post]
func (h *CreditsHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseCreditRequest
	if !bindAndValidate(c, &req) {
		return
	}
	credit, err := h.svc.Purchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerCreditResponse(credit))
}

// ListByCustomer godoc
// @Summary      Guthaben eines Kunden auflisten
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Param        customer_id query string true "Kunden-UUID"
// @Success      200 {array} dto.CustomerCreditResponse
// @Router       /api/v1/credits [get]
func (h *CreditsHandler) ListByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customer_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Ungültige Kunden-ID"))
		return
	}
	credits, err := h.svc.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.CustomerCreditResponse, len(credits))
	for i := range credits {
		out[i] = toCustomerCreditResponse(&credits[i])
	}
	c.JSON(http.StatusOK, out)
}
