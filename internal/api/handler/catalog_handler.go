package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

type CatalogHandler struct {
	catalogService ports.CatalogService
}

func NewCatalogHandler(catalogService ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Companies lists the companies visible to the caller. Superadmins see all
// companies; every other role sees only its own.
//
// @Summary      List visible companies
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Company
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /company [get]
func (h *CatalogHandler) Companies(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}

	companies, err := h.catalogService.Companies(c.Request().Context(), scope)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, companies)
}

// Places lists the places of a company, restricted to the caller's scope.
//
// @Summary      List places of a company
// @Tags         catalog
// @Produce      json
// @Param        companyId  path      string  true  "Company id"
// @Success      200        {array}   domain.Place
// @Failure      401        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      409        {object}  map[string]string
// @Security     BearerAuth
// @Router       /places/company/{companyId} [get]
func (h *CatalogHandler) Places(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	companyID := c.Param("companyId")
	if companyID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "companyId is required")
	}

	places, err := h.catalogService.Places(c.Request().Context(), userID, scope, companyID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, places)
}

// Locations lists the locations of one or more places, restricted to the
// caller's scope. The path carries a single place id; additional places may
// be passed comma-separated in the placeIds query parameter.
//
// @Summary      List locations of the selected places
// @Tags         catalog
// @Produce      json
// @Param        placeId   path      string  true   "Place id"
// @Param        placeIds  query     string  false  "Extra place ids, comma-separated"
// @Success      200       {array}   domain.Location
// @Failure      401       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Security     BearerAuth
// @Router       /locations/places/{placeId} [get]
func (h *CatalogHandler) Locations(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	placeIDs := splitIDs(c.Param("placeId"))
	placeIDs = append(placeIDs, splitIDs(c.QueryParam("placeIds"))...)
	if len(placeIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "placeId is required")
	}

	locations, err := h.catalogService.Locations(c.Request().Context(), userID, scope, placeIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locations)
}

// splitIDs splits a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
