package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// ctxScope rebuilds the caller's scope from the claims injected by the Auth
// middleware and performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - every role except superadmin requires a company id; without it the JWT
//     is structurally valid but operationally unusable — reject with 401.
func ctxScope(c echo.Context) (domain.Scope, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Scope{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	companyID, _ := c.Get("company_id").(string)
	if role != domain.RoleSuperadmin && companyID == "" {
		return domain.Scope{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing company identity")
	}

	placeIDs, _ := c.Get("place_ids").([]string)
	locationIDs, _ := c.Get("location_ids").([]string)

	return domain.Scope{
		Role:               role,
		CompanyID:          companyID,
		AllowedPlaceIDs:    placeIDs,
		AllowedLocationIDs: locationIDs,
	}, nil
}

// ctxUserID returns the authenticated user's id from the claims.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
