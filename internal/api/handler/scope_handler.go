package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

type ScopeHandler struct {
	scopeService ports.ScopeService
}

func NewScopeHandler(scopeService ports.ScopeService) *ScopeHandler {
	return &ScopeHandler{scopeService: scopeService}
}

// View returns the resolved scope, lock state, and initial option lists for
// the authenticated user.
//
// @Summary      Resolve the caller's filter scope
// @Tags         scope
// @Produce      json
// @Success      200  {object}  ports.ScopeView
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /scope [get]
func (h *ScopeHandler) View(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	view, err := h.scopeService.View(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
