package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

type DashboardHandler struct {
	dashboardService ports.DashboardService
}

func NewDashboardHandler(dashboardService ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// dashboardParams reads the shared dashboard query parameters into a
// DashboardRequest clothed with the caller's scope.
func dashboardParams(c echo.Context) (ports.DashboardRequest, error) {
	scope, err := ctxScope(c)
	if err != nil {
		return ports.DashboardRequest{}, err
	}

	req := ports.DashboardRequest{
		Scope:       scope,
		CompanyID:   c.QueryParam("companyId"),
		PlaceIDs:    splitIDs(c.QueryParam("placeIds")),
		LocationIDs: splitIDs(c.QueryParam("locationIds")),
	}
	if single := c.QueryParam("placeId"); single != "" {
		req.PlaceIDs = append(req.PlaceIDs, single)
	}

	if raw := c.QueryParam("fromDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ports.DashboardRequest{}, echo.NewHTTPError(http.StatusBadRequest, "fromDate must match YYYY-MM-DD")
		}
		req.From = t
	}
	if raw := c.QueryParam("toDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ports.DashboardRequest{}, echo.NewHTTPError(http.StatusBadRequest, "toDate must match YYYY-MM-DD")
		}
		req.To = t
	}
	if raw := c.QueryParam("date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ports.DashboardRequest{}, echo.NewHTTPError(http.StatusBadRequest, "date must match YYYY-MM-DD")
		}
		req.Date = t
	}
	if raw := c.QueryParam("intervalHours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 24 {
			return ports.DashboardRequest{}, echo.NewHTTPError(http.StatusBadRequest, "intervalHours must be between 1 and 24")
		}
		req.IntervalHours = n
	}
	return req, nil
}

// Metrics returns the headline dashboard numbers.
//
// @Summary      Dashboard metrics
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  ports.MetricsResult
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c echo.Context) error {
	req, err := dashboardParams(c)
	if err != nil {
		return err
	}
	result, err := h.dashboardService.Metrics(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Summary returns the per-day meals/revenue series.
//
// @Summary      Dashboard daily summary
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   ports.DailyPoint
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	req, err := dashboardParams(c)
	if err != nil {
		return err
	}
	points, err := h.dashboardService.Summary(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}

// Overview returns the per-place breakdown.
//
// @Summary      Dashboard place overview
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   ports.PlaceBreakdown
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/overview [get]
func (h *DashboardHandler) Overview(c echo.Context) error {
	req, err := dashboardParams(c)
	if err != nil {
		return err
	}
	rows, err := h.dashboardService.Overview(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// RevenueByLocation returns the per-location revenue contribution.
//
// @Summary      Dashboard revenue by location
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   ports.LocationRevenue
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/revenue-by-location [get]
func (h *DashboardHandler) RevenueByLocation(c echo.Context) error {
	req, err := dashboardParams(c)
	if err != nil {
		return err
	}
	rows, err := h.dashboardService.RevenueByLocation(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// PaymentAmountsDaily returns the intra-day payment buckets of a single day.
//
// @Summary      Dashboard intra-day payment amounts
// @Tags         dashboard
// @Produce      json
// @Param        date           query     string  true   "Day to bucket (YYYY-MM-DD)"
// @Param        intervalHours  query     int     false  "Bucket width in hours (default 1)"
// @Success      200  {array}   ports.HourlyBucket
// @Failure      400  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard/payment-amounts-daily [get]
func (h *DashboardHandler) PaymentAmountsDaily(c echo.Context) error {
	req, err := dashboardParams(c)
	if err != nil {
		return err
	}
	if req.Date.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}
	rows, err := h.dashboardService.PaymentAmountsDaily(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
