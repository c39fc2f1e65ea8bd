package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

const dateLayout = "2006-01-02"

type ReportHandler struct {
	reportService ports.ReportService
}

func NewReportHandler(reportService ports.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// reportParams reads the shared filter/pagination query parameters into a
// ReportRequest clothed with the caller's scope.
func reportParams(c echo.Context) (ports.ReportRequest, error) {
	scope, err := ctxScope(c)
	if err != nil {
		return ports.ReportRequest{}, err
	}

	req := ports.ReportRequest{
		Scope:      scope,
		CompanyID:  c.QueryParam("companyId"),
		PlaceIDs:   splitIDs(c.QueryParam("placeIds")),
		LocationID: c.QueryParam("locationId"),
		Search:     c.QueryParam("search"),
		PageSize:   c.QueryParam("pageSize"),
	}

	if raw := c.QueryParam("fromDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ports.ReportRequest{}, echo.NewHTTPError(http.StatusBadRequest, "fromDate must match YYYY-MM-DD")
		}
		req.From = t
	}
	if raw := c.QueryParam("toDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return ports.ReportRequest{}, echo.NewHTTPError(http.StatusBadRequest, "toDate must match YYYY-MM-DD")
		}
		req.To = t
	}
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ports.ReportRequest{}, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		req.Page = n
	}
	return req, nil
}

// wantsCSV reports whether the request asks for a CSV export.
func wantsCSV(c echo.Context) bool {
	return c.QueryParam("exportType") == "csv"
}

// sendCSV writes a CSV export as a file attachment.
func sendCSV(c echo.Context, export *ports.Export) error {
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, export.Filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", export.Content)
}

// MealHistory serves the meal history report, paginated or as CSV when
// exportType=csv.
//
// @Summary      Meal history report
// @Tags         reports
// @Produce      json
// @Param        companyId   query     string  false  "Company id"
// @Param        placeIds    query     string  false  "Place ids, comma-separated"
// @Param        locationId  query     string  false  "Location id"
// @Param        fromDate    query     string  false  "Start date (YYYY-MM-DD)"
// @Param        toDate      query     string  false  "End date (YYYY-MM-DD)"
// @Param        search      query     string  false  "Free-text search"
// @Param        page        query     int     false  "Page number (1-based)"
// @Param        pageSize    query     string  false  "10, 20, 50, or ALL"
// @Param        exportType  query     string  false  "csv for a CSV export"
// @Success      200  {object}  ports.RowsPage[domain.MealRecord]
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /meal/history [get]
func (h *ReportHandler) MealHistory(c echo.Context) error {
	req, err := reportParams(c)
	if err != nil {
		return err
	}

	if wantsCSV(c) {
		export, err := h.reportService.MealHistoryCSV(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return sendCSV(c, export)
	}

	page, err := h.reportService.MealHistory(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// PendingFees serves the pending fees report. The route keeps its historical
// "panding" spelling because deployed clients depend on it.
//
// @Summary      Pending fees report
// @Tags         reports
// @Produce      json
// @Param        exportType  query     string  false  "csv for a CSV export"
// @Success      200  {object}  ports.RowsPage[domain.PendingFee]
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /reports/panding-fees-report [get]
func (h *ReportHandler) PendingFees(c echo.Context) error {
	req, err := reportParams(c)
	if err != nil {
		return err
	}

	if wantsCSV(c) {
		export, err := h.reportService.PendingFeesCSV(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return sendCSV(c, export)
	}

	page, err := h.reportService.PendingFees(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Members serves the user report.
//
// @Summary      User report
// @Tags         reports
// @Produce      json
// @Param        exportType  query     string  false  "csv for a CSV export"
// @Success      200  {object}  ports.RowsPage[domain.MemberRecord]
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Security     BearerAuth
// @Router       /reports/user-report [get]
func (h *ReportHandler) Members(c echo.Context) error {
	req, err := reportParams(c)
	if err != nil {
		return err
	}

	if wantsCSV(c) {
		export, err := h.reportService.MembersCSV(c.Request().Context(), req)
		if err != nil {
			return err
		}
		return sendCSV(c, export)
	}

	page, err := h.reportService.Members(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
