package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/api/metrics"
	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
	"github.com/mealdesk/canteen-api/internal/core/report"
)

// ReportService materializes the meal-history, pending-fees, and user
// reports. Meal history is filtered in memory from the full company dataset;
// the other two run as parameterized backend queries. For every report the
// JSON page and the CSV export come from the same materialized set.
type ReportService struct {
	meals   ports.MealRepository
	reports ports.ReportRepository
	// displayLoc is the fixed timezone used for timestamp display in exports.
	// Filter bounds deliberately stay in local time; see DayBounds.
	displayLoc *time.Location
	log        zerolog.Logger

	mealSpec    report.Spec[domain.MealRecord]
	pendingSpec report.Spec[domain.PendingFee]
	memberSpec  report.Spec[domain.MemberRecord]
}

func NewReportService(meals ports.MealRepository, reports ports.ReportRepository, displayLoc *time.Location, log zerolog.Logger) *ReportService {
	if displayLoc == nil {
		displayLoc = time.Local
	}
	return &ReportService{
		meals:       meals,
		reports:     reports,
		displayLoc:  displayLoc,
		log:         log,
		mealSpec:    mealHistorySpec(displayLoc),
		pendingSpec: pendingFeesSpec(displayLoc),
		memberSpec:  memberSpec(displayLoc),
	}
}

// --- Meal history (in-memory mode) ---

func (s *ReportService) MealHistory(ctx context.Context, req ports.ReportRequest) (*ports.RowsPage[domain.MealRecord], error) {
	rows, size, err := s.materializeMeals(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("meal_history", "json").Inc()
	return toRowsPage(report.Paginate(rows, req.Page, size)), nil
}

func (s *ReportService) MealHistoryCSV(ctx context.Context, req ports.ReportRequest) (*ports.Export, error) {
	rows, _, err := s.materializeMeals(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("meal_history", "csv").Inc()
	return exportCSV(s.mealSpec, rows)
}

func (s *ReportService) materializeMeals(ctx context.Context, req ports.ReportRequest) ([]domain.MealRecord, report.PageSize, error) {
	f, size, err := clampRequest(req)
	if err != nil {
		return nil, report.PageSize{}, err
	}

	dataset, err := s.meals.ListByCompany(ctx, f.CompanyID)
	if err != nil {
		return nil, report.PageSize{}, fmt.Errorf("meal history: %w", err)
	}

	rows := s.mealSpec.Materialize(dataset, f)
	rows = restrictLocations(rows, req.Scope, f, s.mealSpec.Location)
	metrics.ReportRows.WithLabelValues("meal_history").Observe(float64(len(rows)))
	return rows, size, nil
}

// --- Pending fees / user report (backend-query mode) ---

func (s *ReportService) PendingFees(ctx context.Context, req ports.ReportRequest) (*ports.RowsPage[domain.PendingFee], error) {
	rows, size, err := s.queryPendingFees(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("pending_fees", "json").Inc()
	return toRowsPage(report.Paginate(rows, req.Page, size)), nil
}

func (s *ReportService) PendingFeesCSV(ctx context.Context, req ports.ReportRequest) (*ports.Export, error) {
	rows, _, err := s.queryPendingFees(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("pending_fees", "csv").Inc()
	return exportCSV(s.pendingSpec, rows)
}

func (s *ReportService) queryPendingFees(ctx context.Context, req ports.ReportRequest) ([]domain.PendingFee, report.PageSize, error) {
	f, size, err := clampRequest(req)
	if err != nil {
		return nil, report.PageSize{}, err
	}
	rows, err := s.reports.ListPendingFees(ctx, toReportQuery(f, req.Scope))
	if err != nil {
		return nil, report.PageSize{}, fmt.Errorf("pending fees: %w", err)
	}
	metrics.ReportRows.WithLabelValues("pending_fees").Observe(float64(len(rows)))
	return rows, size, nil
}

func (s *ReportService) Members(ctx context.Context, req ports.ReportRequest) (*ports.RowsPage[domain.MemberRecord], error) {
	rows, size, err := s.queryMembers(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("user", "json").Inc()
	return toRowsPage(report.Paginate(rows, req.Page, size)), nil
}

func (s *ReportService) MembersCSV(ctx context.Context, req ports.ReportRequest) (*ports.Export, error) {
	rows, _, err := s.queryMembers(ctx, req)
	if err != nil {
		return nil, err
	}
	metrics.ReportsGeneratedTotal.WithLabelValues("user", "csv").Inc()
	return exportCSV(s.memberSpec, rows)
}

func (s *ReportService) queryMembers(ctx context.Context, req ports.ReportRequest) ([]domain.MemberRecord, report.PageSize, error) {
	f, size, err := clampRequest(req)
	if err != nil {
		return nil, report.PageSize{}, err
	}
	rows, err := s.reports.ListMembers(ctx, toReportQuery(f, req.Scope))
	if err != nil {
		return nil, report.PageSize{}, fmt.Errorf("user report: %w", err)
	}
	metrics.ReportRows.WithLabelValues("user").Observe(float64(len(rows)))
	return rows, size, nil
}

// --- Shared plumbing ---

func exportCSV[R any](spec report.Spec[R], rows []R) (*ports.Export, error) {
	content, err := spec.CSV(rows)
	if err != nil {
		return nil, err
	}
	return &ports.Export{Filename: spec.Filename(time.Now()), Content: content}, nil
}

// clampRequest validates the page size and forces the filter selection inside
// the caller's scope: a locked company always queries its own company, and a
// restricted place selection is intersected with the assignment (falling back
// to the full assignment when nothing valid is selected).
func clampRequest(req ports.ReportRequest) (report.Filter, report.PageSize, error) {
	size, err := report.ParsePageSize(req.PageSize)
	if err != nil {
		return report.Filter{}, report.PageSize{}, err
	}

	f := report.Filter{
		CompanyID:  req.CompanyID,
		PlaceIDs:   req.PlaceIDs,
		LocationID: req.LocationID,
		From:       req.From,
		To:         req.To,
		Search:     req.Search,
	}

	scope := req.Scope
	if scope.Role != domain.RoleSuperadmin {
		f.CompanyID = scope.CompanyID
	}
	if scope.RestrictsPlaces() {
		if len(f.PlaceIDs) == 0 {
			f.PlaceIDs = scope.AllowedPlaceIDs
		} else {
			f.PlaceIDs = domain.IntersectIDs(f.PlaceIDs, scope.AllowedPlaceIDs)
			if len(f.PlaceIDs) == 0 {
				f.PlaceIDs = scope.AllowedPlaceIDs
			}
		}
	}
	if scope.RestrictsLocations() && f.LocationID != "" {
		if len(domain.IntersectIDs([]string{f.LocationID}, scope.AllowedLocationIDs)) == 0 {
			return report.Filter{}, report.PageSize{}, domain.ErrForbidden
		}
	}
	return f, size, nil
}

// restrictLocations narrows an in-memory row set to the scope's assigned
// locations when the role restricts locations and no single location filter
// is active.
func restrictLocations[R any](rows []R, scope domain.Scope, f report.Filter, locationOf func(R) string) []R {
	if !scope.RestrictsLocations() || f.LocationID != "" {
		return rows
	}
	allowed := make(map[string]struct{}, len(scope.AllowedLocationIDs))
	for _, id := range scope.AllowedLocationIDs {
		allowed[id] = struct{}{}
	}
	out := make([]R, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[locationOf(row)]; ok {
			out = append(out, row)
		}
	}
	return out
}

// toReportQuery converts a clamped filter into backend-query parameters: a
// single selected place travels as the scalar placeId, multiple as placeIds.
func toReportQuery(f report.Filter, scope domain.Scope) ports.ReportQuery {
	q := ports.ReportQuery{
		CompanyID:  f.CompanyID,
		LocationID: f.LocationID,
		Search:     f.Search,
	}
	switch len(f.PlaceIDs) {
	case 0:
	case 1:
		q.PlaceID = f.PlaceIDs[0]
	default:
		q.PlaceIDs = f.PlaceIDs
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		q.From, q.To = report.DayBounds(f.From, f.To)
	}
	if scope.RestrictsLocations() && f.LocationID == "" {
		q.LocationIDs = scope.AllowedLocationIDs
	}
	return q
}

func toRowsPage[R any](p report.Page[R]) *ports.RowsPage[R] {
	return &ports.RowsPage[R]{
		Rows:       p.Rows,
		Page:       p.Number,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		PageSize:   p.Size.String(),
	}
}

// --- Report specs: the per-report row mappings ---

const exportTimeFormat = "2006-01-02 15:04:05"

func mealHistorySpec(display *time.Location) report.Spec[domain.MealRecord] {
	return report.Spec[domain.MealRecord]{
		Name:     "meal_history",
		Company:  func(m domain.MealRecord) string { return m.CompanyID },
		Place:    func(m domain.MealRecord) string { return m.PlaceID },
		Location: func(m domain.MealRecord) string { return m.LocationID },
		When:     func(m domain.MealRecord) time.Time { return m.CollectedAt },
		Search: func(m domain.MealRecord) []string {
			return []string{m.MemberName, m.MemberUniqueID, m.PackageName}
		},
		Columns: []report.Column[domain.MealRecord]{
			{Header: "Member Name", Value: func(m domain.MealRecord) string { return m.MemberName }},
			{Header: "Unique ID", Value: func(m domain.MealRecord) string { return m.MemberUniqueID }},
			{Header: "Package", Value: func(m domain.MealRecord) string { return m.PackageName }},
			{Header: "Amount", Value: func(m domain.MealRecord) string { return formatAmount(m.Amount) }},
			{Header: "Collected At", Value: func(m domain.MealRecord) string {
				return m.CollectedAt.In(display).Format(exportTimeFormat)
			}},
		},
	}
}

func pendingFeesSpec(display *time.Location) report.Spec[domain.PendingFee] {
	return report.Spec[domain.PendingFee]{
		Name:     "pending_fees",
		Company:  func(p domain.PendingFee) string { return p.CompanyID },
		Place:    func(p domain.PendingFee) string { return p.PlaceID },
		Location: func(p domain.PendingFee) string { return p.LocationID },
		When:     func(p domain.PendingFee) time.Time { return p.DueSince },
		Search: func(p domain.PendingFee) []string {
			return []string{p.MemberName, p.MemberUniqueID, p.PackageName}
		},
		Columns: []report.Column[domain.PendingFee]{
			{Header: "Member Name", Value: func(p domain.PendingFee) string { return p.MemberName }},
			{Header: "Unique ID", Value: func(p domain.PendingFee) string { return p.MemberUniqueID }},
			{Header: "Package", Value: func(p domain.PendingFee) string { return p.PackageName }},
			{Header: "Amount Due", Value: func(p domain.PendingFee) string { return formatAmount(p.AmountDue) }},
			{Header: "Due Since", Value: func(p domain.PendingFee) string {
				return p.DueSince.In(display).Format("2006-01-02")
			}},
		},
	}
}

func memberSpec(display *time.Location) report.Spec[domain.MemberRecord] {
	return report.Spec[domain.MemberRecord]{
		Name:     "user",
		Company:  func(m domain.MemberRecord) string { return m.CompanyID },
		Place:    func(m domain.MemberRecord) string { return m.PlaceID },
		Location: func(m domain.MemberRecord) string { return m.LocationID },
		When:     func(m domain.MemberRecord) time.Time { return m.JoinedAt },
		Search: func(m domain.MemberRecord) []string {
			return []string{m.FullName, m.UniqueID, m.PackageName}
		},
		Columns: []report.Column[domain.MemberRecord]{
			{Header: "Full Name", Value: func(m domain.MemberRecord) string { return m.FullName }},
			{Header: "Unique ID", Value: func(m domain.MemberRecord) string { return m.UniqueID }},
			{Header: "Package", Value: func(m domain.MemberRecord) string { return m.PackageName }},
			{Header: "Phone", Value: func(m domain.MemberRecord) string { return m.Phone }},
			{Header: "Joined", Value: func(m domain.MemberRecord) string {
				return m.JoinedAt.In(display).Format("2006-01-02")
			}},
			{Header: "Active", Value: func(m domain.MemberRecord) string {
				if m.Active {
					return "yes"
				}
				return "no"
			}},
		},
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
