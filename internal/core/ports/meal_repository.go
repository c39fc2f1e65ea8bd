package ports

import (
	"context"
	"time"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// MealRepository defines persistence operations for the meal log.
type MealRepository interface {
	Insert(ctx context.Context, m *domain.MealRecord) error
	// ListByCompany returns the full meal-log dataset for a company, ordered
	// by collection time descending. An empty companyID means no company
	// filter (superadmin).
	ListByCompany(ctx context.Context, companyID string) ([]domain.MealRecord, error)
}

// ReportQuery carries the parameters of a backend-query-mode report. A single
// selected place travels as the scalar PlaceID; multiple places travel as the
// PlaceIDs array — backends historically special-cased the singular form.
type ReportQuery struct {
	CompanyID  string
	PlaceID    string
	PlaceIDs   []string
	LocationID string
	// LocationIDs restricts rows to a location set when the role limits the
	// caller to assigned locations and no single location is selected.
	LocationIDs []string
	From        time.Time
	To          time.Time
	Search      string
}

// ReportRepository runs the server-side report queries. The returned rows are
// the materialized set directly; no further client-side filtering is applied.
type ReportRepository interface {
	ListPendingFees(ctx context.Context, q ReportQuery) ([]domain.PendingFee, error)
	ListMembers(ctx context.Context, q ReportQuery) ([]domain.MemberRecord, error)
}
