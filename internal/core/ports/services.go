package ports

import (
	"context"
	"time"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// RegisterInput carries the data needed to create a user account.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	Role        string
	CompanyID   string
	PlaceIDs    []string
	LocationIDs []string
}

// InitialSelection is the pre-resolved filter selection a page starts from.
type InitialSelection struct {
	Company  string   `json:"company"`
	Places   []string `json:"places"`
	Location string   `json:"location"`
}

// ScopeView bundles everything a report page needs on mount: the resolved
// scope, the lock policy, the initial option lists, and the pre-resolved
// selection.
type ScopeView struct {
	Scope     domain.Scope      `json:"scope"`
	Locks     domain.Locks      `json:"locks"`
	Companies []domain.Company  `json:"companies"`
	Places    []domain.Place    `json:"places"`
	Locations []domain.Location `json:"locations"`
	Selection InitialSelection  `json:"selection"`
}

// ScopeService derives the role-aware scope from the stored user profile.
type ScopeService interface {
	// ResolveScope normalizes the user's profile into a Scope. Non-superadmin
	// roles without a resolvable company get domain.ErrNoCompanyAssigned.
	ResolveScope(ctx context.Context, userID string) (domain.Scope, error)
	// View resolves the scope and pre-loads the option lists and lock state
	// for the initial page mount.
	View(ctx context.Context, userID string) (*ScopeView, error)
}

// CatalogService serves the scope-restricted option lists of the filter
// cascade. The session key identifies the cascade owner so that a later
// request supersedes a slower earlier one from the same session.
type CatalogService interface {
	Companies(ctx context.Context, scope domain.Scope) ([]domain.Company, error)
	Places(ctx context.Context, session string, scope domain.Scope, companyID string) ([]domain.Place, error)
	Locations(ctx context.Context, session string, scope domain.Scope, placeIDs []string) ([]domain.Location, error)
}

// ReportRequest carries the caller's scope plus the raw filter selection of a
// report query. Services clamp the selection to the scope before
// materializing.
type ReportRequest struct {
	Scope      domain.Scope
	CompanyID  string
	PlaceIDs   []string
	LocationID string
	From       time.Time
	To         time.Time
	Search     string
	Page       int
	PageSize   string // "10", "20", "50", or "ALL"
}

// RowsPage is one page of a materialized report.
type RowsPage[R any] struct {
	Rows       []R    `json:"rows"`
	Page       int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Total      int    `json:"total"`
	PageSize   string `json:"pageSize"`
}

// Export is a rendered CSV blob ready to be sent as an attachment.
type Export struct {
	Filename string
	Content  []byte
}

// ReportService materializes the three reports. Each report's CSV export
// covers the full materialized set, never a single page.
type ReportService interface {
	MealHistory(ctx context.Context, req ReportRequest) (*RowsPage[domain.MealRecord], error)
	MealHistoryCSV(ctx context.Context, req ReportRequest) (*Export, error)
	PendingFees(ctx context.Context, req ReportRequest) (*RowsPage[domain.PendingFee], error)
	PendingFeesCSV(ctx context.Context, req ReportRequest) (*Export, error)
	Members(ctx context.Context, req ReportRequest) (*RowsPage[domain.MemberRecord], error)
	MembersCSV(ctx context.Context, req ReportRequest) (*Export, error)
}

// DashboardRequest carries the caller's scope plus the dashboard filters.
type DashboardRequest struct {
	Scope         domain.Scope
	CompanyID     string
	PlaceIDs      []string
	LocationIDs   []string
	From          time.Time
	To            time.Time
	Date          time.Time
	IntervalHours int
}

// DashboardService serves the aggregated dashboard queries.
type DashboardService interface {
	Metrics(ctx context.Context, req DashboardRequest) (*MetricsResult, error)
	Summary(ctx context.Context, req DashboardRequest) ([]DailyPoint, error)
	Overview(ctx context.Context, req DashboardRequest) ([]PlaceBreakdown, error)
	RevenueByLocation(ctx context.Context, req DashboardRequest) ([]LocationRevenue, error)
	PaymentAmountsDaily(ctx context.Context, req DashboardRequest) ([]HourlyBucket, error)
}

// CollectionInput is the DTO passed from the transport layer to MealService.
type CollectionInput struct {
	CompanyID      string
	PlaceID        string
	LocationID     string
	MemberName     string
	MemberUniqueID string
	PackageName    string
	Amount         float64
	CollectedAt    time.Time
	CollectedBy    string
	Scope          domain.Scope
}

// MealService processes incoming meal collection events.
type MealService interface {
	Process(ctx context.Context, event CollectionInput) error
}
