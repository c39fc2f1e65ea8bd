package ports

import (
	"context"
	"time"
)

// DashboardQuery carries the filter parameters of the dashboard aggregations.
// PlaceID/PlaceIDs follow the same scalar-vs-array convention as ReportQuery.
type DashboardQuery struct {
	CompanyID     string
	PlaceID       string
	PlaceIDs      []string
	LocationIDs   []string
	From          time.Time
	To            time.Time
	Date          time.Time
	IntervalHours int
}

// MetricsResult is the headline-numbers card of the dashboard.
type MetricsResult struct {
	TotalMeals    int64   `json:"totalMeals"`
	TotalRevenue  float64 `json:"totalRevenue"`
	ActiveMembers int64   `json:"activeMembers"`
	PendingAmount float64 `json:"pendingAmount"`
}

// DailyPoint is one day of the summary series.
type DailyPoint struct {
	Date    string  `json:"date"` // "2006-01-02"
	Meals   int64   `json:"meals"`
	Revenue float64 `json:"revenue"`
}

// PlaceBreakdown is one place's share in the overview.
type PlaceBreakdown struct {
	PlaceID   string  `json:"placeId"`
	PlaceName string  `json:"placeName"`
	Meals     int64   `json:"meals"`
	Revenue   float64 `json:"revenue"`
}

// LocationRevenue is one location's revenue contribution.
type LocationRevenue struct {
	LocationID   string  `json:"locationId"`
	LocationName string  `json:"locationName"`
	Revenue      float64 `json:"revenue"`
}

// HourlyBucket is one interval of the payment-amounts-daily series.
type HourlyBucket struct {
	BucketStart time.Time `json:"bucketStart"`
	Amount      float64   `json:"amount"`
	Count       int64     `json:"count"`
}

// DashboardRepository runs the dashboard aggregations server-side.
type DashboardRepository interface {
	Metrics(ctx context.Context, q DashboardQuery) (*MetricsResult, error)
	Summary(ctx context.Context, q DashboardQuery) ([]DailyPoint, error)
	Overview(ctx context.Context, q DashboardQuery) ([]PlaceBreakdown, error)
	RevenueByLocation(ctx context.Context, q DashboardQuery) ([]LocationRevenue, error)
	PaymentAmountsDaily(ctx context.Context, q DashboardQuery) ([]HourlyBucket, error)
}
