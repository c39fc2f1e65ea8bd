package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// DashboardService serves the aggregated dashboard queries, clamping the
// filter selection to the caller's scope before hitting the repository.
type DashboardService struct {
	repo ports.DashboardRepository
	log  zerolog.Logger
}

func NewDashboardService(repo ports.DashboardRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{repo: repo, log: log}
}

func (s *DashboardService) Metrics(ctx context.Context, req ports.DashboardRequest) (*ports.MetricsResult, error) {
	q, err := clampDashboard(req)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Metrics(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	return res, nil
}

func (s *DashboardService) Summary(ctx context.Context, req ports.DashboardRequest) ([]ports.DailyPoint, error) {
	q, err := clampDashboard(req)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Summary(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return res, nil
}

func (s *DashboardService) Overview(ctx context.Context, req ports.DashboardRequest) ([]ports.PlaceBreakdown, error) {
	q, err := clampDashboard(req)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Overview(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dashboard overview: %w", err)
	}
	return res, nil
}

func (s *DashboardService) RevenueByLocation(ctx context.Context, req ports.DashboardRequest) ([]ports.LocationRevenue, error) {
	q, err := clampDashboard(req)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.RevenueByLocation(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dashboard revenue by location: %w", err)
	}
	return res, nil
}

func (s *DashboardService) PaymentAmountsDaily(ctx context.Context, req ports.DashboardRequest) ([]ports.HourlyBucket, error) {
	q, err := clampDashboard(req)
	if err != nil {
		return nil, err
	}
	if q.IntervalHours <= 0 {
		q.IntervalHours = 1
	}
	res, err := s.repo.PaymentAmountsDaily(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("dashboard payment amounts: %w", err)
	}
	return res, nil
}

// clampDashboard applies the same scope discipline as report queries: locked
// company roles always aggregate over their own company; restricted places
// and locations are intersected with the assignment.
func clampDashboard(req ports.DashboardRequest) (ports.DashboardQuery, error) {
	scope := req.Scope

	companyID := req.CompanyID
	if scope.Role != domain.RoleSuperadmin {
		if scope.CompanyID == "" {
			return ports.DashboardQuery{}, domain.ErrNoCompanyAssigned
		}
		companyID = scope.CompanyID
	}

	placeIDs := req.PlaceIDs
	if scope.RestrictsPlaces() {
		if len(placeIDs) == 0 {
			placeIDs = scope.AllowedPlaceIDs
		} else {
			placeIDs = domain.IntersectIDs(placeIDs, scope.AllowedPlaceIDs)
			if len(placeIDs) == 0 {
				placeIDs = scope.AllowedPlaceIDs
			}
		}
	}

	locationIDs := req.LocationIDs
	if scope.RestrictsLocations() {
		if len(locationIDs) == 0 {
			locationIDs = scope.AllowedLocationIDs
		} else {
			locationIDs = domain.IntersectIDs(locationIDs, scope.AllowedLocationIDs)
			if len(locationIDs) == 0 {
				locationIDs = scope.AllowedLocationIDs
			}
		}
	}

	q := ports.DashboardQuery{
		CompanyID:     companyID,
		LocationIDs:   locationIDs,
		From:          req.From,
		To:            req.To,
		Date:          req.Date,
		IntervalHours: req.IntervalHours,
	}
	switch len(placeIDs) {
	case 0:
	case 1:
		q.PlaceID = placeIDs[0]
	default:
		q.PlaceIDs = placeIDs
	}
	return q, nil
}
