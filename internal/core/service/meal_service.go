package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/api/metrics"
	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) for collection scans.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, memberUniqueID, packageName string, ts time.Time) (bool, error)
	Mark(ctx context.Context, memberUniqueID, packageName string, ts time.Time) error
}

type mealService struct {
	meals ports.MealRepository
	dedup DedupChecker
	log   zerolog.Logger
}

// NewMealService returns a MealService implementation.
func NewMealService(meals ports.MealRepository, dedup DedupChecker, log zerolog.Logger) ports.MealService {
	return &mealService{meals: meals, dedup: dedup, log: log}
}

// Process validates, deduplicates, and persists a single collection event.
// Double scans of the same member/package/timestamp are silently skipped.
func (s *mealService) Process(ctx context.Context, in ports.CollectionInput) error {
	// 1. Scope check: collectors can only record at their assigned locations.
	if err := checkCollectionScope(in); err != nil {
		metrics.MealEventsErrorsTotal.WithLabelValues("out_of_scope").Inc()
		return err
	}

	// 2. Idempotency check.
	isDup, err := s.dedup.IsDuplicate(ctx, in.MemberUniqueID, in.PackageName, in.CollectedAt)
	if err != nil {
		s.log.Warn().Err(err).Str("member", in.MemberUniqueID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.MealEventsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("member", in.MemberUniqueID).Msg("duplicate scan skipped")
		return nil
	}
	metrics.MealEventsDedupTotal.WithLabelValues("miss").Inc()

	// 3. Mark before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.MemberUniqueID, in.PackageName, in.CollectedAt); markErr != nil {
		s.log.Warn().Err(markErr).Str("member", in.MemberUniqueID).Msg("failed to set dedup key")
	}

	record := &domain.MealRecord{
		CompanyID:      in.CompanyID,
		PlaceID:        in.PlaceID,
		LocationID:     in.LocationID,
		MemberName:     in.MemberName,
		MemberUniqueID: in.MemberUniqueID,
		PackageName:    in.PackageName,
		Amount:         in.Amount,
		CollectedAt:    in.CollectedAt,
		CollectedBy:    in.CollectedBy,
	}
	if err := s.meals.Insert(ctx, record); err != nil {
		metrics.MealEventsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process collection: %w", err)
	}

	metrics.MealEventsProcessedTotal.WithLabelValues(in.Scope.Role).Inc()
	s.log.Info().
		Str("member", in.MemberUniqueID).
		Str("location_id", in.LocationID).
		Str("collected_by", in.CollectedBy).
		Msg("meal collected")

	return nil
}

func checkCollectionScope(in ports.CollectionInput) error {
	scope := in.Scope
	if scope.Role != domain.RoleSuperadmin && in.CompanyID != scope.CompanyID {
		return domain.ErrForbidden
	}
	if scope.RestrictsPlaces() {
		if len(domain.IntersectIDs([]string{in.PlaceID}, scope.AllowedPlaceIDs)) == 0 {
			return domain.ErrLocationOutOfScope
		}
	}
	if scope.RestrictsLocations() {
		if len(domain.IntersectIDs([]string{in.LocationID}, scope.AllowedLocationIDs)) == 0 {
			return domain.ErrLocationOutOfScope
		}
	}
	return nil
}
