package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/core/cascade"
	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// ScopeService converts the raw session user into a normalized, role-aware
// scope and pre-resolves the initial filter state for a page mount.
type ScopeService struct {
	users   ports.UserRepository
	catalog ports.CatalogService
	log     zerolog.Logger
}

func NewScopeService(users ports.UserRepository, catalog ports.CatalogService, log zerolog.Logger) *ScopeService {
	return &ScopeService{users: users, catalog: catalog, log: log}
}

// ResolveScope loads the stored profile and normalizes it. The FlexID fields
// on the profile already absorb the scalar/object/array id shapes, so the
// scope is plain string ids throughout.
func (s *ScopeService) ResolveScope(ctx context.Context, userID string) (domain.Scope, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Scope{}, fmt.Errorf("resolve scope: %w", err)
	}

	scope := domain.Scope{
		Role:               user.Role,
		CompanyID:          user.CompanyID.String(),
		AllowedPlaceIDs:    user.PlaceIDs,
		AllowedLocationIDs: user.LocationIDs,
	}

	if scope.Role != domain.RoleSuperadmin && scope.CompanyID == "" {
		return domain.Scope{}, domain.ErrNoCompanyAssigned
	}
	return scope, nil
}

// View resolves the scope, loads the option lists the role is allowed to see,
// derives the lock policy, and pre-resolves the selection (including the
// singleton auto-pick) so every page starts from the same state.
func (s *ScopeService) View(ctx context.Context, userID string) (*ports.ScopeView, error) {
	scope, err := s.ResolveScope(ctx, userID)
	if err != nil {
		return nil, err
	}

	companies, err := s.catalog.Companies(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("scope view: companies: %w", err)
	}

	var places []domain.Place
	if scope.CompanyID != "" {
		places, err = s.catalog.Places(ctx, userID, scope, scope.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("scope view: places: %w", err)
		}
	}

	sel := cascade.Selection{}
	preLocks := domain.DeriveLocks(scope, places, nil)
	sel.SetCompany(preLocks.PreselectedCompany)
	sel.SetPlaces(preLocks.PreselectedPlaces)

	var locations []domain.Location
	if len(sel.Places) > 0 {
		locations, err = s.catalog.Locations(ctx, userID, scope, sel.Places)
		if err != nil {
			return nil, fmt.Errorf("scope view: locations: %w", err)
		}
	}

	locks := domain.DeriveLocks(scope, places, locations)
	if locks.PreselectedLocation != "" {
		sel.Location = locks.PreselectedLocation
	}
	sel.PruneLocation(locations)

	s.log.Debug().
		Str("user_id", userID).
		Str("role", scope.Role).
		Int("places", len(places)).
		Int("locations", len(locations)).
		Msg("scope view resolved")

	return &ports.ScopeView{
		Scope:     scope,
		Locks:     locks,
		Companies: companies,
		Places:    places,
		Locations: locations,
		Selection: ports.InitialSelection{
			Company:  sel.Company,
			Places:   sel.Places,
			Location: sel.Location,
		},
	}, nil
}
