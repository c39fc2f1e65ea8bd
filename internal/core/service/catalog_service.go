package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/core/cascade"
	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// maxSessionLoaders bounds the per-session loader map. Evicting a loader only
// forgets its request counters, so the stalest session can always be dropped
// safely.
const maxSessionLoaders = 1024

// CatalogService serves the cascade's option lists. It keeps one cascade
// loader per session key so that a later request from the same session
// supersedes a slower earlier one.
type CatalogService struct {
	repo ports.CatalogRepository
	log  zerolog.Logger

	mu      sync.Mutex
	loaders map[string]*sessionLoader
	useSeq  uint64
}

type sessionLoader struct {
	loader   *cascade.Loader
	lastUsed uint64
}

func NewCatalogService(repo ports.CatalogRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		repo:    repo,
		log:     log,
		loaders: make(map[string]*sessionLoader),
	}
}

func (s *CatalogService) loaderFor(session string) *cascade.Loader {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.useSeq++
	if e, ok := s.loaders[session]; ok {
		e.lastUsed = s.useSeq
		return e.loader
	}
	if len(s.loaders) >= maxSessionLoaders {
		s.evictStalest()
	}
	l := cascade.NewLoader(s.repo, s.repo, s.log)
	s.loaders[session] = &sessionLoader{loader: l, lastUsed: s.useSeq}
	return l
}

// evictStalest drops the least recently used session loader. Caller holds mu.
func (s *CatalogService) evictStalest() {
	var stalest string
	var oldest uint64
	for key, e := range s.loaders {
		if stalest == "" || e.lastUsed < oldest {
			stalest, oldest = key, e.lastUsed
		}
	}
	delete(s.loaders, stalest)
}

// Companies returns every company for superadmin, and only the caller's own
// company for every other role.
func (s *CatalogService) Companies(ctx context.Context, scope domain.Scope) ([]domain.Company, error) {
	if scope.Role == domain.RoleSuperadmin {
		return s.repo.ListCompanies(ctx)
	}
	if scope.CompanyID == "" {
		return nil, domain.ErrNoCompanyAssigned
	}
	company, err := s.repo.FindCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}
	return []domain.Company{*company}, nil
}

// Places loads the scope-restricted place options for a company. Locked
// company roles can only query their own company.
func (s *CatalogService) Places(ctx context.Context, session string, scope domain.Scope, companyID string) ([]domain.Place, error) {
	if scope.Role != domain.RoleSuperadmin && companyID != scope.CompanyID {
		return nil, domain.ErrForbidden
	}
	return s.loaderFor(session).LoadPlaces(ctx, scope, companyID)
}

// Locations loads the merged, de-duplicated, scope-restricted location
// options for the selected places.
func (s *CatalogService) Locations(ctx context.Context, session string, scope domain.Scope, placeIDs []string) ([]domain.Location, error) {
	if scope.RestrictsPlaces() {
		placeIDs = domain.IntersectIDs(placeIDs, scope.AllowedPlaceIDs)
	}
	return s.loaderFor(session).LoadLocations(ctx, scope, placeIDs)
}
