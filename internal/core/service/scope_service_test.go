package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub catalog repository
// ---------------------------------------------------------------------------

type stubCatalogRepo struct {
	companies []domain.Company
	places    map[string][]domain.Place
	locations map[string][]domain.Location
}

func newStubCatalogRepo() *stubCatalogRepo {
	return &stubCatalogRepo{
		places:    make(map[string][]domain.Place),
		locations: make(map[string][]domain.Location),
	}
}

func (r *stubCatalogRepo) ListCompanies(_ context.Context) ([]domain.Company, error) {
	return r.companies, nil
}

func (r *stubCatalogRepo) FindCompany(_ context.Context, id string) (*domain.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

func (r *stubCatalogRepo) ListPlacesByCompany(_ context.Context, companyID string) ([]domain.Place, error) {
	return r.places[companyID], nil
}

func (r *stubCatalogRepo) ListLocationsByPlace(_ context.Context, placeID string) ([]domain.Location, error) {
	return r.locations[placeID], nil
}

func canteenFixture() *stubCatalogRepo {
	repo := newStubCatalogRepo()
	repo.companies = []domain.Company{
		{ID: "comp_1", Name: "Acme Foods"},
		{ID: "comp_2", Name: "Globex Catering"},
	}
	repo.places["comp_1"] = []domain.Place{
		{ID: "p1", Name: "HQ Campus", CompanyID: "comp_1"},
		{ID: "p2", Name: "Plant North", CompanyID: "comp_1"},
	}
	repo.locations["p1"] = []domain.Location{
		{ID: "l1", LocationName: "Main Kitchen", PlaceID: "p1"},
		{ID: "l2", LocationName: "Counter B", PlaceID: "p1"},
	}
	repo.locations["p2"] = []domain.Location{
		{ID: "l3", LocationName: "Plant Canteen", PlaceID: "p2"},
	}
	return repo
}

// ---------------------------------------------------------------------------

func TestResolveScope(t *testing.T) {
	users := newStubUserRepo()
	users.seed(domain.User{
		ID:          "u1",
		Username:    "collector",
		Role:        domain.RoleMealCollector,
		CompanyID:   "comp_1",
		PlaceIDs:    domain.FlexIDList{"p1"},
		LocationIDs: domain.FlexIDList{"l1"},
	})
	users.seed(domain.User{ID: "u2", Username: "orphan", Role: domain.RoleManager})

	svc := NewScopeService(users, NewCatalogService(canteenFixture(), zerolog.Nop()), zerolog.Nop())

	scope, err := svc.ResolveScope(context.Background(), "u1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := domain.Scope{
		Role:               domain.RoleMealCollector,
		CompanyID:          "comp_1",
		AllowedPlaceIDs:    []string{"p1"},
		AllowedLocationIDs: []string{"l1"},
	}
	if !reflect.DeepEqual(scope, want) {
		t.Fatalf("scope = %+v", scope)
	}

	if _, err := svc.ResolveScope(context.Background(), "u2"); !errors.Is(err, domain.ErrNoCompanyAssigned) {
		t.Fatalf("manager without company: %v", err)
	}
}

func TestScopeView_Manager(t *testing.T) {
	users := newStubUserRepo()
	users.seed(domain.User{ID: "u1", Username: "mgr", Role: domain.RoleManager, CompanyID: "comp_1"})

	svc := NewScopeService(users, NewCatalogService(canteenFixture(), zerolog.Nop()), zerolog.Nop())

	view, err := svc.View(context.Background(), "u1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Companies) != 1 || view.Companies[0].ID != "comp_1" {
		t.Fatalf("manager sees only own company: %v", view.Companies)
	}
	if !view.Locks.CompanyDisabled || view.Locks.PreselectedCompany != "comp_1" {
		t.Fatalf("locks = %+v", view.Locks)
	}
	if view.Locks.PlaceDisabled {
		t.Fatal("manager places stay free")
	}
	if len(view.Places) != 2 {
		t.Fatalf("places = %v", view.Places)
	}
	// No places preselected, so no locations are loaded yet.
	if len(view.Locations) != 0 || view.Selection.Location != "" {
		t.Fatalf("unexpected locations: %+v", view)
	}
}

func TestScopeView_CollectorSingletonAutoPick(t *testing.T) {
	users := newStubUserRepo()
	users.seed(domain.User{
		ID:          "u1",
		Username:    "collector",
		Role:        domain.RoleMealCollector,
		CompanyID:   "comp_1",
		PlaceIDs:    domain.FlexIDList{"p2"},
		LocationIDs: domain.FlexIDList{"l3"},
	})

	svc := NewScopeService(users, NewCatalogService(canteenFixture(), zerolog.Nop()), zerolog.Nop())

	view, err := svc.View(context.Background(), "u1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !reflect.DeepEqual(view.Selection.Places, []string{"p2"}) {
		t.Fatalf("selection places = %v", view.Selection.Places)
	}
	// p2 has exactly one allowed location: it must be locked and picked.
	if view.Selection.Location != "l3" {
		t.Fatalf("singleton location must auto-select, got %q", view.Selection.Location)
	}
	if !view.Locks.LocationDisabled || view.Locks.PreselectedLocation != "l3" {
		t.Fatalf("locks = %+v", view.Locks)
	}
}

func TestScopeView_CollectorWithoutAssignmentDefaultsFirstPlace(t *testing.T) {
	users := newStubUserRepo()
	users.seed(domain.User{
		ID:        "u1",
		Username:  "collector",
		Role:      domain.RoleMealCollector,
		CompanyID: "comp_1",
	})

	svc := NewScopeService(users, NewCatalogService(canteenFixture(), zerolog.Nop()), zerolog.Nop())

	view, err := svc.View(context.Background(), "u1")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !reflect.DeepEqual(view.Selection.Places, []string{"p1"}) {
		t.Fatalf("collector must default to the first place, got %v", view.Selection.Places)
	}
}

func TestCatalogService_PlacesForeignCompanyForbidden(t *testing.T) {
	svc := NewCatalogService(canteenFixture(), zerolog.Nop())

	scope := domain.Scope{Role: domain.RoleAdmin, CompanyID: "comp_1"}
	if _, err := svc.Places(context.Background(), "sess", scope, "comp_2"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	super := domain.Scope{Role: domain.RoleSuperadmin}
	if _, err := svc.Places(context.Background(), "sess", super, "comp_2"); err != nil {
		t.Fatalf("superadmin may query any company: %v", err)
	}
}

func TestCatalogService_SessionLoaderEviction(t *testing.T) {
	svc := NewCatalogService(canteenFixture(), zerolog.Nop())

	first := svc.loaderFor("sess_0")
	for i := 1; i < maxSessionLoaders; i++ {
		svc.loaderFor(fmt.Sprintf("sess_%d", i))
	}

	// The map is full; touching sess_0 makes sess_1 the stalest entry, so the
	// next new session evicts sess_1 and sess_0 keeps its loader.
	if svc.loaderFor("sess_0") != first {
		t.Fatal("an existing session must keep its loader")
	}
	svc.loaderFor("sess_overflow")

	if len(svc.loaders) > maxSessionLoaders {
		t.Fatalf("loader map must stay bounded, got %d entries", len(svc.loaders))
	}
	if _, ok := svc.loaders["sess_1"]; ok {
		t.Fatal("the least recently used session must be evicted")
	}
	if svc.loaderFor("sess_0") != first {
		t.Fatal("a recently used session must survive eviction")
	}
}
