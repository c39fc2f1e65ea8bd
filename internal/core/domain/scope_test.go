package domain

import (
	"reflect"
	"testing"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		role string
		want Policy
	}{
		{RoleSuperadmin, Policy{CompanyLocked: false, Places: PlaceFree, Locations: LocationFree}},
		{RoleManager, Policy{CompanyLocked: true, Places: PlaceFree, Locations: LocationFree}},
		{RoleAdmin, Policy{CompanyLocked: true, Places: PlaceLockIfAssigned, Locations: LocationLockSingleton}},
		{RoleMealCollector, Policy{CompanyLocked: true, Places: PlaceLockDefaultFirst, Locations: LocationRestricted}},
		{"intern", Policy{CompanyLocked: true, Places: PlaceLockDefaultFirst, Locations: LocationRestricted}},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := PolicyFor(tt.role); got != tt.want {
				t.Fatalf("PolicyFor(%q) = %+v, want %+v", tt.role, got, tt.want)
			}
		})
	}
}

func TestIntersectIDs(t *testing.T) {
	got := IntersectIDs([]string{"c", "a", "x", "b"}, []string{"a", "b", "c"})
	if !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("order of ids must be preserved, got %v", got)
	}
	if got := IntersectIDs(nil, []string{"a"}); len(got) != 0 {
		t.Fatalf("empty ids must yield empty result, got %v", got)
	}
}

func places(ids ...string) []Place {
	out := make([]Place, len(ids))
	for i, id := range ids {
		out[i] = Place{ID: id, Name: "Place " + id}
	}
	return out
}

func locations(ids ...string) []Location {
	out := make([]Location, len(ids))
	for i, id := range ids {
		out[i] = Location{ID: id, LocationName: "Location " + id}
	}
	return out
}

func TestDeriveLocks_Superadmin(t *testing.T) {
	locks := DeriveLocks(Scope{Role: RoleSuperadmin}, places("p1", "p2"), locations("l1", "l2"))
	if locks.CompanyDisabled || locks.PlaceDisabled || locks.LocationDisabled {
		t.Fatalf("superadmin must have no locks: %+v", locks)
	}
}

func TestDeriveLocks_Manager(t *testing.T) {
	scope := Scope{Role: RoleManager, CompanyID: "comp_1"}
	locks := DeriveLocks(scope, places("p1", "p2"), nil)
	if !locks.CompanyDisabled || locks.PreselectedCompany != "comp_1" {
		t.Fatalf("manager company must be locked to own company: %+v", locks)
	}
	if locks.PlaceDisabled {
		t.Fatalf("manager places must stay free: %+v", locks)
	}
}

func TestDeriveLocks_AdminAssignedPlaces(t *testing.T) {
	scope := Scope{Role: RoleAdmin, CompanyID: "comp_1", AllowedPlaceIDs: []string{"p2", "p9"}}
	locks := DeriveLocks(scope, places("p1", "p2"), nil)
	if !locks.PlaceDisabled {
		t.Fatal("admin with assigned places must be place-locked")
	}
	// p9 is assigned but absent from the options; it must be dropped.
	if !reflect.DeepEqual(locks.PreselectedPlaces, []string{"p2"}) {
		t.Fatalf("preselected places = %v", locks.PreselectedPlaces)
	}
}

func TestDeriveLocks_AdminNoAssignment(t *testing.T) {
	scope := Scope{Role: RoleAdmin, CompanyID: "comp_1"}
	locks := DeriveLocks(scope, places("p1", "p2"), nil)
	if locks.PlaceDisabled {
		t.Fatal("admin without assigned places keeps a free place selection")
	}
}

func TestDeriveLocks_AdminSingletonLocation(t *testing.T) {
	scope := Scope{Role: RoleAdmin, CompanyID: "comp_1"}
	locks := DeriveLocks(scope, nil, locations("l1"))
	if !locks.LocationDisabled || locks.PreselectedLocation != "l1" {
		t.Fatalf("singleton location must lock and preselect: %+v", locks)
	}

	locks = DeriveLocks(scope, nil, locations("l1", "l2"))
	if locks.LocationDisabled {
		t.Fatalf("two locations must not lock: %+v", locks)
	}
}

func TestDeriveLocks_CollectorDefaultsToFirstPlace(t *testing.T) {
	scope := Scope{Role: RoleMealCollector, CompanyID: "comp_1"}
	locks := DeriveLocks(scope, places("p3", "p1"), nil)
	if !locks.PlaceDisabled {
		t.Fatal("collector place selection must be locked")
	}
	if !reflect.DeepEqual(locks.PreselectedPlaces, []string{"p3"}) {
		t.Fatalf("collector without assignment must default to the first option, got %v", locks.PreselectedPlaces)
	}
}

func TestDeriveLocks_CollectorRestrictedSingleton(t *testing.T) {
	scope := Scope{
		Role:               RoleMealCollector,
		CompanyID:          "comp_1",
		AllowedPlaceIDs:    []string{"p1"},
		AllowedLocationIDs: []string{"l5"},
	}
	locks := DeriveLocks(scope, places("p1", "p2"), locations("l5"))
	if !reflect.DeepEqual(locks.PreselectedPlaces, []string{"p1"}) {
		t.Fatalf("preselected places = %v", locks.PreselectedPlaces)
	}
	if !locks.LocationDisabled || locks.PreselectedLocation != "l5" {
		t.Fatalf("single resolved location must lock: %+v", locks)
	}
}

func TestScopeRestrictions(t *testing.T) {
	collector := Scope{Role: RoleMealCollector, AllowedPlaceIDs: []string{"p1"}, AllowedLocationIDs: []string{"l1"}}
	if !collector.RestrictsPlaces() || !collector.RestrictsLocations() {
		t.Fatal("assigned collector must restrict both dimensions")
	}

	manager := Scope{Role: RoleManager, AllowedPlaceIDs: []string{"p1"}}
	if manager.RestrictsPlaces() {
		t.Fatal("manager never restricts places")
	}

	bare := Scope{Role: RoleMealCollector}
	if bare.RestrictsPlaces() || bare.RestrictsLocations() {
		t.Fatal("restriction requires a non-empty assignment")
	}
}
