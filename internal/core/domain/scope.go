package domain

// Scope is the set of catalog entities the current session is permitted to
// see: the resolver derives it once from the user profile and it stays
// immutable for the session.
type Scope struct {
	Role               string   `json:"role"`
	CompanyID          string   `json:"companyId"`
	AllowedPlaceIDs    []string `json:"allowedPlaceIds"`
	AllowedLocationIDs []string `json:"allowedLocationIds"`
}

// PlaceRule describes how a role's place selection behaves.
type PlaceRule int

const (
	// PlaceFree allows free multi-choice of places.
	PlaceFree PlaceRule = iota
	// PlaceLockIfAssigned locks the selection to the assigned places when any
	// are assigned, otherwise leaves it free.
	PlaceLockIfAssigned
	// PlaceLockDefaultFirst locks the selection to the assigned places and
	// falls back to the first available option when none are assigned.
	PlaceLockDefaultFirst
)

// LocationRule describes how a role's location selection behaves.
type LocationRule int

const (
	// LocationFree allows free choice of location.
	LocationFree LocationRule = iota
	// LocationLockSingleton locks the location only when exactly one option
	// resolves, or when the assignment yields exactly one.
	LocationLockSingleton
	// LocationRestricted limits options to the assigned locations;
	// single-select locked when exactly one resolves, restricted multi-select
	// otherwise.
	LocationRestricted
)

// Policy is the per-role visibility/locking behaviour of the filter cascade.
type Policy struct {
	CompanyLocked bool
	Places        PlaceRule
	Locations     LocationRule
}

// rolePolicies is the single source of truth for the role policy table.
var rolePolicies = map[string]Policy{
	RoleSuperadmin:    {CompanyLocked: false, Places: PlaceFree, Locations: LocationFree},
	RoleManager:       {CompanyLocked: true, Places: PlaceFree, Locations: LocationFree},
	RoleAdmin:         {CompanyLocked: true, Places: PlaceLockIfAssigned, Locations: LocationLockSingleton},
	RoleMealCollector: {CompanyLocked: true, Places: PlaceLockDefaultFirst, Locations: LocationRestricted},
}

// PolicyFor returns the policy for role. Unknown roles get the most
// restrictive behaviour (meal_collector's).
func PolicyFor(role string) Policy {
	if p, ok := rolePolicies[role]; ok {
		return p
	}
	return rolePolicies[RoleMealCollector]
}

// RestrictsPlaces reports whether fetched place options must be intersected
// with the scope's assigned places.
func (s Scope) RestrictsPlaces() bool {
	return PolicyFor(s.Role).Places != PlaceFree && len(s.AllowedPlaceIDs) > 0
}

// RestrictsLocations reports whether fetched location options must be
// intersected with the scope's assigned locations.
func (s Scope) RestrictsLocations() bool {
	return PolicyFor(s.Role).Locations == LocationRestricted && len(s.AllowedLocationIDs) > 0
}

// Locks is the derived lock/visibility state for the filter dropdowns. It is
// a pure function of the scope and the currently loaded option lists, never
// stored.
type Locks struct {
	CompanyDisabled     bool     `json:"companyDisabled"`
	PlaceDisabled       bool     `json:"placeDisabled"`
	LocationDisabled    bool     `json:"locationDisabled"`
	PreselectedCompany  string   `json:"preselectedCompany,omitempty"`
	PreselectedPlaces   []string `json:"preselectedPlaces,omitempty"`
	PreselectedLocation string   `json:"preselectedLocation,omitempty"`
}

// DeriveLocks computes the dropdown lock state for the scope given the place
// and location options currently loaded. locationOptions are expected to be
// already scope-intersected by the loader.
func DeriveLocks(s Scope, placeOptions []Place, locationOptions []Location) Locks {
	pol := PolicyFor(s.Role)

	locks := Locks{}
	if pol.CompanyLocked {
		locks.CompanyDisabled = true
		locks.PreselectedCompany = s.CompanyID
	}

	placeIDs := make([]string, len(placeOptions))
	for i, p := range placeOptions {
		placeIDs[i] = p.ID
	}

	switch pol.Places {
	case PlaceLockIfAssigned:
		if len(s.AllowedPlaceIDs) > 0 {
			locks.PlaceDisabled = true
			locks.PreselectedPlaces = IntersectIDs(s.AllowedPlaceIDs, placeIDs)
		}
	case PlaceLockDefaultFirst:
		locks.PlaceDisabled = true
		pre := IntersectIDs(s.AllowedPlaceIDs, placeIDs)
		if len(pre) == 0 && len(placeIDs) > 0 {
			pre = placeIDs[:1]
		}
		locks.PreselectedPlaces = pre
	}

	locationIDs := make([]string, len(locationOptions))
	for i, l := range locationOptions {
		locationIDs[i] = l.ID
	}

	switch pol.Locations {
	case LocationLockSingleton:
		if len(locationIDs) == 1 {
			locks.LocationDisabled = true
			locks.PreselectedLocation = locationIDs[0]
		} else if len(s.AllowedLocationIDs) == 1 {
			locks.LocationDisabled = true
			locks.PreselectedLocation = s.AllowedLocationIDs[0]
		}
	case LocationRestricted:
		if len(locationIDs) == 1 {
			locks.LocationDisabled = true
			locks.PreselectedLocation = locationIDs[0]
		}
	}

	return locks
}

// IntersectIDs returns the members of ids that are also in allowed,
// preserving the order of ids. Members missing from allowed are dropped,
// never synthesized.
func IntersectIDs(ids, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
