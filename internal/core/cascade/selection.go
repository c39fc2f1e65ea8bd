package cascade

import "github.com/mealdesk/canteen-api/internal/core/domain"

// Selection is the mutable filter selection state of one report page. It is
// mutated only by user interaction or by cascade-driven resets: changing the
// company clears places and location, changing the place set clears the
// location, and a selection is never left pointing at a value absent from its
// own option list.
type Selection struct {
	Company  string   `json:"company"`
	Places   []string `json:"places"`
	Location string   `json:"location"`
}

// SetCompany records a new company selection. Any change clears the
// downstream place and location selections before new options are fetched.
func (s *Selection) SetCompany(companyID string) {
	if s.Company == companyID {
		return
	}
	s.Company = companyID
	s.Places = nil
	s.Location = ""
}

// SetPlaces records a new place selection. Any change clears the downstream
// location selection.
func (s *Selection) SetPlaces(placeIDs []string) {
	if equalIDs(s.Places, placeIDs) {
		return
	}
	s.Places = placeIDs
	s.Location = ""
}

// PrunePlaces drops selected places that are no longer members of the freshly
// loaded option list. When that empties the place set, the location selection
// is cleared too.
func (s *Selection) PrunePlaces(options []domain.Place) {
	valid := make(map[string]struct{}, len(options))
	for _, p := range options {
		valid[p.ID] = struct{}{}
	}
	kept := s.Places[:0]
	for _, id := range s.Places {
		if _, ok := valid[id]; ok {
			kept = append(kept, id)
		}
	}
	s.Places = kept
	if len(s.Places) == 0 {
		s.Location = ""
	}
}

// PruneLocation clears the location selection when it is absent from the
// freshly loaded option list, and auto-selects the singleton when the option
// list resolves to exactly one location.
func (s *Selection) PruneLocation(options []domain.Location) {
	if len(options) == 1 {
		s.Location = options[0].ID
		return
	}
	for _, loc := range options {
		if loc.ID == s.Location {
			return
		}
	}
	s.Location = ""
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
