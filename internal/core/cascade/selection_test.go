package cascade

import (
	"reflect"
	"testing"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

func TestSelection_SetCompanyClearsDownstream(t *testing.T) {
	s := Selection{Company: "c1", Places: []string{"p1"}, Location: "l1"}

	s.SetCompany("c2")
	if s.Company != "c2" || s.Places != nil || s.Location != "" {
		t.Fatalf("company change must clear downstream: %+v", s)
	}
}

func TestSelection_SetCompanyNoopOnSameValue(t *testing.T) {
	s := Selection{Company: "c1", Places: []string{"p1"}, Location: "l1"}

	s.SetCompany("c1")
	if !reflect.DeepEqual(s.Places, []string{"p1"}) || s.Location != "l1" {
		t.Fatalf("re-selecting the same company must not reset: %+v", s)
	}
}

func TestSelection_SetPlacesClearsLocation(t *testing.T) {
	s := Selection{Company: "c1", Places: []string{"p1"}, Location: "l1"}

	s.SetPlaces([]string{"p1", "p2"})
	if s.Location != "" {
		t.Fatalf("place change must clear location: %+v", s)
	}

	s.Location = "l2"
	s.SetPlaces([]string{"p1", "p2"})
	if s.Location != "l2" {
		t.Fatalf("identical place set must keep location: %+v", s)
	}
}

func TestSelection_PrunePlaces(t *testing.T) {
	s := Selection{Places: []string{"p1", "p2", "p3"}, Location: "l1"}

	s.PrunePlaces([]domain.Place{{ID: "p2"}, {ID: "p3"}})
	if !reflect.DeepEqual(s.Places, []string{"p2", "p3"}) {
		t.Fatalf("got %v", s.Places)
	}
	if s.Location != "l1" {
		t.Fatal("location survives while places remain")
	}

	s.PrunePlaces(nil)
	if len(s.Places) != 0 || s.Location != "" {
		t.Fatalf("emptied place set must clear location: %+v", s)
	}
}

func TestSelection_PruneLocation(t *testing.T) {
	s := Selection{Location: "gone"}
	s.PruneLocation([]domain.Location{{ID: "l1"}, {ID: "l2"}})
	if s.Location != "" {
		t.Fatalf("stale location must be cleared, got %q", s.Location)
	}

	s.Location = "l2"
	s.PruneLocation([]domain.Location{{ID: "l1"}, {ID: "l2"}})
	if s.Location != "l2" {
		t.Fatal("valid location must survive")
	}
}

func TestSelection_PruneLocationAutoPicksSingleton(t *testing.T) {
	s := Selection{}
	s.PruneLocation([]domain.Location{{ID: "only"}})
	if s.Location != "only" {
		t.Fatalf("singleton option must auto-select, got %q", s.Location)
	}
}
