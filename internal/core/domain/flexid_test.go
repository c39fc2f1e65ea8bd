package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlexID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", `"comp_1"`, "comp_1"},
		{"number", `42`, "42"},
		{"object with _id", `{"_id":"comp_2","name":"Acme"}`, "comp_2"},
		{"object with id", `{"id":"comp_3"}`, "comp_3"},
		{"object prefers _id", `{"_id":"a","id":"b"}`, "a"},
		{"nested object id", `{"_id":{"id":"deep"}}`, "deep"},
		{"object without id keys", `{"name":"Acme"}`, ""},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexID
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if f.String() != tt.want {
				t.Fatalf("got %q, want %q", f, tt.want)
			}
		})
	}
}

func TestFlexID_UnmarshalJSON_RejectsArray(t *testing.T) {
	var f FlexID
	if err := json.Unmarshal([]byte(`["a"]`), &f); err == nil {
		t.Fatal("expected error for array in scalar position")
	}
}

func TestFlexIDList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want FlexIDList
	}{
		{"array of strings", `["p1","p2"]`, FlexIDList{"p1", "p2"}},
		{"array of mixed shapes", `["p1",{"_id":"p2"},3]`, FlexIDList{"p1", "p2", "3"}},
		{"scalar promotes to singleton", `"p1"`, FlexIDList{"p1"}},
		{"object promotes to singleton", `{"id":"p9"}`, FlexIDList{"p9"}},
		{"null entries dropped", `["p1",null]`, FlexIDList{"p1"}},
		{"null becomes nil", `null`, nil},
		{"empty array", `[]`, FlexIDList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l FlexIDList
			if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if !reflect.DeepEqual(l, tt.want) {
				t.Fatalf("got %#v, want %#v", l, tt.want)
			}
		})
	}
}

func TestUser_UnmarshalLegacyShapes(t *testing.T) {
	raw := `{
		"id": "u1",
		"username": "collector",
		"role": "meal_collector",
		"companyId": {"_id": "comp_1", "name": "Acme Foods"},
		"placeIds": "place_1",
		"locationIds": [{"_id": "loc_1"}, "loc_2", null]
	}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if u.CompanyID.String() != "comp_1" {
		t.Fatalf("companyId = %q", u.CompanyID)
	}
	if !reflect.DeepEqual(u.PlaceIDs, FlexIDList{"place_1"}) {
		t.Fatalf("placeIds = %#v", u.PlaceIDs)
	}
	if !reflect.DeepEqual(u.LocationIDs, FlexIDList{"loc_1", "loc_2"}) {
		t.Fatalf("locationIds = %#v", u.LocationIDs)
	}
}
