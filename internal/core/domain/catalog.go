package domain

import "errors"

var ErrCompanyNotFound = errors.New("company not found")
var ErrNoCompanyAssigned = errors.New("no company assigned")

// Company is the tenant of the canteen system.
type Company struct {
	ID   string `json:"_id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// Place is a site owned by a company (an office, a campus, a plant).
type Place struct {
	ID        string `json:"_id" bson:"_id,omitempty"`
	Name      string `json:"name" bson:"name"`
	CompanyID string `json:"companyId" bson:"company_id"`
}

// Location is a serving point inside a place (a kitchen, a counter).
type Location struct {
	ID           string `json:"_id" bson:"_id,omitempty"`
	LocationName string `json:"locationName" bson:"location_name"`
	PlaceID      string `json:"placeId" bson:"place_id"`
}
