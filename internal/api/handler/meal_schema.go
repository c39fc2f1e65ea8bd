package handler

import (
	"time"

	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/ports"
)

type collectionRequest struct {
	CompanyID      string    `json:"companyId"      validate:"required"`
	PlaceID        string    `json:"placeId"        validate:"required"`
	LocationID     string    `json:"locationId"     validate:"required"`
	MemberName     string    `json:"memberName"     validate:"required"`
	MemberUniqueID string    `json:"memberUniqueId" validate:"required"`
	PackageName    string    `json:"packageName"    validate:"required"`
	Amount         float64   `json:"amount"         validate:"gte=0"`
	CollectedAt    time.Time `json:"collectedAt"    validate:"required"`
}

type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// toCollectionInput maps the HTTP request to the service DTO, stamping the
// caller's scope and identity onto the event.
func toCollectionInput(r collectionRequest, scope domain.Scope, collectedBy string) ports.CollectionInput {
	return ports.CollectionInput{
		CompanyID:      r.CompanyID,
		PlaceID:        r.PlaceID,
		LocationID:     r.LocationID,
		MemberName:     r.MemberName,
		MemberUniqueID: r.MemberUniqueID,
		PackageName:    r.PackageName,
		Amount:         r.Amount,
		CollectedAt:    r.CollectedAt,
		CollectedBy:    collectedBy,
		Scope:          scope,
	}
}
