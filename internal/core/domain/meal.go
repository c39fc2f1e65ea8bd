package domain

import (
	"errors"
	"time"
)

var ErrDuplicateCollection = errors.New("meal already collected")
var ErrLocationOutOfScope = errors.New("location outside collector scope")

// MealRecord is one collected meal in the canteen log. It is the row type the
// in-memory materializer filters and the history report renders.
type MealRecord struct {
	ID             string    `json:"_id" bson:"_id,omitempty"`
	CompanyID      string    `json:"companyId" bson:"company_id"`
	PlaceID        string    `json:"placeId" bson:"place_id"`
	LocationID     string    `json:"locationId" bson:"location_id"`
	MemberName     string    `json:"memberName" bson:"member_name"`
	MemberUniqueID string    `json:"memberUniqueId" bson:"member_unique_id"`
	PackageName    string    `json:"packageName" bson:"package_name"`
	Amount         float64   `json:"amount" bson:"amount"`
	CollectedAt    time.Time `json:"collectedAt" bson:"collected_at"`
	CollectedBy    string    `json:"collectedBy,omitempty" bson:"collected_by,omitempty"`
}

// CollectionEvent is an incoming meal-collection scan before validation.
type CollectionEvent struct {
	CompanyID      string
	PlaceID        string
	LocationID     string
	MemberName     string
	MemberUniqueID string
	PackageName    string
	Amount         float64
	CollectedAt    time.Time
	CollectedBy    string
}

// PendingFee is one unpaid-balance row of the pending-fees report.
type PendingFee struct {
	ID             string    `json:"_id" bson:"_id,omitempty"`
	CompanyID      string    `json:"companyId" bson:"company_id"`
	PlaceID        string    `json:"placeId" bson:"place_id"`
	LocationID     string    `json:"locationId" bson:"location_id"`
	MemberName     string    `json:"memberName" bson:"member_name"`
	MemberUniqueID string    `json:"memberUniqueId" bson:"member_unique_id"`
	PackageName    string    `json:"packageName" bson:"package_name"`
	AmountDue      float64   `json:"amountDue" bson:"amount_due"`
	DueSince       time.Time `json:"dueSince" bson:"due_since"`
}

// MemberRecord is one row of the user report.
type MemberRecord struct {
	ID          string    `json:"_id" bson:"_id,omitempty"`
	CompanyID   string    `json:"companyId" bson:"company_id"`
	PlaceID     string    `json:"placeId" bson:"place_id"`
	LocationID  string    `json:"locationId" bson:"location_id"`
	FullName    string    `json:"fullName" bson:"full_name"`
	UniqueID    string    `json:"uniqueId" bson:"unique_id"`
	PackageName string    `json:"packageName" bson:"package_name"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	JoinedAt    time.Time `json:"joinedAt" bson:"joined_at"`
	Active      bool      `json:"active" bson:"active"`
}
