package domain

import (
	"errors"
	"time"
)

const (
	RoleSuperadmin    = "superadmin"
	RoleAdmin         = "admin"
	RoleManager       = "manager"
	RoleMealCollector = "meal_collector"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")

// KnownRole reports whether role is one of the four canteen roles.
func KnownRole(role string) bool {
	switch role {
	case RoleSuperadmin, RoleAdmin, RoleManager, RoleMealCollector:
		return true
	}
	return false
}

// User models an authenticated actor in the system. The id-bearing assignment
// fields use FlexID types because legacy profile documents stored them as
// scalars, embedded objects, or arrays of either.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CompanyID    FlexID     `json:"companyId,omitempty"`
	PlaceIDs     FlexIDList `json:"placeIds,omitempty"`
	LocationIDs  FlexIDList `json:"locationIds,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
