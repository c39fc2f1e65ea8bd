package ports

import (
	"context"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// CatalogRepository defines persistence operations for the company → place →
// location hierarchy. The catalog is read-only for this service; it is
// maintained elsewhere.
type CatalogRepository interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	FindCompany(ctx context.Context, id string) (*domain.Company, error)
	ListPlacesByCompany(ctx context.Context, companyID string) ([]domain.Place, error)
	ListLocationsByPlace(ctx context.Context, placeID string) ([]domain.Location, error)
}
