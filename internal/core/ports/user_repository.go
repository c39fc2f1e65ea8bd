package ports

import (
	"context"

	"github.com/mealdesk/canteen-api/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
