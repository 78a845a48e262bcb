package attribute

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/attribute/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
)

type Repository interface {
	Create(ctx context.Context, attr *model.GlobalAttribute) error
	// FindByID returns nil, nil when the attribute does not exist for the restaurant.
	FindByID(ctx context.Context, restaurantID, id string) (*model.GlobalAttribute, error)
	FindAll(ctx context.Context, filters *dto.AttributeFilters) ([]model.GlobalAttribute, int, error)
	Update(ctx context.Context, attr *model.GlobalAttribute) error
	Delete(ctx context.Context, restaurantID, id string) error
	IsNameUnique(ctx context.Context, restaurantID, name, excludeID string) (bool, error)
}
