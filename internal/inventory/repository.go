package inventory

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
)

type Repository interface {
	// FindVariation returns nil, nil unless the variation belongs to the
	// product and the product to the restaurant.
	FindVariation(ctx context.Context, restaurantID, productID, variationID string) (*model.Variation, error)
	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Variation, int, error)

	HasMovement(ctx context.Context, restaurantID, variationID, referenceType, referenceID string) (bool, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// AdjustStockWithMovement sets the variation stock and records movement in one transaction.
	AdjustStockWithMovement(ctx context.Context, v *model.Variation, movement *model.StockMovement) error
}
