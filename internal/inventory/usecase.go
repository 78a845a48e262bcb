package inventory

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
)

type UseCase interface {
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Variation, error)
	ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Variation, int, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}

// StockObserver hears about committed stock changes so derived copies of the
// product (cache, search index, events) can catch up.
type StockObserver interface {
	StockChanged(ctx context.Context, restaurantID, productID string, variationIDs []string)
}
