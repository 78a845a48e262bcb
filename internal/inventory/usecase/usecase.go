package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/inventory"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMovementType = "adjustment"

type inventoryUseCase struct {
	repo     inventory.Repository
	cache    cache.Locker
	lockOpt  cache.LockOptions
	observer inventory.StockObserver
	logger   logger.ZapLogger
}

type Option func(*inventoryUseCase)

func WithStockObserver(o inventory.StockObserver) Option {
	return func(uc *inventoryUseCase) { uc.observer = o }
}

func NewInventoryUseCase(repo inventory.Repository, locker cache.Locker, log logger.ZapLogger, opts ...Option) inventory.UseCase {
	uc := &inventoryUseCase{
		repo:    repo,
		cache:   locker,
		lockOpt: cache.DefaultLockOptions,
		logger:  log,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AdjustStock applies QuantityChange to a variation that manages stock. A
// variation with ManageStock off is returned unchanged and nothing is
// recorded. A change already recorded under the same reference is skipped,
// so redelivered order events deduct once.
func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.Variation, error) {
	if input.ProductID == "" || input.VariationID == "" {
		return nil, fmt.Errorf("%w: product_id and variation_id are required", inventory.ErrInvalidInput)
	}
	if input.QuantityChange == 0 {
		return nil, fmt.Errorf("%w: quantity_change must not be zero", inventory.ErrInvalidInput)
	}

	var out *model.Variation
	changed := false
	err := cache.WithLock(ctx, uc.cache, cache.ProductLockKey(input.ProductID), uc.lockOpt, func(ctx context.Context) error {
		v, err := uc.repo.FindVariation(ctx, input.RestaurantID, input.ProductID, input.VariationID)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: %s", inventory.ErrVariationNotFound, input.VariationID)
		}
		out = v
		if !v.ManageStock {
			return nil
		}

		if input.ReferenceType != "" && input.ReferenceID != "" {
			seen, err := uc.repo.HasMovement(ctx, input.RestaurantID, v.ID, input.ReferenceType, input.ReferenceID)
			if err != nil {
				return err
			}
			if seen {
				uc.logger.Info("stock movement already recorded",
					zap.String("variation_id", v.ID),
					zap.String("reference_id", input.ReferenceID),
				)
				return nil
			}
		}

		before := v.Stock
		after := before + input.QuantityChange
		if after < 0 {
			return fmt.Errorf("%w: variation %s has %d, change %d", inventory.ErrInsufficientStock, v.ID, before, input.QuantityChange)
		}

		now := time.Now().UTC()
		v.Stock = after
		v.UpdatedAt = now

		movementType := input.MovementType
		if movementType == "" {
			movementType = defaultMovementType
		}
		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			RestaurantID:   input.RestaurantID,
			ProductID:      v.ProductID,
			VariationID:    v.ID,
			MovementType:   movementType,
			QuantityChange: input.QuantityChange,
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  optional(input.ReferenceType),
			ReferenceID:    optional(input.ReferenceID),
			Notes:          input.Reason,
			CreatedBy:      optional(input.UserID),
			CreatedAt:      now,
		}
		if err := uc.repo.AdjustStockWithMovement(ctx, v, movement); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed && uc.observer != nil {
		uc.observer.StockChanged(context.WithoutCancel(ctx), input.RestaurantID, out.ProductID, []string{out.ID})
	}
	return out, nil
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, filters *dto.LowStockFilters) ([]model.Variation, int, error) {
	return uc.repo.ListLowStock(ctx, filters)
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
