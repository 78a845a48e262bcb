package product

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
)

type Repository interface {
	// Create inserts the product together with product.Variations atomically.
	Create(ctx context.Context, product *model.Product) error
	// FindByID returns nil, nil when the product does not exist for the restaurant.
	FindByID(ctx context.Context, restaurantID, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, restaurantID, id string) error

	IsSKUUnique(ctx context.Context, restaurantID, sku, excludeID string) (bool, error)
	IsBarcodeUnique(ctx context.Context, restaurantID, barcode, excludeID string) (bool, error)

	ListVariations(ctx context.Context, productID string) ([]model.Variation, error)
	// SaveVariations stores the product row and makes list the complete,
	// ordered variation list of the product in one transaction.
	SaveVariations(ctx context.Context, product *model.Product, list []model.Variation) error
}
