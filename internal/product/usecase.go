package product

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, restaurantID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, restaurantID, id string) error

	// Variation ops. Each returns the product with its stored variation list.
	SetAttributes(ctx context.Context, input *dto.SetAttributesInput) (*model.Product, error)
	RegenerateVariations(ctx context.Context, restaurantID, productID string) (*model.Product, error)
	AddVariation(ctx context.Context, input *dto.AddVariationInput) (*model.Product, error)
	BulkEditVariations(ctx context.Context, input *dto.BulkEditInput) (*model.Product, error)
	DeleteVariations(ctx context.Context, input *dto.DeleteVariationsInput) (*model.Product, error)
	ListVariations(ctx context.Context, query *dto.VariationQuery) ([]model.Variation, error)

	// StockChanged refreshes the list cache, search document and events after
	// stock of the given variations was changed elsewhere. Best effort.
	StockChanged(ctx context.Context, restaurantID, productID string, variationIDs []string)
}
