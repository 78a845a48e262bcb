package attribute

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/attribute/dto"
	"github.com/devmojahid/restu-food-sub005/internal/model"
)

type UseCase interface {
	CreateAttribute(ctx context.Context, input *dto.CreateAttributeInput) (*model.GlobalAttribute, error)
	GetAttribute(ctx context.Context, restaurantID, id string) (*model.GlobalAttribute, error)
	ListAttributes(ctx context.Context, filters *dto.AttributeFilters) ([]model.GlobalAttribute, int, error)
	UpdateAttribute(ctx context.Context, input *dto.UpdateAttributeInput) (*model.GlobalAttribute, error)
	DeleteAttribute(ctx context.Context, restaurantID, id string) error
}
