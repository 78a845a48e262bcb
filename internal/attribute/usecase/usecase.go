package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/attribute"
	"github.com/devmojahid/restu-food-sub005/internal/attribute/dto"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type attributeUseCase struct {
	repo   attribute.Repository
	logger logger.ZapLogger
}

func NewAttributeUseCase(repo attribute.Repository, log logger.ZapLogger) attribute.UseCase {
	return &attributeUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *attributeUseCase) CreateAttribute(ctx context.Context, input *dto.CreateAttributeInput) (*model.GlobalAttribute, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", attribute.ErrInvalidInput)
	}
	if err := uc.checkName(ctx, input.RestaurantID, name, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	attr := &model.GlobalAttribute{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RestaurantID: input.RestaurantID,
		Name:         name,
		Values:       variation.NormalizeValues(input.Values),
		SortOrder:    input.SortOrder,
		IsActive:     true,
	}

	if err := uc.repo.Create(ctx, attr); err != nil {
		uc.logger.Error("failed to create attribute", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return attr, nil
}

func (uc *attributeUseCase) GetAttribute(ctx context.Context, restaurantID, id string) (*model.GlobalAttribute, error) {
	attr, err := uc.repo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, fmt.Errorf("%w: %s", attribute.ErrNotFound, id)
	}
	return attr, nil
}

func (uc *attributeUseCase) ListAttributes(ctx context.Context, filters *dto.AttributeFilters) ([]model.GlobalAttribute, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *attributeUseCase) UpdateAttribute(ctx context.Context, input *dto.UpdateAttributeInput) (*model.GlobalAttribute, error) {
	attr, err := uc.GetAttribute(ctx, input.RestaurantID, input.ID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", attribute.ErrInvalidInput)
	}
	if name != attr.Name {
		if err := uc.checkName(ctx, input.RestaurantID, name, attr.ID); err != nil {
			return nil, err
		}
	}

	attr.Name = name
	attr.Values = variation.NormalizeValues(input.Values)
	attr.SortOrder = input.SortOrder
	attr.IsActive = input.IsActive
	attr.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, attr); err != nil {
		uc.logger.Error("failed to update attribute", zap.String("attribute_id", attr.ID), zap.Error(err))
		return nil, err
	}
	return attr, nil
}

func (uc *attributeUseCase) DeleteAttribute(ctx context.Context, restaurantID, id string) error {
	return uc.repo.Delete(ctx, restaurantID, id)
}

func (uc *attributeUseCase) checkName(ctx context.Context, restaurantID, name, excludeID string) error {
	unique, err := uc.repo.IsNameUnique(ctx, restaurantID, name, excludeID)
	if err != nil {
		return err
	}
	if !unique {
		return fmt.Errorf("%w: %s", attribute.ErrNameExists, name)
	}
	return nil
}
