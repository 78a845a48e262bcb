package handler

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/api/catalogv1"
	"github.com/devmojahid/restu-food-sub005/internal/apperror"
	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type VariationHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

var _ catalogv1.VariationServiceServer = (*VariationHandler)(nil)

func NewVariationHandler(uc product.UseCase, log logger.ZapLogger) *VariationHandler {
	return &VariationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *VariationHandler) Regenerate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.ProductRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.RegenerateVariations(ctx, restaurantID, in.ProductID)
	return h.productReply(catalogv1.MethodRegenerate, p, err)
}

func (h *VariationHandler) AddVariation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.AddVariationRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.AddVariation(ctx, &dto.AddVariationInput{
		RestaurantID: restaurantID,
		ProductID:    in.ProductID,
		KeyTuple:     in.KeyTuple,
		Seed:         in.Seed,
	})
	return h.productReply(catalogv1.MethodAddVariation, p, err)
}

func (h *VariationHandler) BulkEdit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.BulkEditRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.BulkEditVariations(ctx, &dto.BulkEditInput{
		RestaurantID: restaurantID,
		ProductID:    in.ProductID,
		IDs:          in.IDs,
		Field:        in.Field,
		Value:        in.Value,
	})
	return h.productReply(catalogv1.MethodBulkEdit, p, err)
}

func (h *VariationHandler) DeleteVariations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.DeleteVariationsRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.DeleteVariations(ctx, &dto.DeleteVariationsInput{
		RestaurantID: restaurantID,
		ProductID:    in.ProductID,
		IDs:          in.IDs,
	})
	return h.productReply(catalogv1.MethodDeleteVariations, p, err)
}

func (h *VariationHandler) ListVariations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.ListVariationsRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	list, err := h.uc.ListVariations(ctx, &dto.VariationQuery{
		RestaurantID: restaurantID,
		ProductID:    in.ProductID,
		Search:       in.Search,
		SortBy:       in.SortBy,
		Desc:         in.Desc,
	})
	if err != nil {
		return nil, h.fail(catalogv1.MethodListVariations, err)
	}
	return encode(catalogv1.VariationsResponse{Variations: list, Total: len(list)})
}

func (h *VariationHandler) SetAttributes(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.SetAttributesRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.SetAttributes(ctx, &dto.SetAttributesInput{
		RestaurantID: restaurantID,
		ProductID:    in.ProductID,
		Attributes:   in.Attributes,
		Regenerate:   in.Regenerate,
	})
	return h.productReply(catalogv1.MethodSetAttributes, p, err)
}

func (h *VariationHandler) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in catalogv1.ProductRequest
	restaurantID, err := decode(ctx, req, &in)
	if err != nil {
		return nil, err
	}
	p, err := h.uc.GetProduct(ctx, restaurantID, in.ProductID)
	return h.productReply(catalogv1.MethodGetProduct, p, err)
}

func (h *VariationHandler) productReply(method string, p *model.Product, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, h.fail(method, err)
	}
	return encode(catalogv1.ProductResponse{Product: p})
}

func (h *VariationHandler) fail(method string, err error) error {
	st := apperror.GRPC(err)
	if status.Code(st) == codes.Internal {
		h.logger.Error("variation rpc failed", zap.String("method", method), zap.Error(err))
	}
	return st
}

func decode(ctx context.Context, req *structpb.Struct, v any) (string, error) {
	restaurantID := auth.GetRestaurantID(ctx)
	if restaurantID == "" {
		return "", status.Error(codes.Unauthenticated, "missing restaurant")
	}
	if err := catalogv1.Decode(req, v); err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	return restaurantID, nil
}

func encode(v any) (*structpb.Struct, error) {
	s, err := catalogv1.Encode(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}
