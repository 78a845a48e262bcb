package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

type ctxKey struct{}

// RestaurantMetadataKey carries the tenant for callers without a token, such
// as internal services on a trusted network.
const RestaurantMetadataKey = "x-restaurant-id"

func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, restaurantID)
}

// GetRestaurantID returns the tenant stored by an interceptor or middleware,
// falling back to incoming gRPC metadata.
func GetRestaurantID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(RestaurantMetadataKey); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
