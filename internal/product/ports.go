package product

import (
	"context"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/search"
)

// Searcher is the product index; *search.Client satisfies it.
type Searcher interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc any) error
	Search(ctx context.Context, index string, query map[string]any) (*search.SearchResponse, error)
	Delete(ctx context.Context, index, id string) error
}

// EventPublisher is satisfied by *broker.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// GlobalAttributeFinder resolves the shared attributes a product may reference.
type GlobalAttributeFinder interface {
	FindByID(ctx context.Context, restaurantID, id string) (*model.GlobalAttribute, error)
}
