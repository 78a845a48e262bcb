package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	indexName    = "products"
	listCacheTTL = 5 * time.Minute
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"restaurant_id": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"barcode": { "type": "keyword" },
			"base_price": { "type": "double" },
			"created_at": { "type": "date" },
			"variations": {
				"properties": {
					"sku": { "type": "keyword" },
					"key_tuple": { "type": "object", "dynamic": true }
				}
			}
		}
	}
}`

type productUseCase struct {
	repo    product.Repository
	globals product.GlobalAttributeFinder
	cache   cache.StoreLocker
	es      product.Searcher
	events  product.EventPublisher
	engine  *variation.Engine
	lockOpt cache.LockOptions
	logger  logger.ZapLogger
	tracer  trace.Tracer
}

type Option func(*productUseCase)

func WithEngine(e *variation.Engine) Option {
	return func(uc *productUseCase) { uc.engine = e }
}

func WithLockOptions(opts cache.LockOptions) Option {
	return func(uc *productUseCase) { uc.lockOpt = opts }
}

// NewProductUseCase wires the product use case. es and events may be nil, in
// which case search sync and event publishing are skipped.
func NewProductUseCase(
	repo product.Repository,
	globals product.GlobalAttributeFinder,
	store cache.StoreLocker,
	es product.Searcher,
	events product.EventPublisher,
	log logger.ZapLogger,
	opts ...Option,
) product.UseCase {
	uc := &productUseCase{
		repo:    repo,
		globals: globals,
		cache:   store,
		es:      es,
		events:  events,
		engine:  variation.NewEngine(),
		lockOpt: cache.DefaultLockOptions,
		logger:  log,
		tracer:  otel.Tracer("github.com/devmojahid/restu-food-sub005/internal/product"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	ctx, span := uc.tracer.Start(ctx, "product.CreateProduct")
	defer span.End()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.SKU) == "" {
		return nil, fmt.Errorf("%w: name and sku are required", product.ErrInvalidInput)
	}
	if err := uc.checkUnique(ctx, input.RestaurantID, input.SKU, input.Barcode, ""); err != nil {
		return nil, err
	}

	attrs, err := uc.prepareAttributes(ctx, input.RestaurantID, input.Attributes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	costPrice := input.CostPrice
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		RestaurantID:   input.RestaurantID,
		CategoryID:     optional(input.CategoryID),
		SKU:            strings.TrimSpace(input.SKU),
		Barcode:        optional(input.Barcode),
		Name:           strings.TrimSpace(input.Name),
		Description:    optional(input.Description),
		BasePrice:      input.BasePrice,
		CostPrice:      &costPrice,
		TaxRate:        input.TaxRate,
		TrackInventory: input.TrackInventory,
		ImageURL:       optional(input.ImageURL),
		IsActive:       true,
		Attributes:     attrs,
		Variations:     []model.Variation{},
	}

	if input.Regenerate {
		p.Variations = uc.engine.Regenerate(p.Attributes, nil)
		p.HasVariants = len(p.Variations) > 0
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, uc.fail(span, "failed to create product", err)
	}

	uc.afterChange(ctx, p, "product_created")
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, restaurantID, id string) (*model.Product, error) {
	p, err := uc.findProduct(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if p.Variations, err = uc.repo.ListVariations(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

type listResult struct {
	Products []model.Product
	Count    int
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	ctx, span := uc.tracer.Start(ctx, "product.ListProducts")
	defer span.End()

	cacheKey, err := generateCacheKey(filters)
	if err == nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var result listResult
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			uc.logger.Warn("list cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, total, err := uc.searchProducts(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, uc.fail(span, "failed to list products", err)
	}

	if cacheKey != "" {
		if data, err := json.Marshal(listResult{Products: products, Count: count}); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, listCacheTTL); err != nil {
				uc.logger.Warn("list cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}

	return products, count, nil
}

func (uc *productUseCase) searchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": []map[string]any{
					{
						"query_string": map[string]any{
							"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
							"fields": []string{"name^3", "sku", "barcode", "description", "variations.sku"},
						},
					},
					{
						"term": map[string]any{
							"restaurant_id": filters.RestaurantID,
						},
					},
				},
			},
		},
	}
	if filters.PageSize > 0 {
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}
	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	ctx, span := uc.tracer.Start(ctx, "product.UpdateProduct", trace.WithAttributes(attribute.String("product.id", input.ID)))
	defer span.End()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.SKU) == "" {
		return nil, fmt.Errorf("%w: name and sku are required", product.ErrInvalidInput)
	}

	var p *model.Product
	err := cache.WithLock(ctx, uc.cache, cache.ProductLockKey(input.ID), uc.lockOpt, func(ctx context.Context) error {
		var err error
		if p, err = uc.findProduct(ctx, input.RestaurantID, input.ID); err != nil {
			return err
		}
		skuChanged := p.SKU != input.SKU
		barcodeChanged := input.Barcode != "" && (p.Barcode == nil || *p.Barcode != input.Barcode)
		if skuChanged || barcodeChanged {
			sku, barcode := "", ""
			if skuChanged {
				sku = input.SKU
			}
			if barcodeChanged {
				barcode = input.Barcode
			}
			if err := uc.checkUnique(ctx, input.RestaurantID, sku, barcode, p.ID); err != nil {
				return err
			}
		}

		p.SKU = strings.TrimSpace(input.SKU)
		p.Name = strings.TrimSpace(input.Name)
		p.Description = optional(input.Description)
		p.BasePrice = input.BasePrice
		cost := input.CostPrice
		p.CostPrice = &cost
		p.TaxRate = input.TaxRate
		p.TrackInventory = input.TrackInventory
		p.ImageURL = optional(input.ImageURL)
		p.IsActive = input.IsActive
		p.CategoryID = optional(input.CategoryID)
		p.Barcode = optional(input.Barcode)
		p.UpdatedAt = time.Now().UTC()

		if err := uc.repo.Update(ctx, p); err != nil {
			return err
		}
		p.Variations, err = uc.repo.ListVariations(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, uc.fail(span, "failed to update product", err)
	}

	uc.afterChange(ctx, p, "product_updated")
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, restaurantID, id string) error {
	p, err := uc.repo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // Already deleted
	}

	if err := uc.repo.Delete(ctx, restaurantID, id); err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	uc.invalidateProductCache(bg, restaurantID)
	if uc.es != nil {
		if err := uc.es.Delete(bg, indexName, id); err != nil {
			uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
		}
	}
	uc.publish(bg, p, "product_deleted", nil)
	return nil
}

func (uc *productUseCase) SetAttributes(ctx context.Context, input *dto.SetAttributesInput) (*model.Product, error) {
	attrs, err := uc.prepareAttributes(ctx, input.RestaurantID, input.Attributes)
	if err != nil {
		return nil, err
	}

	return uc.mutateVariations(ctx, input.RestaurantID, input.ProductID, "attributes_set",
		func(p *model.Product, current []model.Variation) ([]model.Variation, error) {
			p.Attributes = attrs
			if !input.Regenerate {
				return current, nil
			}
			return uc.engine.Regenerate(attrs, current), nil
		})
}

func (uc *productUseCase) RegenerateVariations(ctx context.Context, restaurantID, productID string) (*model.Product, error) {
	return uc.mutateVariations(ctx, restaurantID, productID, "regenerated",
		func(p *model.Product, current []model.Variation) ([]model.Variation, error) {
			return uc.engine.Regenerate(p.Attributes, current), nil
		})
}

func (uc *productUseCase) AddVariation(ctx context.Context, input *dto.AddVariationInput) (*model.Product, error) {
	return uc.mutateVariations(ctx, input.RestaurantID, input.ProductID, "variation_added",
		func(p *model.Product, current []model.Variation) ([]model.Variation, error) {
			if err := variation.ValidateKeyTuple(p.Attributes, input.KeyTuple); err != nil {
				return nil, err
			}
			return uc.engine.AddManual(input.KeyTuple, input.Seed, current), nil
		})
}

func (uc *productUseCase) BulkEditVariations(ctx context.Context, input *dto.BulkEditInput) (*model.Product, error) {
	return uc.mutateVariations(ctx, input.RestaurantID, input.ProductID, "variations_edited",
		func(_ *model.Product, current []model.Variation) ([]model.Variation, error) {
			return variation.BulkEdit(input.IDs, input.Field, input.Value, current)
		})
}

func (uc *productUseCase) DeleteVariations(ctx context.Context, input *dto.DeleteVariationsInput) (*model.Product, error) {
	return uc.mutateVariations(ctx, input.RestaurantID, input.ProductID, "variations_deleted",
		func(_ *model.Product, current []model.Variation) ([]model.Variation, error) {
			return variation.Delete(input.IDs, current), nil
		})
}

func (uc *productUseCase) ListVariations(ctx context.Context, query *dto.VariationQuery) ([]model.Variation, error) {
	p, err := uc.findProduct(ctx, query.RestaurantID, query.ProductID)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListVariations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return variation.Sort(variation.Filter(list, query.Search), query.SortBy, query.Desc)
}

// mutateVariations runs one read-modify-write of a product's variation list
// under the product lock and stores the result.
func (uc *productUseCase) mutateVariations(
	ctx context.Context,
	restaurantID, productID, action string,
	fn func(p *model.Product, current []model.Variation) ([]model.Variation, error),
) (*model.Product, error) {
	ctx, span := uc.tracer.Start(ctx, "product."+action, trace.WithAttributes(
		attribute.String("restaurant.id", restaurantID),
		attribute.String("product.id", productID),
	))
	defer span.End()

	var out *model.Product
	err := cache.WithLock(ctx, uc.cache, cache.ProductLockKey(productID), uc.lockOpt, func(ctx context.Context) error {
		p, err := uc.findProduct(ctx, restaurantID, productID)
		if err != nil {
			return err
		}
		current, err := uc.repo.ListVariations(ctx, p.ID)
		if err != nil {
			return err
		}
		next, err := fn(p, current)
		if err != nil {
			return err
		}

		p.HasVariants = len(next) > 0
		p.UpdatedAt = time.Now().UTC()
		if err := uc.repo.SaveVariations(ctx, p, next); err != nil {
			return err
		}
		p.Variations = next
		out = p
		return nil
	})
	if err != nil {
		if variation.IsValidation(err) || errors.Is(err, product.ErrProductNotFound) {
			return nil, err
		}
		return nil, uc.fail(span, "variation update failed", err, zap.String("action", action), zap.String("product_id", productID))
	}

	span.SetAttributes(attribute.Int("variation.count", len(out.Variations)))
	uc.afterChange(ctx, out, action)
	return out, nil
}

func (uc *productUseCase) findProduct(ctx context.Context, restaurantID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, id)
	}
	return p, nil
}

func (uc *productUseCase) checkUnique(ctx context.Context, restaurantID, sku, barcode, excludeID string) error {
	if sku != "" {
		unique, err := uc.repo.IsSKUUnique(ctx, restaurantID, sku, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return product.ErrSKUExists
		}
	}
	if barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, restaurantID, barcode, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return product.ErrBarcodeExists
		}
	}
	return nil
}

// prepareAttributes fills attributes referencing a global attribute from it
// (name and values, when left empty) and then normalizes the set.
func (uc *productUseCase) prepareAttributes(ctx context.Context, restaurantID string, in model.AttributeSet) (model.AttributeSet, error) {
	attrs := in.Clone()
	for i := range attrs {
		a := &attrs[i]
		if a.GlobalID == nil || strings.TrimSpace(*a.GlobalID) == "" {
			continue
		}
		gid := strings.TrimSpace(*a.GlobalID)
		if uc.globals == nil {
			return nil, fmt.Errorf("%w: %s", product.ErrGlobalAttributeNotFound, gid)
		}
		g, err := uc.globals.FindByID(ctx, restaurantID, gid)
		if err != nil {
			return nil, err
		}
		if g == nil || !g.IsActive {
			return nil, fmt.Errorf("%w: %s", product.ErrGlobalAttributeNotFound, gid)
		}
		if strings.TrimSpace(a.Name) == "" {
			a.Name = g.Name
		}
		if len(variation.NormalizeValues(a.Values)) == 0 {
			a.Values = append([]string(nil), g.Values...)
		}
	}
	return variation.NormalizeAttributes(attrs)
}

func (uc *productUseCase) StockChanged(ctx context.Context, restaurantID, productID string, variationIDs []string) {
	p, err := uc.findProduct(ctx, restaurantID, productID)
	if err == nil {
		p.Variations, err = uc.repo.ListVariations(ctx, p.ID)
	}
	if err != nil {
		uc.logger.Warn("failed to load product after stock change", zap.String("product_id", productID), zap.Error(err))
		return
	}

	bg := context.WithoutCancel(ctx)
	uc.invalidateProductCache(bg, p.RestaurantID)
	uc.syncToElastic(bg, p)
	uc.publish(bg, p, "stock_adjusted", variationIDs)
}

// afterChange propagates a stored change. Failures are logged and never
// reach the caller.
func (uc *productUseCase) afterChange(ctx context.Context, p *model.Product, action string) {
	bg := context.WithoutCancel(ctx)
	uc.invalidateProductCache(bg, p.RestaurantID)
	uc.syncToElastic(bg, p)

	ids := make([]string, len(p.Variations))
	for i, v := range p.Variations {
		ids[i] = v.ID
	}
	uc.publish(bg, p, action, ids)
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) publish(ctx context.Context, p *model.Product, action string, variationIDs []string) {
	if uc.events == nil {
		return
	}
	if variationIDs == nil {
		variationIDs = []string{}
	}
	event := product.VariationsChangedEvent{
		EventID:   uuid.New().String(),
		EventType: product.EventVariationsChanged,
		Payload: product.VariationsChangedPayload{
			ProductID:    p.ID,
			RestaurantID: p.RestaurantID,
			Action:       action,
			VariationIDs: variationIDs,
		},
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal event", zap.Error(err))
		return
	}
	if err := uc.events.Publish(ctx, p.ID, data); err != nil {
		uc.logger.Error("failed to publish event",
			zap.String("product_id", p.ID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%s:%x", filters.RestaurantID, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context, restaurantID string) {
	pattern := fmt.Sprintf("products:list:%s:*", restaurantID)
	if err := uc.cache.DeletePattern(ctx, pattern); err != nil {
		uc.logger.Warn("failed to invalidate list cache", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (uc *productUseCase) fail(span trace.Span, msg string, err error, fields ...zap.Field) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	uc.logger.Error(msg, append(fields, zap.Error(err))...)
	return err
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
