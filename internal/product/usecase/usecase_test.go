package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/database"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/product"
	"github.com/devmojahid/restu-food-sub005/internal/product/dto"
	"github.com/devmojahid/restu-food-sub005/internal/product/repository"
	"github.com/devmojahid/restu-food-sub005/internal/search"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	_ "github.com/mattn/go-sqlite3"
)

type fakeSearch struct {
	mu      sync.Mutex
	indexed map[string]any
	deleted []string
	err     error
}

func (f *fakeSearch) CreateIndex(context.Context, string, string) error { return nil }

func (f *fakeSearch) Index(_ context.Context, _, id string, doc any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexed == nil {
		f.indexed = map[string]any{}
	}
	f.indexed[id] = doc
	return nil
}

func (f *fakeSearch) Search(context.Context, string, map[string]any) (*search.SearchResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &search.SearchResponse{}, nil
}

func (f *fakeSearch) Delete(_ context.Context, _, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePublisher struct {
	events []product.VariationsChangedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, _ string, value []byte) error {
	var e product.VariationsChangedEvent
	if err := json.Unmarshal(value, &e); err != nil {
		return err
	}
	f.events = append(f.events, e)
	return f.err
}

type fakeGlobals map[string]*model.GlobalAttribute

func (f fakeGlobals) FindByID(_ context.Context, restaurantID, id string) (*model.GlobalAttribute, error) {
	g, ok := f[id]
	if !ok || g.RestaurantID != restaurantID {
		return nil, nil
	}
	return g, nil
}

type fixture struct {
	uc     product.UseCase
	store  *cache.Memory
	es     *fakeSearch
	events *fakePublisher
}

func counterIDs() variation.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("var-%d", n)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenSQLiteMemory(context.Background())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{store: cache.NewMemory(), es: &fakeSearch{}, events: &fakePublisher{}}
	globals := fakeGlobals{
		"g-size": {BaseModel: model.BaseModel{ID: "g-size"}, RestaurantID: "r1", Name: "Size", Values: model.StringSlice{"Small", "Large"}, IsActive: true},
	}
	f.uc = NewProductUseCase(repository.NewPGRepository(db), globals, f.store, f.es, f.events, logger.NewNop(),
		WithEngine(variation.NewEngine(variation.WithIDFunc(counterIDs()))),
		WithLockOptions(cache.LockOptions{Attempts: 1, TTL: time.Second}),
	)
	return f
}

func (f *fixture) create(t *testing.T, attrs model.AttributeSet, regenerate bool) *model.Product {
	t.Helper()
	p, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		RestaurantID: "r1",
		SKU:          "TEA",
		Name:         "Tea",
		BasePrice:    3,
		Attributes:   attrs,
		Regenerate:   regenerate,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func sizeMilk() model.AttributeSet {
	return model.AttributeSet{
		{Name: "Size", Values: []string{"S", "L"}, UsedForVariations: true},
		{Name: "Milk", Values: []string{"None", "Oat"}, UsedForVariations: true},
		{Name: "Origin", Values: []string{"Assam"}},
	}
}

func TestCreateProductWithRegenerate(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	if len(p.Variations) != 4 || !p.HasVariants {
		t.Fatalf("got %d variations, has_variants=%v", len(p.Variations), p.HasVariants)
	}
	got, err := f.uc.GetProduct(context.Background(), "r1", p.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if len(got.Variations) != 4 || got.Variations[0].KeyTuple["Size"] != "S" || got.Variations[0].KeyTuple["Milk"] != "None" {
		t.Errorf("stored variations out of order: %+v", got.Variations)
	}
	if _, ok := f.es.indexed[p.ID]; !ok {
		t.Error("product not indexed")
	}
	if len(f.events.events) != 1 || f.events.events[0].Payload.Action != "product_created" {
		t.Errorf("events = %+v", f.events.events)
	}
}

// createOnlyRepo fails Create and records which writes the use case issued.
type createOnlyRepo struct {
	product.Repository
	created []*model.Product
	saves   int
}

func (r *createOnlyRepo) Create(_ context.Context, p *model.Product) error {
	r.created = append(r.created, p)
	return errors.New("disk full")
}

func (r *createOnlyRepo) IsSKUUnique(context.Context, string, string, string) (bool, error) {
	return true, nil
}

func (r *createOnlyRepo) SaveVariations(context.Context, *model.Product, []model.Variation) error {
	r.saves++
	return nil
}

func TestCreateProductWritesVariationsInOneCall(t *testing.T) {
	repo := &createOnlyRepo{}
	es, events := &fakeSearch{}, &fakePublisher{}
	uc := NewProductUseCase(repo, nil, cache.NewMemory(), es, events, logger.NewNop())

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		RestaurantID: "r1",
		SKU:          "TEA",
		Name:         "Tea",
		Attributes:   sizeMilk(),
		Regenerate:   true,
	})
	if err == nil {
		t.Fatal("expected the repository error")
	}
	if len(repo.created) != 1 || len(repo.created[0].Variations) != 4 || !repo.created[0].HasVariants {
		t.Fatalf("Create should receive the generated variations, got %+v", repo.created)
	}
	if repo.saves != 0 {
		t.Errorf("SaveVariations called %d times, want 0", repo.saves)
	}
	if len(events.events) != 0 || len(es.indexed) != 0 {
		t.Errorf("side effects ran for a failed create: events=%d indexed=%d", len(events.events), len(es.indexed))
	}
}

func TestStockChangedRefreshesDerivedCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)
	before := len(f.events.events)
	f.es.indexed = nil

	f.uc.StockChanged(ctx, "r1", p.ID, []string{p.Variations[0].ID})

	if _, ok := f.es.indexed[p.ID]; !ok {
		t.Error("product not re-indexed")
	}
	if len(f.events.events) != before+1 {
		t.Fatalf("events = %d, want %d", len(f.events.events), before+1)
	}
	e := f.events.events[before]
	if e.Payload.Action != "stock_adjusted" || len(e.Payload.VariationIDs) != 1 || e.Payload.VariationIDs[0] != p.Variations[0].ID {
		t.Errorf("event = %+v", e)
	}

	f.uc.StockChanged(ctx, "r2", p.ID, []string{"x"})
	if len(f.events.events) != before+1 {
		t.Error("other tenant triggered an event")
	}
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	f := newFixture(t)
	f.create(t, nil, false)
	_, err := f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{RestaurantID: "r1", SKU: "TEA", Name: "Other"})
	if !errors.Is(err, product.ErrSKUExists) {
		t.Errorf("err = %v, want ErrSKUExists", err)
	}
	_, err = f.uc.CreateProduct(context.Background(), &dto.CreateProductInput{RestaurantID: "r1", Name: "No SKU"})
	if !errors.Is(err, product.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRegeneratePreservesEditedVariations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	target := p.Variations[1].ID
	if _, err := f.uc.BulkEditVariations(ctx, &dto.BulkEditInput{
		RestaurantID: "r1", ProductID: p.ID, IDs: []string{target}, Field: "price", Value: "4.50",
	}); err != nil {
		t.Fatalf("BulkEditVariations: %v", err)
	}

	attrs := sizeMilk()
	attrs[0].Values = append(attrs[0].Values, "XL")
	got, err := f.uc.SetAttributes(ctx, &dto.SetAttributesInput{RestaurantID: "r1", ProductID: p.ID, Attributes: attrs, Regenerate: true})
	if err != nil {
		t.Fatalf("SetAttributes: %v", err)
	}
	if len(got.Variations) != 6 {
		t.Fatalf("got %d variations, want 6", len(got.Variations))
	}

	var kept *model.Variation
	for i := range got.Variations {
		if got.Variations[i].ID == target {
			kept = &got.Variations[i]
		}
	}
	if kept == nil || kept.Price != "4.50" {
		t.Errorf("edited variation lost: %+v", kept)
	}

	attrs[1].Values = []string{"Oat"}
	got, err = f.uc.SetAttributes(ctx, &dto.SetAttributesInput{RestaurantID: "r1", ProductID: p.ID, Attributes: attrs, Regenerate: true})
	if err != nil {
		t.Fatalf("SetAttributes: %v", err)
	}
	if len(got.Variations) != 3 {
		t.Errorf("stale variations not dropped, got %d", len(got.Variations))
	}
	for _, v := range got.Variations {
		if v.KeyTuple["Milk"] != "Oat" {
			t.Errorf("unexpected tuple %v", v.KeyTuple)
		}
	}
}

func TestSetAttributesWithoutRegenerateKeepsList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	got, err := f.uc.SetAttributes(ctx, &dto.SetAttributesInput{
		RestaurantID: "r1",
		ProductID:    p.ID,
		Attributes:   model.AttributeSet{{Name: " Size ", Values: []string{"S", "S", " M "}, UsedForVariations: true}},
	})
	if err != nil {
		t.Fatalf("SetAttributes: %v", err)
	}
	if len(got.Variations) != 4 {
		t.Errorf("variations changed without regenerate: %d", len(got.Variations))
	}
	if a := got.Attributes[0]; a.Name != "Size" || len(a.Values) != 2 || a.Values[1] != "M" {
		t.Errorf("attributes not normalized: %+v", a)
	}
}

func TestSetAttributesResolvesGlobal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, nil, false)
	gid := "g-size"

	got, err := f.uc.SetAttributes(ctx, &dto.SetAttributesInput{
		RestaurantID: "r1",
		ProductID:    p.ID,
		Attributes:   model.AttributeSet{{GlobalID: &gid, UsedForVariations: true}},
		Regenerate:   true,
	})
	if err != nil {
		t.Fatalf("SetAttributes: %v", err)
	}
	a := got.Attributes[0]
	if a.Name != "Size" || !a.IsGlobal || len(a.Values) != 2 {
		t.Errorf("global not resolved: %+v", a)
	}
	if len(got.Variations) != 2 {
		t.Errorf("got %d variations, want 2", len(got.Variations))
	}

	missing := "nope"
	_, err = f.uc.SetAttributes(ctx, &dto.SetAttributesInput{
		RestaurantID: "r1", ProductID: p.ID, Attributes: model.AttributeSet{{Name: "X", GlobalID: &missing}},
	})
	if !errors.Is(err, product.ErrGlobalAttributeNotFound) {
		t.Errorf("err = %v, want ErrGlobalAttributeNotFound", err)
	}
}

func TestAddVariationValidatesTuple(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	tests := []struct {
		name    string
		tuple   model.KeyTuple
		wantErr error
	}{
		{"valid duplicate", model.KeyTuple{"Size": "S", "Milk": "Oat"}, nil},
		{"unknown value", model.KeyTuple{"Size": "XXL", "Milk": "Oat"}, variation.ErrUnknownValue},
		{"missing attribute", model.KeyTuple{"Size": "S"}, variation.ErrIncompleteKeyTuple},
		{"non-variation attribute", model.KeyTuple{"Size": "S", "Milk": "Oat", "Origin": "Assam"}, variation.ErrUnknownAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := 7
			got, err := f.uc.AddVariation(ctx, &dto.AddVariationInput{
				RestaurantID: "r1", ProductID: p.ID, KeyTuple: tt.tuple, Seed: variation.Patch{Stock: &stock},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			last := got.Variations[len(got.Variations)-1]
			if last.Stock != 7 || !last.Enabled || !last.ManageStock {
				t.Errorf("seed/defaults not applied: %+v", last)
			}
		})
	}
}

func TestBulkEditAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)
	ids := []string{p.Variations[0].ID, p.Variations[2].ID}

	if _, err := f.uc.BulkEditVariations(ctx, &dto.BulkEditInput{
		RestaurantID: "r1", ProductID: p.ID, IDs: ids, Field: "colour", Value: "x",
	}); !errors.Is(err, variation.ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}

	got, err := f.uc.BulkEditVariations(ctx, &dto.BulkEditInput{
		RestaurantID: "r1", ProductID: p.ID, IDs: ids, Field: "enabled", Value: false,
	})
	if err != nil {
		t.Fatalf("BulkEditVariations: %v", err)
	}
	disabled := 0
	for _, v := range got.Variations {
		if !v.Enabled {
			disabled++
		}
	}
	if disabled != 2 {
		t.Errorf("disabled = %d, want 2", disabled)
	}

	got, err = f.uc.DeleteVariations(ctx, &dto.DeleteVariationsInput{RestaurantID: "r1", ProductID: p.ID, IDs: ids})
	if err != nil {
		t.Fatalf("DeleteVariations: %v", err)
	}
	if len(got.Variations) != 2 {
		t.Errorf("got %d variations after delete, want 2", len(got.Variations))
	}

	got, err = f.uc.DeleteVariations(ctx, &dto.DeleteVariationsInput{
		RestaurantID: "r1", ProductID: p.ID, IDs: []string{got.Variations[0].ID, got.Variations[1].ID},
	})
	if err != nil {
		t.Fatalf("DeleteVariations: %v", err)
	}
	if got.HasVariants {
		t.Error("has_variants should be false with empty list")
	}
}

func TestListVariationsFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	got, err := f.uc.ListVariations(ctx, &dto.VariationQuery{RestaurantID: "r1", ProductID: p.ID, Search: "oat", SortBy: "attr:Size", Desc: true})
	if err != nil {
		t.Fatalf("ListVariations: %v", err)
	}
	if len(got) != 2 || got[0].KeyTuple["Size"] != "S" || got[1].KeyTuple["Size"] != "L" {
		t.Errorf("got %+v", got)
	}

	if _, err := f.uc.ListVariations(ctx, &dto.VariationQuery{RestaurantID: "r1", ProductID: p.ID, SortBy: "bogus"}); !errors.Is(err, variation.ErrUnknownField) {
		t.Errorf("err = %v, want ErrUnknownField", err)
	}
}

func TestVariationOpsRespectTenant(t *testing.T) {
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	_, err := f.uc.RegenerateVariations(context.Background(), "r2", p.ID)
	if !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestVariationOpsFailWhenLocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	if ok, _ := f.store.AcquireLock(ctx, cache.ProductLockKey(p.ID), "someone-else", time.Minute); !ok {
		t.Fatal("could not take lock")
	}
	_, err := f.uc.RegenerateVariations(ctx, "r1", p.ID)
	if !errors.Is(err, cache.ErrLockNotAcquired) {
		t.Errorf("err = %v, want ErrLockNotAcquired", err)
	}
}

func TestSideEffectFailuresDoNotFailCalls(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	p := f.create(t, sizeMilk(), true)

	if _, err := f.uc.RegenerateVariations(ctx, "r1", p.ID); err != nil {
		t.Errorf("RegenerateVariations: %v", err)
	}
	if len(f.events.events) != 2 {
		t.Errorf("expected publish attempts for both calls, got %d", len(f.events.events))
	}
}

func TestListProductsCachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, nil, false)
	filters := &dto.ProductFilters{RestaurantID: "r1"}

	if _, n, err := f.uc.ListProducts(ctx, filters); err != nil || n != 1 {
		t.Fatalf("ListProducts = %d, %v", n, err)
	}
	key, _ := generateCacheKey(filters)
	if _, err := f.store.Get(ctx, key); err != nil {
		t.Fatalf("list not cached: %v", err)
	}

	if _, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{RestaurantID: "r1", SKU: "COFFEE", Name: "Coffee"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := f.store.Get(ctx, key); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("cache not invalidated: %v", err)
	}
	if _, n, _ := f.uc.ListProducts(ctx, filters); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestListProductsFallsBackWhenSearchFails(t *testing.T) {
	f := newFixture(t)
	f.es.err = errors.New("cluster red")
	f.create(t, nil, false)

	got, n, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{RestaurantID: "r1", SearchQuery: "te"})
	if err != nil || n != 1 || len(got) != 1 {
		t.Errorf("ListProducts = %v, %d, %v", got, n, err)
	}
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.create(t, sizeMilk(), true)

	if err := f.uc.DeleteProduct(ctx, "r1", p.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := f.uc.GetProduct(ctx, "r1", p.ID); !errors.Is(err, product.ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
	if len(f.es.deleted) != 1 || f.es.deleted[0] != p.ID {
		t.Errorf("search delete = %v", f.es.deleted)
	}
	if err := f.uc.DeleteProduct(ctx, "r1", p.ID); err != nil {
		t.Errorf("second delete should be a no-op: %v", err)
	}
}
