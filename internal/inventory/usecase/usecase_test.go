package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/database"
	"github.com/devmojahid/restu-food-sub005/internal/inventory"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/dto"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/repository"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	productrepo "github.com/devmojahid/restu-food-sub005/internal/product/repository"
	_ "github.com/mattn/go-sqlite3"
)

type fixture struct {
	uc    inventory.UseCase
	store *cache.Memory
}

// newFixture seeds product p1 of restaurant r1 with a managed variation v1
// (stock 5) and an unmanaged variation v2.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLiteMemory(ctx)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	products := productrepo.NewPGRepository(db)
	now := time.Now().UTC()
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now}, RestaurantID: "r1", SKU: "S", Name: "Soda", IsActive: true}
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := products.SaveVariations(ctx, p, []model.Variation{
		{ID: "v1", KeyTuple: model.KeyTuple{"Size": "S"}, Stock: 5, Enabled: true, ManageStock: true},
		{ID: "v2", KeyTuple: model.KeyTuple{"Size": "L"}, Stock: 0, Enabled: true},
	}); err != nil {
		t.Fatalf("SaveVariations: %v", err)
	}

	store := cache.NewMemory()
	return &fixture{
		uc:    NewInventoryUseCase(repository.NewPGRepository(db), store, logger.NewNop()),
		store: store,
	}
}

func TestAdjustStock(t *testing.T) {
	tests := []struct {
		name      string
		input     dto.AdjustStockInput
		wantStock int
		wantErr   error
	}{
		{"deduct", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -2}, 3, nil},
		{"restock", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: 4}, 9, nil},
		{"to zero", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -5}, 0, nil},
		{"negative", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -6}, 0, inventory.ErrInsufficientStock},
		{"unmanaged", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v2", QuantityChange: -6}, 0, nil},
		{"other tenant", dto.AdjustStockInput{RestaurantID: "r2", ProductID: "p1", VariationID: "v1", QuantityChange: -1}, 0, inventory.ErrVariationNotFound},
		{"zero change", dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1"}, 0, inventory.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			v, err := f.uc.AdjustStock(context.Background(), &tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if v.Stock != tt.wantStock {
				t.Errorf("stock = %d, want %d", v.Stock, tt.wantStock)
			}
		})
	}
}

func TestAdjustStockRecordsMovementOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	in := &dto.AdjustStockInput{
		RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -1,
		MovementType: "sale", ReferenceType: "order", ReferenceID: "o-1",
	}

	for i := 0; i < 2; i++ {
		v, err := f.uc.AdjustStock(ctx, in)
		if err != nil {
			t.Fatalf("AdjustStock #%d: %v", i+1, err)
		}
		if v.Stock != 4 {
			t.Errorf("stock after #%d = %d, want 4", i+1, v.Stock)
		}
	}

	movements, n, err := f.uc.ListMovements(ctx, &dto.MovementFilters{RestaurantID: "r1", VariationID: "v1"})
	if err != nil {
		t.Fatalf("ListMovements: %v", err)
	}
	if n != 1 || len(movements) != 1 {
		t.Fatalf("got %d movements, want 1", n)
	}
	m := movements[0]
	if m.QuantityBefore != 5 || m.QuantityAfter != 4 || m.MovementType != "sale" || *m.ReferenceID != "o-1" {
		t.Errorf("movement = %+v", m)
	}
}

func TestUnmanagedStockRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.uc.AdjustStock(ctx, &dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v2", QuantityChange: 3}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if _, n, _ := f.uc.ListMovements(ctx, &dto.MovementFilters{RestaurantID: "r1"}); n != 0 {
		t.Errorf("movements = %d, want 0", n)
	}
}

func TestAdjustStockHonoursProductLock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.AcquireLock(ctx, cache.ProductLockKey("p1"), "regenerating", time.Minute)

	uc := f.uc.(*inventoryUseCase)
	uc.lockOpt = cache.LockOptions{Attempts: 1, TTL: time.Second}
	_, err := uc.AdjustStock(ctx, &dto.AdjustStockInput{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -1})
	if !errors.Is(err, cache.ErrLockNotAcquired) {
		t.Errorf("err = %v, want ErrLockNotAcquired", err)
	}
}

func TestListLowStock(t *testing.T) {
	f := newFixture(t)
	list, n, err := f.uc.ListLowStock(context.Background(), &dto.LowStockFilters{RestaurantID: "r1", Threshold: 5})
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	if n != 1 || list[0].ID != "v1" {
		t.Errorf("got %d items %+v; unmanaged variations must be excluded", n, list)
	}
}

type recordingObserver struct {
	calls [][]string
}

func (o *recordingObserver) StockChanged(_ context.Context, restaurantID, productID string, variationIDs []string) {
	o.calls = append(o.calls, append([]string{restaurantID, productID}, variationIDs...))
}

func TestAdjustStockNotifiesObserverOnChangeOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	obs := &recordingObserver{}
	WithStockObserver(obs)(f.uc.(*inventoryUseCase))

	inputs := []dto.AdjustStockInput{
		{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -1, ReferenceType: "order", ReferenceID: "o-7"},
		{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -1, ReferenceType: "order", ReferenceID: "o-7"},
		{RestaurantID: "r1", ProductID: "p1", VariationID: "v2", QuantityChange: 2},
		{RestaurantID: "r1", ProductID: "p1", VariationID: "v1", QuantityChange: -50},
	}
	for i := range inputs {
		f.uc.AdjustStock(ctx, &inputs[i])
	}

	if len(obs.calls) != 1 {
		t.Fatalf("observer calls = %v, want exactly one", obs.calls)
	}
	if got := obs.calls[0]; got[0] != "r1" || got[1] != "p1" || len(got) != 3 || got[2] != "v1" {
		t.Errorf("observer call = %v", got)
	}
}
