package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devmojahid/restu-food-sub005/internal/auth"
	"github.com/devmojahid/restu-food-sub005/internal/cache"
	"github.com/devmojahid/restu-food-sub005/internal/database"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/repository"
	"github.com/devmojahid/restu-food-sub005/internal/inventory/usecase"
	"github.com/devmojahid/restu-food-sub005/internal/logger"
	"github.com/devmojahid/restu-food-sub005/internal/model"
	productrepo "github.com/devmojahid/restu-food-sub005/internal/product/repository"
	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLiteMemory(ctx)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	products := productrepo.NewPGRepository(db)
	now := time.Now().UTC()
	p := &model.Product{BaseModel: model.BaseModel{ID: "p1", CreatedAt: now, UpdatedAt: now}, RestaurantID: "r1", SKU: "TEA", Name: "Tea", IsActive: true}
	if err := products.Create(ctx, p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := products.SaveVariations(ctx, p, []model.Variation{
		{ID: "v1", KeyTuple: model.KeyTuple{"Size": "S"}, Stock: 2, Enabled: true, ManageStock: true},
	}); err != nil {
		t.Fatalf("SaveVariations: %v", err)
	}

	uc := usecase.NewInventoryUseCase(repository.NewPGRepository(db), cache.NewMemory(), logger.NewNop())
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewInventoryHandler(uc, logger.NewNop()).Register(r.Group("", auth.NewVerifier("secret").GinMiddleware()))
	return r
}

func request(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.RestaurantHeader, "r1")
	req.Header.Set(UserHeader, "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdjustAndListMovements(t *testing.T) {
	r := newRouter(t)

	w := request(r, http.MethodPost, "/inventory/adjust", map[string]any{
		"product_id": "p1", "variation_id": "v1", "quantity_change": 3, "reason": "delivery",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("adjust: %d %s", w.Code, w.Body.String())
	}
	var adjusted struct {
		Variation model.Variation `json:"variation"`
	}
	json.Unmarshal(w.Body.Bytes(), &adjusted)
	if adjusted.Variation.Stock != 5 {
		t.Errorf("stock = %d, want 5", adjusted.Variation.Stock)
	}

	w = request(r, http.MethodGet, "/inventory/movements?variation_id=v1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("movements: %d %s", w.Code, w.Body.String())
	}
	var listed struct {
		Movements []model.StockMovement `json:"movements"`
		Total     int                   `json:"total"`
	}
	json.Unmarshal(w.Body.Bytes(), &listed)
	if listed.Total != 1 || listed.Movements[0].QuantityAfter != 5 {
		t.Errorf("movements = %+v", listed)
	}
	if cb := listed.Movements[0].CreatedBy; cb == nil || *cb != "u1" {
		t.Errorf("created_by = %v, want u1", cb)
	}
}

func TestAdjustErrors(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"insufficient", map[string]any{"product_id": "p1", "variation_id": "v1", "quantity_change": -3}, http.StatusConflict},
		{"unknown variation", map[string]any{"product_id": "p1", "variation_id": "nope", "quantity_change": 1}, http.StatusNotFound},
		{"zero change", map[string]any{"product_id": "p1", "variation_id": "v1"}, http.StatusBadRequest},
		{"malformed", "[]", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := request(r, http.MethodPost, "/inventory/adjust", tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestLowStockRequiresTenant(t *testing.T) {
	r := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/inventory/low-stock", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
