package dto

import (
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
)

type CreateProductInput struct {
	RestaurantID   string             `json:"-"`
	CategoryID     string             `json:"category_id"`
	SKU            string             `json:"sku"`
	Barcode        string             `json:"barcode"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	BasePrice      float64            `json:"base_price"`
	CostPrice      float64            `json:"cost_price"`
	TaxRate        float64            `json:"tax_rate"`
	TrackInventory bool               `json:"track_inventory"`
	ImageURL       string             `json:"image_url"`
	Attributes     model.AttributeSet `json:"attributes"`
	Regenerate     bool               `json:"regenerate"`
}

type UpdateProductInput struct {
	ID             string  `json:"-"`
	RestaurantID   string  `json:"-"`
	CategoryID     string  `json:"category_id"`
	SKU            string  `json:"sku"`
	Barcode        string  `json:"barcode"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	BasePrice      float64 `json:"base_price"`
	CostPrice      float64 `json:"cost_price"`
	TaxRate        float64 `json:"tax_rate"`
	TrackInventory bool    `json:"track_inventory"`
	ImageURL       string  `json:"image_url"`
	IsActive       bool    `json:"is_active"`
}

type SetAttributesInput struct {
	RestaurantID string             `json:"-"`
	ProductID    string             `json:"-"`
	Attributes   model.AttributeSet `json:"attributes"`
	Regenerate   bool               `json:"regenerate"`
}

type AddVariationInput struct {
	RestaurantID string          `json:"-"`
	ProductID    string          `json:"-"`
	KeyTuple     model.KeyTuple  `json:"key_tuple"`
	Seed         variation.Patch `json:"seed"`
}

type BulkEditInput struct {
	RestaurantID string   `json:"-"`
	ProductID    string   `json:"-"`
	IDs          []string `json:"ids"`
	Field        string   `json:"field"`
	Value        any      `json:"value"`
}

type DeleteVariationsInput struct {
	RestaurantID string   `json:"-"`
	ProductID    string   `json:"-"`
	IDs          []string `json:"ids"`
}
