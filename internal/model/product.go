package model

type Product struct {
	BaseModel
	RestaurantID   string       `db:"restaurant_id" json:"restaurant_id"`
	CategoryID     *string      `db:"category_id" json:"category_id"` // Nullable
	SKU            string       `db:"sku" json:"sku"`
	Barcode        *string      `db:"barcode" json:"barcode"` // Nullable
	Name           string       `db:"name" json:"name"`
	Description    *string      `db:"description" json:"description"`
	BasePrice      float64      `db:"base_price" json:"base_price"`
	CostPrice      *float64     `db:"cost_price" json:"cost_price"`
	TaxRate        float64      `db:"tax_rate" json:"tax_rate"`
	HasVariants    bool         `db:"has_variants" json:"has_variants"`
	TrackInventory bool         `db:"track_inventory" json:"track_inventory"`
	ImageURL       *string      `db:"image_url" json:"image_url"`
	IsActive       bool         `db:"is_active" json:"is_active"`
	Attributes     AttributeSet `db:"attributes" json:"attributes"`
	Variations     []Variation  `db:"-" json:"variations"` // Loaded from product_variations
}
