package dto

type ProductFilters struct {
	RestaurantID string `json:"restaurant_id"`
	CategoryID   string `json:"category_id,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
	SearchQuery  string `json:"search,omitempty"`  // name, sku, barcode
	SortBy       string `json:"sort_by,omitempty"` // name, price, created_at
	SortOrder    string `json:"sort_order,omitempty"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

// VariationQuery drives the admin variation table.
type VariationQuery struct {
	RestaurantID string
	ProductID    string
	Search       string
	SortBy       string // any variation field, "id" or "attr:<name>"
	Desc         bool
}
