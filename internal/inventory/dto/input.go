package dto

type AdjustStockInput struct {
	RestaurantID   string `json:"-"`
	ProductID      string `json:"product_id"`
	VariationID    string `json:"variation_id"`
	QuantityChange int    `json:"quantity_change"`
	MovementType   string `json:"movement_type"` // adjustment, sale, return, restock
	Reason         string `json:"reason"`
	ReferenceID    string `json:"reference_id"`
	ReferenceType  string `json:"reference_type"`
	UserID         string `json:"-"`
}
