package dto

import "time"

type MovementFilters struct {
	RestaurantID string
	ProductID    string
	VariationID  string
	MovementType string
	StartDate    *time.Time
	EndDate      *time.Time
	Page         int
	PageSize     int
}

type LowStockFilters struct {
	RestaurantID string
	Threshold    int // stock <= Threshold
	Page         int
	PageSize     int
}
