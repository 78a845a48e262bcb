package dto

type AttributeFilters struct {
	RestaurantID string
	IsActive     *bool
	Page         int
	PageSize     int
}
