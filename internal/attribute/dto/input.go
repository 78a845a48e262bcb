package dto

type CreateAttributeInput struct {
	RestaurantID string   `json:"-"`
	Name         string   `json:"name"`
	Values       []string `json:"values"`
	SortOrder    int      `json:"sort_order"`
}

type UpdateAttributeInput struct {
	ID           string   `json:"-"`
	RestaurantID string   `json:"-"`
	Name         string   `json:"name"`
	Values       []string `json:"values"`
	SortOrder    int      `json:"sort_order"`
	IsActive     bool     `json:"is_active"`
}
