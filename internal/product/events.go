package product

import "time"

const EventVariationsChanged = "VariationsChanged"

// VariationsChangedEvent is published to the catalog topic after any change
// to a product or its variation list.
type VariationsChangedEvent struct {
	EventID   string                   `json:"event_id"`
	EventType string                   `json:"event_type"`
	Payload   VariationsChangedPayload `json:"payload"`
	Timestamp time.Time                `json:"timestamp"`
}

type VariationsChangedPayload struct {
	ProductID    string   `json:"product_id"`
	RestaurantID string   `json:"restaurant_id"`
	Action       string   `json:"action"`
	VariationIDs []string `json:"variation_ids"`
}
