package variation

import (
	"encoding/json"
	"fmt"

	"github.com/devmojahid/restu-food-sub005/internal/model"
)

// Patch is a partial set of editor-owned fields; nil means "leave as is".
type Patch struct {
	SKU          *string           `json:"sku,omitempty" yaml:"sku,omitempty"`
	Price        *string           `json:"price,omitempty" yaml:"price,omitempty"`
	SalePrice    *string           `json:"sale_price,omitempty" yaml:"sale_price,omitempty"`
	Stock        *int              `json:"stock,omitempty" yaml:"stock,omitempty"`
	Enabled      *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Virtual      *bool             `json:"virtual,omitempty" yaml:"virtual,omitempty"`
	Downloadable *bool             `json:"downloadable,omitempty" yaml:"downloadable,omitempty"`
	ManageStock  *bool             `json:"manage_stock,omitempty" yaml:"manage_stock,omitempty"`
	Weight       *string           `json:"weight,omitempty" yaml:"weight,omitempty"`
	Dimensions   *model.Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Image        *string           `json:"image,omitempty" yaml:"image,omitempty"`
}

// UnmarshalJSON accepts snake_case and camelCase keys, like BulkEdit field
// names, and rejects keys that name no editable field.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Patch
	for key, value := range raw {
		var target any
		switch normalizeFieldName(key) {
		case "sku":
			target = &out.SKU
		case "price":
			target = &out.Price
		case "saleprice":
			target = &out.SalePrice
		case "stock":
			target = &out.Stock
		case "enabled":
			target = &out.Enabled
		case "virtual", "isvirtual":
			target = &out.Virtual
		case "downloadable":
			target = &out.Downloadable
		case "managestock":
			target = &out.ManageStock
		case "weight":
			target = &out.Weight
		case "dimensions":
			target = &out.Dimensions
		case "image":
			target = &out.Image
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		if err := json.Unmarshal(value, target); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	*p = out
	return nil
}

func (p Patch) Apply(v *model.Variation) {
	if p.SKU != nil {
		v.SKU = *p.SKU
	}
	if p.Price != nil {
		v.Price = *p.Price
	}
	if p.SalePrice != nil {
		v.SalePrice = *p.SalePrice
	}
	if p.Stock != nil {
		v.Stock = *p.Stock
	}
	if p.Enabled != nil {
		v.Enabled = *p.Enabled
	}
	if p.Virtual != nil {
		v.Virtual = *p.Virtual
	}
	if p.Downloadable != nil {
		v.Downloadable = *p.Downloadable
	}
	if p.ManageStock != nil {
		v.ManageStock = *p.ManageStock
	}
	if p.Weight != nil {
		v.Weight = *p.Weight
	}
	if p.Dimensions != nil {
		v.Dimensions = *p.Dimensions
	}
	if p.Image != nil {
		img := *p.Image
		v.Image = &img
	}
}
