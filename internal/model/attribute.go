package model

import "database/sql/driver"

// Attribute is one named option list of a product, e.g. Size: [Small, Large].
type Attribute struct {
	Name              string   `json:"name" yaml:"name"`
	Values            []string `json:"values" yaml:"values"`
	UsedForVariations bool     `json:"used_for_variations" yaml:"used_for_variations"`
	IsGlobal          bool     `json:"is_global,omitempty" yaml:"is_global,omitempty"`
	GlobalID          *string  `json:"global_id,omitempty" yaml:"global_id,omitempty"`
}

// AttributeSet is ordered; order decides column display order only.
type AttributeSet []Attribute

func (s AttributeSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonValue([]Attribute(s))
}

func (s *AttributeSet) Scan(src any) error {
	*s = nil
	return scanJSON(src, (*[]Attribute)(s))
}

// Find returns the attribute with the given name.
func (s AttributeSet) Find(name string) (Attribute, bool) {
	for _, a := range s {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Clone deep-copies the set.
func (s AttributeSet) Clone() AttributeSet {
	if s == nil {
		return nil
	}
	out := make(AttributeSet, len(s))
	for i, a := range s {
		out[i] = a
		out[i].Values = append([]string(nil), a.Values...)
		if a.GlobalID != nil {
			id := *a.GlobalID
			out[i].GlobalID = &id
		}
	}
	return out
}

// GlobalAttribute is a restaurant-wide attribute vocabulary entry that product
// attributes may reference by GlobalID.
type GlobalAttribute struct {
	BaseModel
	RestaurantID string      `db:"restaurant_id" json:"restaurant_id"`
	Name         string      `db:"name" json:"name"`
	Values       StringSlice `db:"attr_values" json:"values"`
	SortOrder    int         `db:"sort_order" json:"sort_order"`
	IsActive     bool        `db:"is_active" json:"is_active"`
}

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return jsonValue([]string(s))
}

func (s *StringSlice) Scan(src any) error {
	*s = nil
	return scanJSON(src, (*[]string)(s))
}
