package model

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// KeyTuple identifies a variation by attribute name -> chosen value.
type KeyTuple map[string]string

func (k KeyTuple) Value() (driver.Value, error) {
	if k == nil {
		return "{}", nil
	}
	return jsonValue(map[string]string(k))
}

func (k *KeyTuple) Scan(src any) error {
	*k = nil
	return scanJSON(src, (*map[string]string)(k))
}

// Equal reports whether both tuples carry the same names with the same values.
func (k KeyTuple) Equal(other KeyTuple) bool {
	if len(k) != len(other) {
		return false
	}
	for name, v := range k {
		ov, ok := other[name]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

func (k KeyTuple) Clone() KeyTuple {
	if k == nil {
		return nil
	}
	out := make(KeyTuple, len(k))
	for name, v := range k {
		out[name] = v
	}
	return out
}

// Key is a canonical encoding independent of map order. Two tuples are Equal
// iff their keys are equal.
func (k KeyTuple) Key() string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([][2]string, len(names))
	for i, name := range names {
		pairs[i] = [2]string{name, k[name]}
	}
	b, _ := json.Marshal(pairs)
	return string(b)
}

// Hash is the hex sha256 of Key, stored as attribute_hash.
func (k KeyTuple) Hash() string {
	sum := sha256.Sum256([]byte(k.Key()))
	return hex.EncodeToString(sum[:])
}

type Dimensions struct {
	Length string `json:"length" yaml:"length"`
	Width  string `json:"width" yaml:"width"`
	Height string `json:"height" yaml:"height"`
}

func (d Dimensions) Value() (driver.Value, error) {
	return jsonValue(d)
}

func (d *Dimensions) Scan(src any) error {
	*d = Dimensions{}
	return scanJSON(src, d)
}

// Variation is one purchasable combination of a product. Every field except
// ID, ProductID and KeyTuple belongs to the editor and is never rewritten by
// regeneration.
type Variation struct {
	ID            string     `db:"id" json:"id"`
	ProductID     string     `db:"product_id" json:"product_id,omitempty"`
	KeyTuple      KeyTuple   `db:"key_tuple" json:"key_tuple"`
	AttributeHash string     `db:"attribute_hash" json:"-"`
	Position      int        `db:"position" json:"-"`
	SKU           string     `db:"sku" json:"sku"`
	Price         string     `db:"price" json:"price"`
	SalePrice     string     `db:"sale_price" json:"sale_price"`
	Stock         int        `db:"stock" json:"stock"`
	Enabled       bool       `db:"enabled" json:"enabled"`
	Virtual       bool       `db:"is_virtual" json:"virtual"`
	Downloadable  bool       `db:"downloadable" json:"downloadable"`
	ManageStock   bool       `db:"manage_stock" json:"manage_stock"`
	Weight        string     `db:"weight" json:"weight"`
	Dimensions    Dimensions `db:"dimensions" json:"dimensions"`
	Image         *string    `db:"image" json:"image"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at,omitempty"`
}

// Clone deep-copies the variation so callers can mutate the copy freely.
func (v Variation) Clone() Variation {
	out := v
	out.KeyTuple = v.KeyTuple.Clone()
	if v.Image != nil {
		img := *v.Image
		out.Image = &img
	}
	return out
}

// StockMovement is the audit row written for every stock change of a variation.
type StockMovement struct {
	ID             string    `db:"id" json:"id"`
	RestaurantID   string    `db:"restaurant_id" json:"restaurant_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	VariationID    string    `db:"variation_id" json:"variation_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange int       `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int       `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int       `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
