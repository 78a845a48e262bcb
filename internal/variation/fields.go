package variation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/devmojahid/restu-food-sub005/internal/model"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindImage
)

type field struct {
	name string
	kind fieldKind
	get  func(v *model.Variation) any
	set  func(v *model.Variation, value any)
}

var fields = []field{
	{"sku", kindString, func(v *model.Variation) any { return v.SKU }, func(v *model.Variation, x any) { v.SKU = x.(string) }},
	{"price", kindString, func(v *model.Variation) any { return v.Price }, func(v *model.Variation, x any) { v.Price = x.(string) }},
	{"sale_price", kindString, func(v *model.Variation) any { return v.SalePrice }, func(v *model.Variation, x any) { v.SalePrice = x.(string) }},
	{"stock", kindInt, func(v *model.Variation) any { return v.Stock }, func(v *model.Variation, x any) { v.Stock = x.(int) }},
	{"enabled", kindBool, func(v *model.Variation) any { return v.Enabled }, func(v *model.Variation, x any) { v.Enabled = x.(bool) }},
	{"virtual", kindBool, func(v *model.Variation) any { return v.Virtual }, func(v *model.Variation, x any) { v.Virtual = x.(bool) }},
	{"downloadable", kindBool, func(v *model.Variation) any { return v.Downloadable }, func(v *model.Variation, x any) { v.Downloadable = x.(bool) }},
	{"manage_stock", kindBool, func(v *model.Variation) any { return v.ManageStock }, func(v *model.Variation, x any) { v.ManageStock = x.(bool) }},
	{"weight", kindString, func(v *model.Variation) any { return v.Weight }, func(v *model.Variation, x any) { v.Weight = x.(string) }},
	{"dimensions.length", kindString, func(v *model.Variation) any { return v.Dimensions.Length }, func(v *model.Variation, x any) { v.Dimensions.Length = x.(string) }},
	{"dimensions.width", kindString, func(v *model.Variation) any { return v.Dimensions.Width }, func(v *model.Variation, x any) { v.Dimensions.Width = x.(string) }},
	{"dimensions.height", kindString, func(v *model.Variation) any { return v.Dimensions.Height }, func(v *model.Variation, x any) { v.Dimensions.Height = x.(string) }},
	{"image", kindImage, func(v *model.Variation) any { return v.Image }, func(v *model.Variation, x any) { v.Image = x.(*string) }},
}

// FieldNames lists the editable fields accepted by BulkEdit and Sort.
func FieldNames() []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.name
	}
	return out
}

// lookupField accepts snake_case and camelCase spellings ("salePrice").
func lookupField(name string) (field, bool) {
	norm := normalizeFieldName(name)
	for _, f := range fields {
		if normalizeFieldName(f.name) == norm {
			return f, true
		}
	}
	return field{}, false
}

func normalizeFieldName(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
}

func (f field) coerce(value any) (any, error) {
	switch f.kind {
	case kindString:
		s, ok := asString(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects text, got %T", ErrInvalidFieldValue, f.name, value)
		}
		return s, nil
	case kindInt:
		n, ok := asInt(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an integer, got %v", ErrInvalidFieldValue, f.name, value)
		}
		return n, nil
	case kindBool:
		b, ok := asBool(value)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a boolean, got %v", ErrInvalidFieldValue, f.name, value)
		}
		return b, nil
	case kindImage:
		if value == nil {
			return (*string)(nil), nil
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a URL, got %T", ErrInvalidFieldValue, f.name, value)
		}
		if s == "" {
			return (*string)(nil), nil
		}
		return &s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, f.name)
}

func asString(value any) (string, bool) {
	switch x := value.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	}
	return "", false
}

func asInt(value any) (int, bool) {
	switch x := value.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		n, err := strconv.Atoi(x.String())
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

func asBool(value any) (bool, bool) {
	switch x := value.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	return false, false
}
