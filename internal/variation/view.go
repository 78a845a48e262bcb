package variation

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/devmojahid/restu-food-sub005/internal/model"
)

// attrSortPrefix addresses a key-tuple column in Sort, e.g. "attr:Size".
const attrSortPrefix = "attr:"

// Filter keeps variations where any field value, key-tuple values and
// dimensions included, contains query case-insensitively.
func Filter(list []model.Variation, query string) []model.Variation {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Variation, 0, len(list))
	for _, v := range list {
		if q == "" || matches(v, q) {
			out = append(out, v.Clone())
		}
	}
	return out
}

func matches(v model.Variation, q string) bool {
	for _, s := range searchable(v) {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func searchable(v model.Variation) []string {
	out := []string{
		v.ID,
		v.SKU,
		v.Price,
		v.SalePrice,
		strconv.Itoa(v.Stock),
		strconv.FormatBool(v.Enabled),
		strconv.FormatBool(v.Virtual),
		strconv.FormatBool(v.Downloadable),
		strconv.FormatBool(v.ManageStock),
		v.Weight,
		v.Dimensions.Length,
		v.Dimensions.Width,
		v.Dimensions.Height,
	}
	if v.Image != nil {
		out = append(out, *v.Image)
	}
	for _, val := range v.KeyTuple {
		out = append(out, val)
	}
	return out
}

// Sort orders a copy of list by one field. Ties keep their original order in
// both directions. An empty field returns the list unchanged.
func Sort(list []model.Variation, fieldName string, desc bool) ([]model.Variation, error) {
	out := make([]model.Variation, len(list))
	for i, v := range list {
		out[i] = v.Clone()
	}
	if strings.TrimSpace(fieldName) == "" {
		return out, nil
	}

	key, err := sortKey(fieldName)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return compare(key(&out[j]), key(&out[i])) < 0
		}
		return compare(key(&out[i]), key(&out[j])) < 0
	})
	return out, nil
}

func sortKey(fieldName string) (func(v *model.Variation) any, error) {
	if name, ok := strings.CutPrefix(fieldName, attrSortPrefix); ok {
		return func(v *model.Variation) any { return v.KeyTuple[name] }, nil
	}
	if normalizeFieldName(fieldName) == "id" {
		return func(v *model.Variation) any { return v.ID }, nil
	}
	f, ok := lookupField(fieldName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, fieldName)
	}
	return f.get, nil
}

func compare(a, b any) int {
	switch x := a.(type) {
	case int:
		y := b.(int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case *string:
		return compareStrings(deref(x), deref(b.(*string)))
	case string:
		return compareStrings(x, b.(string))
	}
	return 0
}

// compareStrings puts numeric values first, ordered by value so that "9.99"
// sorts before "10", then everything else in case-insensitive text order.
func compareStrings(a, b string) int {
	fa, okA := parseNumber(a)
	fb, okB := parseNumber(b)
	switch {
	case okA && okB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
