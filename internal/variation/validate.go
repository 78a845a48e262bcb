package variation

import (
	"fmt"
	"strings"

	"github.com/devmojahid/restu-food-sub005/internal/model"
)

// ValidateKeyTuple checks that tuple picks exactly one defined value for every
// attribute used for variations and names nothing else.
func ValidateKeyTuple(attrs model.AttributeSet, tuple model.KeyTuple) error {
	participating := 0
	for _, a := range attrs {
		if !a.UsedForVariations {
			continue
		}
		participating++
		v, ok := tuple[a.Name]
		if !ok {
			return fmt.Errorf("%w: missing %q", ErrIncompleteKeyTuple, a.Name)
		}
		if !contains(a.Values, v) {
			return fmt.Errorf("%w: %q has no value %q", ErrUnknownValue, a.Name, v)
		}
	}
	if participating == 0 {
		return ErrNoVariationAttributes
	}
	for name := range tuple {
		a, ok := attrs.Find(name)
		if !ok || !a.UsedForVariations {
			return fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
		}
	}
	return nil
}

// NormalizeAttributes trims names and values, drops empty values and removes
// duplicate values keeping the first occurrence. Attribute names must be
// non-empty and unique.
func NormalizeAttributes(attrs model.AttributeSet) (model.AttributeSet, error) {
	out := make(model.AttributeSet, 0, len(attrs))
	seen := make(map[string]struct{}, len(attrs))

	for _, a := range attrs {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, ErrEmptyAttributeName
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateAttribute, name)
		}
		seen[name] = struct{}{}

		n := model.Attribute{
			Name:              name,
			Values:            NormalizeValues(a.Values),
			UsedForVariations: a.UsedForVariations,
		}
		if a.GlobalID != nil && strings.TrimSpace(*a.GlobalID) != "" {
			gid := strings.TrimSpace(*a.GlobalID)
			n.GlobalID = &gid
			n.IsGlobal = true
		}
		out = append(out, n)
	}
	return out, nil
}

// NormalizeValues trims, drops empties and de-duplicates preserving order.
func NormalizeValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
