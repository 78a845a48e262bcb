package variation

import (
	"fmt"

	"github.com/devmojahid/restu-food-sub005/internal/model"
)

// BulkEdit sets one field to value on every variation whose id is in ids.
// Other fields and unselected variations are copied unchanged; ids that match
// nothing are ignored.
func BulkEdit(ids []string, fieldName string, value any, existing []model.Variation) ([]model.Variation, error) {
	f, ok := lookupField(fieldName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, fieldName)
	}
	coerced, err := f.coerce(value)
	if err != nil {
		return nil, err
	}

	selected := idSet(ids)
	out := make([]model.Variation, len(existing))
	for i, v := range existing {
		out[i] = v.Clone()
		if _, ok := selected[v.ID]; ok {
			set := coerced
			if img, isImg := coerced.(*string); isImg && img != nil {
				cp := *img
				set = &cp
			}
			f.set(&out[i], set)
		}
	}
	return out, nil
}

// Delete removes every variation whose id is in ids.
func Delete(ids []string, existing []model.Variation) []model.Variation {
	selected := idSet(ids)
	out := make([]model.Variation, 0, len(existing))
	for _, v := range existing {
		if _, ok := selected[v.ID]; ok {
			continue
		}
		out = append(out, v.Clone())
	}
	return out
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
