package variation

import "github.com/devmojahid/restu-food-sub005/internal/model"

// Combinations returns the Cartesian product of the values of every attribute
// used for variations, in attribute order with the last attribute varying
// fastest. No participating attribute means nothing to generate, and a
// participating attribute without values collapses the product to empty.
func Combinations(attrs model.AttributeSet) []model.KeyTuple {
	var acc []model.KeyTuple
	started := false

	for _, a := range attrs {
		if !a.UsedForVariations {
			continue
		}
		if !started {
			started = true
			acc = make([]model.KeyTuple, 0, len(a.Values))
			for _, v := range a.Values {
				acc = append(acc, model.KeyTuple{a.Name: v})
			}
			continue
		}

		next := make([]model.KeyTuple, 0, len(acc)*len(a.Values))
		for _, tuple := range acc {
			for _, v := range a.Values {
				t := tuple.Clone()
				t[a.Name] = v
				next = append(next, t)
			}
		}
		acc = next
	}

	if acc == nil {
		return []model.KeyTuple{}
	}
	return acc
}

// Count is len(Combinations(attrs)) without building the tuples.
func Count(attrs model.AttributeSet) int {
	n, started := 1, false
	for _, a := range attrs {
		if !a.UsedForVariations {
			continue
		}
		started = true
		n *= len(a.Values)
	}
	if !started {
		return 0
	}
	return n
}
