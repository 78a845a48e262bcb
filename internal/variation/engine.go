package variation

import (
	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/google/uuid"
)

// IDFunc synthesizes identifiers for new variations.
type IDFunc func() string

type Engine struct {
	newID IDFunc
}

type Option func(*Engine)

// WithIDFunc replaces the default random UUID source.
func WithIDFunc(fn IDFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// maxIDAttempts bounds retries against a misbehaving IDFunc before falling
// back to a random UUID.
const maxIDAttempts = 8

// Regenerate recomputes the combinations of attrs and reconciles them with
// existing. A combination matching an existing key tuple keeps that
// variation's id and fields; every other combination gets a default variation
// with a fresh id. Existing variations whose tuple is no longer generated are
// dropped, so the result's key tuples are exactly Combinations(attrs).
func (e *Engine) Regenerate(attrs model.AttributeSet, existing []model.Variation) []model.Variation {
	tuples := Combinations(attrs)

	// Each existing variation may be claimed once. Duplicate generated tuples
	// (from duplicate attribute values) therefore never share an id.
	pool := make(map[string][]int, len(existing))
	taken := make(map[string]struct{}, len(existing)+len(tuples))
	for i, v := range existing {
		k := v.KeyTuple.Key()
		pool[k] = append(pool[k], i)
		taken[v.ID] = struct{}{}
	}

	out := make([]model.Variation, 0, len(tuples))
	var fresh []int
	for _, tuple := range tuples {
		k := tuple.Key()
		if idx := pool[k]; len(idx) > 0 {
			pool[k] = idx[1:]
			out = append(out, existing[idx[0]].Clone())
			continue
		}
		out = append(out, defaultVariation(tuple))
		fresh = append(fresh, len(out)-1)
	}

	for _, i := range fresh {
		out[i].ID = e.uniqueID(taken)
	}
	return out
}

// AddManual appends one variation for tuple, seeded from seed with defaults
// for everything seed leaves unset. Duplicate tuples are allowed.
func (e *Engine) AddManual(tuple model.KeyTuple, seed Patch, existing []model.Variation) []model.Variation {
	taken := make(map[string]struct{}, len(existing))
	out := make([]model.Variation, 0, len(existing)+1)
	for _, v := range existing {
		taken[v.ID] = struct{}{}
		out = append(out, v.Clone())
	}

	v := defaultVariation(tuple.Clone())
	seed.Apply(&v)
	v.ID = e.uniqueID(taken)
	return append(out, v)
}

func (e *Engine) uniqueID(taken map[string]struct{}) string {
	for i := 0; i < maxIDAttempts; i++ {
		id := e.newID()
		if _, dup := taken[id]; id != "" && !dup {
			taken[id] = struct{}{}
			return id
		}
	}
	for {
		id := uuid.NewString()
		if _, dup := taken[id]; !dup {
			taken[id] = struct{}{}
			return id
		}
	}
}

// Defaults returns the seed every generated variation starts from.
func Defaults() model.Variation {
	return defaultVariation(nil)
}

func defaultVariation(tuple model.KeyTuple) model.Variation {
	return model.Variation{
		KeyTuple:     tuple,
		SKU:          "",
		Price:        "",
		SalePrice:    "",
		Stock:        0,
		Enabled:      true,
		Virtual:      false,
		Downloadable: false,
		ManageStock:  true,
		Weight:       "",
		Dimensions:   model.Dimensions{},
		Image:        nil,
	}
}

var defaultEngine = NewEngine()

// Regenerate runs Engine.Regenerate with random UUID identifiers.
func Regenerate(attrs model.AttributeSet, existing []model.Variation) []model.Variation {
	return defaultEngine.Regenerate(attrs, existing)
}

// AddManual runs Engine.AddManual with random UUID identifiers.
func AddManual(tuple model.KeyTuple, seed Patch, existing []model.Variation) []model.Variation {
	return defaultEngine.AddManual(tuple, seed, existing)
}
