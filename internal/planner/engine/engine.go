// Package engine contains the production plan resolution logic.
package engine

import (
	"github.com/planforge/factory-planner/internal/planner/catalog"
	"github.com/planforge/factory-planner/pkg/planner"
)

// ScoreWeights controls the relative weighting of the component scores
// under the balanced priority.
type ScoreWeights struct {
	Machines float64
	Power    float64
	Waste    float64
}

// Options tunes resolution policy.
type Options struct {
	// Weights applies under PriorityBalanced only.
	Weights ScoreWeights

	// WarnByproductRatio is the undemanded-byproduct-to-primary-output
	// ratio above which a node triggers a resource warning.
	WarnByproductRatio float64
}

// DefaultOptions returns the default resolution policy: equal balanced
// weights, byproduct warning at half the primary output rate.
func DefaultOptions() Options {
	return Options{
		Weights:            ScoreWeights{Machines: 1, Power: 1, Waste: 1},
		WarnByproductRatio: 0.5,
	}
}

// Engine resolves production plans against a read-only catalog. An
// Engine holds no mutable state between calls; a single Engine may be
// used from multiple goroutines.
type Engine struct {
	cat  *catalog.Catalog
	opts Options
}

// New creates an Engine with default options.
func New(cat *catalog.Catalog) *Engine {
	return NewWithOptions(cat, DefaultOptions())
}

// NewWithOptions creates an Engine with explicit policy options.
func NewWithOptions(cat *catalog.Catalog, opts Options) *Engine {
	if opts.Weights == (ScoreWeights{}) {
		opts.Weights = DefaultOptions().Weights
	}
	if opts.WarnByproductRatio <= 0 {
		opts.WarnByproductRatio = DefaultOptions().WarnByproductRatio
	}
	return &Engine{cat: cat, opts: opts}
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// ItemUse describes one recipe consuming a given item.
type ItemUse struct {
	Recipe         planner.Recipe `json:"recipe"`
	AmountPerCycle float64        `json:"amount_per_cycle"`
	RatePerMachine float64        `json:"rate_per_machine"`
}

// ItemUses returns every recipe that consumes the given item, in
// lexicographic recipe order, with the per-cycle and per-machine
// consumption amounts.
func (e *Engine) ItemUses(itemID string) []ItemUse {
	var uses []ItemUse
	for _, recipeID := range e.cat.RecipesConsuming(itemID) {
		recipe, ok := e.cat.Recipe(recipeID)
		if !ok {
			continue
		}
		var perCycle float64
		for _, in := range recipe.Inputs {
			if in.ItemID == itemID {
				perCycle = in.Amount
				break
			}
		}
		uses = append(uses, ItemUse{
			Recipe:         recipe,
			AmountPerCycle: perCycle,
			RatePerMachine: recipe.InputPerMinute(itemID),
		})
	}
	return uses
}
