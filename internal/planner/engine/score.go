package engine

import (
	"math"

	"github.com/planforge/factory-planner/pkg/planner"
)

// scoreEpsilon is the float tolerance below which two recipe scores are
// considered tied, handing selection to the tie-break rules.
const scoreEpsilon = 1e-9

// scoreRecipe scores a candidate recipe for producing itemID under the
// given priority. Lower is better; selection is a minimization.
// Recipes that cannot produce itemID score +Inf.
func (e *Engine) scoreRecipe(recipe *planner.Recipe, itemID string, priority planner.Priority) float64 {
	primary := recipe.OutputPerMinute(itemID)
	if primary <= 0 {
		return math.Inf(1)
	}

	// Machines needed per 60/min of target output.
	machineScore := 60 / primary

	// Power draw per unit of net output.
	powerScore := recipe.PowerConsumption / primary

	// Undemanded byproduct output relative to the primary output.
	var byproduct float64
	for _, out := range recipe.Outputs {
		if out.ItemID != itemID {
			byproduct += out.Amount / recipe.CycleSeconds * 60
		}
	}
	wasteScore := byproduct / primary

	switch priority {
	case planner.PriorityMinimizeMachines:
		return machineScore
	case planner.PriorityMinimizePower:
		return powerScore
	case planner.PriorityMinimizeWaste:
		return wasteScore
	default:
		w := e.opts.Weights
		total := w.Machines + w.Power + w.Waste
		if total <= 0 {
			total = 1
		}
		return (w.Machines*machineScore + w.Power*powerScore + w.Waste*wasteScore) / total
	}
}

// selectRecipe picks the best-scoring recipe for itemID from the given
// candidate IDs. Ties go to the non-alternate recipe first, then to the
// lexicographically smaller recipe ID. candidateIDs must be sorted,
// which the catalog's producer index guarantees.
func (e *Engine) selectRecipe(itemID string, candidateIDs []string, priority planner.Priority) (planner.Recipe, bool) {
	var best planner.Recipe
	bestScore := math.Inf(1)
	found := false

	for _, id := range candidateIDs {
		recipe, ok := e.cat.Recipe(id)
		if !ok {
			continue
		}
		score := e.scoreRecipe(&recipe, itemID, priority)
		if math.IsInf(score, 1) {
			continue
		}

		switch {
		case !found || score < bestScore-scoreEpsilon:
			best, bestScore, found = recipe, score, true
		case math.Abs(score-bestScore) <= scoreEpsilon:
			// Tied on score: base recipe beats alternate. A further tie
			// keeps the earlier (lexicographically smaller) candidate.
			if best.IsAlternate && !recipe.IsAlternate {
				best, bestScore = recipe, score
			}
		}
	}

	return best, found
}
