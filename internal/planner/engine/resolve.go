package engine

import (
	"fmt"
	"math"

	"github.com/planforge/factory-planner/pkg/planner"
)

// loopKey identifies a dependency edge flagged as a recycling loop:
// consumer is the item whose recipe consumes input, and input is already
// on the resolution path when the edge is expanded.
type loopKey struct {
	consumer string
	input    string
}

// resolution is the per-call working state of one Resolve invocation.
// It is created fresh per call and discarded with it.
type resolution struct {
	eng      *Engine
	unlocked map[string]bool
	priority planner.Priority

	chosen  map[string]planner.Recipe // item ID -> the one recipe selected for it
	order   []string                  // non-raw items in first-discovery order
	onPath  map[string]bool           // items on the current expansion path
	visited map[string]bool
	loops   map[loopKey]bool
	missing map[string]bool // recipe IDs needed but not unlocked
	fault   string          // catalog data-integrity fault, fatal for the call
}

// Resolve computes a production plan for the requested target item and
// rate, restricted to the unlocked recipe set. Failures are reported
// through the result status, never as errors: resolution is a total
// function of its inputs.
func (e *Engine) Resolve(req planner.ResolveRequest) *planner.ResolutionResult {
	priority := req.Priority
	if !priority.IsValid() {
		priority = planner.PriorityBalanced
	}

	res := &planner.ResolutionResult{
		Status:       planner.StatusSuccess,
		TargetItemID: req.TargetItemID,
		TargetRate:   req.TargetRate,
		Priority:     priority,
	}

	if req.TargetRate <= 0 || math.IsNaN(req.TargetRate) || math.IsInf(req.TargetRate, 0) {
		res.Status = planner.StatusImpossibleRate
		res.Warnings = append(res.Warnings, fmt.Sprintf("target rate must be positive, got %v", req.TargetRate))
		return res
	}

	target, ok := e.cat.Item(req.TargetItemID)
	if !ok {
		res.Status = planner.StatusImpossibleRate
		res.Warnings = append(res.Warnings, fmt.Sprintf("item %q not found in catalog", req.TargetItemID))
		return res
	}
	res.TargetItemName = target.Name

	// A raw target needs no production chain, only extraction.
	if target.IsRawResource {
		res.RawTotals = map[string]float64{target.ID: req.TargetRate}
		res.RawResources = []planner.RawRequirement{{
			ItemID:   target.ID,
			ItemName: target.Name,
			Rate:     req.TargetRate,
		}}
		res.Summary = planner.PlanSummary{TotalRawResources: 1}
		return res
	}

	r := &resolution{
		eng:      e,
		unlocked: make(map[string]bool, len(req.UnlockedRecipes)),
		priority: priority,
		chosen:   make(map[string]planner.Recipe),
		onPath:   make(map[string]bool),
		visited:  make(map[string]bool),
		loops:    make(map[loopKey]bool),
		missing:  make(map[string]bool),
	}
	for _, id := range req.UnlockedRecipes {
		r.unlocked[id] = true
	}

	r.discover(req.TargetItemID)

	if r.fault != "" {
		res.Status = planner.StatusImpossibleRate
		res.Warnings = append(res.Warnings, r.fault)
		return res
	}

	if len(r.missing) > 0 {
		// Recoverable shortfall: report the complete missing set and no
		// partial plan. The caller can preview by re-resolving with the
		// missing recipes added to the unlocked set.
		res.Status = planner.StatusInsufficientRecipes
		res.MissingRecipes = sortedKeys(r.missing)
		return res
	}

	r.assemble(res)
	return res
}

// discover walks the recipe graph from itemID, fixing exactly one chosen
// recipe per reachable non-raw item. Cycle detection happens here: an
// input that is already on the current path closes a recycling loop and
// is not expanded again.
func (r *resolution) discover(itemID string) {
	if r.fault != "" || r.visited[itemID] {
		return
	}

	item, ok := r.eng.cat.Item(itemID)
	if !ok {
		// Catalog construction validates referential integrity, so this
		// only fires on a corrupted catalog.
		r.fault = fmt.Sprintf("item %q referenced but not in catalog", itemID)
		return
	}

	if item.IsRawResource {
		r.visited[itemID] = true
		return
	}

	candidates := r.eng.cat.RecipesProducing(itemID)
	if len(candidates) == 0 {
		r.fault = fmt.Sprintf("no recipe produces non-raw item %q", itemID)
		return
	}

	recipe, found := r.eng.selectRecipe(itemID, filterUnlocked(candidates, r.unlocked), r.priority)
	if !found {
		// Nothing unlocked produces this item. Score the full candidate
		// set as if unlocked and keep walking, so a single call reports
		// every recipe the caller is short of.
		recipe, found = r.eng.selectRecipe(itemID, candidates, r.priority)
		if !found {
			r.fault = fmt.Sprintf("no usable recipe produces item %q", itemID)
			return
		}
		r.missing[recipe.ID] = true
	}

	r.chosen[itemID] = recipe
	r.order = append(r.order, itemID)
	r.onPath[itemID] = true

	for _, in := range recipe.Inputs {
		if r.onPath[in.ItemID] {
			r.loops[loopKey{consumer: itemID, input: in.ItemID}] = true
			continue
		}
		r.discover(in.ItemID)
		if r.fault != "" {
			return
		}
	}

	delete(r.onPath, itemID)
	r.visited[itemID] = true
}

// filterUnlocked returns the candidate IDs present in the unlocked set,
// preserving order.
func filterUnlocked(candidates []string, unlocked map[string]bool) []string {
	var out []string
	for _, id := range candidates {
		if unlocked[id] {
			out = append(out, id)
		}
	}
	return out
}
