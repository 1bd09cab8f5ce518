package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/planforge/factory-planner/pkg/planner"
)

// ceilEpsilon absorbs float noise before rounding a machine count up, so
// a requirement of 3.0000000001 machines still displays as 3.
const ceilEpsilon = 1e-9

// assemble runs demand propagation over the discovered recipe choices
// and packages the final result: nodes and edges in first-discovery
// order, raw totals, grand totals, and status.
func (r *resolution) assemble(res *planner.ResolutionResult) {
	topDown := r.topDownOrder()
	if len(topDown) != len(r.order) {
		res.Status = planner.StatusImpossibleRate
		res.Warnings = append(res.Warnings, "dependency ordering failed: unresolved cycle in recipe graph")
		return
	}

	// Aggregated demand per item. Processing consumers before producers
	// guarantees each item is resolved exactly once, at its final
	// aggregated rate. Loop edges do not feed demand back: a recycling
	// loop's consumption is covered by its own output.
	demand := make(map[string]float64, len(topDown))
	demand[res.TargetItemID] = res.TargetRate
	machines := make(map[string]float64, len(topDown))

	for _, itemID := range topDown {
		d := demand[itemID]
		if d <= 0 {
			continue
		}
		recipe := r.chosen[itemID]

		perMachine := recipe.OutputPerMinute(itemID)
		m := d / perMachine
		if perMachine <= 0 || math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			res.Status = planner.StatusImpossibleRate
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("recipe %q yields unusable machine count for item %q", recipe.ID, itemID))
			return
		}
		machines[itemID] = m

		for _, in := range recipe.Inputs {
			if r.loops[loopKey{consumer: itemID, input: in.ItemID}] {
				continue
			}
			demand[in.ItemID] += m * recipe.InputPerMinute(in.ItemID)
		}
	}

	// Nodes, in first-discovery order.
	cat := r.eng.cat
	nodeIDs := make(map[string]string, len(r.order))
	var warnings []string
	overproduced := false

	for _, itemID := range r.order {
		m := machines[itemID]
		if m == 0 {
			continue
		}
		recipe := r.chosen[itemID]
		nodeID := fmt.Sprintf("node_%d_%s", len(res.Nodes), itemID)
		nodeIDs[itemID] = nodeID

		node := planner.ProductionNode{
			NodeID:          nodeID,
			ItemID:          itemID,
			ItemName:        cat.ItemName(itemID),
			RecipeID:        recipe.ID,
			RecipeName:      recipe.Name,
			MachineType:     recipe.MachineType,
			TargetRate:      demand[itemID],
			MachinesExact:   m,
			MachineCount:    int(math.Ceil(m - ceilEpsilon)),
			PowerPerMachine: recipe.PowerConsumption,
			TotalPower:      recipe.PowerConsumption * m,
			UnlockTier:      recipe.UnlockTier,
			IsAlternate:     recipe.IsAlternate,
		}

		for _, in := range recipe.Inputs {
			node.Inputs = append(node.Inputs, planner.ItemFlow{
				ItemID:   in.ItemID,
				ItemName: cat.ItemName(in.ItemID),
				Rate:     m * recipe.InputPerMinute(in.ItemID),
			})
		}

		var primary, byproduct float64
		for _, out := range recipe.Outputs {
			rate := m * recipe.OutputPerMinute(out.ItemID)
			node.Outputs = append(node.Outputs, planner.ItemFlow{
				ItemID:   out.ItemID,
				ItemName: cat.ItemName(out.ItemID),
				Rate:     rate,
			})
			if out.ItemID == itemID {
				primary = rate
			} else {
				byproduct += rate
			}
		}
		if primary > 0 && byproduct/primary > r.eng.opts.WarnByproductRatio {
			overproduced = true
			warnings = append(warnings,
				fmt.Sprintf("recipe %q overproduces byproducts: %.2f/min unused against %.2f/min of %s",
					recipe.ID, byproduct, primary, itemID))
		}

		res.Nodes = append(res.Nodes, node)
	}

	// Edges, in consumer discovery order. Raw inputs come from a raw
	// sink rather than a producing node and accumulate the raw totals.
	rawTotals := make(map[string]float64)
	var rawOrder []string

	for _, consumer := range r.order {
		m := machines[consumer]
		if m == 0 {
			continue
		}
		recipe := r.chosen[consumer]

		for _, in := range recipe.Inputs {
			edge := planner.Edge{
				EdgeID:          fmt.Sprintf("edge_%d", len(res.Edges)),
				ToNodeID:        nodeIDs[consumer],
				ItemID:          in.ItemID,
				ItemName:        cat.ItemName(in.ItemID),
				Rate:            m * recipe.InputPerMinute(in.ItemID),
				IsRecyclingLoop: r.loops[loopKey{consumer: consumer, input: in.ItemID}],
			}

			if item, ok := cat.Item(in.ItemID); ok && item.IsRawResource {
				edge.IsRawSource = true
				if _, seen := rawTotals[in.ItemID]; !seen {
					rawOrder = append(rawOrder, in.ItemID)
				}
				rawTotals[in.ItemID] += edge.Rate
			} else {
				edge.FromNodeID = nodeIDs[in.ItemID]
			}

			res.Edges = append(res.Edges, edge)
		}
	}

	if len(rawTotals) > 0 {
		res.RawTotals = rawTotals
	}
	for _, itemID := range rawOrder {
		res.RawResources = append(res.RawResources, planner.RawRequirement{
			ItemID:   itemID,
			ItemName: cat.ItemName(itemID),
			Rate:     rawTotals[itemID],
		})
	}

	for _, node := range res.Nodes {
		res.Summary.TotalMachines += node.MachineCount
		res.Summary.TotalPower += node.TotalPower
	}
	res.Summary.TotalRawResources = len(rawTotals)

	res.Warnings = append(res.Warnings, warnings...)
	if overproduced {
		res.Status = planner.StatusResourceWarning
	}
}

// topDownOrder orders the discovered items so that every consumer comes
// before its non-loop inputs (Kahn's algorithm over the consumption
// graph). Loop edges are excluded, which is exactly what makes the
// remaining graph acyclic.
func (r *resolution) topDownOrder() []string {
	inDegree := make(map[string]int, len(r.order))
	adjacency := make(map[string][]string)
	for _, itemID := range r.order {
		inDegree[itemID] = 0
	}

	for _, consumer := range r.order {
		recipe := r.chosen[consumer]
		seen := make(map[string]bool)
		for _, in := range recipe.Inputs {
			if r.loops[loopKey{consumer: consumer, input: in.ItemID}] {
				continue
			}
			if _, isChosen := r.chosen[in.ItemID]; !isChosen {
				continue // raw resource, not part of the ordering
			}
			if seen[in.ItemID] {
				continue
			}
			seen[in.ItemID] = true
			adjacency[consumer] = append(adjacency[consumer], in.ItemID)
			inDegree[in.ItemID]++
		}
	}

	var queue []string
	for _, itemID := range r.order {
		if inDegree[itemID] == 0 {
			queue = append(queue, itemID)
		}
	}

	sorted := make([]string, 0, len(r.order))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, next := range adjacency[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return sorted
}

// sortedKeys returns the keys of a set in lexicographic order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
