package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/planforge/factory-planner/internal/planner/catalog"
	"github.com/planforge/factory-planner/pkg/planner"
)

// mustCatalog builds a validated catalog or fails the test.
func mustCatalog(t *testing.T, items []planner.Item, recipes []planner.Recipe) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(items, recipes)
	require.NoError(t, err)
	return cat
}

func rawItem(id, name string) planner.Item {
	return planner.Item{ID: id, Name: name, Category: "Raw Resource", StackSize: 100, IsRawResource: true}
}

func craftedItem(id, name string) planner.Item {
	return planner.Item{ID: id, Name: name, Category: "Material", StackSize: 100}
}

// ironChainCatalog is the standard test fixture: a five-recipe chain
// from iron ore up to reinforced iron plates.
//
//	iron_ore -> iron_ingot -> iron_plate ----\
//	                \-> iron_rod -> screw ----+-> reinforced_iron_plate
//
// Per-machine rates: ingot 30/min, plate 20/min, rod 15/min,
// screw 40/min, reinforced plate 5/min.
func ironChainCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	items := []planner.Item{
		rawItem("iron_ore", "Iron Ore"),
		craftedItem("iron_ingot", "Iron Ingot"),
		craftedItem("iron_plate", "Iron Plate"),
		craftedItem("iron_rod", "Iron Rod"),
		craftedItem("screw", "Screw"),
		craftedItem("reinforced_iron_plate", "Reinforced Iron Plate"),
	}

	recipes := []planner.Recipe{
		{
			ID: "iron_ingot", Name: "Iron Ingot", MachineType: "Smelter",
			PowerConsumption: 4, CycleSeconds: 2,
			Inputs:  []planner.RecipeFlow{{ItemID: "iron_ore", Amount: 1}},
			Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
		},
		{
			ID: "iron_plate", Name: "Iron Plate", MachineType: "Constructor",
			PowerConsumption: 4, CycleSeconds: 6,
			Inputs:  []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 3}},
			Outputs: []planner.RecipeFlow{{ItemID: "iron_plate", Amount: 2}},
		},
		{
			ID: "iron_rod", Name: "Iron Rod", MachineType: "Constructor",
			PowerConsumption: 4, CycleSeconds: 4,
			Inputs:  []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
			Outputs: []planner.RecipeFlow{{ItemID: "iron_rod", Amount: 1}},
		},
		{
			ID: "screw", Name: "Screw", MachineType: "Constructor",
			PowerConsumption: 4, CycleSeconds: 6,
			Inputs:  []planner.RecipeFlow{{ItemID: "iron_rod", Amount: 1}},
			Outputs: []planner.RecipeFlow{{ItemID: "screw", Amount: 4}},
		},
		{
			ID: "reinforced_iron_plate", Name: "Reinforced Iron Plate", MachineType: "Assembler",
			PowerConsumption: 15, CycleSeconds: 12,
			Inputs: []planner.RecipeFlow{
				{ItemID: "iron_plate", Amount: 6},
				{ItemID: "screw", Amount: 12},
			},
			Outputs: []planner.RecipeFlow{{ItemID: "reinforced_iron_plate", Amount: 1}},
		},
	}

	return mustCatalog(t, items, recipes)
}

// ironChainRecipeIDs lists every recipe in the iron chain fixture.
func ironChainRecipeIDs() []string {
	return []string{"iron_ingot", "iron_plate", "iron_rod", "screw", "reinforced_iron_plate"}
}

// nodeByItem finds the node producing itemID, or fails the test.
func nodeByItem(t *testing.T, res *planner.ResolutionResult, itemID string) planner.ProductionNode {
	t.Helper()
	for _, node := range res.Nodes {
		if node.ItemID == itemID {
			return node
		}
	}
	t.Fatalf("no node produces %s", itemID)
	return planner.ProductionNode{}
}
