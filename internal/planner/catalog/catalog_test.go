package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planforge/factory-planner/pkg/planner"
)

func testItems() []planner.Item {
	return []planner.Item{
		{ID: "iron_ore", Name: "Iron Ore", IsRawResource: true},
		{ID: "iron_ingot", Name: "Iron Ingot"},
		{ID: "iron_plate", Name: "Iron Plate"},
	}
}

func testRecipes() []planner.Recipe {
	return []planner.Recipe{
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
	}
}

func TestNewValidCatalog(t *testing.T) {
	cat, err := New(testItems(), testRecipes())
	require.NoError(t, err)

	assert.Equal(t, 3, cat.ItemCount())
	assert.Equal(t, 2, cat.RecipeCount())

	item, ok := cat.Item("iron_ore")
	require.True(t, ok)
	assert.True(t, item.IsRawResource)

	_, ok = cat.Item("nope")
	assert.False(t, ok)

	assert.Equal(t, "Iron Plate", cat.ItemName("iron_plate"))
	assert.Equal(t, "nope", cat.ItemName("nope"))
}

func TestNewRejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		items   []planner.Item
		recipes []planner.Recipe
	}{
		{
			name:    "missing item name",
			items:   []planner.Item{{ID: "x"}},
			recipes: nil,
		},
		{
			name:    "duplicate item id",
			items:   append(testItems(), planner.Item{ID: "iron_ore", Name: "Again"}),
			recipes: nil,
		},
		{
			name:  "duplicate recipe id",
			items: testItems(),
			recipes: append(testRecipes(), planner.Recipe{
				ID: "iron_ingot", Name: "Again", MachineType: "Smelter", CycleSeconds: 1,
				Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
			}),
		},
		{
			name:  "unknown input item",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 1,
				Inputs:  []planner.RecipeFlow{{ItemID: "mystery", Amount: 1}},
				Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
			}},
		},
		{
			name:  "unknown output item",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 1,
				Outputs: []planner.RecipeFlow{{ItemID: "mystery", Amount: 1}},
			}},
		},
		{
			name:  "duplicate input flow",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 1,
				Inputs: []planner.RecipeFlow{
					{ItemID: "iron_ore", Amount: 1},
					{ItemID: "iron_ore", Amount: 2},
				},
				Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
			}},
		},
		{
			name:  "non-positive flow amount",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 1,
				Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 0}},
			}},
		},
		{
			name:  "zero cycle time",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 0,
				Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
			}},
		},
		{
			name:  "no outputs",
			items: testItems(),
			recipes: []planner.Recipe{{
				ID: "bad", Name: "Bad", MachineType: "Smelter", CycleSeconds: 1,
				Inputs: []planner.RecipeFlow{{ItemID: "iron_ore", Amount: 1}},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.items, tc.recipes)
			assert.Error(t, err)
		})
	}
}

func TestRecipesProducingSorted(t *testing.T) {
	items := testItems()
	recipes := testRecipes()
	recipes = append(recipes, planner.Recipe{
		ID: "alt_ingot", Name: "Alternate Ingot", MachineType: "Foundry",
		PowerConsumption: 16, CycleSeconds: 3, IsAlternate: true,
		Inputs:  []planner.RecipeFlow{{ItemID: "iron_ore", Amount: 2}},
		Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 3}},
	})

	cat, err := New(items, recipes)
	require.NoError(t, err)

	assert.Equal(t, []string{"alt_ingot", "iron_ingot"}, cat.RecipesProducing("iron_ingot"))
	assert.Empty(t, cat.RecipesProducing("iron_ore"))
}

func TestRecipesConsuming(t *testing.T) {
	cat, err := New(testItems(), testRecipes())
	require.NoError(t, err)

	assert.Equal(t, []string{"iron_plate"}, cat.RecipesConsuming("iron_ingot"))
	assert.Equal(t, []string{"iron_ingot"}, cat.RecipesConsuming("iron_ore"))
	assert.Empty(t, cat.RecipesConsuming("iron_plate"))
}

func TestItemsAndRecipesSortedByID(t *testing.T) {
	cat, err := New(testItems(), testRecipes())
	require.NoError(t, err)

	items := cat.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "iron_ingot", items[0].ID)
	assert.Equal(t, "iron_ore", items[1].ID)
	assert.Equal(t, "iron_plate", items[2].ID)

	recipes := cat.Recipes()
	require.Len(t, recipes, 2)
	assert.Equal(t, "iron_ingot", recipes[0].ID)
	assert.Equal(t, "iron_plate", recipes[1].ID)
}
