package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planforge/factory-planner/pkg/planner"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	database, err := OpenAndInit(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestCatalogStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore(testDB(t))

	items := []planner.Item{
		{ID: "iron_ore", Name: "Iron Ore", Category: "Raw Resource", StackSize: 100, IsRawResource: true},
		{ID: "iron_ingot", Name: "Iron Ingot", Category: "Material", StackSize: 100},
	}
	recipes := []planner.Recipe{
		{
			ID: "iron_ingot", Name: "Iron Ingot", Category: "Smelting", MachineType: "Smelter",
			PowerConsumption: 4, CycleSeconds: 2, UnlockTier: 1,
			Inputs:  []planner.RecipeFlow{{ItemID: "iron_ore", Amount: 1}},
			Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
		},
	}

	require.NoError(t, store.BulkInsertItems(ctx, items))
	require.NoError(t, store.BulkInsertRecipes(ctx, recipes))

	gotItems, err := store.LoadItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, gotItems)

	gotRecipes, err := store.LoadRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, recipes, gotRecipes)

	count, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBulkInsertReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewCatalogStore(testDB(t))

	require.NoError(t, store.BulkInsertItems(ctx, []planner.Item{
		{ID: "iron_ore", Name: "Iron Ore"},
	}))
	require.NoError(t, store.BulkInsertItems(ctx, []planner.Item{
		{ID: "iron_ore", Name: "Iron Ore (renamed)", StackSize: 50},
	}))

	items, err := store.LoadItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Iron Ore (renamed)", items[0].Name)
	assert.Equal(t, 50, items[0].StackSize)
}

func TestClearCatalogCascadesFlows(t *testing.T) {
	ctx := context.Background()
	database := testDB(t)
	store := NewCatalogStore(database)

	require.NoError(t, store.BulkInsertItems(ctx, []planner.Item{
		{ID: "iron_ore", Name: "Iron Ore", IsRawResource: true},
		{ID: "iron_ingot", Name: "Iron Ingot"},
	}))
	require.NoError(t, store.BulkInsertRecipes(ctx, []planner.Recipe{{
		ID: "iron_ingot", Name: "Iron Ingot", MachineType: "Smelter", CycleSeconds: 2,
		Inputs:  []planner.RecipeFlow{{ItemID: "iron_ore", Amount: 1}},
		Outputs: []planner.RecipeFlow{{ItemID: "iron_ingot", Amount: 1}},
	}}))

	require.NoError(t, store.ClearCatalog(ctx))

	items, err := store.LoadItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	var flowCount int
	err = database.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipe_flows`).Scan(&flowCount)
	require.NoError(t, err)
	assert.Zero(t, flowCount)
}

func TestSyncMetadata(t *testing.T) {
	ctx := context.Background()
	database := testDB(t)

	// Missing keys read as empty, not as errors.
	val, err := database.GetSyncMetadata(ctx, "items_last_sync")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, database.SetSyncMetadata(ctx, "items_last_sync", "2026-08-23T00:00:00Z"))
	require.NoError(t, database.SetSyncMetadata(ctx, "items_last_sync", "2026-08-23T12:00:00Z"))

	val, err = database.GetSyncMetadata(ctx, "items_last_sync")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-23T12:00:00Z", val)
}
