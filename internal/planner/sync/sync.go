// Package sync handles importing catalog data into the planner store.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/planforge/factory-planner/internal/planner/db"
	"github.com/planforge/factory-planner/pkg/planner"
)

// Syncer handles catalog data imports.
type Syncer struct {
	db *db.DB
}

// NewSyncer creates a new Syncer.
func NewSyncer(database *db.DB) *Syncer {
	return &Syncer{db: database}
}

// ItemImport is the accepted item record shape. Field aliases cover the
// export formats of the common planner datasets.
type ItemImport struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	StackSize     int    `json:"stack_size,omitempty"`
	StackSizeAlt  int    `json:"stackSize,omitempty"`
	IsRawResource bool   `json:"is_raw_resource,omitempty"`
	IsRawAlt      bool   `json:"isRawResource,omitempty"`
}

// FlowImport is one input or output entry of a recipe record.
type FlowImport struct {
	Item    string  `json:"item,omitempty"`
	ItemID  string  `json:"item_id,omitempty"`
	Amount  float64 `json:"amount"`
}

// RecipeImport is the accepted recipe record shape.
type RecipeImport struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Category         string       `json:"category,omitempty"`
	MachineType      string       `json:"machine_type,omitempty"`
	MachineTypeAlt   string       `json:"machineType,omitempty"`
	PowerConsumption float64      `json:"power_consumption,omitempty"`
	PowerAlt         float64      `json:"powerConsumption,omitempty"`
	CycleSeconds     float64      `json:"cycle_seconds,omitempty"`
	CraftingSpeedAlt float64      `json:"craftingSpeed,omitempty"`
	UnlockTier       int          `json:"unlock_tier,omitempty"`
	UnlockTierAlt    int          `json:"unlockTier,omitempty"`
	IsAlternate      bool         `json:"is_alternate,omitempty"`
	AlternateAlt     bool         `json:"alternateRecipe,omitempty"`
	Inputs           []FlowImport `json:"inputs"`
	Outputs          []FlowImport `json:"outputs"`
}

// ImportItemsFromFile imports items from a JSON file.
func (s *Syncer) ImportItemsFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var imports []ItemImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	items := make([]planner.Item, 0, len(imports))
	for _, imp := range imports {
		items = append(items, transformItem(imp))
	}

	store := db.NewCatalogStore(s.db)
	if err := store.BulkInsertItems(ctx, items); err != nil {
		return fmt.Errorf("inserting items: %w", err)
	}

	if err := s.db.SetSyncMetadata(ctx, "items_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	return s.db.SetSyncMetadata(ctx, "items_count", fmt.Sprintf("%d", len(items)))
}

// ImportRecipesFromFile imports recipes from a JSON file.
func (s *Syncer) ImportRecipesFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var imports []RecipeImport
	if err := json.Unmarshal(data, &imports); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	recipes := make([]planner.Recipe, 0, len(imports))
	for _, imp := range imports {
		recipes = append(recipes, transformRecipe(imp))
	}

	store := db.NewCatalogStore(s.db)
	if err := store.BulkInsertRecipes(ctx, recipes); err != nil {
		return fmt.Errorf("inserting recipes: %w", err)
	}

	if err := s.db.SetSyncMetadata(ctx, "recipes_last_sync", time.Now().Format(time.RFC3339)); err != nil {
		return err
	}
	return s.db.SetSyncMetadata(ctx, "recipes_count", fmt.Sprintf("%d", len(recipes)))
}

// transformItem converts import format to domain format.
func transformItem(imp ItemImport) planner.Item {
	item := planner.Item{
		ID:            imp.ID,
		Name:          imp.Name,
		Category:      imp.Category,
		StackSize:     imp.StackSize,
		IsRawResource: imp.IsRawResource || imp.IsRawAlt,
	}
	if item.StackSize == 0 {
		item.StackSize = imp.StackSizeAlt
	}
	return item
}

// transformRecipe converts import format to domain format.
func transformRecipe(imp RecipeImport) planner.Recipe {
	recipe := planner.Recipe{
		ID:               imp.ID,
		Name:             imp.Name,
		Category:         imp.Category,
		MachineType:      imp.MachineType,
		PowerConsumption: imp.PowerConsumption,
		CycleSeconds:     imp.CycleSeconds,
		UnlockTier:       imp.UnlockTier,
		IsAlternate:      imp.IsAlternate || imp.AlternateAlt,
	}
	if recipe.MachineType == "" {
		recipe.MachineType = imp.MachineTypeAlt
	}
	if recipe.PowerConsumption == 0 {
		recipe.PowerConsumption = imp.PowerAlt
	}
	if recipe.CycleSeconds == 0 {
		recipe.CycleSeconds = imp.CraftingSpeedAlt
	}
	if recipe.UnlockTier == 0 {
		recipe.UnlockTier = imp.UnlockTierAlt
	}

	for _, in := range imp.Inputs {
		recipe.Inputs = append(recipe.Inputs, transformFlow(in))
	}
	for _, out := range imp.Outputs {
		recipe.Outputs = append(recipe.Outputs, transformFlow(out))
	}

	return recipe
}

func transformFlow(imp FlowImport) planner.RecipeFlow {
	flow := planner.RecipeFlow{ItemID: imp.ItemID, Amount: imp.Amount}
	if flow.ItemID == "" {
		flow.ItemID = imp.Item
	}
	return flow
}
