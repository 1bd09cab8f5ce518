// Package catalog holds the immutable item/recipe lookup used by the
// resolution engine. A Catalog is built once, validated once, and then
// shared read-only across concurrent resolution calls.
package catalog

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/planforge/factory-planner/pkg/planner"
)

// Catalog is a read-only lookup of items and recipes. The zero value is
// not usable; construct one with New.
type Catalog struct {
	items      map[string]planner.Item
	recipes    map[string]planner.Recipe
	producedBy map[string][]string // item ID -> recipe IDs producing it, sorted
}

// New builds a Catalog from the given items and recipes, validating
// referential integrity up front so resolution calls never have to.
func New(items []planner.Item, recipes []planner.Recipe) (*Catalog, error) {
	validate := validator.New()

	c := &Catalog{
		items:      make(map[string]planner.Item, len(items)),
		recipes:    make(map[string]planner.Recipe, len(recipes)),
		producedBy: make(map[string][]string),
	}

	for _, item := range items {
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("invalid item %q: %w", item.ID, err)
		}
		if _, exists := c.items[item.ID]; exists {
			return nil, fmt.Errorf("duplicate item id: %s", item.ID)
		}
		c.items[item.ID] = item
	}

	for _, recipe := range recipes {
		if err := validate.Struct(recipe); err != nil {
			return nil, fmt.Errorf("invalid recipe %q: %w", recipe.ID, err)
		}
		if _, exists := c.recipes[recipe.ID]; exists {
			return nil, fmt.Errorf("duplicate recipe id: %s", recipe.ID)
		}
		seenIn := make(map[string]bool, len(recipe.Inputs))
		for _, in := range recipe.Inputs {
			if _, ok := c.items[in.ItemID]; !ok {
				return nil, fmt.Errorf("recipe %s consumes unknown item %s", recipe.ID, in.ItemID)
			}
			if seenIn[in.ItemID] {
				return nil, fmt.Errorf("recipe %s lists input %s twice", recipe.ID, in.ItemID)
			}
			seenIn[in.ItemID] = true
		}
		seenOut := make(map[string]bool, len(recipe.Outputs))
		for _, out := range recipe.Outputs {
			if _, ok := c.items[out.ItemID]; !ok {
				return nil, fmt.Errorf("recipe %s produces unknown item %s", recipe.ID, out.ItemID)
			}
			if seenOut[out.ItemID] {
				return nil, fmt.Errorf("recipe %s lists output %s twice", recipe.ID, out.ItemID)
			}
			seenOut[out.ItemID] = true
		}
		c.recipes[recipe.ID] = recipe
		for _, out := range recipe.Outputs {
			c.producedBy[out.ItemID] = append(c.producedBy[out.ItemID], recipe.ID)
		}
	}

	// Sorted producer lists keep candidate iteration deterministic.
	for itemID := range c.producedBy {
		sort.Strings(c.producedBy[itemID])
	}

	return c, nil
}

// Item returns the item with the given ID, if present.
func (c *Catalog) Item(id string) (planner.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// ItemName returns the display name for an item ID, falling back to the
// ID itself for unknown items.
func (c *Catalog) ItemName(id string) string {
	if item, ok := c.items[id]; ok {
		return item.Name
	}
	return id
}

// Recipe returns the recipe with the given ID, if present.
func (c *Catalog) Recipe(id string) (planner.Recipe, bool) {
	recipe, ok := c.recipes[id]
	return recipe, ok
}

// RecipesProducing returns the IDs of all recipes that produce the given
// item, in lexicographic order.
func (c *Catalog) RecipesProducing(itemID string) []string {
	return c.producedBy[itemID]
}

// RecipesConsuming returns the IDs of all recipes that consume the given
// item as an input, in lexicographic order.
func (c *Catalog) RecipesConsuming(itemID string) []string {
	var ids []string
	for id, recipe := range c.recipes {
		for _, in := range recipe.Inputs {
			if in.ItemID == itemID {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// Items returns all items sorted by ID.
func (c *Catalog) Items() []planner.Item {
	items := make([]planner.Item, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// Recipes returns all recipes sorted by ID.
func (c *Catalog) Recipes() []planner.Recipe {
	recipes := make([]planner.Recipe, 0, len(c.recipes))
	for _, recipe := range c.recipes {
		recipes = append(recipes, recipe)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes
}

// ItemCount returns the number of items in the catalog.
func (c *Catalog) ItemCount() int { return len(c.items) }

// RecipeCount returns the number of recipes in the catalog.
func (c *Catalog) RecipeCount() int { return len(c.recipes) }
