package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/planforge/factory-planner/pkg/planner"
)

// CatalogStore handles item and recipe data access.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// LoadItems retrieves all items, ordered by ID.
func (s *CatalogStore) LoadItems(ctx context.Context) ([]planner.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, stack_size, is_raw_resource
		FROM items ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []planner.Item
	for rows.Next() {
		var item planner.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.StackSize, &item.IsRawResource); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// LoadRecipes retrieves all recipes with their input and output flows,
// ordered by ID.
func (s *CatalogStore) LoadRecipes(ctx context.Context) ([]planner.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, machine_type, power_consumption, cycle_seconds, unlock_tier, is_alternate
		FROM recipes ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []planner.Recipe
	for rows.Next() {
		var r planner.Recipe
		if err := rows.Scan(
			&r.ID,
			&r.Name,
			&r.Category,
			&r.MachineType,
			&r.PowerConsumption,
			&r.CycleSeconds,
			&r.UnlockTier,
			&r.IsAlternate,
		); err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range recipes {
		inputs, outputs, err := s.getRecipeFlows(ctx, recipes[i].ID)
		if err != nil {
			return nil, fmt.Errorf("loading flows for %s: %w", recipes[i].ID, err)
		}
		recipes[i].Inputs = inputs
		recipes[i].Outputs = outputs
	}

	return recipes, nil
}

// getRecipeFlows retrieves the input and output flows for a recipe.
func (s *CatalogStore) getRecipeFlows(ctx context.Context, recipeID string) (inputs, outputs []planner.RecipeFlow, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, direction, amount
		FROM recipe_flows
		WHERE recipe_id = ?
		ORDER BY direction, item_id
	`, recipeID)
	if err != nil {
		return nil, nil, fmt.Errorf("querying recipe flows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			flow      planner.RecipeFlow
			direction string
		)
		if err := rows.Scan(&flow.ItemID, &direction, &flow.Amount); err != nil {
			return nil, nil, fmt.Errorf("scanning recipe flow: %w", err)
		}
		if direction == "input" {
			inputs = append(inputs, flow)
		} else {
			outputs = append(outputs, flow)
		}
	}

	return inputs, outputs, rows.Err()
}

// CountItems returns the total number of items.
func (s *CatalogStore) CountItems(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// CountRecipes returns the total number of recipes.
func (s *CatalogStore) CountRecipes(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting recipes: %w", err)
	}
	return count, nil
}

// BulkInsertItems inserts multiple items in a transaction.
func (s *CatalogStore) BulkInsertItems(ctx context.Context, items []planner.Item) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO items (id, name, category, stack_size, is_raw_resource)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing item statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, item := range items {
			if _, err := stmt.ExecContext(ctx, item.ID, item.Name, item.Category, item.StackSize, item.IsRawResource); err != nil {
				return fmt.Errorf("inserting item %s: %w", item.ID, err)
			}
		}

		return nil
	})
}

// BulkInsertRecipes inserts multiple recipes with their flows in a transaction.
func (s *CatalogStore) BulkInsertRecipes(ctx context.Context, recipes []planner.Recipe) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		recipeStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO recipes
			(id, name, category, machine_type, power_consumption, cycle_seconds, unlock_tier, is_alternate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing recipe statement: %w", err)
		}
		defer func() { _ = recipeStmt.Close() }()

		flowStmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO recipe_flows (recipe_id, item_id, direction, amount)
			VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing flow statement: %w", err)
		}
		defer func() { _ = flowStmt.Close() }()

		for _, r := range recipes {
			_, err := recipeStmt.ExecContext(ctx,
				r.ID, r.Name, r.Category, r.MachineType,
				r.PowerConsumption, r.CycleSeconds, r.UnlockTier, r.IsAlternate,
			)
			if err != nil {
				return fmt.Errorf("inserting recipe %s: %w", r.ID, err)
			}

			for _, in := range r.Inputs {
				if _, err := flowStmt.ExecContext(ctx, r.ID, in.ItemID, "input", in.Amount); err != nil {
					return fmt.Errorf("inserting input flow for %s: %w", r.ID, err)
				}
			}
			for _, out := range r.Outputs {
				if _, err := flowStmt.ExecContext(ctx, r.ID, out.ItemID, "output", out.Amount); err != nil {
					return fmt.Errorf("inserting output flow for %s: %w", r.ID, err)
				}
			}
		}

		return nil
	})
}

// ClearCatalog removes all item and recipe data (for re-import).
func (s *CatalogStore) ClearCatalog(ctx context.Context) error {
	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		// Foreign keys will cascade delete recipe flows
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM items`)
		return err
	})
}
