// Package planner contains the core types for the production planner server.
package planner

// ============================================
// CATALOG TYPES
// ============================================

// Item represents a single item in the catalog.
type Item struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category,omitempty"`
	StackSize     int    `json:"stack_size,omitempty"`
	IsRawResource bool   `json:"is_raw_resource"`
}

// RecipeFlow represents one item flowing in or out of a recipe,
// in units per machine-cycle.
type RecipeFlow struct {
	ItemID string  `json:"item_id" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

// Recipe represents a fixed transformation tied to one machine type.
// Input and output amounts are per machine-cycle; the engine only
// scales recipes by machine count, never alters the ratios.
type Recipe struct {
	ID               string       `json:"id" validate:"required"`
	Name             string       `json:"name" validate:"required"`
	Category         string       `json:"category,omitempty"`
	MachineType      string       `json:"machine_type" validate:"required"`
	PowerConsumption float64      `json:"power_consumption" validate:"gte=0"`
	CycleSeconds     float64      `json:"cycle_seconds" validate:"gt=0"`
	UnlockTier       int          `json:"unlock_tier"`
	IsAlternate      bool         `json:"is_alternate"`
	Inputs           []RecipeFlow `json:"inputs" validate:"dive"`
	Outputs          []RecipeFlow `json:"outputs" validate:"min=1,dive"`
}

// OutputPerMinute returns the per-minute production rate of itemID for a
// single machine running this recipe, or 0 if the recipe does not
// produce it.
func (r *Recipe) OutputPerMinute(itemID string) float64 {
	for _, out := range r.Outputs {
		if out.ItemID == itemID {
			return out.Amount / r.CycleSeconds * 60
		}
	}
	return 0
}

// InputPerMinute returns the per-minute consumption rate of itemID for a
// single machine running this recipe, or 0 if the recipe does not
// consume it.
func (r *Recipe) InputPerMinute(itemID string) float64 {
	for _, in := range r.Inputs {
		if in.ItemID == itemID {
			return in.Amount / r.CycleSeconds * 60
		}
	}
	return 0
}

// ============================================
// RESOLUTION INPUT TYPES
// ============================================

// Priority controls recipe selection during resolution.
type Priority string

const (
	PriorityBalanced         Priority = "balanced"
	PriorityMinimizeMachines Priority = "minimize_machines"
	PriorityMinimizePower    Priority = "minimize_power"
	PriorityMinimizeWaste    Priority = "minimize_waste"
)

// ValidPriorities returns all valid optimization priorities.
func ValidPriorities() []Priority {
	return []Priority{
		PriorityBalanced,
		PriorityMinimizeMachines,
		PriorityMinimizePower,
		PriorityMinimizeWaste,
	}
}

// IsValid checks if the priority is a known valid priority.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// ResolveRequest is the input for one resolution call.
type ResolveRequest struct {
	TargetItemID    string   `json:"target_item_id" validate:"required"`
	TargetRate      float64  `json:"target_rate" validate:"gt=0"`
	UnlockedRecipes []string `json:"unlocked_recipes"`
	Priority        Priority `json:"priority,omitempty"`
}

// ============================================
// RESOLUTION RESULT TYPES
// ============================================

// Status reports the outcome of a resolution call.
type Status string

const (
	StatusSuccess             Status = "success"
	StatusInsufficientRecipes Status = "insufficient_recipes"
	StatusImpossibleRate      Status = "impossible_rate"
	StatusResourceWarning     Status = "resource_warning"
)

// ItemFlow represents a flow of one item in items per minute.
type ItemFlow struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Rate     float64 `json:"rate"`
}

// ProductionNode is one resolved production step: the item it produces,
// the recipe chosen for it, and the machines required. MachinesExact
// drives flow and power math; MachineCount is its ceiling, for display.
type ProductionNode struct {
	NodeID          string     `json:"node_id"`
	ItemID          string     `json:"item_id"`
	ItemName        string     `json:"item_name"`
	RecipeID        string     `json:"recipe_id"`
	RecipeName      string     `json:"recipe_name"`
	MachineType     string     `json:"machine_type"`
	TargetRate      float64    `json:"target_rate"`
	MachinesExact   float64    `json:"machines_exact"`
	MachineCount    int        `json:"machine_count"`
	PowerPerMachine float64    `json:"power_per_machine"`
	TotalPower      float64    `json:"total_power"`
	UnlockTier      int        `json:"unlock_tier"`
	IsAlternate     bool       `json:"is_alternate"`
	Inputs          []ItemFlow `json:"inputs"`
	Outputs         []ItemFlow `json:"outputs"`
}

// Edge is a directed link from a producing node (or a raw-resource
// sink) to a consuming node. IsRecyclingLoop marks edges that close a
// cycle in the item-dependency graph.
type Edge struct {
	EdgeID          string  `json:"edge_id"`
	FromNodeID      string  `json:"from_node_id,omitempty"`
	ToNodeID        string  `json:"to_node_id"`
	ItemID          string  `json:"item_id"`
	ItemName        string  `json:"item_name"`
	Rate            float64 `json:"rate"`
	IsRawSource     bool    `json:"is_raw_source,omitempty"`
	IsRecyclingLoop bool    `json:"is_recycling_loop,omitempty"`
}

// RawRequirement is the total extraction rate needed for one raw resource.
type RawRequirement struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Rate     float64 `json:"rate"`
}

// PlanSummary holds grand totals across the whole plan.
type PlanSummary struct {
	TotalMachines     int     `json:"total_machines"`
	TotalPower        float64 `json:"total_power"`
	TotalRawResources int     `json:"total_raw_resources"`
}

// ResolutionResult is the complete, self-contained outcome of one
// resolution call. All fields are plain data with no references back
// into engine state, so the result can be serialized as-is.
type ResolutionResult struct {
	Status         Status           `json:"status"`
	TargetItemID   string           `json:"target_item_id"`
	TargetItemName string           `json:"target_item_name,omitempty"`
	TargetRate     float64          `json:"target_rate"`
	Priority       Priority         `json:"priority"`
	Nodes          []ProductionNode `json:"nodes"`
	Edges          []Edge           `json:"edges"`
	RawResources   []RawRequirement `json:"raw_resources"`
	RawTotals      map[string]float64 `json:"raw_totals,omitempty"`
	MissingRecipes []string         `json:"missing_recipes,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	Summary        PlanSummary      `json:"summary"`
}
