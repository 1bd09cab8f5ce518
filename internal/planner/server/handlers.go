package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/planforge/factory-planner/internal/planner/export"
	"github.com/planforge/factory-planner/internal/planner/metrics"
	"github.com/planforge/factory-planner/pkg/planner"
)

// Version is the server version reported by /version. Overridden at
// build time via -ldflags.
var Version = "dev"

// handleCreatePlan resolves a production plan and caches the resulting
// envelope for later retrieval by plan ID.
func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planner.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "target_item_id is required and target_rate must be positive")
		return
	}
	if req.Priority != "" && !req.Priority.IsValid() {
		s.respondError(w, http.StatusBadRequest, "unknown priority")
		return
	}

	start := time.Now()
	result := s.engine.Resolve(req)
	metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	metrics.ResolutionsTotal.WithLabelValues(string(result.Status)).Inc()

	env := export.New(req, *result)
	s.plans.Add(env.PlanID, env)

	s.respondJSON(w, http.StatusCreated, env)
}

// handleGetPlan returns a previously computed plan envelope.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	env, ok := s.plans.Get(id)
	if !ok {
		metrics.PlanCacheMisses.Inc()
		s.respondError(w, http.StatusNotFound, "plan not found")
		return
	}
	metrics.PlanCacheHits.Inc()

	s.respondJSON(w, http.StatusOK, env)
}

// handleImportPlan accepts a previously exported plan envelope and
// re-registers it for retrieval, without re-running resolution.
func (s *Server) handleImportPlan(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	env, err := export.Decode(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.plans.Add(env.PlanID, env)
	s.respondJSON(w, http.StatusOK, env)
}

// handleListItems returns the full item catalog.
func (s *Server) handleListItems(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().Items())
}

// handleItemUses returns the recipes consuming an item.
func (s *Server) handleItemUses(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, ok := s.engine.Catalog().Item(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}

	uses := s.engine.ItemUses(id)
	s.respondJSON(w, http.StatusOK, map[string]any{
		"item_id":   item.ID,
		"item_name": item.Name,
		"used_in":   uses,
		"total":     len(uses),
	})
}

// handleListRecipes returns the full recipe catalog.
func (s *Server) handleListRecipes(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Catalog().Recipes())
}

// handleGetRecipe returns a single recipe by ID.
func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recipe, ok := s.engine.Catalog().Recipe(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "recipe not found")
		return
	}

	s.respondJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"version": Version})
}

// respondJSON writes v as a JSON response with the given status code.
func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// respondError writes a JSON error payload.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
