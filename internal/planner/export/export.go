// Package export serializes resolution results into a versioned,
// self-contained interchange format that can be re-imported without
// re-running resolution.
package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planforge/factory-planner/pkg/planner"
)

// SchemaVersion is the current envelope format version.
const SchemaVersion = "1.0"

// Envelope wraps a resolution result with the request that produced it
// and enough metadata to identify and re-import the plan later.
type Envelope struct {
	Version   string                   `json:"version"`
	PlanID    string                   `json:"plan_id"`
	CreatedAt time.Time                `json:"created_at"`
	Request   planner.ResolveRequest   `json:"request"`
	Result    planner.ResolutionResult `json:"result"`
}

// New wraps a result in a fresh envelope with a generated plan ID.
func New(req planner.ResolveRequest, result planner.ResolutionResult) *Envelope {
	return &Envelope{
		Version:   SchemaVersion,
		PlanID:    uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Result:    result,
	}
}

// Encode serializes the envelope to indented JSON.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	return data, nil
}

// Decode parses an exported envelope and verifies it is structurally
// usable: supported version, a plan ID, and a result status.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}

	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported plan version %q (want %s)", env.Version, SchemaVersion)
	}
	if env.PlanID == "" {
		return nil, fmt.Errorf("plan is missing an id")
	}
	if _, err := uuid.Parse(env.PlanID); err != nil {
		return nil, fmt.Errorf("invalid plan id %q: %w", env.PlanID, err)
	}
	if env.Result.Status == "" {
		return nil, fmt.Errorf("plan is missing a result status")
	}

	return &env, nil
}
