package simulation

import (
	"context"

	"github.com/mationai/spe/logging"
)

const (
	// EventCollisionResolved is emitted for every pair resolved during a tick.
	EventCollisionResolved logging.EventType = "simulation.collision_resolved"
	// EventInvariantViolation is emitted when a resolver reaches a state its geometry rules out.
	EventInvariantViolation logging.EventType = "simulation.invariant_violation"
	// EventTickBudgetOverrun is emitted when the simulation loop exceeds the allotted tick budget.
	EventTickBudgetOverrun logging.EventType = "simulation.tick_budget_overrun"
)

// CollisionPayload captures the moving body's state after resolution.
type CollisionPayload struct {
	Bounce    string  `json:"bounce"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	VelocityX float64 `json:"vx"`
	VelocityY float64 `json:"vy"`
}

// CollisionResolved publishes a debug event for a resolved pair.
func CollisionResolved(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload CollisionPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventCollisionResolved,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// InvariantViolationPayload describes the resolver that failed.
type InvariantViolationPayload struct {
	Resolver string `json:"resolver,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Error    string `json:"error"`
}

// InvariantViolation publishes an error event for a halted tick.
func InvariantViolation(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload InvariantViolationPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventInvariantViolation,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityError,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// TickBudgetOverrunPayload captures timing details for a tick budget breach.
type TickBudgetOverrunPayload struct {
	DurationMillis int64   `json:"durationMillis"`
	BudgetMillis   int64   `json:"budgetMillis"`
	Ratio          float64 `json:"ratio"`
	Streak         uint64  `json:"streak"`
}

// TickBudgetOverrun publishes a warning when the simulation exceeds the configured tick budget.
func TickBudgetOverrun(ctx context.Context, pub logging.Publisher, tick uint64, payload TickBudgetOverrunPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventTickBudgetOverrun,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySimulation,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
