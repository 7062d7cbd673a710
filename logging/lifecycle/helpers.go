package lifecycle

import (
	"context"

	"github.com/mationai/spe/logging"
)

const (
	// EventSceneLoaded is emitted when a scene replaces the running world.
	EventSceneLoaded logging.EventType = "lifecycle.scene_loaded"
	// EventSceneRejected is emitted when a scene document fails validation.
	EventSceneRejected logging.EventType = "lifecycle.scene_rejected"
	// EventClientConnected is emitted when a snapshot subscriber attaches.
	EventClientConnected logging.EventType = "lifecycle.client_connected"
	// EventClientDisconnected is emitted when a snapshot subscriber leaves.
	EventClientDisconnected logging.EventType = "lifecycle.client_disconnected"
)

// SceneLoadedPayload summarizes the loaded scene.
type SceneLoadedPayload struct {
	Name   string `json:"name"`
	Bodies int    `json:"bodies"`
	Groups int    `json:"groups"`
}

// SceneRejectedPayload carries the validation failure.
type SceneRejectedPayload struct {
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ClientPayload identifies a subscriber.
type ClientPayload struct {
	Remote string `json:"remote,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// SceneLoaded publishes a scene load event.
func SceneLoaded(ctx context.Context, pub logging.Publisher, tick uint64, payload SceneLoadedPayload, extra map[string]any) {
	publish(ctx, pub, EventSceneLoaded, tick, logging.EntityRef{ID: payload.Name, Kind: logging.EntityKindWorld}, logging.SeverityInfo, payload, extra)
}

// SceneRejected publishes a scene validation failure.
func SceneRejected(ctx context.Context, pub logging.Publisher, tick uint64, payload SceneRejectedPayload, extra map[string]any) {
	publish(ctx, pub, EventSceneRejected, tick, logging.EntityRef{ID: payload.Name, Kind: logging.EntityKindWorld}, logging.SeverityWarn, payload, extra)
}

// ClientConnected publishes a subscriber join event.
func ClientConnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientPayload, extra map[string]any) {
	publish(ctx, pub, EventClientConnected, tick, actor, logging.SeverityInfo, payload, extra)
}

// ClientDisconnected publishes a subscriber leave event.
func ClientDisconnected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ClientPayload, extra map[string]any) {
	publish(ctx, pub, EventClientDisconnected, tick, actor, logging.SeverityInfo, payload, extra)
}

func publish(ctx context.Context, pub logging.Publisher, eventType logging.EventType, tick uint64, actor logging.EntityRef, severity logging.Severity, payload any, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     eventType,
		Tick:     tick,
		Actor:    actor,
		Severity: severity,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
		Extra:    extra,
	})
}
