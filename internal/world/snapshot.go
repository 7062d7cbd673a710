package world

// BodySnapshot is a read-only copy of a body for renderers and transports.
type BodySnapshot struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	VX         float64 `json:"vx"`
	VY         float64 `json:"vy"`
	Radius     float64 `json:"radius,omitempty"`
	HalfWidth  float64 `json:"halfWidth,omitempty"`
	HalfHeight float64 `json:"halfHeight,omitempty"`
	Fixed      bool    `json:"fixed,omitempty"`
}

// Snapshot captures the world state at the current tick.
type Snapshot struct {
	Tick   uint64         `json:"tick"`
	Bodies []BodySnapshot `json:"bodies"`
}

// Snapshot copies the body.
func (b *Body) Snapshot() BodySnapshot {
	return BodySnapshot{
		ID:         b.ID,
		Kind:       b.Shape.Kind.String(),
		X:          b.Position.X,
		Y:          b.Position.Y,
		VX:         b.Velocity.X,
		VY:         b.Velocity.Y,
		Radius:     b.Shape.Radius,
		HalfWidth:  b.Shape.HalfWidth,
		HalfHeight: b.Shape.HalfHeight,
		Fixed:      b.Fixed,
	}
}

// Snapshot copies every body in Bodies order.
func (w *World) Snapshot() Snapshot {
	if w == nil {
		return Snapshot{}
	}
	bodies := w.Bodies()
	out := Snapshot{Tick: w.tick, Bodies: make([]BodySnapshot, 0, len(bodies))}
	for _, b := range bodies {
		out.Bodies = append(out.Bodies, b.Snapshot())
	}
	return out
}
