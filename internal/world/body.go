package world

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

const degreesToRadians = math.Pi / 180

// Body is a movable (or fixed) entity. Kinematic state is shared by every
// shape; the Shape variant carries the bounding geometry.
type Body struct {
	ID string

	// Position is the body's center. Delta is the displacement applied by
	// the last integration step, so Position-Delta is the pre-step center.
	Position     Vec2
	Delta        Vec2
	Velocity     Vec2
	Acceleration Vec2

	// Fixed bodies are never integrated or moved by collisions.
	Fixed bool
	// ObeysMasslessForce controls whether the world's massless force
	// (gravity-like) applies to this body.
	ObeysMasslessForce bool

	Shape Shape

	mass        float64
	inverseMass float64
}

// NewBody constructs a body centered at position with unit mass.
func NewBody(id string, position Vec2, shape Shape) (*Body, error) {
	if err := shape.validate(); err != nil {
		return nil, fmt.Errorf("body %q: %w", id, err)
	}
	return &Body{
		ID:                 id,
		Position:           position,
		ObeysMasslessForce: true,
		Shape:              shape,
		mass:               1,
		inverseMass:        1,
	}, nil
}

// NewParticle constructs a point particle. A zero radius selects
// DefaultParticleRadius.
func NewParticle(id string, x, y, radius float64) (*Body, error) {
	return NewBody(id, Vec2{X: x, Y: y}, ParticleShape(radius))
}

// NewCircle constructs a circle centered at (x, y).
func NewCircle(id string, x, y, radius float64) (*Body, error) {
	return NewBody(id, Vec2{X: x, Y: y}, CircleShape(radius))
}

// NewRect constructs a rectangle centered at (x, y) with the given half extents.
func NewRect(id string, x, y, halfWidth, halfHeight float64) (*Body, error) {
	return NewBody(id, Vec2{X: x, Y: y}, RectShape(halfWidth, halfHeight))
}

// NewRectTopLeft constructs a rectangle from its top-left corner and size.
func NewRectTopLeft(id string, x0, y0, width, height float64) (*Body, error) {
	halfWidth := width * 0.5
	halfHeight := height * 0.5
	return NewRect(id, x0+halfWidth, y0+halfHeight, halfWidth, halfHeight)
}

// Mass returns the body's mass.
func (b *Body) Mass() float64 {
	return b.mass
}

// InverseMass returns 1/mass.
func (b *Body) InverseMass() float64 {
	return b.inverseMass
}

// SetMass updates mass and inverse mass. Zero, negative and non-finite
// masses are rejected and leave the body untouched.
func (b *Body) SetMass(mass float64) error {
	if mass == 0 {
		return fmt.Errorf("body %q: %w", b.ID, ErrZeroMass)
	}
	if mass < 0 || math.IsNaN(mass) || math.IsInf(mass, 0) {
		return fmt.Errorf("body %q: mass %v: %w", b.ID, mass, ErrInvalidMass)
	}
	b.mass = mass
	b.inverseMass = 1 / mass
	return nil
}

// SetFixed marks the body as an immovable obstacle.
func (b *Body) SetFixed(fixed bool) {
	b.Fixed = fixed
}

// ObeyMasslessForce toggles whether the massless world force applies.
func (b *Body) ObeyMasslessForce(obey bool) {
	b.ObeysMasslessForce = obey
}

// ResetCenter places the body without touching velocity or Delta. Use it for
// initial placement only.
func (b *Body) ResetCenter(x, y float64) {
	b.Position = Vec2{X: x, Y: y}
}

// SetVelocity replaces the velocity.
func (b *Body) SetVelocity(x, y float64) {
	b.Velocity = Vec2{X: x, Y: y}
}

// SetSpeedRadians sets velocity from a speed and heading in radians.
func (b *Body) SetSpeedRadians(speed, radians float64) {
	b.Velocity = Vec2{X: speed * math.Cos(radians), Y: speed * math.Sin(radians)}
}

// SetSpeedDegrees sets velocity from a speed and heading in degrees.
func (b *Body) SetSpeedDegrees(speed, degrees float64) {
	b.SetSpeedRadians(speed, degrees*degreesToRadians)
}

// SetRadius changes the radius of a particle or circle.
func (b *Body) SetRadius(radius float64) error {
	if b.Shape.Kind == KindRect {
		return fmt.Errorf("body %q: radius on %s: %w", b.ID, b.Shape.Kind, ErrShapeMismatch)
	}
	next := b.Shape
	next.Radius = radius
	if err := next.validate(); err != nil {
		return fmt.Errorf("body %q: radius %v: %w", b.ID, radius, err)
	}
	b.Shape = next
	return nil
}

// SetHalfExtents changes the half width and half height of a rectangle.
func (b *Body) SetHalfExtents(halfWidth, halfHeight float64) error {
	if b.Shape.Kind != KindRect {
		return fmt.Errorf("body %q: half extents on %s: %w", b.ID, b.Shape.Kind, ErrShapeMismatch)
	}
	next := b.Shape
	next.HalfWidth, next.HalfHeight = halfWidth, halfHeight
	if err := next.validate(); err != nil {
		return fmt.Errorf("body %q: half extents %v,%v: %w", b.ID, halfWidth, halfHeight, err)
	}
	b.Shape = next
	return nil
}

// PreviousPosition reconstructs the center before the last integration step.
func (b *Body) PreviousPosition() Vec2 {
	return b.Position.Sub(b.Delta)
}

// Bounds returns the body's axis-aligned bounding box.
func (b *Body) Bounds() r2.Rect {
	return b.Shape.Bounds(b.Position)
}
