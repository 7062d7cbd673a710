package world

import (
	"math"

	"github.com/golang/geo/r2"
)

// DefaultParticleRadius is used when a particle is created without a radius.
const DefaultParticleRadius = 3.0

// Kind identifies the bounding geometry of a body.
type Kind uint8

const (
	KindParticle Kind = iota
	KindCircle
	KindRect
)

func (k Kind) String() string {
	switch k {
	case KindParticle:
		return "particle"
	case KindCircle:
		return "circle"
	case KindRect:
		return "rect"
	default:
		return "unknown"
	}
}

// Shape is the shape-specific extent of a body. Radius applies to particles
// and circles, the half extents to rectangles. Rectangles never rotate.
type Shape struct {
	Kind       Kind
	Radius     float64
	HalfWidth  float64
	HalfHeight float64
}

// ParticleShape returns a point particle extent.
func ParticleShape(radius float64) Shape {
	if radius == 0 {
		radius = DefaultParticleRadius
	}
	return Shape{Kind: KindParticle, Radius: radius}
}

// CircleShape returns a circle extent.
func CircleShape(radius float64) Shape {
	return Shape{Kind: KindCircle, Radius: radius}
}

// RectShape returns an axis-aligned rectangle extent.
func RectShape(halfWidth, halfHeight float64) Shape {
	return Shape{Kind: KindRect, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

func (s Shape) validate() error {
	for _, extent := range [...]float64{s.Radius, s.HalfWidth, s.HalfHeight} {
		if math.IsNaN(extent) || math.IsInf(extent, 0) {
			return ErrNonFiniteExtent
		}
		if extent < 0 {
			return ErrNegativeExtent
		}
	}
	return nil
}

// Bounds returns the axis-aligned box of a shape centered at center.
func (s Shape) Bounds(center Vec2) r2.Rect {
	hw, hh := s.HalfWidth, s.HalfHeight
	if s.Kind != KindRect {
		hw, hh = s.Radius, s.Radius
	}
	return r2.RectFromCenterSize(center.Point(), r2.Point{X: hw * 2, Y: hh * 2})
}
