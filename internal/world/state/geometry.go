package state

import "github.com/golang/geo/r2"

// MagnitudeFloor is returned by Magnitude for the zero vector so callers can
// divide by it safely.
const MagnitudeFloor = 0.000001

// Vec2 represents a 2D position, velocity or force. Methods with value
// receivers return new vectors; only Normalize mutates its receiver.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromPoint converts an r2 point.
func FromPoint(p r2.Point) Vec2 {
	return Vec2{X: p.X, Y: p.Y}
}

// Point converts the vector to an r2 point.
func (v Vec2) Point() r2.Point {
	return r2.Point{X: v.X, Y: v.Y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return FromPoint(v.Point().Add(o.Point()))
}

// AddXY returns v + (x, y).
func (v Vec2) AddXY(x, y float64) Vec2 {
	return v.Add(Vec2{X: x, Y: y})
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return FromPoint(v.Point().Sub(o.Point()))
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return FromPoint(v.Point().Mul(s))
}

// Dot returns the scalar product.
func (v Vec2) Dot(o Vec2) float64 {
	return v.Point().Dot(o.Point())
}

// DotXY returns the scalar product with (x, y).
func (v Vec2) DotXY(x, y float64) float64 {
	return v.Dot(Vec2{X: x, Y: y})
}

// Cross returns the engine's vector cross product
// (x1*x2 - y1*y2, x1*y2 - y1*x2). It is not the conventional 2D scalar
// cross product and callers rely on this exact form.
func (v Vec2) Cross(o Vec2) Vec2 {
	return Vec2{
		X: v.X*o.X - v.Y*o.Y,
		Y: v.X*o.Y - v.Y*o.X,
	}
}

// CrossXY is Cross with an explicit (x, y) operand.
func (v Vec2) CrossXY(x, y float64) Vec2 {
	return v.Cross(Vec2{X: x, Y: y})
}

// Magnitude returns the vector length, or MagnitudeFloor for the zero vector.
func (v Vec2) Magnitude() float64 {
	if mag := v.Point().Norm(); mag != 0 {
		return mag
	}
	return MagnitudeFloor
}

// MagnitudeSquared returns the squared length.
func (v Vec2) MagnitudeSquared() float64 {
	return v.Dot(v)
}

// Normalize scales v to unit length in place and returns it for chaining.
func (v *Vec2) Normalize() *Vec2 {
	mag := v.Magnitude()
	v.X /= mag
	v.Y /= mag
	return v
}

// Normalized returns a unit-length copy of v. The zero vector stays zero.
func (v Vec2) Normalized() Vec2 {
	mag := v.Magnitude()
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}
