package world

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSetMassRejectsInvalidValues(t *testing.T) {
	b, err := NewCircle("ball", 0, 0, 5)
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}
	if err := b.SetMass(4); err != nil {
		t.Fatalf("SetMass(4): %v", err)
	}

	cases := []struct {
		mass float64
		want error
	}{
		{mass: 0, want: ErrZeroMass},
		{mass: -1, want: ErrInvalidMass},
		{mass: math.NaN(), want: ErrInvalidMass},
		{mass: math.Inf(1), want: ErrInvalidMass},
	}
	for _, tc := range cases {
		err := b.SetMass(tc.mass)
		if !errors.Is(err, tc.want) {
			t.Fatalf("SetMass(%v) error = %v, want %v", tc.mass, err, tc.want)
		}
		if b.Mass() != 4 || b.InverseMass() != 0.25 {
			t.Fatalf("SetMass(%v) changed mass to %v/%v", tc.mass, b.Mass(), b.InverseMass())
		}
	}
}

func TestConstructorsApplyDefaults(t *testing.T) {
	p, err := NewParticle("p", 1, 2, 0)
	if err != nil {
		t.Fatalf("NewParticle: %v", err)
	}
	if p.Shape.Kind != KindParticle || p.Shape.Radius != DefaultParticleRadius {
		t.Fatalf("particle shape = %+v", p.Shape)
	}
	if p.Mass() != 1 || p.InverseMass() != 1 || !p.ObeysMasslessForce || p.Fixed {
		t.Fatalf("unexpected particle defaults: %+v", p)
	}

	r, err := NewRectTopLeft("r", 10, 20, 40, 10)
	if err != nil {
		t.Fatalf("NewRectTopLeft: %v", err)
	}
	if r.Position != (Vec2{X: 30, Y: 25}) {
		t.Fatalf("rect center = %+v, want {30 25}", r.Position)
	}
	bounds := r.Bounds()
	if bounds.X.Lo != 10 || bounds.X.Hi != 50 || bounds.Y.Lo != 20 || bounds.Y.Hi != 30 {
		t.Fatalf("rect bounds = %+v", bounds)
	}

	if _, err := NewCircle("bad", 0, 0, -1); !errors.Is(err, ErrNegativeExtent) {
		t.Fatalf("negative radius error = %v", err)
	}
}

func TestExtentSettersCheckShape(t *testing.T) {
	circle, _ := NewCircle("c", 0, 0, 5)
	rect, _ := NewRect("r", 0, 0, 5, 5)

	if err := rect.SetRadius(3); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("rect SetRadius error = %v", err)
	}
	if err := circle.SetHalfExtents(1, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("circle SetHalfExtents error = %v", err)
	}
	if err := circle.SetRadius(-2); !errors.Is(err, ErrNegativeExtent) {
		t.Fatalf("negative radius error = %v", err)
	}
	if circle.Shape.Radius != 5 {
		t.Fatalf("rejected radius changed shape: %v", circle.Shape.Radius)
	}
	if err := rect.SetHalfExtents(2, 3); err != nil {
		t.Fatalf("SetHalfExtents: %v", err)
	}
	if rect.Shape.HalfWidth != 2 || rect.Shape.HalfHeight != 3 {
		t.Fatalf("half extents = %+v", rect.Shape)
	}
}

func TestSetSpeedDegrees(t *testing.T) {
	b, _ := NewCircle("c", 0, 0, 1)
	b.SetSpeedDegrees(10, 90)
	if !mgl64.FloatEqualThreshold(b.Velocity.X, 0, 1e-9) || !mgl64.FloatEqualThreshold(b.Velocity.Y, 10, 1e-9) {
		t.Fatalf("velocity = %+v, want {0 10}", b.Velocity)
	}
}

func TestResetCenterKeepsKinematics(t *testing.T) {
	b, _ := NewCircle("c", 0, 0, 1)
	b.SetVelocity(3, 4)
	b.Delta = Vec2{X: 1, Y: 1}
	b.ResetCenter(50, 60)
	if b.Position != (Vec2{X: 50, Y: 60}) || b.Velocity != (Vec2{X: 3, Y: 4}) || b.Delta != (Vec2{X: 1, Y: 1}) {
		t.Fatalf("ResetCenter changed kinematics: %+v", b)
	}
	if b.PreviousPosition() != (Vec2{X: 49, Y: 59}) {
		t.Fatalf("PreviousPosition = %+v", b.PreviousPosition())
	}
}

func TestIntegrateAppliesForces(t *testing.T) {
	b, _ := NewCircle("c", 0, 0, 1)
	if err := b.SetMass(2); err != nil {
		t.Fatalf("SetMass: %v", err)
	}
	env := Environment{
		Force:         Vec2{X: 4},
		MasslessForce: Vec2{Y: 10},
		Damping:       Vec2{X: 1, Y: 1},
	}
	b.Step(0.5, env)

	if b.Acceleration != (Vec2{X: 2, Y: 10}) {
		t.Fatalf("acceleration = %+v, want {2 10}", b.Acceleration)
	}
	if b.Velocity != (Vec2{X: 1, Y: 5}) {
		t.Fatalf("velocity = %+v, want {1 5}", b.Velocity)
	}
	if b.Delta != (Vec2{X: 0.5, Y: 2.5}) || b.Position != (Vec2{X: 0.5, Y: 2.5}) {
		t.Fatalf("delta=%+v position=%+v, want both {0.5 2.5}", b.Delta, b.Position)
	}

	b.ObeyMasslessForce(false)
	b.Step(0.5, env)
	if b.Acceleration != (Vec2{X: 2}) {
		t.Fatalf("acceleration without massless force = %+v, want {2 0}", b.Acceleration)
	}
}

func TestIntegrateDampsVelocity(t *testing.T) {
	b, _ := NewCircle("c", 0, 0, 1)
	b.SetVelocity(10, 10)
	b.Step(1, Environment{Damping: Vec2{X: 0.5, Y: 1}})
	if b.Velocity != (Vec2{X: 5, Y: 10}) {
		t.Fatalf("velocity = %+v, want {5 10}", b.Velocity)
	}
	if b.Delta != (Vec2{X: 5, Y: 10}) {
		t.Fatalf("delta = %+v, want {5 10}", b.Delta)
	}
}

func TestIntegrateSkipsFixedBodies(t *testing.T) {
	b, _ := NewRect("wall", 5, 5, 1, 1)
	b.SetFixed(true)
	b.SetVelocity(1, 1)
	b.Step(1, Environment{MasslessForce: Vec2{Y: 9.8}, Damping: Vec2{X: 1, Y: 1}})
	if b.Position != (Vec2{X: 5, Y: 5}) || b.Velocity != (Vec2{X: 1, Y: 1}) || b.Delta != (Vec2{}) {
		t.Fatalf("fixed body moved: %+v", b)
	}
}
