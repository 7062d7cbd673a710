package world

// Collide detects and resolves a collision between two bodies, mutating the
// movable one in place. Only circle/fixed-rect and particle/fixed-rect pairs
// are resolved; every other combination is ignored and returns BounceNone.
// An *InvariantError means the resolver reached a state its geometry rules
// out and the caller should stop the tick.
func Collide(a, b *Body) (Bounce, error) {
	if a == nil || b == nil || a == b {
		return BounceNone, nil
	}
	if a.Fixed && b.Fixed {
		return BounceNone, nil
	}

	mover, obstacle, ok := pairWithFixedRect(a, b)
	if !ok {
		return BounceNone, nil
	}

	switch mover.Shape.Kind {
	case KindCircle:
		return collideCircleRect(mover, obstacle)
	case KindParticle:
		return collideParticleRect(mover, obstacle)
	default:
		return BounceNone, nil
	}
}

// pairWithFixedRect orders a pair as (movable non-rect, fixed rect).
func pairWithFixedRect(a, b *Body) (mover, obstacle *Body, ok bool) {
	switch {
	case b.Shape.Kind == KindRect && b.Fixed && a.Shape.Kind != KindRect && !a.Fixed:
		return a, b, true
	case a.Shape.Kind == KindRect && a.Fixed && b.Shape.Kind != KindRect && !b.Fixed:
		return b, a, true
	default:
		return nil, nil, false
	}
}

// Contact records one resolved pair. A is the body that moved.
type Contact struct {
	A      *Body
	B      *Body
	Bounce Bounce
}
