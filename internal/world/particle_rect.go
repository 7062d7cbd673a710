package world

// Particle vs fixed rectangle. Cheaper than the circle resolver: only the
// particle's center is tested, using the segment from its pre-step position.
//
// Accuracy limit: a particle hitting a corner at a shallow angle with a
// per-step displacement comparable to the rectangle size can be placed on
// the wrong face and escape through the corner.

type particleCrossing struct {
	edges      rectEdges
	inX, inY   float64
	outX, outY float64
}

// classifyParticleRect decides which face the particle's last step crossed.
// BounceNone means the pre-step and current centers are both inside or both
// outside the rectangle.
func classifyParticleRect(p, r *Body) (Bounce, particleCrossing, error) {
	e := edgesOf(r)
	prev := p.PreviousPosition()

	inPrev := e.contains(prev.X, prev.Y)
	inCur := e.contains(p.Position.X, p.Position.Y)
	if inPrev == inCur {
		return BounceNone, particleCrossing{}, nil
	}

	c := particleCrossing{edges: e}
	if inPrev {
		c.inX, c.inY = prev.X, prev.Y
		c.outX, c.outY = p.Position.X, p.Position.Y
	} else {
		c.inX, c.inY = p.Position.X, p.Position.Y
		c.outX, c.outY = prev.X, prev.Y
	}

	slope := Slope(c.inX, c.inY, c.outX, c.outY)
	topLeft := Slope(c.inX, c.inY, e.x0, e.y0)
	topRight := Slope(c.inX, c.inY, e.x1, e.y0)
	bottomRight := Slope(c.inX, c.inY, e.x1, e.y1)
	bottomLeft := Slope(c.inX, c.inY, e.x0, e.y1)
	dx, dy := p.Delta.X, p.Delta.Y

	// Comparisons look inverted because Y grows downward.
	switch {
	case c.outY <= e.y0 && (slope > topLeft || slope < topRight || dx == 0):
		return BounceTop, c, nil
	case c.outY >= e.y1 && (slope < bottomLeft || slope > bottomRight || dx == 0):
		return BounceBottom, c, nil
	case c.outX <= e.x0 && (slope < topLeft || slope > bottomLeft || dy == 0):
		return BounceLeft, c, nil
	case c.outX >= e.x1 && (slope > topRight || slope < bottomRight || dy == 0):
		return BounceRight, c, nil
	}
	return BounceNone, c, &InvariantError{
		Resolver: "particle-rect",
		BodyID:   p.ID,
		Detail:   "crossing matched no face",
	}
}

// resolveParticleRect mirrors the normal velocity component and places the
// particle against the face on the side it approached from.
func resolveParticleRect(p *Body, e rectEdges, bounce Bounce) {
	radius := p.Shape.Radius
	dx, dy := p.Delta.X, p.Delta.Y
	switch bounce {
	case BounceTop:
		p.Velocity.Y = -p.Velocity.Y
		if dy > 0 {
			p.Position.Y = e.y0 - radius
		} else {
			p.Position.Y = e.y0 + radius
		}
	case BounceLeft:
		p.Velocity.X = -p.Velocity.X
		if dx > 0 {
			p.Position.X = e.x0 - radius
		} else {
			p.Position.X = e.x0 + radius
		}
	case BounceRight:
		p.Velocity.X = -p.Velocity.X
		if dx < 0 {
			p.Position.X = e.x1 + radius
		} else {
			p.Position.X = e.x1 - radius
		}
	case BounceBottom:
		p.Velocity.Y = -p.Velocity.Y
		if dy < 0 {
			p.Position.Y = e.y1 + radius
		} else {
			p.Position.Y = e.y1 - radius
		}
	}
}

// collideParticleRect classifies and resolves one particle/rectangle pair.
func collideParticleRect(p, r *Body) (Bounce, error) {
	bounce, crossing, err := classifyParticleRect(p, r)
	if err != nil || bounce == BounceNone {
		return bounce, err
	}
	resolveParticleRect(p, crossing.edges, bounce)
	return bounce, nil
}
