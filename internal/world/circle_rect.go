package world

// DiagonalRatio bounds how uneven an approach may be and still count as a
// direct corner hit: both the displacement components and the corner
// penetration depths must have a max/min ratio below it.
const DiagonalRatio = 2.0

// circleContact is the geometry gathered by the circle/rectangle touch test.
type circleContact struct {
	edges                    rectEdges
	minX, maxX, minY, maxY   float64
	top, bottom, left, right bool
	inside                   bool
}

func (c circleContact) touched() bool {
	return c.top || c.bottom || c.left || c.right
}

// corner reports whether two adjacent faces are touched at once.
func (c circleContact) corner() bool {
	return (c.top && c.left) || (c.top && c.right) || (c.bottom && c.left) || (c.bottom && c.right)
}

func touchCircleRect(circle, r *Body) circleContact {
	e := edgesOf(r)
	bounds := circle.Bounds()
	c := circleContact{
		edges: e,
		minX:  bounds.X.Lo,
		maxX:  bounds.X.Hi,
		minY:  bounds.Y.Lo,
		maxY:  bounds.Y.Hi,
	}
	c.top = IsBetween(e.y0, c.minY, c.maxY) && c.maxX >= e.x0 && c.minX <= e.x1
	c.bottom = IsBetween(e.y1, c.minY, c.maxY) && c.maxX >= e.x0 && c.minX <= e.x1
	c.left = IsBetween(e.x0, c.minX, c.maxX) && c.maxY >= e.y0 && c.minY <= e.y1
	c.right = IsBetween(e.x1, c.minX, c.maxX) && c.maxY >= e.y0 && c.minY <= e.y1

	x, y := circle.Position.X, circle.Position.Y
	c.inside = IsBetweenExclusive(x, e.x0, e.x1) && IsBetweenExclusive(y, e.y0, e.y1)
	return c
}

// classifyCircleRect picks the bounce for a circle against a rectangle.
// BounceNone means no contact.
func classifyCircleRect(circle, r *Body) (Bounce, circleContact, error) {
	c := touchCircleRect(circle, r)
	if !c.touched() {
		return BounceNone, c, nil
	}

	e := c.edges
	x, y := circle.Position.X, circle.Position.Y
	radiusSq := circle.Shape.Radius * circle.Shape.Radius

	// The face tests pass for a circle sitting just off a corner, so a
	// center outside both axes must actually reach the corner point.
	topLeft := c.top && c.left && DistanceSquared(x, y, e.x0, e.y0) < radiusSq
	topRight := c.top && c.right && DistanceSquared(x, y, e.x1, e.y0) < radiusSq
	bottomLeft := c.bottom && c.left && DistanceSquared(x, y, e.x0, e.y1) < radiusSq
	bottomRight := c.bottom && c.right && DistanceSquared(x, y, e.x1, e.y1) < radiusSq

	if (x < e.x0 && y < e.y0 && !topLeft) ||
		(x < e.x0 && y > e.y1 && !bottomLeft) ||
		(x > e.x1 && y < e.y0 && !topRight) ||
		(x > e.x1 && y > e.y1 && !bottomRight) {
		return BounceNone, c, nil
	}

	if !c.corner() {
		switch {
		case c.top:
			return BounceTop, c, nil
		case c.bottom:
			return BounceBottom, c, nil
		case c.left:
			return BounceLeft, c, nil
		default:
			return BounceRight, c, nil
		}
	}

	// Thin rectangles can swallow the center while both faces still touch.
	if c.inside {
		return BounceDiagonal, c, nil
	}

	dx, dy := circle.Delta.X, circle.Delta.Y
	switch {
	case c.top && c.left:
		depthX, depthY := c.maxX-e.x0, c.maxY-e.y0
		if dx > 0 && dy > 0 && Ratio(dx, dy) < DiagonalRatio && Ratio(depthX, depthY) < DiagonalRatio {
			return BounceDiagonal, c, nil
		}
		if dx <= 0 || (dy > 0 && depthX > depthY) {
			return BounceTop, c, nil
		}
		return BounceLeft, c, nil
	case c.bottom && c.left:
		depthX, depthY := c.maxX-e.x0, e.y1-c.minY
		if dx > 0 && dy < 0 && Ratio(dx, dy) < DiagonalRatio && Ratio(depthX, depthY) < DiagonalRatio {
			return BounceDiagonal, c, nil
		}
		if dx <= 0 || (dy < 0 && depthX > depthY) {
			return BounceBottom, c, nil
		}
		return BounceLeft, c, nil
	case c.top && c.right:
		depthX, depthY := e.x1-c.minX, c.maxY-e.y0
		if dx < 0 && dy > 0 && Ratio(dx, dy) < DiagonalRatio && Ratio(depthX, depthY) < DiagonalRatio {
			return BounceDiagonal, c, nil
		}
		if dx >= 0 || (dy > 0 && depthX > depthY) {
			return BounceTop, c, nil
		}
		return BounceRight, c, nil
	case c.bottom && c.right:
		depthX, depthY := e.x1-c.minX, e.y1-c.minY
		if dx < 0 && dy < 0 && Ratio(dx, dy) < DiagonalRatio && Ratio(depthX, depthY) < DiagonalRatio {
			return BounceDiagonal, c, nil
		}
		if dx >= 0 || (dy < 0 && depthX > depthY) {
			return BounceBottom, c, nil
		}
		return BounceRight, c, nil
	}
	return BounceNone, c, &InvariantError{
		Resolver: "circle-rect",
		BodyID:   circle.ID,
		Detail:   "corner contact matched no bounce",
	}
}

// resolveCircleRect applies the bounce. Face bounces leave the circle tangent
// to the face; a diagonal bounce swaps velocity components and shifts the
// circle by half of the crossed displacement instead of solving the exact
// contact point.
func resolveCircleRect(circle *Body, c circleContact, bounce Bounce) {
	e := c.edges
	radius := circle.Shape.Radius
	offset := -radius
	if c.inside {
		offset = radius
	}

	switch bounce {
	case BounceTop:
		circle.Velocity.Y = -circle.Velocity.Y
		circle.Position.Y = e.y0 + offset
	case BounceLeft:
		circle.Velocity.X = -circle.Velocity.X
		circle.Position.X = e.x0 + offset
	case BounceRight:
		circle.Velocity.X = -circle.Velocity.X
		circle.Position.X = e.x1 - offset
	case BounceBottom:
		circle.Velocity.Y = -circle.Velocity.Y
		circle.Position.Y = e.y1 - offset
	case BounceDiagonal:
		vx, vy := circle.Velocity.X, circle.Velocity.Y
		if SameSign(vx, vy) {
			circle.Velocity = Vec2{X: -vy, Y: -vx}
		} else {
			circle.Velocity = Vec2{X: vy, Y: vx}
		}

		dx, dy := circle.Delta.X, circle.Delta.Y
		if SameSign(dx, dy) {
			circle.Position = circle.Position.AddXY(-dy/2, -dx/2)
		} else {
			circle.Position = circle.Position.AddXY(dy/2, dx/2)
		}
	}
}

// collideCircleRect classifies and resolves one circle/rectangle pair.
func collideCircleRect(circle, r *Body) (Bounce, error) {
	bounce, contact, err := classifyCircleRect(circle, r)
	if err != nil || bounce == BounceNone {
		return bounce, err
	}
	resolveCircleRect(circle, contact, bounce)
	return bounce, nil
}
