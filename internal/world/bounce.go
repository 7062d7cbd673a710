package world

// Bounce names the face (or corner) a collision resolved against.
type Bounce uint8

const (
	BounceNone Bounce = iota
	BounceTop
	BounceLeft
	BounceRight
	BounceBottom
	BounceDiagonal
)

func (b Bounce) String() string {
	switch b {
	case BounceNone:
		return "none"
	case BounceTop:
		return "top"
	case BounceLeft:
		return "left"
	case BounceRight:
		return "right"
	case BounceBottom:
		return "bottom"
	case BounceDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// rectEdges are the boundary lines of a rectangle body.
type rectEdges struct {
	x0, x1, y0, y1 float64
}

func edgesOf(r *Body) rectEdges {
	bounds := r.Bounds()
	return rectEdges{x0: bounds.X.Lo, x1: bounds.X.Hi, y0: bounds.Y.Lo, y1: bounds.Y.Hi}
}

func (e rectEdges) contains(x, y float64) bool {
	return IsBetween(x, e.x0, e.x1) && IsBetween(y, e.y0, e.y1)
}
