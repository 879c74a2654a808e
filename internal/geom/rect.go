package geom

import "math"

// Rect is an axis-aligned rectangle [Min, Max].
type Rect struct {
	Min, Max Vec2
}

// NewRect returns the map rectangle anchored at the origin.
func NewRect(width, height float64) Rect {
	return Rect{Max: Vec2{width, height}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inflate grows the rectangle by m on every side (shrinks for negative m).
func (r Rect) Inflate(m float64) Rect {
	return Rect{Min: Vec2{r.Min.X - m, r.Min.Y - m}, Max: Vec2{r.Max.X + m, r.Max.Y + m}}
}

// ClampPoint returns the closest point of the rectangle to p.
func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{Clamp(p.X, r.Min.X, r.Max.X), Clamp(p.Y, r.Min.Y, r.Max.Y)}
}

// Edge identifies one side of a Rect.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	}
	return "unknown"
}

// EdgeDistances returns the distance from p to each edge line, indexed by Edge.
func (r Rect) EdgeDistances(p Vec2) [4]float64 {
	return [4]float64{
		EdgeTop:    math.Abs(p.Y - r.Min.Y),
		EdgeRight:  math.Abs(r.Max.X - p.X),
		EdgeBottom: math.Abs(r.Max.Y - p.Y),
		EdgeLeft:   math.Abs(p.X - r.Min.X),
	}
}

// NearestEdge returns the edge closest to p and its distance. Ties resolve
// in Edge order.
func (r Rect) NearestEdge(p Vec2) (Edge, float64) {
	d := r.EdgeDistances(p)
	best := EdgeTop
	for e := EdgeRight; e <= EdgeLeft; e++ {
		if d[e] < d[best] {
			best = e
		}
	}
	return best, d[best]
}

// Outside returns how far p lies outside the rectangle along the worst axis
// (0 when inside).
func (r Rect) Outside(p Vec2) float64 {
	dx := math.Max(r.Min.X-p.X, p.X-r.Max.X)
	dy := math.Max(r.Min.Y-p.Y, p.Y-r.Max.Y)
	return math.Max(0, math.Max(dx, dy))
}
