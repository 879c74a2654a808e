package spawn

import (
	"math"

	"github.com/emberline/horde/internal/geom"
)

// Position is a spawn point plus the opposite-edge exit used by
// fixed-direction movers.
type Position struct {
	Point  geom.Vec2
	Target geom.Vec2
}

// ProviderConfig shapes the sampled positions.
type ProviderConfig struct {
	Margin        float64 // boundary spawns are inset by this much
	CornerRadius  float64 // corner spawns fall within this radius of a corner
	EdgeThreshold float64 // a point this close to an edge counts as "on" it
}

// Provider computes candidate spawn positions on a map rectangle. It knows
// nothing about what is being spawned.
type Provider struct {
	bounds geom.Rect
	cfg    ProviderConfig
	rng    RandomSource
}

func NewProvider(bounds geom.Rect, cfg ProviderConfig, rng RandomSource) *Provider {
	return &Provider{bounds: bounds, cfg: cfg, rng: rng}
}

func (p *Provider) Bounds() geom.Rect { return p.bounds }

// RandomBoundaryPosition picks one of the four sides uniformly, then a point
// uniformly along it, inset by the margin.
func (p *Provider) RandomBoundaryPosition() geom.Vec2 {
	in := p.bounds.Inflate(-p.cfg.Margin)
	u := p.rng.Float64()
	switch geom.Edge(p.rng.IntN(4)) {
	case geom.EdgeTop:
		return geom.V(in.Min.X+u*in.Width(), in.Min.Y)
	case geom.EdgeRight:
		return geom.V(in.Max.X, in.Min.Y+u*in.Height())
	case geom.EdgeBottom:
		return geom.V(in.Min.X+u*in.Width(), in.Max.Y)
	default:
		return geom.V(in.Min.X, in.Min.Y+u*in.Height())
	}
}

// RandomCornerPosition samples a point within CornerRadius of a uniformly
// chosen corner. The offset is clamped per corner so the point always points
// inward: at the top-left corner X may only grow and Y may only grow (Y is
// down), at the bottom-right both may only shrink, and so on.
func (p *Provider) RandomCornerPosition() geom.Vec2 {
	b := p.bounds
	corner := p.rng.IntN(4)
	offset := geom.FromAngle(p.rng.Float64() * 2 * math.Pi).Scale(p.rng.Float64() * p.cfg.CornerRadius)
	var c geom.Vec2
	var sx, sy float64 // inward direction signs
	switch corner {
	case 0: // top-left
		c, sx, sy = b.Min, 1, 1
	case 1: // top-right
		c, sx, sy = geom.V(b.Max.X, b.Min.Y), -1, 1
	case 2: // bottom-right
		c, sx, sy = b.Max, -1, -1
	default: // bottom-left
		c, sx, sy = geom.V(b.Min.X, b.Max.Y), 1, -1
	}
	// Mirror any outward component back inside instead of collapsing it
	// onto the edge, so the distribution stays within the quarter disc.
	dx := math.Abs(offset.X) * sx
	dy := math.Abs(offset.Y) * sy
	return b.ClampPoint(geom.V(c.X+dx, c.Y+dy))
}

// OppositeEdgePosition returns an exit point for a mover starting at pt.
// A point near an edge mirrors through the map centre. Any other point is
// sent straight across to the edge facing its nearest one. The result always
// lies within the map rectangle, so the path from any in-map start stays
// inside it.
func (p *Provider) OppositeEdgePosition(pt geom.Vec2) geom.Vec2 {
	b := p.bounds
	c := b.Center()
	edge, dist := b.NearestEdge(pt)
	if dist <= p.cfg.EdgeThreshold {
		return b.ClampPoint(geom.V(2*c.X-pt.X, 2*c.Y-pt.Y))
	}
	switch edge {
	case geom.EdgeTop:
		return b.ClampPoint(geom.V(pt.X, b.Max.Y))
	case geom.EdgeBottom:
		return b.ClampPoint(geom.V(pt.X, b.Min.Y))
	case geom.EdgeLeft:
		return b.ClampPoint(geom.V(b.Max.X, pt.Y))
	default:
		return b.ClampPoint(geom.V(b.Min.X, pt.Y))
	}
}

// BoundarySpawn returns a boundary point with its exit target.
func (p *Provider) BoundarySpawn() Position {
	pt := p.RandomBoundaryPosition()
	return Position{Point: pt, Target: p.OppositeEdgePosition(pt)}
}

// CornerSpawn returns a corner point with its exit target.
func (p *Provider) CornerSpawn() Position {
	pt := p.RandomCornerPosition()
	return Position{Point: pt, Target: p.OppositeEdgePosition(pt)}
}
