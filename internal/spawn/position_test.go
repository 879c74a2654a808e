package spawn

import (
	"math"
	"testing"

	"github.com/emberline/horde/internal/geom"
)

func newTestProvider(seed uint64) *Provider {
	return NewProvider(geom.NewRect(800, 600), ProviderConfig{
		Margin:        10,
		CornerRadius:  50,
		EdgeThreshold: 40,
	}, NewSeededRNG(seed))
}

func TestBoundaryPositionIsInsetOnAnEdge(t *testing.T) {
	p := newTestProvider(1)
	sides := map[geom.Edge]int{}
	for i := 0; i < 4000; i++ {
		pt := p.RandomBoundaryPosition()
		inner := p.Bounds().Inflate(-10)
		if !inner.Contains(pt) {
			t.Fatalf("point %+v outside inset rectangle", pt)
		}
		edge, dist := inner.NearestEdge(pt)
		if dist > 1e-9 {
			t.Fatalf("point %+v not on the inset boundary (dist %v)", pt, dist)
		}
		sides[edge]++
	}
	for e := geom.EdgeTop; e <= geom.EdgeLeft; e++ {
		if sides[e] < 800 {
			t.Errorf("edge %s drawn %d/4000 times, want roughly uniform", e, sides[e])
		}
	}
}

func TestCornerPositionStaysInsideNearCorner(t *testing.T) {
	p := newTestProvider(2)
	b := p.Bounds()
	corners := []geom.Vec2{b.Min, geom.V(b.Max.X, b.Min.Y), b.Max, geom.V(b.Min.X, b.Max.Y)}
	for i := 0; i < 4000; i++ {
		pt := p.RandomCornerPosition()
		if !b.Contains(pt) {
			t.Fatalf("corner point %+v outside map", pt)
		}
		near := false
		for _, c := range corners {
			if pt.Dist(c) <= 50+1e-9 {
				near = true
			}
		}
		if !near {
			t.Fatalf("corner point %+v not within radius of any corner", pt)
		}
	}
}

func TestOppositeEdgeNearEdgeMirrorsThroughCentre(t *testing.T) {
	p := newTestProvider(3)
	got := p.OppositeEdgePosition(geom.V(10, 100))
	if want := geom.V(790, 500); !got.Eq(want, 1e-9) {
		t.Fatalf("mirror = %+v, want %+v", got, want)
	}
}

func TestOppositeEdgeFallbackUsesNearestEdge(t *testing.T) {
	p := newTestProvider(4)
	tests := []struct {
		name string
		in   geom.Vec2
		want geom.Vec2
	}{
		{"closest to top", geom.V(400, 60), geom.V(400, 600)},
		{"closest to bottom", geom.V(300, 530), geom.V(300, 0)},
		{"closest to left", geom.V(70, 300), geom.V(800, 300)},
		{"closest to right", geom.V(720, 290), geom.V(0, 290)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.OppositeEdgePosition(tt.in); !got.Eq(tt.want, 1e-9) {
				t.Fatalf("OppositeEdgePosition(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

// Every fixed-direction path from a boundary spawn must stay inside the map
// and end on its far side.
func TestOppositeEdgeReachability(t *testing.T) {
	p := newTestProvider(5)
	b := p.Bounds()
	c := b.Center()
	for i := 0; i < 5000; i++ {
		var s Position
		if i%2 == 0 {
			s = p.BoundarySpawn()
		} else {
			s = p.CornerSpawn()
		}
		if !b.Contains(s.Target) {
			t.Fatalf("target %+v outside map", s.Target)
		}
		for k := 0; k <= 20; k++ {
			q := s.Point.Add(s.Target.Sub(s.Point).Scale(float64(k) / 20))
			if b.Outside(q) > 1e-9 {
				t.Fatalf("path %+v -> %+v leaves the map at %+v", s.Point, s.Target, q)
			}
		}
		// The target lies across the centre from the spawn: travelling to
		// it never moves away from the map.
		toCentre := c.Sub(s.Point)
		travel := s.Target.Sub(s.Point)
		if travel.Dot(toCentre) <= 0 && travel.Len() > 0 {
			t.Fatalf("spawn %+v travels away from the map toward %+v", s.Point, s.Target)
		}
		if math.IsNaN(s.Target.X) || math.IsNaN(s.Target.Y) {
			t.Fatal("NaN target")
		}
	}
}
