package movement

import (
	"math"
	"testing"

	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
)

type point struct {
	pos geom.Vec2
	ok  bool
}

func (p *point) Position() (geom.Vec2, bool) {
	if p == nil {
		return geom.Vec2{}, false
	}
	return p.pos, p.ok
}

func at(x, y float64) *point { return &point{pos: geom.V(x, y), ok: true} }

func TestLinearRecomputesDirectionEveryTick(t *testing.T) {
	b := &Body{Pos: geom.V(0, 0)}
	target := at(100, 0)
	Linear{}.Move(b, target, 10, 1)
	if !b.Pos.Eq(geom.V(10, 0), 1e-9) {
		t.Fatalf("after first tick pos = %+v", b.Pos)
	}
	target.pos = geom.V(10, 100)
	Linear{}.Move(b, target, 10, 1)
	if !b.Pos.Eq(geom.V(10, 10), 1e-9) {
		t.Fatalf("direction not recomputed: pos = %+v", b.Pos)
	}
}

func TestLinearDoesNotOvershoot(t *testing.T) {
	b := &Body{Pos: geom.V(0, 0)}
	Linear{}.Move(b, at(3, 4), 100, 1)
	if !b.Pos.Eq(geom.V(3, 4), 1e-9) {
		t.Fatalf("pos = %+v, want target", b.Pos)
	}
}

func TestInertiaCapsTurn(t *testing.T) {
	b := &Body{Pos: geom.V(0, 0), Heading: geom.V(1, 0)}
	// Target straight "down"; a quarter turn away.
	Inertia{TurnRate: math.Pi / 4}.Move(b, at(0, 100), 10, 1)
	want := geom.FromAngle(math.Pi / 4)
	if !b.Heading.Eq(want, 1e-9) {
		t.Fatalf("heading = %+v, want %+v", b.Heading, want)
	}
	if !b.Pos.Eq(want.Scale(10), 1e-9) {
		t.Fatalf("pos = %+v", b.Pos)
	}
}

func TestInertiaFromRestSnapsToTarget(t *testing.T) {
	b := &Body{Pos: geom.V(0, 0)}
	Inertia{TurnRate: 0.1}.Move(b, at(0, 50), 5, 1)
	if !b.Heading.Eq(geom.V(0, 1), 1e-9) {
		t.Fatalf("heading from rest = %+v", b.Heading)
	}
}

func TestPredictiveLeadsMovingTarget(t *testing.T) {
	s := Predictive{LeadTime: 2}
	b := &Body{Pos: geom.V(0, 0)}
	target := at(100, 0)
	s.Move(b, target, 1, 1) // first sighting: aims at raw position
	if !b.Heading.Eq(geom.V(1, 0), 1e-9) {
		t.Fatalf("first heading = %+v", b.Heading)
	}

	target.pos = geom.V(100, 10) // moving +10/s in Y
	s.Move(b, target, 1, 1)
	aim := geom.V(100, 30) // 10 + 10*2
	want := aim.Sub(geom.V(1, 0)).Norm()
	if !b.Heading.Eq(want, 1e-9) {
		t.Fatalf("predictive heading = %+v, want %+v", b.Heading, want)
	}
}

func TestArcOrbitsAtRadius(t *testing.T) {
	s := Arc{Radius: 50, RadialGain: 2}
	b := &Body{Pos: geom.V(150, 0), OrbitDir: 1}
	target := at(0, 0)
	for i := 0; i < 4000; i++ {
		s.Move(b, target, 40, 0.02)
	}
	if d := b.Pos.Len(); math.Abs(d-50) > 2 {
		t.Fatalf("distance after settling = %.2f, want ~50", d)
	}
	// On the circle the motion is tangential.
	radial := b.Pos.Norm()
	if dot := math.Abs(b.Heading.Dot(radial)); dot > 0.1 {
		t.Fatalf("heading not tangential: |dot| = %.3f", dot)
	}
}

func TestStrategiesFallBackWithoutTarget(t *testing.T) {
	strategies := map[string]Strategy{
		"linear":     Linear{},
		"inertia":    Inertia{TurnRate: 1},
		"predictive": Predictive{LeadTime: 1},
		"arc":        Arc{Radius: 10, RadialGain: 1},
	}
	targets := map[string]Target{
		"nil interface": nil,
		"nil pointer":   (*point)(nil),
		"unavailable":   &point{pos: geom.V(500, 500)},
	}
	for name, s := range strategies {
		for tname, target := range targets {
			t.Run(name+"/"+tname, func(t *testing.T) {
				b := &Body{Pos: geom.V(10, 10), Heading: geom.V(0, -1), HasLastTarget: true}
				s.Move(b, target, 5, 2)
				if !b.Pos.Eq(geom.V(10, 0), 1e-9) {
					t.Fatalf("fallback pos = %+v, want straight along heading", b.Pos)
				}
				if b.HasLastTarget {
					t.Fatal("stale target memory kept")
				}
			})
		}
	}
}

func TestStrategyIsShareable(t *testing.T) {
	s := Predictive{LeadTime: 1}
	a := &Body{Pos: geom.V(0, 0)}
	b := &Body{Pos: geom.V(0, 0)}
	ta, tb := at(10, 0), at(0, 10)
	s.Move(a, ta, 1, 1)
	s.Move(b, tb, 1, 1)
	ta.pos = geom.V(20, 0)
	s.Move(a, ta, 1, 1)
	// b's memory is untouched by a's moves.
	if !b.LastTarget.Eq(geom.V(0, 10), 0) {
		t.Fatalf("shared strategy leaked state: %+v", b.LastTarget)
	}
}

func TestFixedArrivalAndOvershoot(t *testing.T) {
	f := Fixed{ArrivalThreshold: 0.5, OvershootWindow: 5}

	b := &Body{Pos: geom.V(0, 0)}
	f.Aim(b, geom.V(10, 0))
	ticks := 0
	for !f.Advance(b, 3, 1) {
		ticks++
		if ticks > 10 {
			t.Fatal("never finished")
		}
	}
	// 3, 6, 9 (within window), 12 (moved away) -> overshoot on the 4th tick.
	if ticks != 3 {
		t.Fatalf("finished after %d extra ticks, want 3", ticks)
	}

	b = &Body{Pos: geom.V(0, 0)}
	f.Aim(b, geom.V(10, 0))
	for i := 0; i < 4; i++ {
		if f.Advance(b, 2.25, 1) {
			t.Fatalf("finished early at %+v", b.Pos)
		}
	}
	// 11.25 is 1.25 away, farther than the 1.0 seen at 9.0.
	if !f.Advance(b, 2.25, 1) {
		t.Fatalf("overshoot not detected at %+v", b.Pos)
	}

	b = &Body{Pos: geom.V(5, 5)}
	f.Aim(b, geom.V(5, 5))
	if !f.Advance(b, 1, 1) {
		t.Fatal("zero-length path should finish immediately")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Tuning{TurnRate: 1, LeadTime: 1, OrbitRadius: 10, RadialGain: 1})
	for _, mt := range []data.MovementType{data.MoveLinear, data.MoveInertia, data.MovePredictive, data.MoveArc} {
		if r.For(mt) == nil {
			t.Errorf("no strategy for %s", mt)
		}
	}
	for _, mt := range []data.MovementType{data.MoveFixed, data.MoveNone} {
		if r.For(mt) != nil {
			t.Errorf("%s should have no strategy object", mt)
		}
	}
}
