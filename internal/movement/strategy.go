// Package movement holds the chase strategies. A strategy carries only its
// tuning; everything an entity must remember between ticks lives on Body, so
// one strategy value is shared by every entity that uses it.
package movement

import (
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
)

// Body is the per-entity state a strategy reads and writes.
type Body struct {
	Pos     geom.Vec2
	Heading geom.Vec2 // unit vector, zero when the entity has never moved

	// LastTarget is the target position seen on the previous tick.
	LastTarget    geom.Vec2
	HasLastTarget bool

	// OrbitDir is +1 (clockwise on screen) or -1.
	OrbitDir float64

	// Exit is the fixed-direction destination; ExitDist the distance to it
	// after the previous tick (-1 before the first tick).
	Exit     geom.Vec2
	ExitDist float64
}

// Reset clears the body for reuse.
func (b *Body) Reset() {
	*b = Body{}
}

// Target is something a chaser can follow. ok is false when the target is
// not available (not spawned yet, dead, or nil).
type Target interface {
	Position() (pos geom.Vec2, ok bool)
}

// Strategy moves a body one tick toward or around target.
type Strategy interface {
	Move(body *Body, target Target, speed, dt float64)
}

func targetPos(t Target) (geom.Vec2, bool) {
	if t == nil {
		return geom.Vec2{}, false
	}
	return t.Position()
}

// drift is the fallback for every strategy without a target: keep going in
// a straight line along the current heading.
func drift(body *Body, speed, dt float64) {
	body.HasLastTarget = false
	body.Pos = body.Pos.Add(body.Heading.Scale(speed * dt))
}

// step moves body along unit dir by speed*dt without passing goal.
func step(body *Body, dir, goal geom.Vec2, speed, dt float64) {
	dist := body.Pos.Dist(goal)
	move := speed * dt
	if move >= dist {
		body.Pos = goal
		return
	}
	body.Pos = body.Pos.Add(dir.Scale(move))
}

// Linear heads straight at the target's current position every tick.
type Linear struct{}

func (Linear) Move(body *Body, target Target, speed, dt float64) {
	tp, ok := targetPos(target)
	if !ok {
		drift(body, speed, dt)
		return
	}
	dir := tp.Sub(body.Pos).Norm()
	if !dir.IsZero() {
		body.Heading = dir
	}
	step(body, dir, tp, speed, dt)
}

// Inertia turns the heading toward the target by at most TurnRate radians
// per second, which produces curved pursuit.
type Inertia struct {
	TurnRate float64
}

func (s Inertia) Move(body *Body, target Target, speed, dt float64) {
	tp, ok := targetPos(target)
	if !ok {
		drift(body, speed, dt)
		return
	}
	desired := tp.Sub(body.Pos).Norm()
	body.Heading = geom.RotateToward(body.Heading, desired, s.TurnRate*dt)
	body.Pos = body.Pos.Add(body.Heading.Scale(speed * dt))
}

// Predictive aims at where the target will be after LeadTime seconds,
// extrapolating its velocity from the previous tick.
type Predictive struct {
	LeadTime float64
}

func (s Predictive) Move(body *Body, target Target, speed, dt float64) {
	tp, ok := targetPos(target)
	if !ok {
		drift(body, speed, dt)
		return
	}
	aim := tp
	if body.HasLastTarget && dt > 0 {
		vel := tp.Sub(body.LastTarget).Scale(1 / dt)
		aim = tp.Add(vel.Scale(s.LeadTime))
	}
	body.LastTarget = tp
	body.HasLastTarget = true

	dir := aim.Sub(body.Pos).Norm()
	if !dir.IsZero() {
		body.Heading = dir
	}
	step(body, dir, aim, speed, dt)
}

// Arc orbits the target at Radius: a tangential term perpendicular to the
// radius vector plus a radial term that pulls the body back onto the circle.
type Arc struct {
	Radius     float64
	RadialGain float64
}

func (s Arc) Move(body *Body, target Target, speed, dt float64) {
	tp, ok := targetPos(target)
	if !ok {
		drift(body, speed, dt)
		return
	}
	r := body.Pos.Sub(tp)
	dist := r.Len()
	if dist == 0 || s.Radius <= 0 {
		drift(body, speed, dt)
		return
	}
	outward := r.Scale(1 / dist)
	orbit := body.OrbitDir
	if orbit == 0 {
		orbit = 1
	}
	tangent := outward.Perp().Scale(orbit)
	// Positive when outside the circle: move inward.
	radialErr := (dist - s.Radius) / s.Radius
	dir := tangent.Sub(outward.Scale(radialErr * s.RadialGain)).Norm()
	body.Heading = dir
	body.Pos = body.Pos.Add(dir.Scale(speed * dt))
}

// Registry maps movement types to shared strategy values.
type Registry struct {
	strategies map[data.MovementType]Strategy
}

// Tuning configures the chase strategies.
type Tuning struct {
	TurnRate    float64
	LeadTime    float64
	OrbitRadius float64
	RadialGain  float64
}

func NewRegistry(t Tuning) *Registry {
	return &Registry{strategies: map[data.MovementType]Strategy{
		data.MoveLinear:     Linear{},
		data.MoveInertia:    Inertia{TurnRate: t.TurnRate},
		data.MovePredictive: Predictive{LeadTime: t.LeadTime},
		data.MoveArc:        Arc{Radius: t.OrbitRadius, RadialGain: t.RadialGain},
	}}
}

// For returns the strategy for mt, or nil for fixed-direction and stationary
// movers, which have no strategy object.
func (r *Registry) For(mt data.MovementType) Strategy {
	return r.strategies[mt]
}

// Set replaces the strategy for mt.
func (r *Registry) Set(mt data.MovementType, s Strategy) {
	r.strategies[mt] = s
}
