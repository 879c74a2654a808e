package movement

import "github.com/emberline/horde/internal/geom"

// Fixed moves entities that have no strategy: a straight line from spawn to
// a precomputed exit point.
type Fixed struct {
	ArrivalThreshold float64
	OvershootWindow  float64
}

// Aim points body at exit. Called once at spawn.
func (f Fixed) Aim(body *Body, exit geom.Vec2) {
	body.Exit = exit
	body.ExitDist = -1
	body.Heading = exit.Sub(body.Pos).Norm()
}

// Advance moves body one tick along its heading and reports whether it has
// finished: within ArrivalThreshold of the exit, or moving away from an exit
// it was already within OvershootWindow of.
func (f Fixed) Advance(body *Body, speed, dt float64) bool {
	if body.Heading.IsZero() {
		return true
	}
	body.Pos = body.Pos.Add(body.Heading.Scale(speed * dt))
	dist := body.Pos.Dist(body.Exit)
	prev := body.ExitDist
	body.ExitDist = dist
	if dist <= f.ArrivalThreshold {
		return true
	}
	return prev >= 0 && prev <= f.OvershootWindow && dist > prev
}
