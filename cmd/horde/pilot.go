package main

import (
	"math"
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/geom"
	"github.com/emberline/horde/internal/system"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// Headless stand-ins for the input and collision collaborators.
const (
	playerMaxHP    = 100
	playerRadius   = 12.0
	pilotOrbit     = 0.4 // fraction of the shorter map side
	pilotTurnSpeed = 0.6 // radians per second
	shotInterval   = 400 * time.Millisecond
	shotRange      = 260.0
	shotDamage     = 6
)

// pilotSystem steers the player around the map centre so chasers have a
// moving target. Phase 0 (Input), after the countdown.
type pilotSystem struct {
	world  *world.State
	angle  float64
	radius float64
}

func newPilotSystem(ws *world.State) *pilotSystem {
	r := math.Min(ws.Bounds.Width(), ws.Bounds.Height()) * pilotOrbit
	return &pilotSystem{world: ws, radius: r}
}

func (s *pilotSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *pilotSystem) Update(dt time.Duration) {
	if s.world.Game.Phase() != world.PhasePlaying || !s.world.Player.Alive() {
		return
	}
	s.angle += pilotTurnSpeed * dt.Seconds()
	c := s.world.Bounds.Center()
	s.world.Player.MoveTo(c.Add(geom.FromAngle(s.angle).Scale(s.radius)))
}

// contactSystem resolves touches between the player and active entities and
// fires the player's weapon at the nearest enemy. Phase 4 (Move), after
// movement.
type contactSystem struct {
	world   *world.State
	factory *factory.Factory
	log     *zap.Logger
	cool    time.Duration
	buf     []*world.Entity
}

func newContactSystem(ws *world.State, f *factory.Factory, log *zap.Logger) *contactSystem {
	return &contactSystem{world: ws, factory: f, log: log}
}

func (s *contactSystem) Phase() coresys.Phase { return coresys.PhaseMove }

func (s *contactSystem) Update(dt time.Duration) {
	p := s.world.Player
	if s.world.Game.Phase() != world.PhasePlaying || !p.Alive() {
		return
	}
	s.buf = s.world.Snapshot(s.buf)
	var nearest *world.Entity
	best := shotRange
	for _, e := range s.buf {
		if !e.Alive {
			continue
		}
		d := e.Body.Pos.Dist(p.Pos)
		if d <= e.Template.Radius*e.Scale+playerRadius {
			s.touch(e)
			continue
		}
		if e.Kind() == data.KindEnemy && d < best {
			best, nearest = d, e
		}
	}
	clear(s.buf)

	s.cool -= dt
	if nearest != nil && s.cool <= 0 {
		s.cool = shotInterval
		if _, err := system.ApplyDamage(s.factory, nearest, shotDamage); err != nil {
			s.log.Warn("shot return failed", zap.Error(err))
		}
	}

	if !p.Alive() {
		s.world.Game.End()
		s.log.Info("player down", zap.Int("active", s.world.Count()))
	}
}

func (s *contactSystem) touch(e *world.Entity) {
	p := s.world.Player
	switch e.Kind() {
	case data.KindEnemy:
		p.TakeDamage(e.Damage)
		if _, err := system.ApplyDamage(s.factory, e, e.HP); err != nil {
			s.log.Warn("contact return failed", zap.Error(err))
		}
	case data.KindBullet:
		p.TakeDamage(e.Damage)
		s.world.MarkForReturn(e.ID, event.ReasonDespawned)
	case data.KindItem:
		p.Heal(e.Template.Value)
		if err := system.Collect(s.factory, e); err != nil {
			s.log.Warn("pickup return failed", zap.Error(err))
		}
	}
}
