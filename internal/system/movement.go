package system

import (
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/movement"
	"github.com/emberline/horde/internal/world"
)

// MovementSystem moves every active entity one tick: strategy-driven chasers
// toward the player, fixed-direction movers toward their exit. Arrived fixed
// movers are queued for return. Phase 4 (Move).
type MovementSystem struct {
	world *world.State
	fixed movement.Fixed
}

func NewMovementSystem(ws *world.State, fixed movement.Fixed) *MovementSystem {
	return &MovementSystem{world: ws, fixed: fixed}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseMove }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	var target movement.Target
	if s.world.Player != nil {
		target = s.world.Player
	}
	for _, e := range s.world.Entities() {
		if !e.Alive {
			continue
		}
		switch {
		case e.Strategy != nil:
			e.Strategy.Move(&e.Body, target, e.Speed, secs)
		case e.Movement() == data.MoveFixed:
			if s.fixed.Advance(&e.Body, e.Speed, secs) {
				s.world.MarkForReturn(e.ID, event.ReasonArrived)
			}
		}
	}
}
