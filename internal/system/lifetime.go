package system

import (
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// LifetimeSystem returns entities whose lifetime ran out or that strayed
// farther than the margin outside the map. It runs for every active entity,
// moving or not. Phase 5 (Lifetime).
type LifetimeSystem struct {
	world   *world.State
	factory *factory.Factory
	margin  float64
	log     *zap.Logger
	buf     []*world.Entity
}

func NewLifetimeSystem(ws *world.State, f *factory.Factory, outOfBoundsMargin float64, log *zap.Logger) *LifetimeSystem {
	return &LifetimeSystem{world: ws, factory: f, margin: outOfBoundsMargin, log: log}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseLifetime }

func (s *LifetimeSystem) Update(dt time.Duration) {
	// Returns mutate the active list; iterate a snapshot.
	s.buf = s.world.Snapshot(s.buf)
	for _, e := range s.buf {
		if e.Life.State != world.LifeAlive {
			continue
		}
		var reason event.ReturnReason
		switch {
		case e.Life.Advance(dt):
			reason = event.ReasonExpired
		case s.world.Bounds.Outside(e.Body.Pos) > s.margin+e.Template.BoundsPad:
			reason = event.ReasonEscaped
		default:
			continue
		}
		if err := s.factory.Return(e, reason); err != nil {
			s.log.Warn("auto return failed",
				zap.String("variant", e.Variant()),
				zap.String("reason", string(reason)),
				zap.Error(err))
		}
	}
	clear(s.buf)
}
