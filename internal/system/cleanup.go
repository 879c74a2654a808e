package system

import (
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred return queue at tick end.
// Phase 7 (Cleanup).
type CleanupSystem struct {
	world   *world.State
	factory *factory.Factory
	log     *zap.Logger
}

func NewCleanupSystem(ws *world.State, f *factory.Factory, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, factory: f, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.world.FlushReturns(func(e *world.Entity, reason event.ReturnReason) {
		if err := s.factory.Return(e, reason); err != nil {
			s.log.Debug("deferred return skipped",
				zap.String("variant", e.Variant()),
				zap.String("reason", string(reason)),
				zap.Error(err))
		}
	})
}
