package system

import (
	"time"

	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// CountdownSystem runs the pre-game countdown. Phase 0 (Input).
type CountdownSystem struct {
	game *world.GameState
	log  *zap.Logger
}

func NewCountdownSystem(game *world.GameState, log *zap.Logger) *CountdownSystem {
	return &CountdownSystem{game: game, log: log}
}

func (s *CountdownSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *CountdownSystem) Update(dt time.Duration) {
	if s.game.AdvanceCountdown(dt) {
		s.log.Info("countdown finished, play started")
	}
}
