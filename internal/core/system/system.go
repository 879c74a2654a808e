package system

import "time"

// Phase defines execution ordering within a single tick. Systems in a lower
// phase always run before systems in a higher one; within a phase,
// registration order is kept.
type Phase int

const (
	PhaseInput     Phase = iota // 0: game-state signal (countdown)
	PhasePreUpdate              // 1: deliver last tick's events
	PhaseWave                   // 2: wave level + spawn configuration
	PhaseSpawn                  // 3: spawners
	PhaseMove                   // 4: entity movement
	PhaseLifetime               // 5: lifetime / bounds expiry
	PhasePersist                // 6: analytics flush
	PhaseCleanup                // 7: flush deferred returns
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
