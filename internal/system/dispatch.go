package system

import (
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
)

// EventDispatchSystem delivers the previous tick's events. Phase 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}

// Drain delivers events emitted on the last tick. Called once after the
// loop stops so end-of-run consumers see the final tick.
func (s *EventDispatchSystem) Drain() {
	s.Update(0)
}
