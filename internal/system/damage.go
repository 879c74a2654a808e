package system

import (
	"github.com/emberline/horde/internal/core/event"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/world"
)

// ApplyDamage is the entry point for the collision collaborator. It reports
// whether the hit killed the entity; a kill returns it to the pool at once.
func ApplyDamage(f *factory.Factory, e *world.Entity, amount int) (bool, error) {
	if e == nil || !e.Active {
		return false, nil
	}
	if !e.TakeDamage(amount) {
		return false, nil
	}
	return true, f.Return(e, event.ReasonKilled)
}

// Collect returns a pickup consumed by the player.
func Collect(f *factory.Factory, e *world.Entity) error {
	return f.Return(e, event.ReasonCollected)
}
