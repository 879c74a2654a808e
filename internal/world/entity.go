package world

import (
	"github.com/emberline/horde/internal/core/ecs"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
	"github.com/emberline/horde/internal/movement"
)

// Entity is the runtime state of one pooled actor. ID and Template are fixed
// for the life of the pooled instance; everything else is per activation and
// cleared by Reset.
// Accessed only from the game loop goroutine, no locks.
type Entity struct {
	ID       ecs.EntityID
	Template *data.EntityTemplate

	Level  int     // wave level the entity was spawned at
	HP     int
	MaxHP  int
	Speed  float64 // world units per second, wave-scaled
	Scale  float64 // visual size, wave-scaled from the template baseline
	Damage int

	Body     movement.Body
	Strategy movement.Strategy // nil: Movement() decides, fixed or none
	Life     Lifetime

	Alive  bool
	Active bool // in the world (not in the pool idle queue)
}

func NewEntity(id ecs.EntityID, tmpl *data.EntityTemplate) *Entity {
	return &Entity{ID: id, Template: tmpl}
}

// Reset returns the entity to its pooled defaults: origin position, no
// heading, no strategy, no health, lifetime back to Initializing.
func (e *Entity) Reset() {
	e.Level = 0
	e.HP = 0
	e.MaxHP = 0
	e.Speed = 0
	e.Scale = 0
	e.Damage = 0
	e.Body.Reset()
	e.Strategy = nil
	e.Life.Reset()
	e.Alive = false
	e.Active = false
}

func (e *Entity) Variant() string { return e.Template.Variant }
func (e *Entity) Kind() data.EntityKind { return e.Template.Kind }
func (e *Entity) Pos() geom.Vec2 { return e.Body.Pos }
func (e *Entity) Movement() data.MovementType { return e.Template.Movement }

// Position implements movement.Target so entities can be chased too.
func (e *Entity) Position() (geom.Vec2, bool) {
	if e == nil || !e.Alive {
		return geom.Vec2{}, false
	}
	return e.Body.Pos, true
}

// TakeDamage applies amount and reports whether this hit killed the entity.
// Non-positive amounts and hits on dead entities are ignored.
func (e *Entity) TakeDamage(amount int) (died bool) {
	if !e.Alive || amount <= 0 {
		return false
	}
	e.HP -= amount
	if e.HP <= 0 {
		e.HP = 0
		e.Alive = false
		return true
	}
	return false
}
