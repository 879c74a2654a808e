// Package factory creates and returns pooled entities. One factory serves
// every kind; each kind draws variants through its own spawn.Manager.
package factory

import (
	"errors"
	"fmt"
	"time"

	"github.com/emberline/horde/internal/core/ecs"
	"github.com/emberline/horde/internal/core/event"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
	"github.com/emberline/horde/internal/movement"
	"github.com/emberline/horde/internal/pool"
	"github.com/emberline/horde/internal/scripting"
	"github.com/emberline/horde/internal/spawn"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

var (
	ErrUnknownVariant = errors.New("factory: unknown variant")
	ErrUnknownKind    = errors.New("factory: no manager for kind")
	ErrNotActive      = errors.New("factory: entity not active")
)

// Deps are the collaborators a factory is built from.
type Deps struct {
	Entities   *data.EntityTable
	Managers   map[data.EntityKind]*spawn.Manager
	Strategies *movement.Registry
	Scaling    Scaling
	Pool       pool.Options
	World      *world.State
	Bus        *event.Bus        // optional
	Lua        *scripting.Engine // optional, Go curves when nil
	RNG        spawn.RandomSource
}

// Stats counts factory traffic over the run.
type Stats struct {
	Spawned  int
	Returned map[event.ReturnReason]int
	ByKind   map[data.EntityKind]int // spawned per kind
}

type Factory struct {
	pool       *pool.Pool[*world.Entity]
	entities   *data.EntityTable
	managers   map[data.EntityKind]*spawn.Manager
	strategies *movement.Registry
	scaling    Scaling
	world      *world.State
	bus        *event.Bus
	lua        *scripting.Engine
	rng        spawn.RandomSource
	log        *zap.Logger

	baseScale map[string]float64
	stats     Stats
}

// New builds a factory and registers (and pre-warms) one pool template per
// entity variant.
func New(d Deps, log *zap.Logger) (*Factory, error) {
	if d.Entities == nil || d.World == nil || d.Strategies == nil || d.RNG == nil {
		return nil, fmt.Errorf("factory: missing dependency")
	}
	f := &Factory{
		pool:       pool.New[*world.Entity](d.Pool, log),
		entities:   d.Entities,
		managers:   d.Managers,
		strategies: d.Strategies,
		scaling:    d.Scaling,
		world:      d.World,
		bus:        d.Bus,
		lua:        d.Lua,
		rng:        d.RNG,
		log:        log,
		baseScale:  make(map[string]float64, d.Entities.Count()),
		stats: Stats{
			Returned: make(map[event.ReturnReason]int),
			ByKind:   make(map[data.EntityKind]int, 3),
		},
	}
	if f.managers == nil {
		f.managers = make(map[data.EntityKind]*spawn.Manager)
	}
	for _, tmpl := range d.Entities.All() {
		newFn := func(id ecs.EntityID) *world.Entity { return world.NewEntity(id, tmpl) }
		if err := f.pool.RegisterTemplate(tmpl.Variant, newFn, tmpl.PoolSize); err != nil {
			return nil, fmt.Errorf("register %s: %w", tmpl.Variant, err)
		}
	}
	log.Info("entity pools ready",
		zap.Int("templates", f.pool.Templates()),
		zap.Int("instances", f.pool.Live()))
	return f, nil
}

// Create activates one entity of variant at pos with stats scaled for level.
func (f *Factory) Create(variant string, pos geom.Vec2, level int) (*world.Entity, error) {
	tmpl := f.entities.Get(variant)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	inst, err := f.pool.Acquire(variant)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", variant, err)
	}
	if level < 1 {
		level = 1
	}
	e := inst.Value

	m := f.multipliers(tmpl, level)
	e.Level = level
	e.MaxHP = ScaledHealth(tmpl.HP, m.HealthMul)
	e.HP = e.MaxHP
	e.Speed = tmpl.Speed * m.SpeedMul
	e.Scale = f.base(tmpl) * m.ScaleMul
	e.Damage = tmpl.Damage

	e.Body.Pos = pos
	e.Body.ExitDist = -1
	e.Body.OrbitDir = 1
	if f.rng.IntN(2) == 0 {
		e.Body.OrbitDir = -1
	}
	e.Body.Heading = f.initialHeading(pos)
	e.Strategy = f.strategies.For(tmpl.Movement)

	e.Life.Initialize(f.lifetime(tmpl, level))
	e.Alive = true
	f.world.Add(e)

	f.stats.Spawned++
	f.stats.ByKind[tmpl.Kind]++
	event.Emit(f.bus, event.EntitySpawned{
		EntityID: e.ID,
		Variant:  tmpl.Variant,
		Kind:     tmpl.Kind,
		Pos:      pos,
		Level:    level,
	})
	return e, nil
}

// CreateRandom picks a variant of kind for level through the kind's manager,
// then creates it. A failed selection never touches the pool.
func (f *Factory) CreateRandom(kind data.EntityKind, pos geom.Vec2, level int) (*world.Entity, error) {
	m, ok := f.managers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	entry, err := m.Pick(f.rng, level)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", kind, err)
	}
	return f.Create(entry.Variant, pos, level)
}

// Aim points a fixed-direction mover at its exit. Other movers are ignored.
func (f *Factory) Aim(e *world.Entity, exit geom.Vec2) {
	if e.Movement() != data.MoveFixed {
		return
	}
	movement.Fixed{}.Aim(&e.Body, exit)
}

// Return removes e from the world, emits its lifecycle events and releases it
// to the pool. Returning an entity that is not active is logged and ignored.
func (f *Factory) Return(e *world.Entity, reason event.ReturnReason) error {
	if e == nil || !e.Active {
		f.log.Warn("return of inactive entity", zap.String("reason", string(reason)))
		return ErrNotActive
	}
	inst, ok := f.pool.Lookup(e.ID)
	if !ok || inst.Value != e {
		f.log.Warn("return of untracked entity",
			zap.String("variant", e.Variant()),
			zap.Uint64("id", uint64(e.ID)))
		return pool.ErrUntracked
	}

	e.Life.Expire()
	destroyed := event.EntityDestroyed{
		EntityID: e.ID,
		Variant:  e.Variant(),
		Kind:     e.Kind(),
		Pos:      e.Body.Pos,
		Value:    e.Template.Value,
		Reason:   reason,
	}
	f.world.Remove(e.ID)
	event.Emit(f.bus, destroyed)
	if e.Kind() == data.KindEnemy && reason == event.ReasonKilled {
		event.Emit(f.bus, event.AreaAffected{
			Pos:     destroyed.Pos,
			Radius:  e.Template.Radius * e.Scale,
			Variant: destroyed.Variant,
		})
	}
	e.Life.State = world.LifeReturned

	if err := f.pool.Release(inst); err != nil {
		return fmt.Errorf("release %s: %w", destroyed.Variant, err)
	}
	f.stats.Returned[reason]++
	return nil
}

// SetActiveTables applies a wave's table list. Each manager keeps the names of
// its own kind; a kind the list does not mention keeps every table active.
func (f *Factory) SetActiveTables(names []string) {
	for _, m := range f.managers {
		var own []string
		for _, n := range names {
			if m.Has(n) {
				own = append(own, n)
			}
		}
		if len(own) == 0 {
			m.SetActive(nil)
			continue
		}
		m.SetActive(own)
	}
}

// Lookup resolves an instance id to its entity, active or idle.
func (f *Factory) Lookup(id ecs.EntityID) (*world.Entity, bool) {
	inst, ok := f.pool.Lookup(id)
	if !ok {
		return nil, false
	}
	return inst.Value, true
}

func (f *Factory) Stats() Stats { return f.stats }

// PoolStats returns the idle/active counts for variant.
func (f *Factory) PoolStats(variant string) pool.Stats { return f.pool.Stats(variant) }

// Close tears down every pool.
func (f *Factory) Close() { f.pool.Close() }

func (f *Factory) multipliers(tmpl *data.EntityTemplate, level int) scripting.ScalingResult {
	m := scripting.ScalingResult{
		HealthMul: f.scaling.HealthMultiplier(level),
		SpeedMul:  f.scaling.SpeedMultiplier(level),
		ScaleMul:  f.scaling.ScaleMultiplier(level),
	}
	if f.lua == nil {
		return m
	}
	m = f.lua.WaveScaling(scripting.ScalingContext{
		Level:     level,
		Kind:      string(tmpl.Kind),
		Variant:   tmpl.Variant,
		HealthMul: m.HealthMul,
		SpeedMul:  m.SpeedMul,
		ScaleMul:  m.ScaleMul,
	})
	// Scripts may reshape the curve but never break the floor or ceiling.
	m.HealthMul = atLeastOne(m.HealthMul)
	m.SpeedMul = f.scaling.clampSpeed(m.SpeedMul)
	m.ScaleMul = atLeastOne(m.ScaleMul)
	return m
}

// base returns the template's unscaled visual size, captured on first use.
func (f *Factory) base(tmpl *data.EntityTemplate) float64 {
	if s, ok := f.baseScale[tmpl.Variant]; ok {
		return s
	}
	s := tmpl.Scale
	if s <= 0 {
		s = 1
	}
	f.baseScale[tmpl.Variant] = s
	return s
}

func (f *Factory) lifetime(tmpl *data.EntityTemplate, level int) time.Duration {
	secs := tmpl.Lifetime
	if f.lua != nil {
		secs = f.lua.EntityLifetime(scripting.LifetimeContext{
			Level:    level,
			Kind:     string(tmpl.Kind),
			Variant:  tmpl.Variant,
			Lifetime: secs,
		})
	}
	return time.Duration(secs * float64(time.Second))
}

// initialHeading faces a new entity toward the player, or the map centre
// when there is no player.
func (f *Factory) initialHeading(pos geom.Vec2) geom.Vec2 {
	goal, ok := f.world.Player.Position()
	if !ok {
		goal = f.world.Bounds.Center()
	}
	return goal.Sub(pos).Norm()
}

// OnWaveChanged activates the wave's spawn tables.
func (f *Factory) OnWaveChanged(level int, cfg data.WaveConfig) {
	f.SetActiveTables(cfg.Tables)
	f.log.Debug("spawn tables applied", zap.Int("level", level), zap.Strings("tables", cfg.Tables))
}
