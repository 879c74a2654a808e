package system

import (
	"fmt"
	"time"

	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/factory"
	"github.com/emberline/horde/internal/spawn"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// PositionMode selects where a spawner places new entities.
type PositionMode string

const (
	PositionBoundary PositionMode = "boundary"
	PositionCorner   PositionMode = "corner"
)

// SpawnerSettings configures one spawner.
type SpawnerSettings struct {
	Name          string
	Kind          data.EntityKind
	Position      PositionMode
	IntervalScale float64 // multiplier on the wave spawn interval
	MaxActive     int     // 0 = unlimited
}

// SpawnSystem periodically creates one entity of its kind. The interval
// follows the current wave; spawning is suppressed while the game signal
// reports a countdown or pause. Phase 3 (Spawn).
type SpawnSystem struct {
	cfg      SpawnerSettings
	factory  *factory.Factory
	provider *spawn.Provider
	world    *world.State
	signal   world.GameSignal
	log      *zap.Logger

	level    int
	interval time.Duration
	acc      time.Duration

	spawned int
	failed  int
}

func NewSpawnSystem(cfg SpawnerSettings, f *factory.Factory, provider *spawn.Provider, ws *world.State, signal world.GameSignal, log *zap.Logger) (*SpawnSystem, error) {
	if !cfg.Kind.Valid() {
		return nil, fmt.Errorf("spawner %q: unknown kind %q", cfg.Name, cfg.Kind)
	}
	switch cfg.Position {
	case PositionBoundary, PositionCorner:
	default:
		return nil, fmt.Errorf("spawner %q: unknown position %q", cfg.Name, cfg.Position)
	}
	if cfg.IntervalScale <= 0 {
		cfg.IntervalScale = 1
	}
	return &SpawnSystem{
		cfg:      cfg,
		factory:  f,
		provider: provider,
		world:    ws,
		signal:   signal,
		log:      log.With(zap.String("spawner", cfg.Name)),
		level:    1,
	}, nil
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

// OnWaveChanged takes the new level and interval. The accumulator is kept so
// a faster wave does not lose progress toward the next spawn.
func (s *SpawnSystem) OnWaveChanged(level int, cfg data.WaveConfig) {
	s.level = level
	s.interval = time.Duration(cfg.SpawnInterval * s.cfg.IntervalScale * float64(time.Second))
}

func (s *SpawnSystem) Update(dt time.Duration) {
	if s.signal != nil && (s.signal.Paused() || s.signal.CountingDown()) {
		return
	}
	if s.interval <= 0 {
		return
	}
	s.acc += dt
	if s.acc < s.interval {
		return
	}
	// Keep the overshoot so the cadence does not depend on the tick rate, but
	// never bank more than one pending attempt after a long tick.
	s.acc -= s.interval
	if s.acc > s.interval {
		s.acc = s.interval
	}
	s.spawnOne()
}

func (s *SpawnSystem) spawnOne() {
	if s.cfg.MaxActive > 0 && s.world.CountKind(s.cfg.Kind) >= s.cfg.MaxActive {
		return
	}
	var pos spawn.Position
	if s.cfg.Position == PositionCorner {
		pos = s.provider.CornerSpawn()
	} else {
		pos = s.provider.BoundarySpawn()
	}
	e, err := s.factory.CreateRandom(s.cfg.Kind, pos.Point, s.level)
	if err != nil {
		s.failed++
		s.log.Debug("spawn skipped", zap.Int("level", s.level), zap.Error(err))
		return
	}
	s.factory.Aim(e, pos.Target)
	s.spawned++
}

func (s *SpawnSystem) Name() string { return s.cfg.Name }

// Interval returns the current spawn interval.
func (s *SpawnSystem) Interval() time.Duration { return s.interval }

// Counts returns successful and failed spawn attempts.
func (s *SpawnSystem) Counts() (spawned, failed int) { return s.spawned, s.failed }
