package system

import (
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/world"
	"go.uber.org/zap"
)

// WaveListener receives wave transitions synchronously.
type WaveListener interface {
	OnWaveChanged(level int, cfg data.WaveConfig)
}

// ComputeWaveLevel maps accumulated active time to a level in [1, max].
func ComputeWaveLevel(elapsed, interval time.Duration, maxLevel int) int {
	if maxLevel < 1 {
		maxLevel = 1
	}
	if interval <= 0 || elapsed < 0 {
		return 1
	}
	level := 1 + int(elapsed/interval)
	if level > maxLevel {
		level = maxLevel
	}
	return level
}

// WaveSystem advances the difficulty level from active (unpaused, post
// countdown) time and pushes each new level's config to its listeners.
// Phase 2 (Wave).
type WaveSystem struct {
	waves    *data.WaveTable
	interval time.Duration
	maxLevel int
	signal   world.GameSignal
	bus      *event.Bus
	log      *zap.Logger

	elapsed   time.Duration
	level     int
	paused    bool
	listeners []WaveListener
}

func NewWaveSystem(waves *data.WaveTable, interval time.Duration, maxLevel int, signal world.GameSignal, bus *event.Bus, log *zap.Logger) *WaveSystem {
	if maxLevel < 1 {
		maxLevel = 1
	}
	return &WaveSystem{
		waves:    waves,
		interval: interval,
		maxLevel: maxLevel,
		signal:   signal,
		bus:      bus,
		log:      log,
		level:    1,
	}
}

func (s *WaveSystem) Phase() coresys.Phase { return coresys.PhaseWave }

// Register adds a listener and immediately pushes the current level.
func (s *WaveSystem) Register(l WaveListener) {
	s.listeners = append(s.listeners, l)
	l.OnWaveChanged(s.level, s.waves.For(s.level))
}

func (s *WaveSystem) Update(dt time.Duration) {
	if !s.active() {
		return
	}
	s.elapsed += dt
	if s.level >= s.maxLevel {
		return
	}
	next := ComputeWaveLevel(s.elapsed, s.interval, s.maxLevel)
	if next == s.level {
		return
	}
	prev := s.level
	s.level = next
	cfg := s.waves.For(next)

	s.log.Info("wave changed",
		zap.Int("level", next),
		zap.Int("previous", prev),
		zap.Float64("spawn_interval", cfg.SpawnInterval),
		zap.Strings("tables", cfg.Tables))
	for _, l := range s.listeners {
		l.OnWaveChanged(next, cfg)
	}
	event.Emit(s.bus, event.WaveChanged{
		Level:         next,
		Previous:      prev,
		SpawnInterval: cfg.SpawnInterval,
		Tables:        cfg.Tables,
	})
}

func (s *WaveSystem) active() bool {
	if s.paused {
		return false
	}
	return s.signal == nil || (!s.signal.Paused() && !s.signal.CountingDown())
}

// Pause stops time accumulation without resetting it.
func (s *WaveSystem) Pause()  { s.paused = true }
func (s *WaveSystem) Resume() { s.paused = false }

func (s *WaveSystem) Paused() bool { return s.paused }

func (s *WaveSystem) Level() int { return s.level }

// Elapsed returns the accumulated active time.
func (s *WaveSystem) Elapsed() time.Duration { return s.elapsed }

// AtMax reports whether the terminal level has been reached.
func (s *WaveSystem) AtMax() bool { return s.level >= s.maxLevel }

// Config returns the current level's wave config.
func (s *WaveSystem) Config() data.WaveConfig { return s.waves.For(s.level) }
