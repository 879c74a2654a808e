package system

import (
	"context"
	"time"

	"github.com/emberline/horde/internal/core/event"
	coresys "github.com/emberline/horde/internal/core/system"
	"github.com/emberline/horde/internal/persist"
	"go.uber.org/zap"
)

// EventSink stores analytics rows. *persist.RunRepo implements it.
type EventSink interface {
	WriteEvents(ctx context.Context, runID int64, events []persist.RunEvent) error
}

// Tally is the running score sheet kept from lifecycle events.
type Tally struct {
	Spawned  int
	Kills    int
	Score    int
	MaxWave  int
	ByReason map[event.ReturnReason]int
}

// AnalyticsSystem turns lifecycle events into a tally and, when a sink is
// set, batches them to it every flush interval. Phase 6 (Persist).
type AnalyticsSystem struct {
	sink     EventSink // nil = tally only
	runID    int64
	interval time.Duration
	log      *zap.Logger

	elapsed time.Duration
	since   time.Duration
	pending []persist.RunEvent
	tally   Tally
	dropped int
}

func NewAnalyticsSystem(bus *event.Bus, sink EventSink, runID int64, flushInterval time.Duration, log *zap.Logger) *AnalyticsSystem {
	s := &AnalyticsSystem{
		sink:     sink,
		runID:    runID,
		interval: flushInterval,
		log:      log,
		tally:    Tally{MaxWave: 1, ByReason: make(map[event.ReturnReason]int)},
	}
	event.Subscribe(bus, s.onSpawned)
	event.Subscribe(bus, s.onDestroyed)
	event.Subscribe(bus, s.onWave)
	return s
}

func (s *AnalyticsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *AnalyticsSystem) Update(dt time.Duration) {
	s.elapsed += dt
	s.since += dt
	if s.since < s.interval {
		return
	}
	s.since = 0
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Flush(ctx)
}

// Flush writes every pending row. On failure the batch is dropped and
// counted; the game loop never blocks on retries.
func (s *AnalyticsSystem) Flush(ctx context.Context) {
	if s.sink == nil || len(s.pending) == 0 {
		s.pending = s.pending[:0]
		return
	}
	if err := s.sink.WriteEvents(ctx, s.runID, s.pending); err != nil {
		s.dropped += len(s.pending)
		s.log.Error("analytics flush failed", zap.Int("events", len(s.pending)), zap.Error(err))
	} else {
		s.log.Debug("analytics flushed", zap.Int("events", len(s.pending)))
	}
	s.pending = s.pending[:0]
}

func (s *AnalyticsSystem) onSpawned(ev event.EntitySpawned) {
	s.tally.Spawned++
}

func (s *AnalyticsSystem) onDestroyed(ev event.EntityDestroyed) {
	s.tally.ByReason[ev.Reason]++
	switch ev.Reason {
	case event.ReasonKilled:
		s.tally.Kills++
		s.tally.Score += ev.Value
	case event.ReasonCollected:
		s.tally.Score += ev.Value
	}
	if s.sink == nil {
		return
	}
	s.pending = append(s.pending, persist.RunEvent{
		At:      s.elapsed,
		Type:    "destroyed",
		Variant: ev.Variant,
		Kind:    string(ev.Kind),
		Reason:  string(ev.Reason),
		Wave:    s.tally.MaxWave,
		Value:   ev.Value,
		X:       ev.Pos.X,
		Y:       ev.Pos.Y,
	})
}

func (s *AnalyticsSystem) onWave(ev event.WaveChanged) {
	if ev.Level > s.tally.MaxWave {
		s.tally.MaxWave = ev.Level
	}
	if s.sink == nil {
		return
	}
	s.pending = append(s.pending, persist.RunEvent{At: s.elapsed, Type: "wave", Wave: ev.Level})
}

// Tally returns the score sheet so far.
func (s *AnalyticsSystem) Tally() Tally { return s.tally }

// Dropped returns how many rows were lost to failed flushes.
func (s *AnalyticsSystem) Dropped() int { return s.dropped }

// Summary converts the tally for the run row.
func (s *AnalyticsSystem) Summary(ticks uint64) persist.RunSummary {
	return persist.RunSummary{
		Ticks:   ticks,
		MaxWave: s.tally.MaxWave,
		Spawned: s.tally.Spawned,
		Kills:   s.tally.Kills,
		Score:   s.tally.Score,
	}
}
