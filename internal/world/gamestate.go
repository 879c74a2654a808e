package world

import "time"

// GameSignal is the pause/countdown state spawners and the wave orchestrator
// poll every tick.
type GameSignal interface {
	Paused() bool
	CountingDown() bool
}

// GamePhase is the coarse game state.
type GamePhase int

const (
	PhaseCountdown GamePhase = iota
	PhasePlaying
	PhasePaused
	PhaseOver
)

func (p GamePhase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseOver:
		return "over"
	}
	return "unknown"
}

// GameState implements GameSignal: Countdown → Playing ↔ Paused → Over.
type GameState struct {
	phase     GamePhase
	countdown time.Duration
}

// NewGameState starts in countdown; a zero countdown starts playing at once.
func NewGameState(countdown time.Duration) *GameState {
	g := &GameState{phase: PhaseCountdown, countdown: countdown}
	if countdown <= 0 {
		g.phase = PhasePlaying
	}
	return g
}

func (g *GameState) Phase() GamePhase { return g.phase }

// Paused reports true for both an explicit pause and a finished game.
func (g *GameState) Paused() bool {
	return g.phase == PhasePaused || g.phase == PhaseOver
}

func (g *GameState) CountingDown() bool { return g.phase == PhaseCountdown }

// CountdownLeft returns the time remaining before play starts.
func (g *GameState) CountdownLeft() time.Duration {
	if g.phase != PhaseCountdown {
		return 0
	}
	return g.countdown
}

// AdvanceCountdown consumes dt of countdown and starts play when it runs out.
// It reports whether play started on this call.
func (g *GameState) AdvanceCountdown(dt time.Duration) bool {
	if g.phase != PhaseCountdown {
		return false
	}
	g.countdown -= dt
	if g.countdown <= 0 {
		g.countdown = 0
		g.phase = PhasePlaying
		return true
	}
	return false
}

func (g *GameState) Pause() {
	if g.phase == PhasePlaying {
		g.phase = PhasePaused
	}
}

func (g *GameState) Resume() {
	if g.phase == PhasePaused {
		g.phase = PhasePlaying
	}
}

// End moves to the terminal state.
func (g *GameState) End() { g.phase = PhaseOver }
