package world

import "time"

// LifeState is the auto-return state of a pooled entity.
type LifeState int

const (
	LifeInitializing LifeState = iota // pooled or freshly allocated, not yet activated
	LifeAlive                         // counting toward expiry
	LifeExpiring                      // expiry detected, return in progress
	LifeReturned                      // handed back to the factory
)

func (s LifeState) String() string {
	switch s {
	case LifeInitializing:
		return "initializing"
	case LifeAlive:
		return "alive"
	case LifeExpiring:
		return "expiring"
	case LifeReturned:
		return "returned"
	}
	return "unknown"
}

// Lifetime is the per-instance auto-return controller. Duration 0 disables
// the timer; the bounds check still applies.
type Lifetime struct {
	State    LifeState
	Duration time.Duration
	Elapsed  time.Duration
}

// Initialize starts a fresh life. Called on every activation so a reused
// instance never carries elapsed time from a previous life.
func (l *Lifetime) Initialize(d time.Duration) {
	l.State = LifeAlive
	l.Duration = d
	l.Elapsed = 0
}

// Advance adds dt while alive and reports whether the timer has run out.
func (l *Lifetime) Advance(dt time.Duration) bool {
	if l.State != LifeAlive {
		return false
	}
	l.Elapsed += dt
	return l.Duration > 0 && l.Elapsed >= l.Duration
}

// Expire moves an alive controller to Expiring. It returns false when the
// controller is not alive, so a return is never started twice.
func (l *Lifetime) Expire() bool {
	if l.State != LifeAlive {
		return false
	}
	l.State = LifeExpiring
	return true
}

// Remaining returns the time left before expiry (0 when disabled or spent).
func (l *Lifetime) Remaining() time.Duration {
	if l.Duration <= 0 || l.Elapsed >= l.Duration {
		return 0
	}
	return l.Duration - l.Elapsed
}

func (l *Lifetime) Reset() {
	*l = Lifetime{}
}
