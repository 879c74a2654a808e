package world

import (
	"testing"
	"time"

	"github.com/emberline/horde/internal/core/ecs"
	"github.com/emberline/horde/internal/core/event"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
	"github.com/emberline/horde/internal/movement"
)

var grunt = &data.EntityTemplate{Variant: "grunt", Kind: data.KindEnemy, HP: 10, Movement: data.MoveLinear}

func newEnemy(idx uint32) *Entity {
	e := NewEntity(ecs.NewEntityID(idx, 1), grunt)
	e.Alive = true
	e.HP, e.MaxHP = 10, 10
	return e
}

func TestLifetime(t *testing.T) {
	var l Lifetime
	if l.State != LifeInitializing {
		t.Fatalf("zero state = %v", l.State)
	}
	if l.Advance(time.Second) {
		t.Fatal("uninitialized controller expired")
	}

	l.Initialize(2 * time.Second)
	if l.Advance(1500 * time.Millisecond) {
		t.Fatal("expired early")
	}
	if got := l.Remaining(); got != 500*time.Millisecond {
		t.Errorf("remaining = %v", got)
	}
	if !l.Advance(500 * time.Millisecond) {
		t.Fatal("did not expire at lifetime")
	}
	if !l.Expire() || l.State != LifeExpiring {
		t.Fatal("expire from alive failed")
	}
	if l.Expire() {
		t.Fatal("second expire accepted")
	}

	// Reuse never carries stale elapsed time.
	l.Reset()
	l.Initialize(2 * time.Second)
	if l.Elapsed != 0 || l.State != LifeAlive {
		t.Fatalf("reinitialized = %+v", l)
	}

	// Zero duration never times out.
	l.Initialize(0)
	if l.Advance(time.Hour) {
		t.Fatal("zero lifetime expired")
	}
}

func TestEntityTakeDamage(t *testing.T) {
	e := newEnemy(1)
	cases := []struct {
		amount int
		died   bool
		hp     int
	}{
		{0, false, 10},
		{-3, false, 10},
		{4, false, 6},
		{20, true, 0},
		{5, false, 0}, // already dead
	}
	for _, c := range cases {
		if died := e.TakeDamage(c.amount); died != c.died || e.HP != c.hp {
			t.Errorf("TakeDamage(%d) = %v hp %d, want %v hp %d", c.amount, died, e.HP, c.died, c.hp)
		}
	}
}

func TestEntityReset(t *testing.T) {
	e := newEnemy(1)
	e.Body.Pos = geom.V(5, 5)
	e.Body.Heading = geom.V(1, 0)
	e.Strategy = movement.Linear{}
	e.Life.Initialize(time.Second)
	e.Speed, e.Scale, e.Level = 3, 2, 4

	e.Reset()
	if e.Strategy != nil || e.Alive || e.HP != 0 || e.Life.State != LifeInitializing {
		t.Fatalf("reset left state: %+v", e)
	}
	if !e.Body.Pos.IsZero() || !e.Body.Heading.IsZero() {
		t.Fatalf("reset left body: %+v", e.Body)
	}
	if e.Template != grunt || e.ID.IsZero() {
		t.Fatal("reset cleared identity")
	}
}

func TestPlayerTarget(t *testing.T) {
	var nilPlayer *Player
	if _, ok := nilPlayer.Position(); ok {
		t.Fatal("nil player available")
	}

	p := NewPlayer(geom.V(1, 2), 5)
	if pos, ok := p.Position(); !ok || pos != geom.V(1, 2) {
		t.Fatalf("position = %v %v", pos, ok)
	}
	p.MoveTo(geom.V(3, 4))
	if p.Prev != geom.V(1, 2) || p.Pos != geom.V(3, 4) {
		t.Fatalf("move = %+v", p)
	}
	p.Heal(10)
	if p.HP != 5 {
		t.Errorf("heal over max = %d", p.HP)
	}
	if !p.TakeDamage(7) {
		t.Fatal("lethal hit not reported")
	}
	if _, ok := p.Position(); ok {
		t.Fatal("dead player available")
	}
	p.Heal(3)
	if p.HP != 0 {
		t.Errorf("dead player healed to %d", p.HP)
	}
}

func TestGameState(t *testing.T) {
	g := NewGameState(time.Second)
	if !g.CountingDown() || g.Paused() {
		t.Fatal("not counting down")
	}
	g.Pause() // ignored during countdown
	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %v", g.Phase())
	}
	if g.AdvanceCountdown(600 * time.Millisecond) {
		t.Fatal("started early")
	}
	if !g.AdvanceCountdown(600 * time.Millisecond) {
		t.Fatal("did not start")
	}
	if g.CountingDown() || g.Paused() {
		t.Fatal("not playing")
	}
	g.Pause()
	if !g.Paused() {
		t.Fatal("not paused")
	}
	g.Resume()
	if g.Paused() {
		t.Fatal("still paused")
	}
	g.End()
	g.Resume()
	if g.Phase() != PhaseOver || !g.Paused() {
		t.Fatalf("over phase = %v", g.Phase())
	}

	if NewGameState(0).Phase() != PhasePlaying {
		t.Fatal("zero countdown should start playing")
	}
}

func TestStateRegistry(t *testing.T) {
	s := NewState(geom.NewRect(100, 100), nil, NewGameState(0))
	a, b, c := newEnemy(1), newEnemy(2), newEnemy(3)
	s.Add(a)
	s.Add(b)
	s.Add(c)
	s.Add(a)
	if s.Count() != 3 || s.CountKind(data.KindEnemy) != 3 {
		t.Fatalf("count = %d/%d", s.Count(), s.CountKind(data.KindEnemy))
	}
	if !a.Active {
		t.Fatal("added entity not active")
	}

	if _, ok := s.Remove(a.ID); !ok {
		t.Fatal("remove failed")
	}
	if _, ok := s.Remove(a.ID); ok {
		t.Fatal("double remove succeeded")
	}
	if s.Get(a.ID) != nil || a.Active || s.Count() != 2 || s.CountKind(data.KindEnemy) != 2 {
		t.Fatal("registry not updated")
	}
	for _, e := range s.Entities() {
		if e == a {
			t.Fatal("removed entity still listed")
		}
	}
}

func TestStateRemoveKeepsIndex(t *testing.T) {
	s := NewState(geom.NewRect(100, 100), nil, NewGameState(0))
	var all []*Entity
	for i := uint32(1); i <= 8; i++ {
		e := newEnemy(i)
		all = append(all, e)
		s.Add(e)
	}
	// Remove from the front, middle and tail so every swap path runs.
	for _, i := range []int{0, 4, 7, 1} {
		if _, ok := s.Remove(all[i].ID); !ok {
			t.Fatalf("remove %d failed", i)
		}
	}
	if s.Count() != 4 {
		t.Fatalf("count = %d", s.Count())
	}
	for i, e := range s.Entities() {
		if s.index[e.ID] != i {
			t.Fatalf("%v indexed at %d, listed at %d", e.ID, s.index[e.ID], i)
		}
	}
	for s.Count() > 0 {
		if _, ok := s.Remove(s.Entities()[0].ID); !ok {
			t.Fatal("listed entity not removable")
		}
	}
	if s.Count() != 0 || len(s.index) != 0 || s.CountKind(data.KindEnemy) != 0 {
		t.Fatal("registry not empty")
	}
}

func TestDeferredReturns(t *testing.T) {
	s := NewState(geom.NewRect(100, 100), nil, NewGameState(0))
	a, b := newEnemy(1), newEnemy(2)
	s.Add(a)
	s.Add(b)

	s.MarkForReturn(a.ID, event.ReasonArrived)
	s.MarkForReturn(a.ID, event.ReasonKilled) // first reason wins
	s.MarkForReturn(ecs.NewEntityID(99, 1), event.ReasonKilled)
	if s.PendingReturns() != 1 {
		t.Fatalf("pending = %d", s.PendingReturns())
	}

	var got []event.ReturnReason
	s.FlushReturns(func(e *Entity, reason event.ReturnReason) {
		got = append(got, reason)
		s.Remove(e.ID)
		s.MarkForReturn(b.ID, event.ReasonEscaped)
	})
	if len(got) != 1 || got[0] != event.ReasonArrived {
		t.Fatalf("flushed = %v", got)
	}
	if s.PendingReturns() != 1 {
		t.Fatal("mark during flush lost")
	}

	s.Remove(b.ID)
	calls := 0
	s.FlushReturns(func(*Entity, event.ReturnReason) { calls++ })
	if calls != 0 {
		t.Fatal("inactive entity flushed")
	}
}
