package world

import (
	"github.com/emberline/horde/internal/core/ecs"
	"github.com/emberline/horde/internal/core/event"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
)

// State is the simulation context: map rectangle, player, game signal and
// the registry of active entities. It is built once and passed explicitly.
// Single-goroutine access only (game loop).
type State struct {
	Bounds geom.Rect
	Player *Player
	Game   *GameState

	entities map[ecs.EntityID]*Entity
	list     []*Entity // active entities (for tick iteration)
	index    map[ecs.EntityID]int // position in list
	byKind   map[data.EntityKind]int

	returns *ecs.ReturnQueue
	reasons map[ecs.EntityID]event.ReturnReason
}

func NewState(bounds geom.Rect, player *Player, game *GameState) *State {
	return &State{
		Bounds:   bounds,
		Player:   player,
		Game:     game,
		entities: make(map[ecs.EntityID]*Entity, 256),
		list:     make([]*Entity, 0, 256),
		index:    make(map[ecs.EntityID]int, 256),
		byKind:   make(map[data.EntityKind]int, 3),
		returns:  ecs.NewReturnQueue(),
		reasons:  make(map[ecs.EntityID]event.ReturnReason, 64),
	}
}

// Add registers an activated entity. Adding an entity twice is a no-op.
func (s *State) Add(e *Entity) {
	if _, ok := s.entities[e.ID]; ok {
		return
	}
	e.Active = true
	s.entities[e.ID] = e
	s.index[e.ID] = len(s.list)
	s.list = append(s.list, e)
	s.byKind[e.Kind()]++
}

// Remove unregisters an entity and reports whether it was active.
func (s *State) Remove(id ecs.EntityID) (*Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}
	delete(s.entities, id)
	i := s.index[id]
	delete(s.index, id)
	last := len(s.list) - 1
	if i != last {
		moved := s.list[last]
		s.list[i] = moved
		s.index[moved.ID] = i
	}
	s.list[last] = nil
	s.list = s.list[:last]
	s.byKind[e.Kind()]--
	e.Active = false
	return e, true
}

// Get returns an active entity by id.
func (s *State) Get(id ecs.EntityID) *Entity {
	return s.entities[id]
}

// Entities returns the active list. Callers must not add or remove entities
// while iterating it; use Snapshot or the return queue for that.
func (s *State) Entities() []*Entity {
	return s.list
}

// Snapshot copies the active list into buf and returns it.
func (s *State) Snapshot(buf []*Entity) []*Entity {
	return append(buf[:0], s.list...)
}

// Count returns the number of active entities.
func (s *State) Count() int { return len(s.list) }

// CountKind returns the number of active entities of kind k.
func (s *State) CountKind(k data.EntityKind) int { return s.byKind[k] }

// MarkForReturn queues an active entity for return at tick end. The first
// reason recorded in a tick wins.
func (s *State) MarkForReturn(id ecs.EntityID, reason event.ReturnReason) {
	if _, ok := s.entities[id]; !ok {
		return
	}
	if _, ok := s.reasons[id]; !ok {
		s.reasons[id] = reason
	}
	s.returns.Mark(id)
}

// PendingReturns returns the number of queued returns.
func (s *State) PendingReturns() int { return s.returns.Pending() }

// FlushReturns hands each queued entity that is still active to fn.
func (s *State) FlushReturns(fn func(e *Entity, reason event.ReturnReason)) {
	s.returns.Flush(func(id ecs.EntityID) {
		reason := s.reasons[id]
		delete(s.reasons, id)
		if e, ok := s.entities[id]; ok {
			fn(e, reason)
		}
	})
}
