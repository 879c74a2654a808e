package event

import (
	"github.com/emberline/horde/internal/core/ecs"
	"github.com/emberline/horde/internal/data"
	"github.com/emberline/horde/internal/geom"
)

// ReturnReason says why an entity left the active world.
type ReturnReason string

const (
	ReasonKilled    ReturnReason = "killed"
	ReasonExpired   ReturnReason = "expired"
	ReasonEscaped   ReturnReason = "escaped"   // left the map rectangle
	ReasonArrived   ReturnReason = "arrived"   // fixed-direction mover reached its exit
	ReasonCollected ReturnReason = "collected" // pickup consumed by the player
	ReasonDespawned ReturnReason = "despawned" // host-initiated
)

type EntitySpawned struct {
	EntityID ecs.EntityID
	Variant  string
	Kind     data.EntityKind
	Pos      geom.Vec2
	Level    int
}

// EntityDestroyed is emitted when an entity returns to its pool. Value is the
// template's score value; it is only meaningful for ReasonKilled.
type EntityDestroyed struct {
	EntityID ecs.EntityID
	Variant  string
	Kind     data.EntityKind
	Pos      geom.Vec2
	Value    int
	Reason   ReturnReason
}

// AreaAffected marks a circular area touched by an enemy death, for
// map-painting listeners.
type AreaAffected struct {
	Pos     geom.Vec2
	Radius  float64
	Variant string
}

type WaveChanged struct {
	Level         int
	Previous      int
	SpawnInterval float64 // seconds
	Tables        []string
}
