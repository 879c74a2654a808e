package world

import "github.com/emberline/horde/internal/geom"

// Player is the chase target. Input and movement come from outside the core;
// it only records position and health.
type Player struct {
	Pos     geom.Vec2
	Prev    geom.Vec2
	HP      int
	MaxHP   int
	Spawned bool
}

func NewPlayer(pos geom.Vec2, maxHP int) *Player {
	return &Player{Pos: pos, Prev: pos, HP: maxHP, MaxHP: maxHP, Spawned: true}
}

// Position implements movement.Target. A nil, unspawned or dead player is
// unavailable.
func (p *Player) Position() (geom.Vec2, bool) {
	if p == nil || !p.Spawned || p.HP <= 0 {
		return geom.Vec2{}, false
	}
	return p.Pos, true
}

// MoveTo records a new position, keeping the previous one.
func (p *Player) MoveTo(pos geom.Vec2) {
	p.Prev = p.Pos
	p.Pos = pos
}

func (p *Player) Alive() bool { return p != nil && p.Spawned && p.HP > 0 }

// TakeDamage reports whether this hit killed the player.
func (p *Player) TakeDamage(amount int) (died bool) {
	if !p.Alive() || amount <= 0 {
		return false
	}
	p.HP -= amount
	if p.HP <= 0 {
		p.HP = 0
		return true
	}
	return false
}

// Heal restores up to amount health, capped at MaxHP.
func (p *Player) Heal(amount int) {
	if !p.Alive() || amount <= 0 {
		return
	}
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}
