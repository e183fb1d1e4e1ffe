package object

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// Invincibility is the window during which enemy lasers are absorbed.
type Invincibility struct {
	TimeLeft time.Duration
}

// Player is the player-controlled ship.
type Player struct {
	base
	Kinetic

	// Invincibility is non-nil while the spawn protection window is active.
	Invincibility *Invincibility

	fireCooldown time.Duration // Time until the next volley is allowed
}

// NewPlayer creates a ship at pos that is invincible for the given duration.
func NewPlayer(pos, size physics.Vec, scale float64, invincible time.Duration) *Player {
	p := &Player{
		base:    base{body: Body{Pos: pos, Size: size, Scale: scale}},
		Kinetic: Kinetic{Movable: Movable{AutoDespawn: false}},
	}
	if invincible > 0 {
		p.Invincibility = &Invincibility{TimeLeft: invincible}
	}
	return p
}

func (p *Player) Kind() Kind { return KindPlayer }

func (p *Player) Motion() *Kinetic { return &p.Kinetic }

// Invincible reports whether the protection window is attached.
func (p *Player) Invincible() bool {
	return p.Invincibility != nil
}

// InvincibleTimeLeft returns the remaining protection, or zero.
func (p *Player) InvincibleTimeLeft() time.Duration {
	if p.Invincibility == nil {
		return 0
	}
	return p.Invincibility.TimeLeft
}

// TickInvincibility counts the window down by dt and detaches it once it runs
// out. Returns true when the window was removed by this call.
func (p *Player) TickInvincibility(dt time.Duration) bool {
	if p.Invincibility == nil {
		return false
	}
	p.Invincibility.TimeLeft -= dt
	if p.Invincibility.TimeLeft <= 0 {
		p.Invincibility = nil
		return true
	}
	return false
}

// TickFireCooldown reduces the time until the next volley.
func (p *Player) TickFireCooldown(dt time.Duration) {
	if p.fireCooldown > 0 {
		p.fireCooldown -= dt
	}
}

// TryFire consumes a volley if the cooldown has elapsed.
func (p *Player) TryFire(cooldown time.Duration) bool {
	if p.fireCooldown > 0 {
		return false
	}
	p.fireCooldown = cooldown
	return true
}
