package sim

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// Sprite is the render view of one object.
type Sprite struct {
	ID         object.ID
	Kind       object.Kind
	Owner      object.Owner  // Lasers only
	Pos        physics.Vec   // Center
	Box        physics.Vec   // Scaled bounding box
	Frame      int           // Explosions only
	Invincible time.Duration // Player only
}

// Snapshot is a read-only view of the world after the last tick.
type Snapshot struct {
	Sprites    []Sprite
	Bounds     physics.Bounds
	Score      int
	EnemyCount int
	Player     PlayerState
	Now        time.Duration
	Tick       uint64

	// RespawnIn is the time until the player may respawn, zero while alive.
	RespawnIn time.Duration
}

// Snapshot builds a view of the world. The Sprites slice is reused by the
// call after next, so hosts must not keep it longer than one frame.
func (g *Game) Snapshot() Snapshot {
	w := g.world

	g.snapshotIdx ^= 1
	buf := g.snapshotBufs[g.snapshotIdx][:0]
	for _, obj := range w.Objects {
		body := obj.Body()
		sp := Sprite{
			ID:   obj.ID(),
			Kind: obj.Kind(),
			Pos:  body.Pos,
			Box:  body.BoundingBox(),
		}
		switch o := obj.(type) {
		case *object.Laser:
			sp.Owner = o.Owner
		case *object.Explosion:
			sp.Frame = o.Frame
		case *object.Player:
			sp.Invincible = o.InvincibleTimeLeft()
		}
		buf = append(buf, sp)
	}
	g.snapshotBufs[g.snapshotIdx] = buf

	snap := Snapshot{
		Sprites:    buf,
		Bounds:     w.Bounds,
		Score:      w.Score,
		EnemyCount: w.EnemyCount,
		Player:     w.Player,
		Now:        w.Now,
		Tick:       w.Tick,
	}
	if !w.Player.Alive && w.Player.destroyed {
		if left := g.cfg.RespawnDelay - (w.Now - w.Player.LastDestroyedAt); left > 0 {
			snap.RespawnIn = left
		}
	}
	return snap
}

// PlayerSprite returns the player's sprite, if present.
func (s Snapshot) PlayerSprite() (Sprite, bool) {
	for _, sp := range s.Sprites {
		if sp.Kind == object.KindPlayer {
			return sp, true
		}
	}
	return Sprite{}, false
}

// Count returns how many sprites of kind are present.
func (s Snapshot) Count(kind object.Kind) int {
	n := 0
	for _, sp := range s.Sprites {
		if sp.Kind == kind {
			n++
		}
	}
	return n
}
