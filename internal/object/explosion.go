package object

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// ExplosionSize is the sprite cell of one animation frame.
var ExplosionSize = physics.Vec{X: 64, Y: 64}

// PendingExplosion marks a position where an explosion animation must start.
type PendingExplosion struct {
	base
}

// NewPendingExplosion creates a marker at pos.
func NewPendingExplosion(pos physics.Vec) *PendingExplosion {
	return &PendingExplosion{base: base{body: Body{Pos: pos, Size: ExplosionSize, Scale: 1}}}
}

func (p *PendingExplosion) Kind() Kind { return KindPendingExplosion }

// Explosion is a time-boxed animation that removes itself after the last frame.
type Explosion struct {
	base
	Frame   int
	elapsed time.Duration
}

// NewExplosion starts an animation at pos on frame 0.
func NewExplosion(pos physics.Vec) *Explosion {
	return &Explosion{base: base{body: Body{Pos: pos, Size: ExplosionSize, Scale: 1}}}
}

func (e *Explosion) Kind() Kind { return KindExplosion }

// Advance runs the frame timer by dt. At most one frame is advanced per call;
// the timer keeps the remainder like a repeating timer. Returns true when the
// animation has played all frames and must be removed. Frame never reaches frames.
func (e *Explosion) Advance(dt, frameTime time.Duration, frames int) (done bool) {
	e.elapsed += dt
	if e.elapsed < frameTime {
		return false
	}
	e.elapsed %= frameTime
	if e.Frame+1 >= frames {
		return true
	}
	e.Frame++
	return false
}
