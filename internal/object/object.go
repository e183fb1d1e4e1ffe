package object

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// ID identifies an object for its whole lifetime. IDs are never reused.
type ID uint64

// Kind discriminates the concrete object types for hosts that only see snapshots.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
	KindLaser
	KindPendingExplosion
	KindExplosion
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindLaser:
		return "laser"
	case KindPendingExplosion:
		return "pending_explosion"
	case KindExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Object is a simulated game entity.
type Object interface {
	ID() ID
	Kind() Kind
	Body() *Body
	Destructible
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the tick.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Spawner allows systems to queue new objects during a tick.
type Spawner interface {
	Spawn(obj Object) ID
}

// Body is the spatial part of an object: center position and unscaled sprite size.
type Body struct {
	Pos   physics.Vec
	Size  physics.Vec
	Scale float64
}

// BoundingBox returns the scaled collision box size.
func (b *Body) BoundingBox() physics.Vec {
	return b.Size.Scale(b.Scale)
}

// Velocity is a unit direction scaled by the base speed and tick duration when integrated.
type Velocity struct {
	X, Y float64
}

// Movable marks objects that the motion integrator advances by velocity.
type Movable struct {
	// AutoDespawn objects are removed once they leave the play area by the reap margin.
	AutoDespawn bool
}

// Kinetic bundles the velocity and movement tag of a velocity mover.
type Kinetic struct {
	Velocity Velocity
	Movable  Movable
}

// Mover is implemented by objects that move by velocity.
type Mover interface {
	Object
	Motion() *Kinetic
}

// base holds the identity and destruction flag shared by every object.
type base struct {
	id        ID
	destroyed bool
	body      Body
}

func (b *base) ID() ID { return b.id }

// SetID assigns the identity. Called once by the world when the object is spawned.
func (b *base) SetID(id ID) { b.id = id }

func (b *base) Body() *Body { return &b.body }

// MarkDestroyed marks the object for removal.
func (b *base) MarkDestroyed() { b.destroyed = true }

// IsDestroyed returns true if the object is marked for destruction.
func (b *base) IsDestroyed() bool { return b.destroyed }

// ShouldRenderBlink returns true if an object with remaining invincibility
// time should be rendered this frame (for blinking effect).
// Returns true always if remaining <= 0 (no protection).
func ShouldRenderBlink(remaining time.Duration, frequency float64) bool {
	if remaining <= 0 {
		return true
	}
	// Blink based on frequency (e.g., 5.0 = 5Hz, 10.0 = 10Hz)
	phase := int(remaining.Seconds() * frequency)
	return phase%2 != 0
}
