package object

import "github.com/CrawKatt/Space-Invaders/internal/physics"

// Owner tells which side fired a laser.
type Owner int

const (
	FromPlayer Owner = iota
	FromEnemy
)

func (o Owner) String() string {
	if o == FromPlayer {
		return "player"
	}
	return "enemy"
}

// Laser is a straight-flying shot. Lasers always auto-despawn off screen.
type Laser struct {
	base
	Kinetic
	Owner Owner
}

// NewLaser creates a laser at pos heading in direction vel.
func NewLaser(owner Owner, pos, size physics.Vec, scale float64, vel Velocity) *Laser {
	return &Laser{
		base: base{body: Body{Pos: pos, Size: size, Scale: scale}},
		Kinetic: Kinetic{
			Velocity: vel,
			Movable:  Movable{AutoDespawn: true},
		},
		Owner: owner,
	}
}

func (l *Laser) Kind() Kind { return KindLaser }

func (l *Laser) Motion() *Kinetic { return &l.Kinetic }
