package sim

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// motionSystem advances velocity movers in a straight line and enemies
// along their formation path.
type motionSystem struct {
	world     *WorldState
	baseSpeed float64
}

func (s *motionSystem) Phase() Phase { return PhaseMotion }

func (s *motionSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, obj := range s.world.Objects {
		if s.world.Removed(obj) {
			continue
		}
		switch o := obj.(type) {
		case *object.Enemy:
			o.Advance(secs)
		case object.Mover:
			v := o.Motion().Velocity
			body := o.Body()
			body.Pos = body.Pos.Add(physics.Vec{X: v.X, Y: v.Y}.Scale(secs * s.baseSpeed))
		}
	}
}

// reapSystem removes auto-despawn movers that left the play area by more
// than the margin on any axis.
type reapSystem struct {
	world  *WorldState
	margin float64
}

func (s *reapSystem) Phase() Phase { return PhaseReap }

func (s *reapSystem) Update(time.Duration) {
	w := s.world
	for _, obj := range w.Objects {
		m, ok := obj.(object.Mover)
		if !ok || !m.Motion().Movable.AutoDespawn || w.Removed(obj) {
			continue
		}
		if w.Bounds.Outside(obj.Body().Pos, s.margin) {
			w.Despawn(obj)
		}
	}
}
