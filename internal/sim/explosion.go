package sim

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/object"
)

// explosionSystem turns pending explosions into animations and removes
// animations after their last frame.
type explosionSystem struct {
	world     *WorldState
	frameTime time.Duration
	frames    int
}

func (s *explosionSystem) Phase() Phase { return PhaseExplosion }

func (s *explosionSystem) Update(dt time.Duration) {
	w := s.world
	for _, obj := range w.Objects {
		if w.Removed(obj) {
			continue
		}
		switch o := obj.(type) {
		case *object.PendingExplosion:
			w.Spawn(object.NewExplosion(o.Body().Pos))
			w.Despawn(o)
		case *object.Explosion:
			if o.Advance(dt, s.frameTime, s.frames) {
				w.Despawn(o)
			}
		}
	}
}
