package sim

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// collisionSystem turns laser overlaps into removals, score and explosions.
type collisionSystem struct {
	world *WorldState

	// Reusable caches (avoids per-tick allocations)
	playerLasers []*object.Laser
	enemyLasers  []*object.Laser
	enemies      []*object.Enemy

	// Broad phase over enemies, rebuilt every tick.
	enemyGrid *physics.SpatialGrid
}

// newCollisionSystem sizes the enemy grid so that any player laser
// overlapping an enemy lies within the 3x3 neighborhood of that enemy's cell.
func newCollisionSystem(w *WorldState, cfg *config.GameConfig) *collisionSystem {
	enemy := sizeVec(cfg.EnemySize).Scale(cfg.SpriteScale)
	laser := sizeVec(cfg.PlayerLaserSize).Scale(cfg.SpriteScale)
	cellSize := math.Max(enemy.X+laser.X, enemy.Y+laser.Y) / 2

	return &collisionSystem{
		world:     w,
		enemyGrid: physics.NewSpatialGrid(w.Bounds, cfg.ReapMargin, cellSize),
	}
}

func (s *collisionSystem) Phase() Phase { return PhaseCollision }

func (s *collisionSystem) Update(time.Duration) {
	s.collect()
	s.playerLasersVsEnemies()
	s.enemyLasersVsPlayer()
}

// collect extracts live lasers and enemies in insertion order.
func (s *collisionSystem) collect() {
	s.playerLasers = s.playerLasers[:0]
	s.enemyLasers = s.enemyLasers[:0]
	s.enemies = s.enemies[:0]

	for _, obj := range s.world.Objects {
		if s.world.Removed(obj) {
			continue
		}
		switch o := obj.(type) {
		case *object.Laser:
			switch o.Owner {
			case object.FromPlayer:
				s.playerLasers = append(s.playerLasers, o)
			case object.FromEnemy:
				s.enemyLasers = append(s.enemyLasers, o)
			}
		case *object.Enemy:
			s.enemies = append(s.enemies, o)
		}
	}
}

// playerLasersVsEnemies resolves each player laser against the first live
// enemy it overlaps. Both are removed exactly once.
func (s *collisionSystem) playerLasersVsEnemies() {
	w := s.world
	if len(s.playerLasers) == 0 || len(s.enemies) == 0 {
		return
	}

	s.enemyGrid.Clear()
	for i, e := range s.enemies {
		s.enemyGrid.Insert(e.Body().Pos, i)
	}

	for _, l := range s.playerLasers {
		if w.Removed(l) {
			continue
		}
		lb := l.Body()

		// The grid visits cells out of order; keep the earliest enemy so the
		// outcome matches a plain scan in insertion order.
		hit := -1
		s.enemyGrid.QueryAround(lb.Pos, func(i int) bool {
			if hit >= 0 && i > hit {
				return false
			}
			e := s.enemies[i]
			if w.Removed(e) {
				return false
			}
			eb := e.Body()
			if physics.Collide(lb.Pos, lb.BoundingBox(), eb.Pos, eb.BoundingBox()) {
				hit = i
			}
			return false
		})
		if hit < 0 {
			continue
		}

		e := s.enemies[hit]
		if !w.Despawn(e) {
			continue
		}
		w.Despawn(l)
		w.Score++
		pos := e.Body().Pos
		w.Spawn(object.NewPendingExplosion(pos))
		w.Emit(Event{Type: EventEnemyDestroyed, Pos: pos})
	}
}

// enemyLasersVsPlayer checks enemy lasers against the live player. While the
// player is invincible lasers are absorbed; otherwise the first hit is lethal.
func (s *collisionSystem) enemyLasersVsPlayer() {
	w := s.world
	p := w.LivePlayer()
	if p == nil {
		return
	}
	pb := p.Body()

	for _, l := range s.enemyLasers {
		if w.Removed(l) {
			continue
		}
		lb := l.Body()
		if !physics.Collide(lb.Pos, lb.BoundingBox(), pb.Pos, pb.BoundingBox()) {
			continue
		}

		w.Despawn(l)
		if p.Invincible() {
			w.log.Debug("laser absorbed", zap.Duration("invincible_left", p.InvincibleTimeLeft()))
			continue
		}

		pos := pb.Pos
		w.destroyPlayer(p)
		w.Spawn(object.NewPendingExplosion(pos))
		return
	}
}
