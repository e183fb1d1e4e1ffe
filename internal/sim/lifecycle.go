package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// playerSpawnMargin lifts the ship off the bottom edge.
const playerSpawnMargin = 5.0

// respawnSystem creates the player when none exists and the respawn delay
// since the last lethal hit has passed.
type respawnSystem struct {
	world *WorldState
	cfg   *config.GameConfig
}

func (s *respawnSystem) Phase() Phase { return PhaseSpawn }

func (s *respawnSystem) Update(time.Duration) {
	w := s.world
	st := &w.Player
	if st.Alive || w.player != nil {
		return
	}
	if st.destroyed && w.Now-st.LastDestroyedAt < s.cfg.RespawnDelay {
		return
	}

	pos := physics.Vec{
		X: 0,
		Y: -w.Bounds.H/2 + s.cfg.PlayerSize.H/2*s.cfg.SpriteScale + playerSpawnMargin,
	}
	w.Spawn(object.NewPlayer(pos, sizeVec(s.cfg.PlayerSize), s.cfg.SpriteScale, s.cfg.Invincibility))
	st.Alive = true
	st.destroyed = false
	st.LastDestroyedAt = 0

	w.log.Debug("player spawned", zap.Duration("invincible", s.cfg.Invincibility), zap.Duration("now", w.Now))
	w.Emit(Event{Type: EventPlayerSpawned, Pos: pos})
}

// invincibilitySystem counts the protection window down before collisions
// are checked, so the hit test of a tick sees the updated window.
type invincibilitySystem struct {
	world *WorldState
}

func (s *invincibilitySystem) Phase() Phase { return PhaseCountdown }

func (s *invincibilitySystem) Update(dt time.Duration) {
	p := s.world.LivePlayer()
	if p == nil {
		return
	}
	if p.TickInvincibility(dt) {
		s.world.log.Debug("invincibility expired", zap.Duration("now", s.world.Now))
	}
}

// destroyPlayer removes the player after a lethal hit and records when it
// happened. Returns false if the player was already being removed.
func (w *WorldState) destroyPlayer(p *object.Player) bool {
	if !w.Despawn(p) {
		return false
	}
	w.Player.Alive = false
	w.Player.destroyed = true
	w.Player.LastDestroyedAt = w.Now

	w.log.Info("player destroyed", zap.Duration("now", w.Now), zap.Int("score", w.Score))
	w.Emit(Event{Type: EventPlayerDestroyed, Pos: p.Body().Pos})
	return true
}
