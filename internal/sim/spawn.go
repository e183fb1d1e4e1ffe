package sim

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/formation"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// Laser muzzle offsets relative to the shooter's center.
const (
	playerMuzzleY    = 15.0
	playerMuzzleEdge = 5.0 // inset from the ship's scaled half-width
	enemyMuzzleY     = -15.0
)

func sizeVec(s config.Size) physics.Vec {
	return physics.Vec{X: s.W, Y: s.H}
}

// enemySpawnSystem keeps the enemy population at the configured cap, one
// enemy per tick, each placed at the entry point of its formation path.
type enemySpawnSystem struct {
	world  *WorldState
	maker  *formation.Maker
	policy Policy
	cfg    *config.GameConfig
}

func (s *enemySpawnSystem) Phase() Phase { return PhaseSpawn }

func (s *enemySpawnSystem) Update(time.Duration) {
	w := s.world
	if w.EnemyCount >= s.cfg.EnemyMax {
		return
	}
	if !s.policy.ShouldSpawnEnemy(SpawnContext{
		EnemyCount: w.EnemyCount,
		EnemyMax:   s.cfg.EnemyMax,
		Now:        w.Now,
		Score:      w.Score,
	}) {
		return
	}

	path := s.maker.Make(w.Bounds)
	if s.maker.Members() == 1 {
		w.log.Debug("formation created",
			zap.Float64("pivot_x", path.Pivot.X),
			zap.Float64("pivot_y", path.Pivot.Y),
			zap.Float64("radius_x", path.Radius.X),
			zap.Bool("from_left", path.Start.X < 0),
		)
	}
	w.Spawn(object.NewEnemy(path, sizeVec(s.cfg.EnemySize), s.cfg.SpriteScale))
}

// enemyFireSystem makes every enemy fire one laser on ticks the policy picks.
type enemyFireSystem struct {
	world  *WorldState
	policy Policy
	rng    *rand.Rand
	cfg    *config.GameConfig
}

func (s *enemyFireSystem) Phase() Phase { return PhaseSpawn }

func (s *enemyFireSystem) Update(time.Duration) {
	w := s.world
	if w.EnemyCount == 0 {
		return
	}
	if !s.policy.ShouldEnemyFire(FireContext{
		Roll:       s.rng.Float64(),
		Chance:     s.cfg.EnemyFireChance,
		EnemyCount: w.EnemyCount,
		Now:        w.Now,
		Score:      w.Score,
	}) {
		return
	}

	size := sizeVec(s.cfg.EnemyLaserSize)
	for _, obj := range w.Objects {
		e, ok := obj.(*object.Enemy)
		if !ok || w.Removed(e) {
			continue
		}
		pos := e.Body().Pos.Add(physics.Vec{Y: enemyMuzzleY})
		w.Spawn(object.NewLaser(object.FromEnemy, pos, size, s.cfg.SpriteScale, object.Velocity{X: 0, Y: -1}))
	}
}

// playerControlSystem applies the host's movement and fire requests to the
// live player.
type playerControlSystem struct {
	world *WorldState
	input *controls
	cfg   *config.GameConfig
}

// controls holds the latest host requests. Fire is consumed once per tick.
type controls struct {
	velocity object.Velocity
	fire     bool
}

func (s *playerControlSystem) Phase() Phase { return PhaseSpawn }

func (s *playerControlSystem) Update(dt time.Duration) {
	w := s.world
	fire := s.input.fire
	s.input.fire = false

	p := w.LivePlayer()
	if p == nil {
		return
	}
	p.Velocity = s.input.velocity
	p.TickFireCooldown(dt)

	if !fire || !p.TryFire(s.cfg.PlayerFireCooldown) {
		return
	}
	body := p.Body()
	offset := s.cfg.PlayerSize.W/2*s.cfg.SpriteScale - playerMuzzleEdge
	for _, dx := range []float64{offset, -offset} {
		pos := body.Pos.Add(physics.Vec{X: dx, Y: playerMuzzleY})
		w.Spawn(object.NewLaser(object.FromPlayer, pos, sizeVec(s.cfg.PlayerLaserSize), s.cfg.SpriteScale, object.Velocity{X: 0, Y: 1}))
	}
	w.Emit(Event{Type: EventPlayerFired, Pos: body.Pos})
}
