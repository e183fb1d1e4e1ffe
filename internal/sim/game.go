// Package sim is the fixed-timestep simulation core: enemy formations, player
// lifecycle, lasers, collisions and explosions.
//
// A Game is not safe for concurrent use. Each host owns exactly one and
// drives it from a single goroutine.
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

// Game wires the world state and its systems together.
type Game struct {
	cfg    config.GameConfig
	world  *WorldState
	runner *Runner
	input  controls
	events chan Event
	log    *zap.Logger

	rng    *rand.Rand
	policy Policy
	maker  *formation.Maker

	// Double-buffered snapshot sprites to avoid allocations
	snapshotBufs [2][]Sprite
	snapshotIdx  int
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Game) { g.log = log }
}

// WithRand sets the random source used for formations and enemy fire.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) { g.rng = rng }
}

// WithPolicy replaces the default spawn and fire policy.
func WithPolicy(p Policy) Option {
	return func(g *Game) { g.policy = p }
}

// WithEventBuffer sets the capacity of the events channel.
func WithEventBuffer(n int) Option {
	return func(g *Game) { g.events = make(chan Event, n) }
}

// NewGame creates a game with an empty world. The player appears on the first tick.
func NewGame(cfg config.GameConfig, opts ...Option) *Game {
	g := &Game{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if g.policy == nil {
		g.policy = DefaultPolicy{}
	}
	if g.events == nil {
		g.events = make(chan Event, config.EventBufferSize)
	}

	bounds := physics.Bounds{W: cfg.PlayArea.W, H: cfg.PlayArea.H}
	g.world = NewWorldState(bounds, g.log)
	g.world.events = g.events
	g.maker = formation.NewMaker(cfg.FormationMembersMax, cfg.BaseSpeed, g.rng)

	g.runner = NewRunner()
	g.registerSystems()
	return g
}

func (g *Game) registerSystems() {
	w := g.world
	cfg := &g.cfg

	g.runner.Register(&respawnSystem{world: w, cfg: cfg})
	g.runner.Register(&enemySpawnSystem{world: w, maker: g.maker, policy: g.policy, cfg: cfg})
	g.runner.Register(&playerControlSystem{world: w, input: &g.input, cfg: cfg})
	g.runner.Register(&enemyFireSystem{world: w, policy: g.policy, rng: g.rng, cfg: cfg})
	g.runner.Register(&motionSystem{world: w, baseSpeed: cfg.BaseSpeed})
	g.runner.Register(&reapSystem{world: w, margin: cfg.ReapMargin})
	g.runner.Register(&invincibilitySystem{world: w})
	g.runner.Register(newCollisionSystem(w, cfg))
	g.runner.Register(&explosionSystem{world: w, frameTime: cfg.ExplosionFrameTime, frames: cfg.ExplosionFrames})
	g.runner.Register(&cleanupSystem{world: w})
}

// Step advances the simulation by one fixed tick.
func (g *Game) Step() {
	g.runner.Tick(g.cfg.Tick)
	g.world.Now += g.cfg.Tick
	g.world.Tick++
}

// SetPlayerVelocity sets the unit direction applied to the player from the next tick on.
func (g *Game) SetPlayerVelocity(v object.Velocity) {
	g.input.velocity = v
}

// Fire requests a volley on the next tick. Ignored while no player exists or
// the fire cooldown is running.
func (g *Game) Fire() {
	g.input.fire = true
}

// Events returns the channel of game events. Events are dropped when nobody drains it.
func (g *Game) Events() <-chan Event {
	return g.events
}

// SpawnLaser adds a laser at pos as if fired by owner. It must be called
// between ticks; the laser takes part in the next one.
func (g *Game) SpawnLaser(owner object.Owner, pos physics.Vec) object.ID {
	size, vel := g.cfg.PlayerLaserSize, object.Velocity{Y: 1}
	if owner == object.FromEnemy {
		size, vel = g.cfg.EnemyLaserSize, object.Velocity{Y: -1}
	}
	id := g.world.Spawn(object.NewLaser(owner, pos, sizeVec(size), g.cfg.SpriteScale, vel))
	g.world.Flush()
	return id
}

// Config returns the tuning the game runs with.
func (g *Game) Config() config.GameConfig {
	return g.cfg
}
