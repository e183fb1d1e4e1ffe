package sim

import "time"

// SpawnContext is what a policy sees when the spawner has room for an enemy.
type SpawnContext struct {
	EnemyCount int
	EnemyMax   int
	Now        time.Duration
	Score      int
}

// FireContext is what a policy sees once per tick before enemies fire.
// Roll is uniform in [0,1) and drawn from the game's random source.
type FireContext struct {
	Roll       float64
	Chance     float64
	EnemyCount int
	Now        time.Duration
	Score      int
}

// Policy decides when enemies appear and when they shoot. The spawner still
// enforces the enemy cap, a policy can only hold spawns back.
type Policy interface {
	ShouldSpawnEnemy(ctx SpawnContext) bool
	ShouldEnemyFire(ctx FireContext) bool
}

// DefaultPolicy spawns whenever there is room and fires with the configured chance.
type DefaultPolicy struct{}

var _ Policy = DefaultPolicy{}

func (DefaultPolicy) ShouldSpawnEnemy(ctx SpawnContext) bool {
	return ctx.EnemyCount < ctx.EnemyMax
}

func (DefaultPolicy) ShouldEnemyFire(ctx FireContext) bool {
	return ctx.Roll < ctx.Chance
}
