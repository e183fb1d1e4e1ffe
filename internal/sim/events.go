package sim

import "github.com/CrawKatt/Space-Invaders/internal/physics"

// EventType identifies the type of game event.
type EventType int

const (
	EventEnemyDestroyed EventType = iota
	EventPlayerDestroyed
	EventPlayerFired
	EventPlayerSpawned
)

func (t EventType) String() string {
	switch t {
	case EventEnemyDestroyed:
		return "enemy_destroyed"
	case EventPlayerDestroyed:
		return "player_destroyed"
	case EventPlayerFired:
		return "player_fired"
	case EventPlayerSpawned:
		return "player_spawned"
	default:
		return "unknown"
	}
}

// Event is sent to the host after something noteworthy happened in a tick.
type Event struct {
	Type EventType
	Pos  physics.Vec
	Tick uint64
}
