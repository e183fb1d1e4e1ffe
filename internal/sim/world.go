package sim

import (
	"time"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// PlayerState tracks the single player's existence across deaths.
type PlayerState struct {
	Alive           bool
	LastDestroyedAt time.Duration // Simulation time of the last lethal hit
	destroyed       bool          // LastDestroyedAt is set
}

// RecentlyDestroyed reports whether LastDestroyedAt holds a timestamp.
func (s PlayerState) RecentlyDestroyed() bool {
	return s.destroyed
}

// Commands buffers creations and removals until the end of the tick.
// The removal set doubles as the per-tick processed set: anything in it is
// invisible to later passes of the same tick.
type Commands struct {
	toSpawn  []object.Object
	toRemove map[object.ID]struct{}
}

func newCommands() *Commands {
	return &Commands{toRemove: make(map[object.ID]struct{})}
}

// Pending returns how many creations are queued.
func (c *Commands) Pending() int {
	return len(c.toSpawn)
}

// WorldState holds all simulation state shared by the systems of one game.
type WorldState struct {
	Objects    []object.Object // Live objects in insertion order
	Bounds     physics.Bounds
	EnemyCount int // Live enemies, maintained incrementally at flush
	Score      int
	Player     PlayerState
	Now        time.Duration // Simulation clock, advanced once per tick
	Tick       uint64

	commands *Commands
	player   *object.Player // Live player after the last flush, or nil
	nextID   object.ID
	events   chan Event
	log      *zap.Logger
}

// NewWorldState creates an empty world covering bounds.
func NewWorldState(bounds physics.Bounds, log *zap.Logger) *WorldState {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorldState{
		Objects:  []object.Object{},
		Bounds:   bounds,
		commands: newCommands(),
		log:      log,
	}
}

type identifiable interface {
	SetID(object.ID)
}

// Spawn queues an object to be added after the current update cycle and
// returns its ID. Implements object.Spawner.
func (w *WorldState) Spawn(obj object.Object) object.ID {
	w.nextID++
	if o, ok := obj.(identifiable); ok {
		o.SetID(w.nextID)
	}
	w.commands.toSpawn = append(w.commands.toSpawn, obj)
	return obj.ID()
}

// Despawn queues obj for removal and marks it destroyed. Returns false if it
// was already queued this tick, so callers can count each removal once.
func (w *WorldState) Despawn(obj object.Object) bool {
	if _, ok := w.commands.toRemove[obj.ID()]; ok {
		return false
	}
	w.commands.toRemove[obj.ID()] = struct{}{}
	obj.MarkDestroyed()
	return true
}

// Removed reports whether obj is gone or pending removal this tick.
func (w *WorldState) Removed(obj object.Object) bool {
	if obj.IsDestroyed() {
		return true
	}
	_, ok := w.commands.toRemove[obj.ID()]
	return ok
}

// LivePlayer returns the player if one exists and is not being removed.
func (w *WorldState) LivePlayer() *object.Player {
	if w.player == nil || w.Removed(w.player) {
		return nil
	}
	return w.player
}

// Emit sends an event without blocking. Events are dropped when the buffer is full.
func (w *WorldState) Emit(e Event) {
	if w.events == nil {
		return
	}
	e.Tick = w.Tick
	select {
	case w.events <- e:
	default:
	}
}

// Flush applies queued removals then queued creations, keeping insertion
// order, and updates the incremental counters.
func (w *WorldState) Flush() {
	c := w.commands

	if len(c.toRemove) > 0 {
		kept := w.Objects[:0]
		for _, obj := range w.Objects {
			if _, ok := c.toRemove[obj.ID()]; !ok {
				kept = append(kept, obj)
				continue
			}
			w.RemoveObject(obj)
		}
		// Drop references held past the new length.
		for i := len(kept); i < len(w.Objects); i++ {
			w.Objects[i] = nil
		}
		w.Objects = kept
	}

	for _, obj := range c.toSpawn {
		if _, ok := c.toRemove[obj.ID()]; ok {
			continue // created and removed within the same tick
		}
		w.AddObject(obj)
	}

	clear(c.toRemove)
	clear(c.toSpawn)
	c.toSpawn = c.toSpawn[:0]

	w.assert(w.EnemyCount >= 0, "negative enemy count", zap.Int("enemy_count", w.EnemyCount))
	w.assert(w.EnemyCount == w.countEnemies(), "enemy count drift",
		zap.Int("enemy_count", w.EnemyCount), zap.Int("enemies", w.countEnemies()))
	w.assert(w.Player.Alive || w.player == nil, "player present while not alive")
}

// AddObject adds an object to the world immediately.
func (w *WorldState) AddObject(obj object.Object) {
	w.Objects = append(w.Objects, obj)
	switch o := obj.(type) {
	case *object.Enemy:
		w.EnemyCount++
	case *object.Player:
		w.assert(w.player == nil, "more than one player", zap.Uint64("id", uint64(o.ID())))
		w.player = o
	}
}

// RemoveObject updates the counters for an object leaving the world.
func (w *WorldState) RemoveObject(obj object.Object) {
	switch obj.(type) {
	case *object.Enemy:
		w.EnemyCount--
	case *object.Player:
		if w.player == obj {
			w.player = nil
		}
	}
}

// countEnemies walks the object list. Used to verify the incremental counter.
func (w *WorldState) countEnemies() int {
	n := 0
	for _, obj := range w.Objects {
		if _, ok := obj.(*object.Enemy); ok {
			n++
		}
	}
	return n
}
