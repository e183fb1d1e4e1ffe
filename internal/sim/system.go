package sim

import (
	"sort"
	"time"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseSpawn     Phase = iota // 0: enemy spawner, player respawn, fire control
	PhaseMotion                 // 1: velocity and path integration
	PhaseReap                   // 2: remove auto-despawn objects off screen
	PhaseCountdown              // 3: invincibility window
	PhaseCollision              // 4: laser hits
	PhaseExplosion              // 5: pending explosions and animation frames
	PhaseCleanup                // 6: apply queued creations and removals
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawn:
		return "spawn"
	case PhaseMotion:
		return "motion"
	case PhaseReap:
		return "reap"
	case PhaseCountdown:
		return "countdown"
	case PhaseCollision:
		return "collision"
	case PhaseExplosion:
		return "explosion"
	case PhaseCleanup:
		return "cleanup"
	default:
		return "unknown"
	}
}

// System is one step of the tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// TickPhase runs only the systems of the given phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

// cleanupSystem flushes the command buffer at the end of the tick.
type cleanupSystem struct {
	world *WorldState
}

func (s *cleanupSystem) Phase() Phase { return PhaseCleanup }

func (s *cleanupSystem) Update(time.Duration) {
	s.world.Flush()
}
