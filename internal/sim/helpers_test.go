package sim

import (
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
)

// stubPolicy switches spawning and firing on or off.
type stubPolicy struct {
	spawn bool
	fire  bool
}

func (p *stubPolicy) ShouldSpawnEnemy(SpawnContext) bool { return p.spawn }
func (p *stubPolicy) ShouldEnemyFire(FireContext) bool   { return p.fire }

// testConfig returns the stock tuning with a 10ms tick so timings are exact.
func testConfig() config.GameConfig {
	cfg := config.Defaults().Game
	cfg.Tick = 10 * time.Millisecond
	return cfg
}

func newTestGame(t *testing.T, cfg config.GameConfig, policy Policy) *Game {
	t.Helper()
	return NewGame(cfg,
		WithLogger(zaptest.NewLogger(t)),
		WithRand(rand.New(rand.NewSource(1))),
		WithPolicy(policy),
	)
}

func objectsOfType[T object.Object](w *WorldState) []T {
	var out []T
	for _, obj := range w.Objects {
		if o, ok := obj.(T); ok {
			out = append(out, o)
		}
	}
	return out
}

func lasersFrom(w *WorldState, owner object.Owner) []*object.Laser {
	var out []*object.Laser
	for _, l := range objectsOfType[*object.Laser](w) {
		if l.Owner == owner {
			out = append(out, l)
		}
	}
	return out
}

func stepN(g *Game, n int) {
	for i := 0; i < n; i++ {
		g.Step()
	}
}

// drainEvents returns all buffered events.
func drainEvents(g *Game) []Event {
	var out []Event
	for {
		select {
		case e := <-g.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}

func countEvents(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
