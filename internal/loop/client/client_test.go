package client

import (
	"bufio"
	"bytes"
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/input"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

type recordingSink struct {
	mu     sync.Mutex
	events []sim.Event
}

func (s *recordingSink) HandleEvent(e sim.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func newTestClient(t *testing.T, in string, sink EventSink) (*Client, *bytes.Buffer) {
	t.Helper()
	log := zaptest.NewLogger(t)
	game := sim.NewGame(config.Defaults().Game,
		sim.WithRand(rand.New(rand.NewSource(1))),
		sim.WithLogger(log),
	)
	var out bytes.Buffer
	c := NewClient(game, bufio.NewReader(strings.NewReader(in)), &out, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return 80, 40, nil },
		Username:     "tester",
		Sink:         sink,
		Logger:       log,
	})
	return c, &out
}

func press(keys string) input.Input {
	return input.Input{Pressed: []byte(keys)}
}

func TestStartScreenToPlaying(t *testing.T) {
	c, _ := newTestClient(t, "", nil)
	tick := c.game.Config().Tick

	c.update(input.Input{}, tick)
	if c.state.GameState != GameStateStart {
		t.Fatalf("state = %v, want start", c.state.GameState)
	}
	if got := c.game.Snapshot().Tick; got != 0 {
		t.Errorf("title screen ran %d ticks", got)
	}

	fire := press(" ")
	fire.Fire = true
	c.update(fire, tick)
	if c.state.GameState != GameStatePlaying {
		t.Fatalf("state = %v, want playing", c.state.GameState)
	}

	c.update(input.Input{}, 3*tick)
	if got := c.game.Snapshot().Tick; got != 3 {
		t.Errorf("Tick = %d, want 3", got)
	}
}

func TestCatchUpIsBounded(t *testing.T) {
	c, _ := newTestClient(t, "", nil)
	c.startGame()

	c.update(input.Input{}, time.Second)
	if got := c.game.Snapshot().Tick; got != config.MaxStepsPerFrame {
		t.Errorf("Tick = %d, want %d", got, config.MaxStepsPerFrame)
	}
	if c.state.accumulator != 0 {
		t.Errorf("backlog kept: %v", c.state.accumulator)
	}
}

func TestQuit(t *testing.T) {
	c, _ := newTestClient(t, "", nil)
	q := press("q")
	q.Quit = true
	c.update(q, time.Millisecond)
	if c.state.Running {
		t.Error("still running after quit")
	}
}

func TestInactivity(t *testing.T) {
	c, _ := newTestClient(t, "", nil)

	c.update(input.Input{}, (config.InactivityWarnUser+1)*time.Second)
	if !c.state.isInactive {
		t.Fatal("no inactivity warning")
	}

	c.update(press("x"), time.Millisecond)
	if c.state.isInactive || c.state.idle != 0 {
		t.Fatal("key press did not clear the warning")
	}

	c.update(input.Input{}, config.InactivityDisconnectUser*time.Second)
	if c.state.Running {
		t.Error("inactive session not disconnected")
	}
}

func TestEventsReachSink(t *testing.T) {
	sink := &recordingSink{}
	c, _ := newTestClient(t, "", sink)
	c.startGame()

	c.update(input.Input{}, c.game.Config().Tick)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	var spawned bool
	for _, e := range sink.events {
		spawned = spawned || e.Type == sim.EventPlayerSpawned
	}
	if !spawned {
		t.Errorf("events = %v, want a player spawn", sink.events)
	}
}

func TestShutdownCountdown(t *testing.T) {
	c, _ := newTestClient(t, "", nil)
	c.beginShutdown()

	c.update(input.Input{}, time.Second)
	if !c.state.Running {
		t.Fatal("disconnected before the notice was shown")
	}
	c.update(input.Input{}, time.Duration(config.ShutdownDisplaySeconds*float64(time.Second)))
	if c.state.Running {
		t.Error("still running after the shutdown notice")
	}
}

func TestDrawFrame(t *testing.T) {
	c, out := newTestClient(t, "", nil)

	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Press SPACE") {
		t.Error("title screen missing start prompt")
	}

	c.startGame()
	c.update(input.Input{}, c.game.Config().Tick)
	out.Reset()
	if err := c.drawFrame(); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Score: 0", "tester", "Shield"} {
		if !strings.Contains(text, want) {
			t.Errorf("HUD missing %q", want)
		}
	}
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	c, out := newTestClient(t, "", nil)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after input closed")
	}
	if !strings.Contains(out.String(), "\033[?25l") {
		t.Error("cursor was not hidden")
	}
}
