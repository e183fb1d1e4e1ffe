package window

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap/zaptest"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

func newTestWindow(t *testing.T) *Window {
	t.Helper()
	log := zaptest.NewLogger(t)
	game := sim.NewGame(config.Defaults().Game, sim.WithRand(rand.New(rand.NewSource(1))), sim.WithLogger(log))
	return New(game, Options{Logger: log})
}

func TestReadKeys(t *testing.T) {
	held := map[ebiten.Key]bool{ebiten.KeyArrowLeft: true, ebiten.KeyW: true, ebiten.KeySpace: true}
	in := readKeys(func(k ebiten.Key) bool { return held[k] })

	if !in.Left || in.Right || !in.Up || in.Down || !in.Fire {
		t.Errorf("readKeys = %+v", in)
	}
}

func TestToScreenFlipsY(t *testing.T) {
	w := newTestWindow(t) // 598 x 676
	x, y, width, height := w.toScreen(physics.Vec{X: 0, Y: 0}, physics.Vec{X: 20, Y: 10})
	if x != 289 || y != 333 || width != 20 || height != 10 {
		t.Errorf("toScreen(center) = (%v, %v, %v, %v)", x, y, width, height)
	}

	_, yTop, _, _ := w.toScreen(physics.Vec{X: 0, Y: 300}, physics.Vec{X: 20, Y: 10})
	if yTop >= y {
		t.Errorf("higher world y drew lower on screen: %v >= %v", yTop, y)
	}
}

func TestSpriteColor(t *testing.T) {
	tests := []struct {
		sp   sim.Sprite
		want any
	}{
		{sim.Sprite{Kind: object.KindPlayer}, colorPlayer},
		{sim.Sprite{Kind: object.KindEnemy}, colorEnemy},
		{sim.Sprite{Kind: object.KindLaser, Owner: object.FromPlayer}, colorPlayerLaser},
		{sim.Sprite{Kind: object.KindLaser, Owner: object.FromEnemy}, colorEnemyLaser},
		{sim.Sprite{Kind: object.KindExplosion}, colorExplosion},
		{sim.Sprite{Kind: object.KindPendingExplosion}, colorPending},
	}
	for _, tt := range tests {
		if got := spriteColor(tt.sp); got != tt.want {
			t.Errorf("spriteColor(%v) = %v, want %v", tt.sp.Kind, got, tt.want)
		}
	}
}

func TestTPS(t *testing.T) {
	if got := TPS(time.Second / 60); got != 60 {
		t.Errorf("TPS(1/60s) = %d, want 60", got)
	}
	if got := TPS(0); got != ebiten.DefaultTPS {
		t.Errorf("TPS(0) = %d, want default", got)
	}
}

func TestStepAdvancesGame(t *testing.T) {
	w := newTestWindow(t)
	w.step(readKeys(func(ebiten.Key) bool { return false }))
	w.step(readKeys(func(k ebiten.Key) bool { return k == ebiten.KeyD }))

	snap := w.game.Snapshot()
	if snap.Tick != 2 {
		t.Fatalf("Tick = %d, want 2", snap.Tick)
	}
	sp, ok := snap.PlayerSprite()
	if !ok {
		t.Fatal("no player after two ticks")
	}
	if sp.Pos.X <= 0 {
		t.Errorf("player x = %v, want moved right", sp.Pos.X)
	}
	if !strings.Contains(hudText(snap), "Shield") {
		t.Errorf("hud = %q, want shield countdown", hudText(snap))
	}
}

func TestLayoutIsPlayArea(t *testing.T) {
	w := newTestWindow(t)
	if gw, gh := w.Layout(1920, 1080); gw != 598 || gh != 676 {
		t.Errorf("Layout = %dx%d", gw, gh)
	}
}
