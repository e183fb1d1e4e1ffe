// Package window hosts a game in a desktop window, drawing every object as
// its bounding box.
package window

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/input"
	"github.com/CrawKatt/Space-Invaders/internal/loop/client"
	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

var (
	colorBackground  = color.RGBA{R: 5, G: 6, B: 10, A: 255}
	colorPlayer      = color.RGBA{R: 94, G: 241, B: 255, A: 255}
	colorEnemy       = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	colorPlayerLaser = color.RGBA{R: 255, G: 230, B: 109, A: 255}
	colorEnemyLaser  = color.RGBA{R: 230, G: 110, B: 255, A: 255}
	colorExplosion   = color.RGBA{R: 255, G: 160, B: 60, A: 255}
	colorPending     = color.RGBA{R: 255, G: 255, B: 255, A: 80}
)

// Window implements ebiten.Game around a sim.Game. Ebiten calls Update once
// per tick, so the game advances one step per Update.
type Window struct {
	game *sim.Game
	sink client.EventSink
	log  *zap.Logger

	bounds physics.Bounds
	frames int
	kills  int
	deaths int
}

// Options configures a Window.
type Options struct {
	Sink   client.EventSink
	Logger *zap.Logger
}

// New creates a window host for game.
func New(game *sim.Game, opts Options) *Window {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := game.Config()
	return &Window{
		game:   game,
		sink:   opts.Sink,
		log:    log,
		bounds: physics.Bounds{W: cfg.PlayArea.W, H: cfg.PlayArea.H},
		frames: cfg.ExplosionFrames,
	}
}

// TPS returns the ebiten tick rate matching the game tick.
func TPS(tick time.Duration) int {
	if tick <= 0 {
		return ebiten.DefaultTPS
	}
	return int(time.Second / tick)
}

// Update reads the keyboard and advances the game one tick.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	w.step(readKeys(ebiten.IsKeyPressed))
	return nil
}

// step feeds controls to the game, runs one tick and forwards its events.
func (w *Window) step(in input.Input) {
	w.game.SetPlayerVelocity(in.Velocity())
	if in.Fire {
		w.game.Fire()
	}
	w.game.Step()

	for {
		select {
		case e := <-w.game.Events():
			switch e.Type {
			case sim.EventEnemyDestroyed:
				w.kills++
			case sim.EventPlayerDestroyed:
				w.deaths++
			}
			if w.sink != nil {
				w.sink.HandleEvent(e)
			}
		default:
			return
		}
	}
}

// readKeys maps held keys to controls.
func readKeys(pressed func(ebiten.Key) bool) input.Input {
	held := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return input.Input{
		Left:  held(ebiten.KeyA, ebiten.KeyArrowLeft),
		Right: held(ebiten.KeyD, ebiten.KeyArrowRight),
		Up:    held(ebiten.KeyW, ebiten.KeyArrowUp),
		Down:  held(ebiten.KeyS, ebiten.KeyArrowDown),
		Fire:  held(ebiten.KeySpace, ebiten.KeyZ),
	}
}

// toScreen converts a world box to its top-left screen corner and size.
func (w *Window) toScreen(center, box physics.Vec) (x, y, width, height float32) {
	x = float32(center.X - box.X/2 + w.bounds.W/2)
	y = float32(w.bounds.H/2 - center.Y - box.Y/2)
	return x, y, float32(box.X), float32(box.Y)
}

// spriteColor picks the fill for a sprite.
func spriteColor(sp sim.Sprite) color.RGBA {
	switch sp.Kind {
	case object.KindPlayer:
		return colorPlayer
	case object.KindEnemy:
		return colorEnemy
	case object.KindLaser:
		if sp.Owner == object.FromEnemy {
			return colorEnemyLaser
		}
		return colorPlayerLaser
	case object.KindExplosion:
		return colorExplosion
	}
	return colorPending
}

// Draw renders the latest snapshot.
func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	snap := w.game.Snapshot()

	for _, sp := range snap.Sprites {
		if sp.Kind == object.KindPlayer && !object.ShouldRenderBlink(sp.Invincible, config.PlayerBlinkFrequency) {
			continue
		}
		x, y, width, height := w.toScreen(sp.Pos, sp.Box)
		col := spriteColor(sp)
		switch sp.Kind {
		case object.KindExplosion:
			// The box shrinks inward as the animation plays.
			frames := w.frames
			if frames < 1 {
				frames = 1
			}
			inset := float32(sp.Frame) / float32(frames) * width / 2
			vector.StrokeRect(screen, x+inset, y+inset, width-2*inset, height-2*inset, 2, col, false)
		case object.KindPendingExplosion:
			vector.StrokeRect(screen, x, y, width, height, 1, col, false)
		default:
			vector.DrawFilledRect(screen, x, y, width, height, col, false)
		}
	}

	ebitenutil.DebugPrintAt(screen, hudText(snap), 8, 6)
}

// hudText formats the status line.
func hudText(snap sim.Snapshot) string {
	status := ""
	switch {
	case snap.RespawnIn > 0:
		status = fmt.Sprintf("  Respawn in %.1fs", snap.RespawnIn.Seconds())
	default:
		if sp, ok := snap.PlayerSprite(); ok && sp.Invincible > 0 {
			status = fmt.Sprintf("  Shield %.1fs", sp.Invincible.Seconds())
		}
	}
	return fmt.Sprintf("Score: %d  Enemies: %d%s", snap.Score, snap.EnemyCount, status)
}

// Layout keeps the logical screen the size of the play area.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(w.bounds.W), int(w.bounds.H)
}

// Stats returns enemies destroyed and player deaths so far.
func (w *Window) Stats() (kills, deaths int) {
	return w.kills, w.deaths
}

// Run opens the window and plays until it is closed.
func Run(game *sim.Game, opts Options) error {
	w := New(game, opts)
	ebiten.SetWindowSize(int(w.bounds.W), int(w.bounds.H))
	ebiten.SetWindowTitle("Space Invaders")
	ebiten.SetTPS(TPS(game.Config().Tick))

	if err := ebiten.RunGame(w); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	kills, deaths := w.Stats()
	w.log.Info("window closed", zap.Int("score", game.Snapshot().Score), zap.Int("kills", kills), zap.Int("deaths", deaths))
	return nil
}
