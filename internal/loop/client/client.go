// Package client runs one terminal session: it reads keys, drives a Game at
// its fixed tick and draws the result.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/draw"
	"github.com/CrawKatt/Space-Invaders/internal/input"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// EventSink receives every game event the client drains, e.g. a sound manager.
type EventSink interface {
	HandleEvent(sim.Event)
}

// Client handles rendering and input for a single terminal.
type Client struct {
	game         *sim.Game
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	view         draw.View
	aspect       float64
	termSizeFunc draw.TermSizeFunc
	username     string
	sink         EventSink
	log          *zap.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Sink         EventSink
	Logger       *zap.Logger
}

// NewClient creates a client that plays game on the given terminal streams.
func NewClient(game *sim.Game, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	cfg := game.Config()
	c := &Client{
		game:  game,
		state: NewClientState(),
		view: draw.View{
			Bounds:          game.Snapshot().Bounds,
			ExplosionFrames: cfg.ExplosionFrames,
		},
		aspect:       cfg.PlayArea.W / cfg.PlayArea.H,
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		username:     username,
		sink:         opts.Sink,
		log:          log,
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.Fit(termWidth, termHeight, c.aspect, config.MaxTermWidth, config.MaxTermHeight)
	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, cfg.PlayArea.W, cfg.PlayArea.H)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)
	return c
}

// State returns the client's session state.
func (c *Client) State() *ClientState {
	return c.state
}

// Run starts the client loop. It blocks until the player quits, the input
// ends, or ctx is cancelled and the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	c.log.Info("session started", zap.String("user", c.username))
	defer func() {
		c.log.Info("session ended",
			zap.String("user", c.username),
			zap.Int("score", c.game.Snapshot().Score),
			zap.Int("kills", c.state.Kills),
			zap.Int("deaths", c.state.Deaths),
		)
	}()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()
	lastTime := time.Now()

	for c.state.Running {
		if ctx.Err() != nil && c.state.GameState != GameStateShutdown {
			c.beginShutdown()
		}

		now := time.Now()
		delta := now.Sub(lastTime)
		lastTime = now

		in := input.ReadInput(c.inputStream)
		if c.inputStream.Closed() {
			c.state.Running = false
		}
		c.update(in, delta)
		c.updateScreen()

		if err := c.drawFrame(); err != nil {
			return err
		}

		<-ticker.C
	}

	draw.ClearScreen(c.writer)
	return nil
}

// update advances the session by delta with the given input.
func (c *Client) update(in input.Input, delta time.Duration) {
	c.state.Input = in
	c.state.elapsed += delta

	if in.Any() {
		c.state.idle = 0
		c.state.isInactive = false
	} else {
		c.state.idle += delta
	}
	switch {
	case c.state.idle >= config.InactivityDisconnectUser*time.Second:
		c.log.Info("disconnecting inactive session", zap.String("user", c.username))
		c.state.Running = false
	case c.state.idle >= config.InactivityWarnUser*time.Second:
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
	}

	switch c.state.GameState {
	case GameStateStart:
		if in.Fire || in.Enter {
			c.startGame()
		}
	case GameStatePlaying:
		c.updatePlayingState(delta)
	case GameStateShutdown:
		c.state.shutdownTimer -= delta
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}
}

// startGame leaves the title screen.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)
	c.state.accumulator = 0
	c.state.GameState = GameStatePlaying
	c.log.Debug("game started", zap.String("user", c.username))
}

// beginShutdown switches to the shutdown notice.
func (c *Client) beginShutdown() {
	c.state.GameState = GameStateShutdown
	c.state.shutdownTimer = time.Duration(config.ShutdownDisplaySeconds * float64(time.Second))
}

// updatePlayingState feeds controls to the game and runs the ticks that fit
// in the elapsed wall time.
func (c *Client) updatePlayingState(delta time.Duration) {
	in := c.state.Input
	c.game.SetPlayerVelocity(in.Velocity())
	if in.Fire {
		c.game.Fire()
	}

	tick := c.game.Config().Tick
	c.state.accumulator += delta
	steps := 0
	for c.state.accumulator >= tick && steps < config.MaxStepsPerFrame {
		c.game.Step()
		c.state.accumulator -= tick
		steps++
	}
	if steps == config.MaxStepsPerFrame {
		c.state.accumulator = 0
	}

	c.drainEvents()
}

// drainEvents forwards pending game events to the sink and session stats.
func (c *Client) drainEvents() {
	for {
		select {
		case e := <-c.game.Events():
			switch e.Type {
			case sim.EventEnemyDestroyed:
				c.state.Kills++
			case sim.EventPlayerDestroyed:
				c.state.Deaths++
				c.log.Debug("player destroyed", zap.String("user", c.username), zap.Uint64("tick", e.Tick))
			}
			if c.sink != nil {
				c.sink.HandleEvent(e)
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, keeping the play area's aspect.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.Fit(termWidth, termHeight, c.aspect, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}
