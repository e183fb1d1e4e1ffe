// Package loop builds games from configuration and runs local sessions.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/audio"
	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/loop/client"
	"github.com/CrawKatt/Space-Invaders/internal/scripting"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// NewGame creates a game from cfg, loading the policy script when one is
// configured. The returned cleanup releases the script engine.
func NewGame(cfg *config.Config, log *zap.Logger) (*sim.Game, func(), error) {
	opts := []sim.Option{sim.WithLogger(log)}
	cleanup := func() {}

	if path := cfg.Scripting.PolicyScript; path != "" {
		engine, err := scripting.NewEngine(path, log)
		if err != nil {
			return nil, nil, fmt.Errorf("load policy script: %w", err)
		}
		opts = append(opts, sim.WithPolicy(engine))
		cleanup = engine.Close
	}

	return sim.NewGame(cfg.Game, opts...), cleanup, nil
}

// Run plays a single local session on the given terminal streams until the
// player quits or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, r *bufio.Reader, w io.Writer, log *zap.Logger) error {
	game, closeGame, err := NewGame(cfg, log)
	if err != nil {
		return err
	}
	defer closeGame()

	opts := client.ClientOptions{
		Username: config.GetEnv("USER", ""),
		Logger:   log,
	}
	if cfg.Audio.Enabled {
		sound := audio.NewSoundManager(cfg.Audio)
		if err := sound.Initialize(); err != nil {
			log.Warn("audio disabled", zap.Error(err))
		} else {
			defer sound.Cleanup()
			opts.Sink = sound
		}
	}

	c := client.NewClient(game, r, w, opts)
	if err := c.Run(ctx); err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	return nil
}
