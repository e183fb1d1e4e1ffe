package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/audio"
	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/loop"
	"github.com/CrawKatt/Space-Invaders/internal/window"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "window: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML or YAML config file")
	flag.Parse()

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	game, closeGame, err := loop.NewGame(cfg, log)
	if err != nil {
		return err
	}
	defer closeGame()

	opts := window.Options{Logger: log}
	if cfg.Audio.Enabled {
		sound := audio.NewSoundManager(cfg.Audio)
		if err := sound.Initialize(); err != nil {
			log.Warn("audio disabled", zap.Error(err))
		} else {
			defer sound.Cleanup()
			opts.Sink = sound
		}
	}

	return window.Run(game, opts)
}
