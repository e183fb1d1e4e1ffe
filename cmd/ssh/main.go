package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/draw"
	"github.com/CrawKatt/Space-Invaders/internal/loop"
	"github.com/CrawKatt/Space-Invaders/internal/loop/client"
	"github.com/CrawKatt/Space-Invaders/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssh server: %v\n", err)
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

	host := config.GetEnv("SSH_HOST", cfg.SSH.Host)
	port := config.GetEnv("SSH_PORT", cfg.SSH.Port)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", cfg.SSH.HostKeyPath)
	log.Info("ssh config", zap.String("host", host), zap.String("port", port), zap.String("host_key", hostKeyPath))

	hub := server.NewHub(log)
	sessions := &sessionHandler{cfg: cfg, hub: hub, log: log}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting ssh server", zap.String("addr", s.Addr))
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-done:
	}

	log.Info("shutting down", zap.Int("live_sessions", hub.Live()))
	hub.Shutdown(cfg.SSH.ShutdownTimeout)
	for i, e := range hub.TopScores() {
		log.Info("top score", zap.Int("rank", i+1), zap.String("user", e.Username), zap.Int("score", e.Score))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sessionHandler gives every SSH session its own game.
type sessionHandler struct {
	cfg *config.Config
	hub *server.Hub
	log *zap.Logger
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		h.play(sess)
		next(sess)
	}
}

func (h *sessionHandler) play(sess ssh.Session) {
	pty, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
		return
	}
	log := h.log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
	log.Info("new game session", zap.String("term", pty.Term), zap.Int("width", pty.Window.Width), zap.Int("height", pty.Window.Height))

	sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
	go func() {
		for win := range winCh {
			sizeTracker.update(win.Width, win.Height)
		}
	}()

	game, closeGame, err := loop.NewGame(h.cfg, log)
	if err != nil {
		log.Error("create game", zap.Error(err))
		fmt.Fprintln(sess, "Error: the game could not be started.")
		return
	}
	defer closeGame()

	session := h.hub.Register(sess.Context(), sess.User())
	c := client.NewClient(game, bufio.NewReader(sess), sess, client.ClientOptions{
		TermSizeFunc: sizeTracker.getSize,
		Username:     sess.User(),
		Logger:       log,
	})
	if err := c.Run(session.Context()); err != nil {
		log.Warn("game error", zap.Error(err))
	}
	h.hub.Unregister(session, game.Snapshot().Score)
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
