// Package server tracks the sessions of a multi-session host so they can be
// listed, ranked and shut down together. Each session plays its own game.
package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// topScoresMax is how many entries the leaderboard keeps.
const topScoresMax = 5

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	At       time.Time
	clientID int // Tie-break when scores are equal
}

// Session is a registered client. Its context ends when the hub shuts down.
type Session struct {
	ID       int
	Username string
	Started  time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the session's context, cancelled on hub shutdown.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Hub manages the set of live sessions.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[int]*Session
	nextID    int
	topScores []TopScoreEntry
	closed    bool
	log       *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		sessions: make(map[int]*Session),
		log:      log,
	}
}

// Register adds a session. Sessions registered after Shutdown start cancelled.
func (h *Hub) Register(parent context.Context, username string) *Session {
	ctx, cancel := context.WithCancel(parent)

	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Session{
		ID:       h.nextID,
		Username: username,
		Started:  time.Now(),
		ctx:      ctx,
		cancel:   cancel,
	}
	h.nextID++
	h.sessions[s.ID] = s
	if h.closed {
		cancel()
	}

	h.log.Info("session registered", zap.Int("id", s.ID), zap.String("user", username), zap.Int("live", len(h.sessions)))
	return s
}

// Unregister removes a session and records its final score.
func (h *Hub) Unregister(s *Session, score int) {
	s.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.ID]; !ok {
		return
	}
	delete(h.sessions, s.ID)
	h.recordScoreLocked(TopScoreEntry{Username: s.Username, Score: score, At: time.Now(), clientID: s.ID})

	h.log.Info("session unregistered",
		zap.Int("id", s.ID),
		zap.String("user", s.Username),
		zap.Int("score", score),
		zap.Duration("played", time.Since(s.Started)),
		zap.Int("live", len(h.sessions)),
	)
}

// recordScoreLocked inserts e into the leaderboard, keeping the best entries.
func (h *Hub) recordScoreLocked(e TopScoreEntry) {
	if e.Score <= 0 {
		return
	}
	h.topScores = append(h.topScores, e)
	sort.SliceStable(h.topScores, func(i, j int) bool {
		a, b := h.topScores[i], h.topScores[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.clientID < b.clientID
	})
	if len(h.topScores) > topScoresMax {
		h.topScores = h.topScores[:topScoresMax]
	}
}

// TopScores returns a copy of the leaderboard, best first.
func (h *Hub) TopScores() []TopScoreEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]TopScoreEntry(nil), h.topScores...)
}

// Live returns the number of registered sessions.
func (h *Hub) Live() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown cancels every session so clients show their shutdown notice, then
// waits for them to disconnect or for the timeout. It reports whether all
// sessions ended in time.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.closed = true
	for _, s := range h.sessions {
		s.cancel()
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Live() == 0 {
			return true
		}
		select {
		case <-deadline:
			h.log.Warn("sessions still connected at shutdown", zap.Int("live", h.Live()))
			return false
		case <-ticker.C:
		}
	}
}
