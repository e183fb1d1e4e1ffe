package client

import (
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/input"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateShutdown                  // Server is shutting down
)

func (s GameState) String() string {
	switch s {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// ClientState holds per-session state outside the simulation.
type ClientState struct {
	Input     input.Input
	GameState GameState
	Running   bool

	Kills  int // Enemies destroyed this session
	Deaths int // Times the player was destroyed

	prevGameState GameState
	elapsed       time.Duration // Wall time since the session started
	accumulator   time.Duration // Wall time not yet simulated
	idle          time.Duration // Time since the last key press
	isInactive    bool
	wasInactive   bool
	shutdownTimer time.Duration
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
