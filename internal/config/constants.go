package config

import "time"

// Player
const (
	PlayerBlinkFrequency = 10.0 // Hz
	MaxUsernameLength    = 16   // Maximum display length for player usernames
)

// Keyboard-to-velocity mapping (unit direction, scaled by the base speed).
const (
	PlayerVelocityX = 0.8
	PlayerVelocityY = 0.5
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Event buffer size per game. Events past this are dropped.
const EventBufferSize = 64

// Terminal render area cap, in columns and rows.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 90
)

// Shutdown
const (
	ShutdownDisplaySeconds = 5.0 // Seconds to show the shutdown message before disconnecting
)

// MaxStepsPerFrame bounds how many ticks a host runs to catch up after a stall.
const MaxStepsPerFrame = 5
