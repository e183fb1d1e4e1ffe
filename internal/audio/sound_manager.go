// Package audio plays generated sound effects for game events.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// SoundManager manages all game audio
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	initialized bool
}

// NewSoundManager creates a sound manager. Nothing plays until Initialize succeeds.
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &SoundManager{
		mixer:  &beep.Mixer{},
		rate:   beep.SampleRate(rate),
		volume: cfg.Volume,
	}
}

// Initialize opens the speaker and starts the mixer.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sm.rate, sm.rate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayLaser plays the player's shot.
func (sm *SoundManager) PlayLaser() {
	sm.play(CreateLaserSound(sm.rate, sm.volume))
}

// PlayExplosion plays a ship blowing up.
func (sm *SoundManager) PlayExplosion() {
	sm.play(CreateExplosionSound(sm.rate, sm.volume))
}

// HandleEvent maps a game event to its sound, if it has one.
func (sm *SoundManager) HandleEvent(e sim.Event) {
	switch e.Type {
	case sim.EventPlayerFired:
		sm.PlayLaser()
	case sim.EventEnemyDestroyed, sim.EventPlayerDestroyed:
		sm.PlayExplosion()
	}
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
