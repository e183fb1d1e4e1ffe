// Package input turns raw terminal bytes into held-key state.
package input

import (
	"bufio"
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, so holding is inferred from their rate.
const keyHoldDuration = 60 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Up      bool
	Down    bool
	Fire    bool
	Enter   bool
	Pressed []byte
}

// Velocity returns the ship velocity the held direction keys ask for.
// Opposite keys cancel out.
func (in Input) Velocity() object.Velocity {
	var v object.Velocity
	if in.Left {
		v.X -= config.PlayerVelocityX
	}
	if in.Right {
		v.X += config.PlayerVelocityX
	}
	if in.Up {
		v.Y += config.PlayerVelocityY
	}
	if in.Down {
		v.Y -= config.PlayerVelocityY
	}
	return v
}

// Any reports whether any byte arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	up    time.Time
	down  time.Time
	fire  time.Time
	enter time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	closed bool
	state  keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	now := time.Now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.apply(buf, now)
	return s.held(buf, now)
}

// ResetKeyInput forgets held keys, so a key used to leave a screen does not
// carry over into the game.
func ResetKeyInput(s *Stream) {
	s.state = keyState{}
}

// apply parses the bytes and records key press times. Arrow keys arrive as
// the CSI sequences ESC [ A..D.
func (s *Stream) apply(buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
			case 'D':
				s.state.left = now
			}
			i += 2
			continue
		}
		applyByteToState(&s.state, b, now)
	}
}

// held builds input from key state. Keys are held if seen within keyHoldDuration.
func (s *Stream) held(buf []byte, now time.Time) Input {
	recent := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	return Input{
		Quit:    recent(s.state.quit),
		Left:    recent(s.state.left),
		Right:   recent(s.state.right),
		Up:      recent(s.state.up),
		Down:    recent(s.state.down),
		Fire:    recent(s.state.fire),
		Enter:   recent(s.state.enter),
		Pressed: buf,
	}
}

func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'h', 'H':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'k', 'K':
		state.up = now
	case 's', 'S', 'j', 'J':
		state.down = now
	case ' ', 'z', 'Z':
		state.fire = now
	case '\n', '\r':
		state.enter = now
	}
}
