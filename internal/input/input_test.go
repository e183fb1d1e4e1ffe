package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/CrawKatt/Space-Invaders/internal/config"
	"github.com/CrawKatt/Space-Invaders/internal/object"
)

func TestKeyMapping(t *testing.T) {
	now := time.Unix(100, 0)
	tests := []struct {
		name string
		in   string
		want Input
	}{
		{"letters", "a", Input{Left: true}},
		{"arrow up", "\x1b[A", Input{Up: true}},
		{"arrow left", "\x1b[D", Input{Left: true}},
		{"fire", " ", Input{Fire: true}},
		{"combo", "dw ", Input{Right: true, Up: true, Fire: true}},
		{"quit", "q", Input{Quit: true}},
		{"ctrl-c", "\x03", Input{Quit: true}},
		{"enter", "\r", Input{Enter: true}},
		{"unknown", "x", Input{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Stream{}
			s.apply([]byte(tt.in), now)
			got := s.held([]byte(tt.in), now)
			if keys(got) != keys(tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// keys drops the raw bytes so inputs compare by held keys only.
func keys(in Input) [7]bool {
	return [7]bool{in.Quit, in.Left, in.Right, in.Up, in.Down, in.Fire, in.Enter}
}

func TestKeyReleasesAfterHold(t *testing.T) {
	now := time.Unix(100, 0)
	s := &Stream{}
	s.apply([]byte("a"), now)

	if !s.held(nil, now.Add(keyHoldDuration/2)).Left {
		t.Error("key released too early")
	}
	if s.held(nil, now.Add(keyHoldDuration)).Left {
		t.Error("key still held after the hold window")
	}
}

func TestResetKeyInput(t *testing.T) {
	now := time.Unix(100, 0)
	s := &Stream{}
	s.apply([]byte(" "), now)
	ResetKeyInput(s)
	if s.held(nil, now).Fire {
		t.Error("fire survived reset")
	}
}

func TestVelocity(t *testing.T) {
	tests := []struct {
		in   Input
		want object.Velocity
	}{
		{Input{}, object.Velocity{}},
		{Input{Left: true}, object.Velocity{X: -config.PlayerVelocityX}},
		{Input{Right: true, Up: true}, object.Velocity{X: config.PlayerVelocityX, Y: config.PlayerVelocityY}},
		{Input{Down: true}, object.Velocity{Y: -config.PlayerVelocityY}},
		{Input{Left: true, Right: true}, object.Velocity{}},
	}
	for _, tt := range tests {
		if got := tt.in.Velocity(); got != tt.want {
			t.Errorf("%+v.Velocity() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStreamClosesOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("d")))

	deadline := time.Now().Add(time.Second)
	var sawRight bool
	for !s.Closed() && time.Now().Before(deadline) {
		in := ReadInput(s)
		sawRight = sawRight || in.Right
		time.Sleep(time.Millisecond)
	}
	if !s.Closed() {
		t.Fatal("stream never closed")
	}
	if !sawRight {
		t.Error("byte before EOF was lost")
	}
}
