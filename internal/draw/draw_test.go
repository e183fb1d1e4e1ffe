package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4) // one logical unit per sub-pixel
	c.Set(Point{X: 0, Y: 0}, ColorWhite)
	c.Set(Point{X: 1, Y: 1}, ColorWhite)
	c.Set(Point{X: 2, Y: 0}, ColorWhite)
	c.Set(Point{X: 2, Y: 1}, ColorWhite)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	for _, r := range []rune{BlockUpperHalf, BlockLowerHalf, BlockFull} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("output missing %q", r)
		}
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.Set(Point{X: 3, Y: 3}, ColorRed)

	var first bytes.Buffer
	c.Render(&first)
	if first.Len() == 0 {
		t.Fatal("first render wrote nothing")
	}

	var second bytes.Buffer
	c.Render(&second)
	if second.Len() != 0 {
		t.Errorf("unchanged frame wrote %q", second.String())
	}

	c.Clear()
	var third bytes.Buffer
	c.Render(&third)
	if !strings.Contains(third.String(), " ") {
		t.Errorf("cleared pixel not erased: %q", third.String())
	}

	c.ForceRedraw()
	var fourth bytes.Buffer
	c.Render(&fourth)
	if got := strings.Count(fourth.String(), " "); got != 50 {
		t.Errorf("forced redraw wrote %d blank cells, want 50", got)
	}
}

func TestMarkTextDirty(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	var buf bytes.Buffer
	c.Render(&buf)

	c.MarkTextDirty(2, 1, 3)
	buf.Reset()
	c.Render(&buf)
	if got := strings.Count(buf.String(), " "); got != 3 {
		t.Errorf("repainted %d cells, want 3", got)
	}
}

func TestFillRectCoversAtLeastOnePixel(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100) // ten logical units per sub-pixel
	c.FillRect(Point{X: 51, Y: 51}, Point{X: 1, Y: 1}, ColorYellow)
	if c.Pixel(5, 5) != ColorYellow {
		t.Error("tiny rect vanished")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name                 string
		termW, termH         int
		aspect               float64
		maxW, maxH           int
		wantW, wantH, wantOC int
	}{
		{"width bound", 40, 100, 1, 0, 0, 40, 20, 0},
		{"height bound", 100, 20, 1, 0, 0, 40, 20, 30},
		{"capped", 400, 200, 1, 80, 0, 80, 40, 160},
		{"empty", 0, 0, 1, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, oc, _ := Fit(tt.termW, tt.termH, tt.aspect, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH || oc != tt.wantOC {
				t.Errorf("Fit = (%d, %d, %d), want (%d, %d, %d)", w, h, oc, tt.wantW, tt.wantH, tt.wantOC)
			}
		})
	}
}

func TestViewFlipsY(t *testing.T) {
	v := View{Bounds: physics.Bounds{W: 100, H: 200}}
	tests := []struct {
		in   physics.Vec
		want Point
	}{
		{physics.Vec{X: 0, Y: 0}, Point{X: 50, Y: 100}},
		{physics.Vec{X: -50, Y: 100}, Point{X: 0, Y: 0}},
		{physics.Vec{X: 50, Y: -100}, Point{X: 100, Y: 200}},
	}
	for _, tt := range tests {
		if got := v.ToLogical(tt.in); got != tt.want {
			t.Errorf("ToLogical(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDrawSnapshotHidesPlayer(t *testing.T) {
	v := View{Bounds: physics.Bounds{W: 100, H: 100}, ExplosionFrames: 16}
	snap := sim.Snapshot{Sprites: []sim.Sprite{{
		Kind: object.KindPlayer,
		Pos:  physics.Vec{X: 0, Y: 0},
		Box:  physics.Vec{X: 20, Y: 20},
	}}}

	c := NewScaledCanvas(100, 50, 100, 100)
	DrawSnapshot(c, v, snap, true)
	if c.Pixel(50, 50) != ColorNone {
		t.Error("hidden player was drawn")
	}

	DrawSnapshot(c, v, snap, false)
	if c.Pixel(50, 52) != ColorCyan {
		t.Error("player not drawn at center")
	}
}

func TestDrawLaserColors(t *testing.T) {
	v := View{Bounds: physics.Bounds{W: 100, H: 100}}
	c := NewScaledCanvas(100, 50, 100, 100)
	DrawSprite(c, v, sim.Sprite{Kind: object.KindLaser, Owner: object.FromEnemy, Pos: physics.Vec{X: 10, Y: 10}, Box: physics.Vec{X: 2, Y: 6}})
	if got := c.Pixel(60, 40); got != ColorMagenta {
		t.Errorf("enemy laser color = %v, want magenta", got)
	}
}
