package formation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

const floatTolerance = 1e-9

var testBounds = physics.Bounds{W: 598, H: 676}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestMakeGeneratesPathsWithinRanges(t *testing.T) {
	m := NewMaker(1, 500, rand.New(rand.NewSource(1)))

	for i := 0; i < 500; i++ {
		p := m.Make(testBounds)

		if p.Radius.X < 80 || p.Radius.X > 150 {
			t.Fatalf("radius.x = %f, want within [80,150]", p.Radius.X)
		}
		if p.Radius.Y != 100 {
			t.Fatalf("radius.y = %f, want 100", p.Radius.Y)
		}
		if math.Abs(p.Start.X) != testBounds.W/2+100 {
			t.Fatalf("|start.x| = %f, want %f", math.Abs(p.Start.X), testBounds.W/2+100)
		}
		hSpan := testBounds.H/2 + 100
		if p.Start.Y < -hSpan || p.Start.Y > hSpan {
			t.Fatalf("start.y = %f, want within ±%f", p.Start.Y, hSpan)
		}
		if p.Pivot.X < -testBounds.W/4 || p.Pivot.X > testBounds.W/4 {
			t.Fatalf("pivot.x = %f out of range", p.Pivot.X)
		}
		if p.Pivot.Y < 0 || p.Pivot.Y > testBounds.H/3+50 {
			t.Fatalf("pivot.y = %f out of range", p.Pivot.Y)
		}
		if p.Speed != 500 {
			t.Fatalf("speed = %f, want 500", p.Speed)
		}
		want := math.Atan2(p.Start.Y-p.Pivot.Y, p.Start.X-p.Pivot.X)
		if !almostEqual(p.Angle, want, floatTolerance) {
			t.Fatalf("angle = %f, want %f", p.Angle, want)
		}
	}
}

func TestMakeUsesBothEntrySides(t *testing.T) {
	m := NewMaker(1, 500, rand.New(rand.NewSource(7)))
	left, right := 0, 0
	for i := 0; i < 200; i++ {
		if m.Make(testBounds).Start.X < 0 {
			left++
		} else {
			right++
		}
	}
	if left == 0 || right == 0 {
		t.Errorf("expected both sides to be used, got left=%d right=%d", left, right)
	}
}

func TestMakeReusesTemplateForFormationSize(t *testing.T) {
	const members = 3
	m := NewMaker(members, 500, rand.New(rand.NewSource(42)))

	first := m.Make(testBounds)
	for i := 1; i < members; i++ {
		p := m.Make(testBounds)
		if p != first {
			t.Fatalf("call %d: expected template copy %+v, got %+v", i+1, first, p)
		}
		if m.Members() != i+1 {
			t.Fatalf("Members() = %d, want %d", m.Members(), i+1)
		}
	}

	next := m.Make(testBounds)
	if next.Pivot == first.Pivot && next.Radius == first.Radius {
		t.Fatalf("expected a new template after %d members", members)
	}
	if m.Members() != 1 {
		t.Errorf("Members() after regeneration = %d, want 1", m.Members())
	}
	if tmpl, ok := m.Template(); !ok || tmpl != next {
		t.Errorf("Template() = %+v, %v; want %+v", tmpl, ok, next)
	}
}

func TestMakeReturnsIndependentCopies(t *testing.T) {
	m := NewMaker(2, 500, rand.New(rand.NewSource(3)))
	a := m.Make(testBounds)
	b := m.Make(testBounds)

	a.Step(a.Start, 1.0/60)
	a.Angle += 1
	if tmpl, _ := m.Template(); tmpl.Angle != b.Angle {
		t.Errorf("mutating one member changed the template: %f != %f", tmpl.Angle, b.Angle)
	}
}

// nextTarget mirrors the phase step so tests can check convergence toward it.
func nextTarget(p Path, dt float64) physics.Vec {
	dir := -1.0
	if p.Start.X < 0 {
		dir = 1.0
	}
	next := p.Angle + dir*p.Speed*dt/(math.Min(p.Radius.X, p.Radius.Y)*math.Pi/2)
	return p.pointAt(next)
}

func TestStepNeverMovesAwayFromTarget(t *testing.T) {
	const dt = 1.0 / 60
	m := NewMaker(1, 500, rand.New(rand.NewSource(11)))

	for f := 0; f < 20; f++ {
		p := m.Make(testBounds)
		pos := p.Start
		for tick := 0; tick < 600; tick++ {
			target := nextTarget(p, dt)
			before := pos.Sub(target)
			pos = p.Step(pos, dt)
			after := pos.Sub(target)

			if after.Len() > before.Len()+floatTolerance {
				t.Fatalf("formation %d tick %d: distance grew from %f to %f", f, tick, before.Len(), after.Len())
			}
			if math.Abs(after.X) > math.Abs(before.X)+floatTolerance ||
				math.Abs(after.Y) > math.Abs(before.Y)+floatTolerance {
				t.Fatalf("formation %d tick %d: axis overshoot %v -> %v", f, tick, before, after)
			}
		}
	}
}

func TestStepLimitsDistancePerTick(t *testing.T) {
	const dt = 1.0 / 60
	p := Path{
		Start:  physics.Vec{X: -399, Y: 0},
		Radius: physics.Vec{X: 100, Y: 100},
		Pivot:  physics.Vec{X: 0, Y: 0},
		Speed:  500,
		Angle:  math.Pi,
	}
	pos := p.Start
	next := p.Step(pos, dt)
	moved := next.Sub(pos).Len()
	if moved > dt*p.Speed+floatTolerance {
		t.Errorf("moved %f, want at most %f", moved, dt*p.Speed)
	}
	if moved == 0 {
		t.Error("expected the enemy to move toward the ellipse")
	}
}

func TestStepAtTargetHasZeroRatio(t *testing.T) {
	const dt = 1.0 / 60
	p := Path{
		Start:  physics.Vec{X: -400, Y: 0},
		Radius: physics.Vec{X: 100, Y: 100},
		Speed:  500,
	}
	target := nextTarget(p, dt)
	got := p.Step(target, dt)
	if math.IsNaN(got.X) || math.IsNaN(got.Y) {
		t.Fatalf("Step produced NaN: %v", got)
	}
	if got != target {
		t.Errorf("Step at target = %v, want %v", got, target)
	}
}

func TestStepCommitsAngleOnlyNearTarget(t *testing.T) {
	const dt = 1.0 / 60
	base := Path{
		Start:  physics.Vec{X: -400, Y: 0},
		Radius: physics.Vec{X: 120, Y: 100},
		Pivot:  physics.Vec{X: 0, Y: 50},
		Speed:  500,
		Angle:  0.5,
	}

	far := base
	far.Step(physics.Vec{X: 1000, Y: 1000}, dt)
	if far.Angle != base.Angle {
		t.Errorf("angle advanced while far from target: %f", far.Angle)
	}

	near := base
	near.Step(nextTarget(base, dt), dt)
	if near.Angle <= base.Angle {
		t.Errorf("angle = %f, expected it to advance past %f when entering from the left", near.Angle, base.Angle)
	}

	right := base
	right.Start.X = 400
	right.Step(nextTarget(right, dt), dt)
	if right.Angle >= base.Angle {
		t.Errorf("angle = %f, expected it to decrease when entering from the right", right.Angle)
	}
}

func TestTargetOnEllipse(t *testing.T) {
	p := Path{Radius: physics.Vec{X: 120, Y: 100}, Pivot: physics.Vec{X: 10, Y: 20}, Angle: math.Pi / 2}
	got := p.Target()
	if !almostEqual(got.X, 10, 1e-6) || !almostEqual(got.Y, 120, 1e-6) {
		t.Errorf("Target() = %v, want (10, 120)", got)
	}
}
