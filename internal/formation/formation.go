// Package formation generates the elliptical flight paths enemies follow and
// advances an enemy along its path each tick.
package formation

import (
	"math"
	"math/rand"

	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// Margins and ranges used when synthesizing a new formation.
const (
	entryMargin = 100.0 // Distance outside the screen edge where a formation enters
	radiusXMin  = 80.0
	radiusXMax  = 150.0
	radiusY     = 100.0
	pivotYExtra = 50.0
)

// Path describes one enemy's elliptical trajectory. Every field except Angle
// stays fixed after creation.
type Path struct {
	Start  physics.Vec // Entry point (just outside the left or right edge)
	Radius physics.Vec // Ellipse semi-axes, both > 0
	Pivot  physics.Vec // Ellipse center
	Speed  float64     // Units per second, > 0
	Angle  float64     // Current phase on the ellipse
}

// Maker hands out paths in batches: consecutive enemies of one formation get
// identical copies of a template so they fly in lock-step.
type Maker struct {
	template   *Path
	members    int
	maxMembers int
	speed      float64
	rng        *rand.Rand
}

// NewMaker creates a maker that groups up to maxMembers enemies per formation.
func NewMaker(maxMembers int, speed float64, rng *rand.Rand) *Maker {
	if maxMembers < 1 {
		maxMembers = 1
	}
	return &Maker{
		maxMembers: maxMembers,
		speed:      speed,
		rng:        rng,
	}
}

// Make returns the path for the next enemy. The template is reused until it
// has been handed out maxMembers times, then a new one is generated.
func (m *Maker) Make(bounds physics.Bounds) Path {
	if m.template != nil && m.members < m.maxMembers {
		m.members++
		return *m.template
	}

	p := m.generate(bounds)
	m.template = &p
	m.members = 1
	return p
}

// Members returns how many enemies received the current template.
func (m *Maker) Members() int {
	return m.members
}

// Template returns a copy of the current template, if any.
func (m *Maker) Template() (Path, bool) {
	if m.template == nil {
		return Path{}, false
	}
	return *m.template, true
}

func (m *Maker) generate(bounds physics.Bounds) Path {
	wSpan := bounds.W/2 + entryMargin
	hSpan := bounds.H/2 + entryMargin
	x := -wSpan
	if m.rng.Intn(2) == 0 {
		x = wSpan
	}
	y := m.uniform(-hSpan, hSpan)

	pivot := physics.Vec{
		X: m.uniform(-bounds.W/4, bounds.W/4),
		Y: m.uniform(0, bounds.H/3+pivotYExtra),
	}

	return Path{
		Start:  physics.Vec{X: x, Y: y},
		Radius: physics.Vec{X: m.uniform(radiusXMin, radiusXMax), Y: radiusY},
		Pivot:  pivot,
		Speed:  m.speed,
		// Phase that puts the entry point on the ellipse's ray from the pivot.
		Angle: math.Atan2(y-pivot.Y, x-pivot.X),
	}
}

func (m *Maker) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}

// Step moves pos toward the next point on the ellipse by at most dt*Speed
// and returns the new position. Neither axis overshoots the target point.
// The phase only advances once the enemy has nearly caught up with it.
func (p *Path) Step(pos physics.Vec, dt float64) physics.Vec {
	maxStep := dt * p.Speed

	// Formations entering from the left orbit counter-clockwise.
	dir := -1.0
	if p.Start.X < 0 {
		dir = 1.0
	}

	next := p.Angle + dir*p.Speed*dt/(math.Min(p.Radius.X, p.Radius.Y)*math.Pi/2)
	target := p.pointAt(next)

	delta := pos.Sub(target)
	dist := delta.Len()
	ratio := 0.0
	if dist != 0 {
		ratio = maxStep / dist
	}

	out := pos.Sub(delta.Scale(ratio))
	out.X = clampToward(out.X, target.X, delta.X)
	out.Y = clampToward(out.Y, target.Y, delta.Y)

	// The threshold scales with Speed squared; formations were tuned against it.
	// TODO: drop the extra Speed factor once formation speeds are retuned.
	if dist < maxStep*p.Speed/20 {
		p.Angle = next
	}

	return out
}

// Target returns the point on the ellipse at the current phase.
func (p *Path) Target() physics.Vec {
	return p.pointAt(p.Angle)
}

func (p *Path) pointAt(angle float64) physics.Vec {
	return physics.Vec{
		X: p.Radius.X*math.Cos(angle) + p.Pivot.X,
		Y: p.Radius.Y*math.Sin(angle) + p.Pivot.Y,
	}
}

// clampToward keeps v from passing target when approaching from the side
// given by the sign of delta (position minus target).
func clampToward(v, target, delta float64) float64 {
	if delta > 0 {
		return math.Max(v, target)
	}
	return math.Min(v, target)
}
