package draw

import (
	"math"

	"github.com/CrawKatt/Space-Invaders/internal/object"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
	"github.com/CrawKatt/Space-Invaders/internal/sim"
)

// explosionRays is how many sparks an explosion frame draws.
const explosionRays = 8

// View maps the origin-centered, y-up play area onto canvas logical space.
type View struct {
	Bounds          physics.Bounds
	ExplosionFrames int
}

// ToLogical converts a world position to canvas logical coordinates.
func (v View) ToLogical(p physics.Vec) Point {
	return Point{X: p.X + v.Bounds.W/2, Y: v.Bounds.H/2 - p.Y}
}

// DrawSnapshot draws every sprite in snap. The player is skipped when
// hidePlayer is set, which hosts use to blink it.
func DrawSnapshot(c *Canvas, v View, snap sim.Snapshot, hidePlayer bool) {
	for _, sp := range snap.Sprites {
		if sp.Kind == object.KindPlayer && hidePlayer {
			continue
		}
		DrawSprite(c, v, sp)
	}
}

// DrawSprite draws one sprite with the shape for its kind.
func DrawSprite(c *Canvas, v View, sp sim.Sprite) {
	center := v.ToLogical(sp.Pos)
	half := Point{X: sp.Box.X / 2, Y: sp.Box.Y / 2}

	switch sp.Kind {
	case object.KindPlayer:
		// Ship points up the screen.
		c.DrawPolygon([]Point{
			{X: center.X, Y: center.Y - half.Y},
			{X: center.X + half.X, Y: center.Y + half.Y},
			{X: center.X - half.X, Y: center.Y + half.Y},
		}, ColorCyan, true)
	case object.KindEnemy:
		c.DrawPolygon([]Point{
			{X: center.X - half.X, Y: center.Y - half.Y},
			{X: center.X + half.X, Y: center.Y - half.Y},
			{X: center.X + half.X/2, Y: center.Y + half.Y},
			{X: center.X - half.X/2, Y: center.Y + half.Y},
		}, ColorRed, true)
	case object.KindLaser:
		col := ColorYellow
		if sp.Owner == object.FromEnemy {
			col = ColorMagenta
		}
		c.FillRect(Point{X: center.X - half.X, Y: center.Y - half.Y}, Point{X: sp.Box.X, Y: sp.Box.Y}, col)
	case object.KindExplosion:
		drawExplosion(c, v, center, half, sp.Frame)
	}
}

// drawExplosion draws sparks flying outward as the frame advances.
func drawExplosion(c *Canvas, v View, center, half Point, frame int) {
	frames := v.ExplosionFrames
	if frames <= 0 {
		frames = 1
	}
	progress := float64(frame+1) / float64(frames)
	col := ColorYellow
	if progress > 0.5 {
		col = ColorRed
	}
	for i := 0; i < explosionRays; i++ {
		angle := 2 * math.Pi * float64(i) / explosionRays
		inner := Point{
			X: center.X + math.Cos(angle)*half.X*progress*0.5,
			Y: center.Y + math.Sin(angle)*half.Y*progress*0.5,
		}
		outer := Point{
			X: center.X + math.Cos(angle)*half.X*progress,
			Y: center.Y + math.Sin(angle)*half.Y*progress,
		}
		c.DrawLine(inner, outer, col)
	}
}
