// Package physics provides vector math, overlap tests and a broad-phase grid
// for the play area. The play area is centered on the origin with y pointing up.
package physics

import "math"

// Vec is a 2D point or direction in world units.
type Vec struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v-o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by f on both axes.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Bounds is the size of the play area. The area spans [-W/2, W/2] x [-H/2, H/2].
type Bounds struct {
	W, H float64
}

// Outside reports whether p lies beyond the play area by more than margin
// on either axis.
func (b Bounds) Outside(p Vec, margin float64) bool {
	halfW := b.W/2 + margin
	halfH := b.H/2 + margin
	return p.X > halfW || p.X < -halfW || p.Y > halfH || p.Y < -halfH
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(DistanceSquared(x1, y1, x2, y2))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Collide reports whether two axis-aligned boxes overlap. Boxes are given by
// their center and full size. Touching edges do not count as an overlap.
func Collide(aCenter, aSize, bCenter, bSize Vec) bool {
	aMin := aCenter.Sub(aSize.Scale(0.5))
	aMax := aCenter.Add(aSize.Scale(0.5))
	bMin := bCenter.Sub(bSize.Scale(0.5))
	bMax := bCenter.Add(bSize.Scale(0.5))

	return aMin.X < bMax.X && aMax.X > bMin.X &&
		aMin.Y < bMax.Y && aMax.Y > bMin.Y
}
