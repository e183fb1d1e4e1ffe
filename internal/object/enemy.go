package object

import (
	"github.com/CrawKatt/Space-Invaders/internal/formation"
	"github.com/CrawKatt/Space-Invaders/internal/physics"
)

// Enemy flies along its own copy of a formation path.
type Enemy struct {
	base
	Path formation.Path
}

// NewEnemy creates an enemy at the entry point of path.
func NewEnemy(path formation.Path, size physics.Vec, scale float64) *Enemy {
	return &Enemy{
		base: base{body: Body{Pos: path.Start, Size: size, Scale: scale}},
		Path: path,
	}
}

func (e *Enemy) Kind() Kind { return KindEnemy }

// Advance moves the enemy one tick along its path.
func (e *Enemy) Advance(dt float64) {
	e.body.Pos = e.Path.Step(e.body.Pos, dt)
}
