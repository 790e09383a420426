// Package physics is a minimal arcade physics step: velocity integration and
// collision against the world bounds. No gravity, no body-to-body collision.
package physics

import "github.com/vovakirdan/sprite-arena/internal/core"

// Body is a moving axis-aligned box. Pos is the center.
type Body struct {
	Pos  core.Vec2
	Vel  core.Vec2 // Units per second
	Size core.Vec2

	// CollideWorldBounds keeps the body inside the world.
	CollideWorldBounds bool

	// Blocked reports which world edges stopped the body during the last step.
	Blocked Blocked
}

// Blocked flags the edges a body was pushed back from.
type Blocked struct {
	Left, Right, Up, Down bool
}

// Any reports whether any edge blocked the body.
func (b Blocked) Any() bool {
	return b.Left || b.Right || b.Up || b.Down
}

// NewBody creates a body of the given size centered at pos.
func NewBody(pos core.Vec2, w, h float64) *Body {
	return &Body{
		Pos:  pos,
		Size: core.Vec2{X: w, Y: h},
	}
}

// Bounds returns the body's box in world coordinates.
func (b *Body) Bounds() core.Rect {
	return core.RectAround(b.Pos, b.Size.X, b.Size.Y)
}

// SetVelocity sets both velocity components.
func (b *Body) SetVelocity(vx, vy float64) {
	b.Vel = core.Vec2{X: vx, Y: vy}
}

// SetVelocityX sets the horizontal velocity.
func (b *Body) SetVelocityX(vx float64) {
	b.Vel.X = vx
}

// SetVelocityY sets the vertical velocity.
func (b *Body) SetVelocityY(vy float64) {
	b.Vel.Y = vy
}

// World is the rectangle bodies move in.
type World struct {
	Bounds core.Rect
}

// NewWorld creates a world spanning (0,0)-(w,h).
func NewWorld(w, h float64) World {
	return World{Bounds: core.NewRect(0, 0, w, h)}
}

// Step advances a body by dt seconds.
// A body that collides with the world bounds is pushed back inside and loses
// the velocity component pointing out of the world.
func (w World) Step(b *Body, dt float64) {
	b.Blocked = Blocked{}
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	if !b.CollideWorldBounds {
		return
	}

	halfW, halfH := b.Size.X/2, b.Size.Y/2
	minX, maxX := w.Bounds.X+halfW, w.Bounds.Right()-halfW
	minY, maxY := w.Bounds.Y+halfH, w.Bounds.Bottom()-halfH

	if x := core.ClampF(b.Pos.X, minX, maxX); x != b.Pos.X {
		b.Blocked.Left = x > b.Pos.X
		b.Blocked.Right = !b.Blocked.Left
		b.Pos.X = x
		b.Vel.X = 0
	}
	if y := core.ClampF(b.Pos.Y, minY, maxY); y != b.Pos.Y {
		b.Blocked.Up = y > b.Pos.Y
		b.Blocked.Down = !b.Blocked.Up
		b.Pos.Y = y
		b.Vel.Y = 0
	}
}
