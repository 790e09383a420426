package scene

import (
	"github.com/vovakirdan/sprite-arena/internal/core"
)

const spriteRune = '█'

// Render draws the active scene onto s, scaling the logical world to the
// screen size.
func (c *Controller) Render(s *core.Screen) {
	s.Clear()
	vp := core.NewViewport(c.cfg.World.Width, c.cfg.World.Height, s.Width(), s.Height())

	switch c.state {
	case StateMenu:
		c.renderMenu(s, vp)
	case StateGameplay:
		c.renderGameplay(s, vp)
	}
}

func (c *Controller) renderMenu(s *core.Screen, vp core.Viewport) {
	x, y := vp.ToCell(core.Vec2{X: c.cfg.UI.PromptX, Y: c.cfg.UI.PromptY})
	s.DrawTextCentered(x, y, c.cfg.UI.MenuPrompt, core.ColorYellow)
}

func (c *Controller) renderGameplay(s *core.Screen, vp core.Viewport) {
	s.DrawBox(0, 0, s.Width(), s.Height(), core.ColorGray)

	x, y, w, h := vp.RectToCells(c.body.Bounds())
	s.FillRect(x, y, w, h, spriteRune, core.ColorCyan)

	ox, oy := vp.ToCell(core.Vec2{X: c.cfg.UI.OverlayX, Y: c.cfg.UI.OverlayY})
	c.overlay.Draw(s, ox, oy)
}
