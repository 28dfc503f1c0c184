package gesturesound

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RunConfig configures the window opened by Run. Zero fields fall back to
// the stage's Window configuration.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Outlines strokes the hit box of every interactable node.
	Outlines bool
}

var (
	outlineColor = color.RGBA{0x40, 0xc0, 0xff, 0xff}
	cursorColor  = color.RGBA{0xff, 0x60, 0x40, 0xff}
)

// game adapts a Stage to ebiten.Game.
type game struct {
	stage *Stage
	cfg   RunConfig
}

// Run opens a window and drives the stage from ebiten's game loop until the
// window closes. Mouse and touch input is polled every tick.
func Run(st *Stage, cfg RunConfig) error {
	w := st.cfg.Window
	if cfg.Title == "" {
		cfg.Title = w.Title
	}
	if cfg.Width <= 0 {
		cfg.Width = w.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = w.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(w.TPS)
	st.input.poll = true
	defer func() { st.input.poll = false }()
	st.logger.Info("starting run loop", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height, "tps", w.TPS)
	return ebiten.RunGame(&game{stage: st, cfg: cfg})
}

func (g *game) Update() error {
	g.stage.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	st := g.stage
	s := st.active
	if s != nil && (g.cfg.Outlines || st.debug) {
		drawOutlines(screen, s, s.root)
	}
	if st.debug {
		for _, c := range st.ActiveCursors() {
			p := c.Position()
			vector.StrokeCircle(screen, float32(p.X), float32(p.Y), 12, 2, cursorColor, true)
		}
		ebitenutil.DebugPrint(screen, debugOverlay(st))
	}
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
			4, g.cfg.Height-32)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// drawOutlines strokes the Width/Height box of every visible interactable
// node, transformed to screen space through the primary camera.
func drawOutlines(screen *ebiten.Image, s *Scene, n *Node) {
	if !n.Visible {
		return
	}
	if n.Interactable && n.Width > 0 && n.Height > 0 {
		corners := [4]Vec2{{0, 0}, {n.Width, 0}, {n.Width, n.Height}, {0, n.Height}}
		var pts [4]Vec2
		for i, c := range corners {
			wx, wy := n.LocalToWorld(c.X, c.Y)
			if len(s.cameras) > 0 {
				wx, wy = s.cameras[0].WorldToScreen(wx, wy)
			}
			pts[i] = Vec2{wx, wy}
		}
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, outlineColor, true)
		}
	}
	for _, child := range n.children {
		drawOutlines(screen, s, child)
	}
}
