package orchestra

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	w, h  int
}

func (g *game) Update() error              { return g.scene.Update() }
func (g *game) Draw(screen *ebiten.Image)  { g.scene.Draw(screen) }
func (g *game) Layout(_, _ int) (int, int) { return g.w, g.h }

// Run opens a window and drives the scene until the window is closed or a
// player returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&game{scene: scene, w: cfg.Width, h: cfg.Height})
}
