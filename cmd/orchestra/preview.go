package main

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/orchestra"
)

var previewFlags struct {
	width    int
	height   int
	size     float64
	loop     bool
	duration float32
}

var previewCmd = &cobra.Command{
	Use:   "preview FILE",
	Short: "Play a timeline document in a window",
	Long: `Open a window and play the timeline. Every object is drawn as a solid
square sprite whose fields are driven by the compiled clips.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVar(&previewFlags.width, "width", 640, "window width")
	previewCmd.Flags().IntVar(&previewFlags.height, "height", 480, "window height")
	previewCmd.Flags().Float64Var(&previewFlags.size, "size", 32, "sprite size in pixels")
	previewCmd.Flags().BoolVar(&previewFlags.loop, "loop", false, "restart at the end")
	previewCmd.Flags().Float32Var(&previewFlags.duration, "duration", 0, "seconds per pass (default: timeline length)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	store, err := loadStore(args[0], newLogger())
	if err != nil {
		return err
	}
	scene, err := buildPreview(store)
	if err != nil {
		return err
	}
	scene.AddPlayer(orchestra.NewPlayer(store, orchestra.PlayerConfig{
		Name:     args[0],
		Duration: previewFlags.duration,
		Loop:     previewFlags.loop,
	}))
	return orchestra.Run(scene, orchestra.RunConfig{
		Title:  "orchestra - " + args[0],
		Width:  previewFlags.width,
		Height: previewFlags.height,
	})
}

// buildPreview creates one sprite per object and binds it to the store.
func buildPreview(store *orchestra.ClipStore) (*orchestra.Scene, error) {
	scene := orchestra.NewScene()
	scene.ClearColor = orchestra.Color{R: 0.08, G: 0.08, B: 0.1, A: 1}
	for _, id := range store.Objects() {
		sp := orchestra.NewSprite(id, nil)
		sp.SetScale(previewFlags.size, previewFlags.size)
		sp.PivotX, sp.PivotY = 0.5, 0.5
		scene.Root().AddChild(sp)
		if _, err := store.Register(id, sp); err != nil {
			return nil, err
		}
	}
	if err := store.ApplyAll(0); err != nil {
		return nil, err
	}
	return scene, nil
}
