package orchestra

import (
	"image/color"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- BlendMode.EbitenBlend ---

func TestBlendModeEbitenBlend(t *testing.T) {
	modes := []struct {
		mode   BlendMode
		name   string
		expect ebiten.Blend
	}{
		{BlendNormal, "BlendNormal", ebiten.BlendSourceOver},
		{BlendAdd, "BlendAdd", ebiten.BlendLighter},
		{BlendErase, "BlendErase", ebiten.BlendDestinationOut},
		{BlendBelow, "BlendBelow", ebiten.BlendDestinationOver},
		{BlendNone, "BlendNone", ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mode.EbitenBlend()
			if got != tt.expect {
				t.Errorf("%s.EbitenBlend() = %v, want %v", tt.name, got, tt.expect)
			}
		})
	}
}

// --- Enum constant values (catch accidental iota drift) ---

func TestEnumValues(t *testing.T) {
	if BlendNormal != 0 {
		t.Errorf("BlendNormal = %d, want 0", BlendNormal)
	}
	if BlendNone != 4 {
		t.Errorf("BlendNone = %d, want 4", BlendNone)
	}
	if NodeTypeContainer != 0 || NodeTypeSprite != 1 {
		t.Errorf("NodeType = %d/%d, want 0/1", NodeTypeContainer, NodeTypeSprite)
	}
	if PlaybackStarted != 0 || PlaybackFinished != 2 {
		t.Errorf("PlaybackEventType = %d/%d, want 0/2", PlaybackStarted, PlaybackFinished)
	}
}

func TestColorWhite(t *testing.T) {
	if ColorWhite.R != 1 || ColorWhite.G != 1 || ColorWhite.B != 1 || ColorWhite.A != 1 {
		t.Errorf("ColorWhite = %v, want {1,1,1,1}", ColorWhite)
	}
}

func TestColorToRGBAPremultiplied(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	want := color.RGBA{R: 128, G: 64, B: 0, A: 128}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
	if got := (Color{R: 2, G: -1, B: 0, A: 1}).toRGBA(); got.R != 255 || got.G != 0 {
		t.Errorf("toRGBA should clamp, got %v", got)
	}
}

func TestLerpEndpoints(t *testing.T) {
	// 0.1 + (0.3-0.1)*1 is not exactly 0.3 in floating point.
	if got := lerp(0.1, 0.3, 1); got != 0.3 {
		t.Errorf("lerp(0.1, 0.3, 1) = %v, want exactly 0.3", got)
	}
	if got := lerp(0.1, 0.3, 0); got != 0.1 {
		t.Errorf("lerp(0.1, 0.3, 0) = %v, want exactly 0.1", got)
	}
}

// --- Benchmarks (verify zero allocations) ---

func BenchmarkBlendModeMapping(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		_ = BlendAdd.EbitenBlend()
	}
}

func BenchmarkColorLerp(b *testing.B) {
	c := Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	b.ReportAllocs()
	for b.Loop() {
		_ = c.Lerp(ColorWhite, 0.5)
	}
}
