package orchestra

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Value is a stored field value. Its concrete type is decided by the Field
// that owns it (float64 for alpha, Vec2 for position, and so on).
type Value = any

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R float64 `yaml:"r" json:"r"`
	G float64 `yaml:"g" json:"g"`
	B float64 `yaml:"b" json:"b"`
	A float64 `yaml:"a" json:"a"`
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Lerp blends c toward o by t.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: lerp(c.R, o.R, t),
		G: lerp(c.G, o.G, t),
		B: lerp(c.B, o.B, t),
		A: lerp(c.A, o.A, t),
	}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Vec2 is a 2D vector used for positions and scales.
type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Lerp blends v toward o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{X: lerp(v.X, o.X, t), Y: lerp(v.Y, o.Y, t)}
}

// lerp returns exactly b at t >= 1.
func lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}

// WhitePixel is a 1x1 white image used to draw solid color sprites.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendErase                   // destination-out (punch transparent holes)
	BlendBelow                   // destination-over (draw behind existing content)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // solid color quad, or a custom image
)
