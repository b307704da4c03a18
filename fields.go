package orchestra

// Default field ids for *Node targets.
const (
	FieldPosition = "position"
	FieldScale    = "scale"
	FieldRotation = "rotation"
	FieldAlpha    = "alpha"
	FieldColor    = "color"
	FieldVisible  = "visible"
)

// DefaultFields returns the capability table for animating *Node targets:
// position and scale (Vec2), rotation in radians and alpha (float64), color
// (Color) and visible (bool). Applying a field marks the node dirty.
//
// The returned table is a fresh map; callers may add their own fields to it.
func DefaultFields() Fields {
	return Fields{
		FieldPosition: NewField(Vec2.Lerp, func(n *Node, a, b Vec2, t float64) {
			p := a.Lerp(b, t)
			n.SetPosition(p.X, p.Y)
		}),
		FieldScale: NewField(Vec2.Lerp, func(n *Node, a, b Vec2, t float64) {
			s := a.Lerp(b, t)
			n.SetScale(s.X, s.Y)
		}),
		FieldRotation: NewField(lerp, func(n *Node, a, b, t float64) {
			n.SetRotation(lerp(a, b, t))
		}),
		FieldAlpha: NewField(lerp, func(n *Node, a, b, t float64) {
			n.SetAlpha(lerp(a, b, t))
		}),
		FieldColor: NewField(Color.Lerp, func(n *Node, a, b Color, t float64) {
			n.Color = a.Lerp(b, t)
			n.MarkDirty()
		}),
		FieldVisible: NewField(discrete[bool], func(n *Node, a, b bool, t float64) {
			n.Visible = discrete(a, b, t)
		}),
	}
}

// discrete holds a until the clip completes, then switches to b.
func discrete[V any](a, b V, t float64) V {
	if t >= 1 {
		return b
	}
	return a
}
