package orchestra

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree and the players that
// animate it.
type Scene struct {
	root    *Node
	players []*Player

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{root: NewContainer("root")}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// AddPlayer attaches a player; Update advances it every frame.
func (s *Scene) AddPlayer(p *Player) {
	s.players = append(s.players, p)
}

// RemovePlayer detaches a player from the scene.
func (s *Scene) RemovePlayer(p *Player) {
	for i, o := range s.players {
		if o == p {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return
		}
	}
}

// Players returns the attached players. The returned slice MUST NOT be mutated.
func (s *Scene) Players() []*Player {
	return s.players
}

// Update advances every attached player by one tick and refreshes world
// transforms.
func (s *Scene) Update() error {
	return s.update(float32(1.0 / float64(ebiten.TPS())))
}

func (s *Scene) update(dt float32) error {
	for _, p := range s.players {
		if err := p.Update(dt); err != nil {
			return err
		}
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	return nil
}

// Draw renders the node tree onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.drawNode(screen, s.root)
}

// drawNode draws n and its subtree depth-first. Invisible nodes hide their
// whole subtree.
func (s *Scene) drawNode(dst *ebiten.Image, n *Node) {
	if !n.Visible {
		return
	}
	if n.Type == NodeTypeSprite && n.worldAlpha > 0 {
		img := n.customImage
		if img == nil {
			img = WhitePixel
		}
		var op ebiten.DrawImageOptions
		m := n.worldTransform
		op.GeoM.SetElement(0, 0, m[0])
		op.GeoM.SetElement(0, 1, m[2])
		op.GeoM.SetElement(0, 2, m[4])
		op.GeoM.SetElement(1, 0, m[1])
		op.GeoM.SetElement(1, 1, m[3])
		op.GeoM.SetElement(1, 2, m[5])
		a := n.Color.A * n.worldAlpha
		op.ColorScale.Scale(float32(n.Color.R*a), float32(n.Color.G*a), float32(n.Color.B*a), float32(a))
		op.Blend = n.BlendMode.EbitenBlend()
		dst.DrawImage(img, &op)
	}
	for _, child := range n.children {
		s.drawNode(dst, child)
	}
}
