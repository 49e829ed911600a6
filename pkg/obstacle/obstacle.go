// Package obstacle implements the level hazards and platforms as one tagged
// variant. Each obstacle carries three geometric views: the image body drawn
// on screen, the physical body used for solid push-out, and the hurt body
// used only for lethal detection. Composite kinds own their carried children
// inline and move them rigidly.
package obstacle

import (
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/geo"
)

// Kind tags an obstacle variant.
type Kind int

const (
	Triangle Kind = iota
	Rectangle
	RectangleLarge
	PlateformeAir
	Finish
)

var kindNames = [...]string{
	Triangle:       "triangle",
	Rectangle:      "rectangle",
	RectangleLarge: "rectangleLarge",
	PlateformeAir:  "plateformeAir",
	Finish:         "finish",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText encodes the kind by its level-file name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind maps a level-file type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}

// Solid reports whether the kind blocks the player.
func (k Kind) Solid() bool {
	return k == Rectangle || k == RectangleLarge || k == PlateformeAir
}

// CanCarry reports whether a kind may own carried children.
func (k Kind) CanCarry() bool {
	return k == RectangleLarge || k == PlateformeAir
}

// CanBeCarriedBy reports whether child may sit on top of parent.
func CanBeCarriedBy(child, parent Kind) bool {
	switch parent {
	case RectangleLarge:
		return child == Triangle || child == Rectangle || child == RectangleLarge
	case PlateformeAir:
		return child == Triangle || child == Rectangle
	}
	return false
}

// Entity is a moving box in logical units.
type Entity struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the entity's box.
func (e Entity) Bounds() geo.Rect {
	return geo.Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

// IsOffScreen reports whether the entity's right edge has left the view.
func (e Entity) IsOffScreen() bool {
	return e.X+e.Width < 0
}

// Obstacle is one hazard or platform.
type Obstacle struct {
	Entity
	Kind        Kind      `json:"kind"`
	HurtMarginX float64   `json:"hurt_margin_x"`
	HurtMarginY float64   `json:"hurt_margin_y"`
	Passed      bool      `json:"passed"`
	Carried     []Carried `json:"carried,omitempty"`
}

// Carried is a child obstacle placed Offset units from its parent's left edge.
type Carried struct {
	Offset   float64  `json:"offset"`
	Obstacle Obstacle `json:"obstacle"`
}

// Shape describes an obstacle to build, in logical units.
// Y is only used by PlateformeAir; ground kinds rest on the ground.
type Shape struct {
	Kind    Kind
	X, Y    float64
	Width   float64
	Height  float64
	Carried []ChildShape
}

// ChildShape describes a carried child relative to its parent.
type ChildShape struct {
	Kind          Kind
	Offset        float64
	Width, Height float64
}

// Factory builds obstacles with the configured margins and ground line.
type Factory struct {
	GroundTop      float64
	WorldHeight    float64
	RectMarginX    float64
	RectMarginY    float64
	TriangleMargin float64
}

// NewFactory returns a factory for cfg.
func NewFactory(cfg config.Config) Factory {
	return Factory{
		GroundTop:      cfg.World.Height - cfg.World.GroundHeight,
		WorldHeight:    cfg.World.Height,
		RectMarginX:    cfg.Hitbox.RectangleMarginX,
		RectMarginY:    cfg.Hitbox.RectangleMarginY,
		TriangleMargin: cfg.Hitbox.TriangleMargin,
	}
}

// Build constructs the obstacle described by s. Children whose kind cannot
// sit on s.Kind are rejected.
func (f Factory) Build(s Shape) (Obstacle, error) {
	var o Obstacle
	switch s.Kind {
	case Triangle:
		o = f.Triangle(s.X, s.Width, s.Height)
	case Rectangle:
		o = f.Rectangle(s.X, s.Width, s.Height)
	case RectangleLarge:
		o = f.RectangleLarge(s.X, s.Width, s.Height)
	case PlateformeAir:
		o = f.PlateformeAir(s.X, s.Y, s.Width, s.Height)
	case Finish:
		o = f.Finish(s.X, s.Width)
	default:
		return Obstacle{}, fmt.Errorf("unknown obstacle kind %s", s.Kind)
	}
	for i, c := range s.Carried {
		if !CanBeCarriedBy(c.Kind, s.Kind) {
			return Obstacle{}, fmt.Errorf("carried[%d]: %s cannot be carried by %s", i, c.Kind, s.Kind)
		}
		child, err := f.Build(Shape{Kind: c.Kind, Width: c.Width, Height: c.Height})
		if err != nil {
			return Obstacle{}, fmt.Errorf("carried[%d]: %w", i, err)
		}
		o.Carry(c.Offset, child)
	}
	return o, nil
}

func (f Factory) onGround(x, w, h float64) Entity {
	return Entity{X: x, Y: f.GroundTop - h, Width: w, Height: h}
}

// Triangle returns a spike resting on the ground.
func (f Factory) Triangle(x, w, h float64) Obstacle {
	return Obstacle{Entity: f.onGround(x, w, h), Kind: Triangle, HurtMarginX: f.TriangleMargin, HurtMarginY: f.TriangleMargin}
}

// Rectangle returns a solid block resting on the ground.
func (f Factory) Rectangle(x, w, h float64) Obstacle {
	return Obstacle{Entity: f.onGround(x, w, h), Kind: Rectangle, HurtMarginX: f.RectMarginX, HurtMarginY: f.RectMarginY}
}

// RectangleLarge returns a wide block that may carry children.
func (f Factory) RectangleLarge(x, w, h float64) Obstacle {
	o := f.Rectangle(x, w, h)
	o.Kind = RectangleLarge
	return o
}

// PlateformeAir returns a floating platform whose top edge is at y.
func (f Factory) PlateformeAir(x, y, w, h float64) Obstacle {
	return Obstacle{Entity: Entity{X: x, Y: y, Width: w, Height: h}, Kind: PlateformeAir}
}

// Finish returns the finish line spanning the full world height.
func (f Factory) Finish(x, w float64) Obstacle {
	return Obstacle{Entity: Entity{X: x, Y: 0, Width: w, Height: f.WorldHeight}, Kind: Finish}
}

// Carry places child on top of o at offset from o's left edge.
func (o *Obstacle) Carry(offset float64, child Obstacle) {
	child.Y = o.Y - child.Height
	child.MoveTo(o.X + offset)
	o.Carried = append(o.Carried, Carried{Offset: offset, Obstacle: child})
}

// MoveTo sets the left edge to x; carried children follow at their offsets.
func (o *Obstacle) MoveTo(x float64) {
	o.X = x
	for i := range o.Carried {
		c := &o.Carried[i]
		c.Obstacle.MoveTo(x + c.Offset)
	}
}

// Shift moves the obstacle horizontally by dx.
func (o *Obstacle) Shift(dx float64) {
	o.MoveTo(o.X + dx)
}

// IsOffScreen reports whether the obstacle and every carried child have left the view.
func (o *Obstacle) IsOffScreen() bool {
	if !o.Entity.IsOffScreen() {
		return false
	}
	for i := range o.Carried {
		if !o.Carried[i].Obstacle.IsOffScreen() {
			return false
		}
	}
	return true
}

// Walk visits o and its carried children depth first. parent is nil for o.
func (o *Obstacle) Walk(fn func(ob, parent *Obstacle)) {
	o.walk(nil, fn)
}

func (o *Obstacle) walk(parent *Obstacle, fn func(ob, parent *Obstacle)) {
	fn(o, parent)
	for i := range o.Carried {
		o.Carried[i].Obstacle.walk(o, fn)
	}
}

// ImageBody is the box drawn on screen.
func (o *Obstacle) ImageBody() geo.Rect {
	return o.Bounds()
}

// ImagePolygon is the outline drawn on screen.
func (o *Obstacle) ImagePolygon() geo.Polygon {
	if o.Kind == Triangle {
		return geo.TrianglePolygon(o.X, o.Y, o.Width, o.Height)
	}
	return geo.RectToPolygon(o.ImageBody())
}

// PhysicalBody is the box used for solid push-out. For a triangle it is
// the bounding box of its outline.
func (o *Obstacle) PhysicalBody() geo.Rect {
	return o.ImageBody()
}

// PhysicalPolygon is the outline of the physical body.
func (o *Obstacle) PhysicalPolygon() geo.Polygon {
	return o.ImagePolygon()
}

// HurtBody is the lethal box. Rectangles only kill on their left half so
// that a late landing on the top does not count as a hit.
func (o *Obstacle) HurtBody() geo.Rect {
	switch o.Kind {
	case Rectangle, RectangleLarge:
		return geo.Rect{
			X:      o.X - o.HurtMarginX,
			Y:      o.Y + o.HurtMarginY,
			Width:  o.Width/2 + o.HurtMarginX,
			Height: o.Height - 2*o.HurtMarginY,
		}
	case Triangle:
		return o.HurtPolygon().BoundingBox()
	}
	return geo.Rect{}
}

// HurtPolygon is the lethal outline. A triangle's outline is scaled about
// (x + w/2, y + 2h/3) so that its margin is roughly even on all three sides.
func (o *Obstacle) HurtPolygon() geo.Polygon {
	switch o.Kind {
	case Triangle:
		s := 1.0
		if o.Width != 0 {
			s = (o.Width + 2*o.HurtMarginX) / o.Width
		}
		anchor := geo.Pt(o.X+o.Width/2, o.Y+o.Height*2/3)
		return o.PhysicalPolygon().ScaleAbout(anchor, s)
	case Rectangle, RectangleLarge:
		return geo.RectToPolygon(o.HurtBody())
	}
	return geo.Polygon{}
}
