package obstacle

import (
	"github.com/ChicagoDave/minidash/pkg/geo"
	"github.com/ChicagoDave/minidash/pkg/player"
)

// Collider is what the simulation needs from anything the player can hit.
type Collider interface {
	PhysicalBody() geo.Rect
	HurtGeometry() (geo.Polygon, bool)
	Resolve(p *player.Player)
	IsLethal(p *player.Player) bool
}

var _ Collider = (*Obstacle)(nil)

// ResolveAll pushes the player out of every collider in list order. Each
// push moves the player before the next collider is checked.
func ResolveAll(cs []Collider, p *player.Player) {
	for _, c := range cs {
		c.Resolve(p)
	}
}

// FirstLethal returns the index of the first collider that kills the
// player, or -1.
func FirstLethal(cs []Collider, p *player.Player) int {
	for i, c := range cs {
		if c.IsLethal(p) {
			return i
		}
	}
	return -1
}

// Side names the face of a solid body the player was pushed out through.
type Side int

const (
	None Side = iota
	Top
	Bottom
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ResolveCollision pushes the player out of body along the axis of least
// penetration. Ties go to top, then bottom, left and right. A body with no
// area never pushes.
func ResolveCollision(body geo.Rect, p *player.Player) Side {
	pb := p.PhysicalBody()
	if body.IsEmpty() || !geo.BoxesOverlap(body, pb) {
		return None
	}

	depths := [...]struct {
		side  Side
		depth float64
	}{
		{Top, pb.Bottom() - body.Y},
		{Bottom, body.Bottom() - pb.Y},
		{Left, pb.Right() - body.X},
		{Right, body.Right() - pb.X},
	}
	best := depths[0]
	for _, d := range depths[1:] {
		if d.depth < best.depth {
			best = d
		}
	}

	switch best.side {
	case Top:
		p.LandOnPlatform(body.Y)
	case Bottom:
		p.HitHead(body.Bottom())
	case Left:
		p.PushLeftOf(body.X)
	case Right:
		p.PushRightOf(body.Right())
	}
	return best.side
}

// Resolve applies solid push-out for o and then for each carried child in order.
func (o *Obstacle) Resolve(p *player.Player) {
	if o.Kind.Solid() {
		ResolveCollision(o.PhysicalBody(), p)
	}
	for i := range o.Carried {
		o.Carried[i].Obstacle.Resolve(p)
	}
}

// HurtGeometry returns the lethal outline and whether o can kill by itself.
func (o *Obstacle) HurtGeometry() (geo.Polygon, bool) {
	switch o.Kind {
	case Triangle, Rectangle, RectangleLarge:
		return o.HurtPolygon(), true
	}
	return geo.Polygon{}, false
}

// IsLethal reports whether the player touches the hurt geometry of o or of
// any carried child.
func (o *Obstacle) IsLethal(p *player.Player) bool {
	return o.LethalPart(p) != nil
}

// LethalPart returns the first obstacle in o's tree that kills the player,
// or nil.
func (o *Obstacle) LethalPart(p *player.Player) *Obstacle {
	if o.selfLethal(p) {
		return o
	}
	for i := range o.Carried {
		if hit := o.Carried[i].Obstacle.LethalPart(p); hit != nil {
			return hit
		}
	}
	return nil
}

func (o *Obstacle) selfLethal(p *player.Player) bool {
	if o.Bounds().IsEmpty() {
		return false
	}
	switch o.Kind {
	case Triangle:
		return geo.PolygonsOverlap(p.HurtPolygon(), o.HurtPolygon())
	case Rectangle, RectangleLarge:
		hurt := o.HurtBody()
		return !hurt.IsEmpty() && geo.BoxesOverlap(p.HurtBody(), hurt)
	}
	return false
}

// HasPlayerPassed reports, once, that the player has fully crossed a finish
// line. Every later call returns false.
func (o *Obstacle) HasPlayerPassed(p *player.Player) bool {
	if o.Kind != Finish || o.Passed {
		return false
	}
	if p.PhysicalBody().X > o.X+o.Width {
		o.Passed = true
		return true
	}
	return false
}
