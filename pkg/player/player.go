// Package player implements the controlled square: gravity integration,
// ground clamp, jump impulse, the landing contract shared by ground and
// platforms, and the image, physical and hurt views of its hitbox.
package player

import (
	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/geo"
)

// Player is the controlled entity. All coordinates are logical units.
type Player struct {
	X, Y          float64
	Width, Height float64
	VelocityY     float64
	GroundY       float64
	HurtMargin    float64

	gravity   float64
	jumpForce float64
	holding   bool
	fsm       *Machine
}

// New returns a disabled player resting on the ground at the configured x.
func New(phys config.Physics) *Player {
	return &Player{
		X:          phys.PlayerX,
		Y:          phys.GroundY,
		Width:      phys.PlayerSize,
		Height:     phys.PlayerSize,
		GroundY:    phys.GroundY,
		HurtMargin: phys.PlayerMargin,
		gravity:    phys.Gravity,
		jumpForce:  phys.JumpForce,
		fsm:        NewMachine(Disabled),
	}
}

// State returns the current state.
func (p *Player) State() State { return p.fsm.Current() }

// PreviousState returns the state before the last change.
func (p *Player) PreviousState() State { return p.fsm.Previous() }

// Holding reports whether the jump button is held.
func (p *Player) Holding() bool { return p.holding }

// Enable puts a disabled player on the ground, ready to play.
func (p *Player) Enable() {
	p.Y = p.GroundY
	p.VelocityY = 0
	p.setState(Grounded)
}

// Force moves the player to Dying or Disabled regardless of its state.
func (p *Player) Force(s State) error {
	return p.fsm.Force(s)
}

func (p *Player) setState(s State) {
	if err := p.fsm.Transition(s); err != nil {
		panic(err)
	}
}

func (p *Player) inactive() bool {
	return p.fsm.Is(Dying) || p.fsm.Is(Disabled)
}

// Update integrates gravity over dt seconds and clamps to the ground.
func (p *Player) Update(dt float64) {
	p.VelocityY += p.gravity * dt
	p.Y += p.VelocityY * dt

	if p.fsm.Is(JumpRising) && p.VelocityY >= 0 {
		p.setState(Falling)
	}

	if p.Y >= p.GroundY {
		p.LandOnGround()
		return
	}
	if p.fsm.Is(Grounded) {
		p.setState(Falling)
	}
}

// LandOnGround rests the player on flat ground.
func (p *Player) LandOnGround() {
	p.land(p.GroundY)
}

// LandOnPlatform rests the player on a surface whose top edge is at surfaceY.
func (p *Player) LandOnPlatform(surfaceY float64) {
	p.land(surfaceY - p.Height)
}

// land is the common landing contract. A player that was airborne and is
// still holding jump bounces straight back up.
func (p *Player) land(restY float64) {
	p.Y = restY
	p.VelocityY = 0
	if p.inactive() {
		return
	}
	wasGrounded := p.fsm.Is(Grounded)
	p.setState(Grounded)
	if !wasGrounded && p.holding {
		p.Jump()
	}
}

// HitHead stops an upward move under a surface whose bottom edge is at bottomY.
func (p *Player) HitHead(bottomY float64) {
	p.Y = bottomY
	p.VelocityY = 0
}

// PushLeftOf places the player's right edge at x.
func (p *Player) PushLeftOf(x float64) {
	p.X = x - p.Width
}

// PushRightOf places the player's left edge at x.
func (p *Player) PushRightOf(x float64) {
	p.X = x
}

// Jump applies the jump impulse. It only fires while grounded and reports
// whether it did.
func (p *Player) Jump() bool {
	if !p.fsm.Is(Grounded) {
		return false
	}
	p.VelocityY = p.jumpForce
	p.setState(JumpRising)
	return true
}

// StartJump marks the jump button as held and tries to jump right away.
func (p *Player) StartJump() bool {
	p.holding = true
	return p.Jump()
}

// StopJump releases the jump button.
func (p *Player) StopJump() {
	p.holding = false
}

// ImageBody is the box drawn on screen.
func (p *Player) ImageBody() geo.Rect {
	return geo.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// PhysicalBody is the box used for solid collisions.
func (p *Player) PhysicalBody() geo.Rect {
	return p.ImageBody()
}

// HurtBody is the physical body inflated by HurtMargin on every side.
func (p *Player) HurtBody() geo.Rect {
	return p.PhysicalBody().Inflate(p.HurtMargin)
}

// HurtPolygon is HurtBody as a polygon for narrow-phase tests.
func (p *Player) HurtPolygon() geo.Polygon {
	return geo.RectToPolygon(p.HurtBody())
}
