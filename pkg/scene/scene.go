// Package scene snapshots a world into a read-only frame: every hitbox of
// the player and the obstacles, ready for a renderer or a debug overlay.
package scene

import (
	"github.com/ChicagoDave/minidash/pkg/geo"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/player"
	"github.com/ChicagoDave/minidash/pkg/sim"
)

// Frame is one snapshot of a world.
type Frame struct {
	Metadata Metadata      `json:"metadata"`
	Player   PlayerView    `json:"player"`
	Entities []Entity      `json:"entities"`
	Contacts []geo.Polygon `json:"contacts,omitempty"`
	Groups   Groups        `json:"groups"`
}

// Metadata holds frame-level information.
type Metadata struct {
	Level       string      `json:"level"`
	State       string      `json:"state"`
	Tick        int         `json:"tick"`
	Distance    int         `json:"distance"`
	Outcome     sim.Outcome `json:"outcome"`
	Flash       bool        `json:"flash"`
	Debug       bool        `json:"debug"`
	Paused      bool        `json:"paused"`
	WorldHeight float64     `json:"world_height"`
	GroundTop   float64     `json:"ground_top"`
}

// PlayerView is the player's state and hitboxes.
type PlayerView struct {
	State     player.State `json:"state"`
	Holding   bool         `json:"holding"`
	VelocityY float64      `json:"velocity_y"`
	Image     geo.Rect     `json:"image"`
	Physical  geo.Rect     `json:"physical"`
	Hurt      geo.Rect     `json:"hurt"`
}

// Entity is one obstacle or carried child.
type Entity struct {
	ID           string        `json:"id"`
	Kind         obstacle.Kind `json:"kind"`
	Parent       string        `json:"parent,omitempty"`
	Image        geo.Rect      `json:"image"`
	Physical     geo.Rect      `json:"physical"`
	Hurt         geo.Rect      `json:"hurt"`
	ImagePolygon geo.Polygon   `json:"image_polygon"`
	HurtPolygon  geo.Polygon   `json:"hurt_polygon"`
	Solid        bool          `json:"solid"`
	Lethal       bool          `json:"lethal"`
	Touching     bool          `json:"touching"`
	Children     []string      `json:"children,omitempty"`
}

// Groups indexes entity IDs by kind.
type Groups struct {
	Kinds map[obstacle.Kind][]string `json:"kinds"`
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{
		Entities: []Entity{},
		Groups: Groups{
			Kinds: make(map[obstacle.Kind][]string),
		},
	}
}
