// Package config holds the gameplay tuning for minidash and derives the
// physics constants the core runs on.
//
// Content designers tune speed, jump distance and jump height in real-world
// units; gravity and jump impulse are solved from those so that a held jump
// peaks at exactly JumpHeight and lands exactly JumpDistance later.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the complete tuning file.
type Config struct {
	Gameplay Gameplay `toml:"gameplay" json:"gameplay"`
	World    World    `toml:"world" json:"world"`
	Hitbox   Hitbox   `toml:"hitbox" json:"hitbox"`
	Debug    Debug    `toml:"debug" json:"debug"`
}

// Gameplay holds the designer-facing parameters.
type Gameplay struct {
	Speed        float64 `toml:"speed" json:"speed"`                 // meters per second
	JumpDistance float64 `toml:"jump_distance" json:"jump_distance"` // meters travelled during one jump
	JumpHeight   float64 `toml:"jump_height" json:"jump_height"`     // logical units (player sizes)
}

// World holds the fixed geometry of the play field in logical units.
type World struct {
	Height        float64 `toml:"height" json:"height"`
	GroundHeight  float64 `toml:"ground_height" json:"ground_height"`
	PlayerSize    float64 `toml:"player_size" json:"player_size"`
	PlayerX       float64 `toml:"player_x" json:"player_x"`
	UnitsPerMeter float64 `toml:"units_per_meter" json:"units_per_meter"`
	FPS           int     `toml:"fps" json:"fps"`
}

// Hitbox holds the hurt-body margins in logical units.
type Hitbox struct {
	RectangleMarginX float64 `toml:"rectangle_margin_x" json:"rectangle_margin_x"`
	RectangleMarginY float64 `toml:"rectangle_margin_y" json:"rectangle_margin_y"`
	PlayerMargin     float64 `toml:"player_margin" json:"player_margin"`
	TriangleMargin   float64 `toml:"triangle_margin" json:"triangle_margin"`
}

// Debug holds the settings of the debug mode.
type Debug struct {
	Enabled          bool    `toml:"enabled" json:"enabled"`
	TeleportStep     float64 `toml:"teleport_step" json:"teleport_step"`           // meters
	TeleportStepFast float64 `toml:"teleport_step_fast" json:"teleport_step_fast"` // meters
	FlashDuration    float64 `toml:"flash_duration" json:"flash_duration"`         // seconds
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Gameplay: Gameplay{
			Speed:        10,
			JumpDistance: 5,
			JumpHeight:   3.5,
		},
		World: World{
			Height:        18,
			GroundHeight:  2.5,
			PlayerSize:    1,
			PlayerX:       8,
			UnitsPerMeter: 1.25,
			FPS:           60,
		},
		Hitbox: Hitbox{
			RectangleMarginX: 0.1,
			RectangleMarginY: 0.2,
			PlayerMargin:     0.1,
			TriangleMargin:   0.1,
		},
		Debug: Debug{
			TeleportStep:     10,
			TeleportStepFast: 50,
			FlashDuration:    0.2,
		},
	}
}

// Load reads a TOML tuning file on top of the defaults. Keys missing from
// the file keep their default value. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config TOML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ErrInvalid is returned when a tuning value is out of range.
var ErrInvalid = errors.New("invalid config")

// Validate checks that every value the physics derivation divides by is positive.
func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"gameplay.speed", c.Gameplay.Speed},
		{"gameplay.jump_distance", c.Gameplay.JumpDistance},
		{"gameplay.jump_height", c.Gameplay.JumpHeight},
		{"world.height", c.World.Height},
		{"world.player_size", c.World.PlayerSize},
		{"world.units_per_meter", c.World.UnitsPerMeter},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be > 0 (got %v)", ErrInvalid, p.name, p.value)
		}
	}
	if c.World.FPS <= 0 {
		return fmt.Errorf("%w: world.fps must be > 0 (got %d)", ErrInvalid, c.World.FPS)
	}
	if c.World.GroundHeight < 0 || c.World.GroundHeight+c.World.PlayerSize > c.World.Height {
		return fmt.Errorf("%w: world.ground_height %v leaves no room for the player", ErrInvalid, c.World.GroundHeight)
	}
	return nil
}

// Physics holds the constants derived from a Config, in logical units and seconds.
type Physics struct {
	ScrollSpeed   float64 `json:"scroll_speed"` // units per second
	Speed         float64 `json:"speed"`        // meters per second
	TimeInAir     float64 `json:"time_in_air"`  // seconds
	Gravity       float64 `json:"gravity"`      // units per second squared, positive is down
	JumpForce     float64 `json:"jump_force"`   // units per second, negative is up
	JumpHeight    float64 `json:"jump_height"`
	GroundTop     float64 `json:"ground_top"` // y of the ground surface
	GroundY       float64 `json:"ground_y"`   // resting y of the player on flat ground
	PlayerX       float64 `json:"player_x"`
	PlayerSize    float64 `json:"player_size"`
	PlayerMargin  float64 `json:"player_margin"`
	WorldHeight   float64 `json:"world_height"`
	UnitsPerMeter float64 `json:"units_per_meter"`
	NominalDelta  float64 `json:"nominal_delta"` // seconds
}

// Physics derives the simulation constants by inverting projectile motion:
// with t = jump distance / speed, gravity = 8h/t² and jump force = -4h/t.
func (c Config) Physics() Physics {
	upm := c.World.UnitsPerMeter
	scroll := c.Gameplay.Speed * upm
	t := (c.Gameplay.JumpDistance * upm) / scroll
	h := c.Gameplay.JumpHeight
	groundTop := c.World.Height - c.World.GroundHeight
	return Physics{
		ScrollSpeed:   scroll,
		Speed:         c.Gameplay.Speed,
		TimeInAir:     t,
		Gravity:       8 * h / (t * t),
		JumpForce:     -4 * h / t,
		JumpHeight:    h,
		GroundTop:     groundTop,
		GroundY:       groundTop - c.World.PlayerSize,
		PlayerX:       c.World.PlayerX,
		PlayerSize:    c.World.PlayerSize,
		PlayerMargin:  c.Hitbox.PlayerMargin,
		WorldHeight:   c.World.Height,
		UnitsPerMeter: upm,
		NominalDelta:  1 / float64(c.World.FPS),
	}
}

// PeakHeight returns the apex height of a full jump, JumpForce²/(2·Gravity).
func (p Physics) PeakHeight() float64 {
	return p.JumpForce * p.JumpForce / (2 * p.Gravity)
}

// AirTime returns the duration of a full jump, 2·|JumpForce|/Gravity.
func (p Physics) AirTime() float64 {
	return 2 * math.Abs(p.JumpForce) / p.Gravity
}
