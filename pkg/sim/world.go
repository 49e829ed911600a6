// Package sim runs the per-frame simulation: it scrolls the level past the
// player, resolves solid contacts, detects lethal contacts and the finish
// line, and accumulates the distance travelled.
package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/player"
)

// MaxDelta is the largest frame time the integrator accepts, in seconds.
const MaxDelta = 0.1

// ErrNotPaused is returned by Teleport while the simulation is running.
var ErrNotPaused = errors.New("teleport requires a paused simulation")

// Outcome is the per-tick signal sent to the game-state layer.
type Outcome int

const (
	Continue Outcome = iota
	Death
	LevelComplete
)

func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case Death:
		return "death"
	case LevelComplete:
		return "level_complete"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is what one Step reports.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	Distance int     `json:"distance"`
	Blamed   int     `json:"blamed"`
	Flash    bool    `json:"flash"`
	Tick     int     `json:"tick"`
	Cleared  int     `json:"cleared"`
}

// World is one level in play. It is not safe for concurrent use; the
// frame driver owns it.
type World struct {
	Player *player.Player

	name      string
	cfg       config.Config
	phys      config.Physics
	obstacles []obstacle.Obstacle
	colliders []obstacle.Collider
	distance  float64
	tick      int
	cleared   int
	paused    bool
	debug     bool
	flash     float64
	outcome   Outcome
	blamed    int
}

// ClampDelta replaces a frame time that is not finite, not positive, or
// larger than MaxDelta with nominal.
func ClampDelta(dt, nominal float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 || dt > MaxDelta {
		return nominal
	}
	return dt
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) Result {
	dt = ClampDelta(dt, w.phys.NominalDelta)
	if w.paused || w.outcome != Continue {
		return w.result()
	}
	w.tick++
	if w.flash > 0 {
		w.flash = math.Max(0, w.flash-dt)
	}

	if !w.debug {
		w.cull()
	}

	dx := -w.phys.ScrollSpeed * dt
	for i := range w.obstacles {
		w.obstacles[i].Shift(dx)
	}
	w.Player.Update(dt)
	obstacle.ResolveAll(w.colliders, w.Player)

	w.distance += w.phys.Speed * dt
	w.markCleared()

	if i := w.firstLethal(); i >= 0 {
		if w.debug {
			w.flash = w.cfg.Debug.FlashDuration
		} else {
			w.outcome = Death
			w.blamed = i
			return w.result()
		}
	}

	for i := range w.obstacles {
		if w.obstacles[i].HasPlayerPassed(w.Player) {
			w.outcome = LevelComplete
			break
		}
	}
	return w.result()
}

func (w *World) result() Result {
	return Result{
		Outcome:  w.outcome,
		Distance: w.Distance(),
		Blamed:   w.blamed,
		Flash:    w.flash > 0,
		Tick:     w.tick,
		Cleared:  w.cleared,
	}
}

// cull drops obstacles that are entirely off screen, keeping list order.
func (w *World) cull() {
	kept := w.obstacles[:0]
	for _, o := range w.obstacles {
		if !o.IsOffScreen() {
			kept = append(kept, o)
		}
	}
	w.obstacles = kept
	w.syncColliders()
}

// syncColliders points the collider list at the current obstacle slots.
func (w *World) syncColliders() {
	w.colliders = w.colliders[:0]
	for i := range w.obstacles {
		w.colliders = append(w.colliders, &w.obstacles[i])
	}
}

// markCleared flags obstacles whose right edge is behind the player.
func (w *World) markCleared() {
	for i := range w.obstacles {
		o := &w.obstacles[i]
		if o.Kind == obstacle.Finish || o.Passed {
			continue
		}
		if o.X+o.Width < w.Player.X {
			o.Passed = true
			w.cleared++
		}
	}
}

func (w *World) firstLethal() int {
	return obstacle.FirstLethal(w.colliders, w.Player)
}

// Teleport shifts the whole level by meters while paused: obstacles move
// left by meters, carried children keep their offsets and the distance
// follows, never going below zero. It reports whether the player now
// touches something lethal, which starts the collision flash in debug mode.
func (w *World) Teleport(meters float64) (bool, error) {
	if !w.paused {
		return false, ErrNotPaused
	}
	dx := -meters * w.phys.UnitsPerMeter
	for i := range w.obstacles {
		w.obstacles[i].Shift(dx)
	}
	w.distance = math.Max(0, w.distance+meters)

	collided := w.firstLethal() >= 0
	if collided && w.debug {
		w.flash = w.cfg.Debug.FlashDuration
	}
	return collided, nil
}

// Pause stops Step from advancing the world.
func (w *World) Pause() { w.paused = true }

// Resume lets Step advance the world again.
func (w *World) Resume() { w.paused = false }

// Paused reports whether the world is paused.
func (w *World) Paused() bool { return w.paused }

// SetDebug turns debug mode on or off. In debug mode nothing is culled and
// lethal contacts only flash.
func (w *World) SetDebug(on bool) {
	w.debug = on
	if !on {
		w.flash = 0
	}
}

// Debug reports whether debug mode is on.
func (w *World) Debug() bool { return w.debug }

// Flashing reports whether the debug collision flash is showing.
func (w *World) Flashing() bool { return w.flash > 0 }

// Distance returns the whole meters travelled.
func (w *World) Distance() int { return int(math.Floor(w.distance)) }

// DistanceMeters returns the exact distance travelled.
func (w *World) DistanceMeters() float64 { return w.distance }

// Obstacles returns the live obstacles. Callers must not modify them.
func (w *World) Obstacles() []obstacle.Obstacle { return w.obstacles }

// Outcome returns the latched outcome.
func (w *World) Outcome() Outcome { return w.outcome }

// Blamed returns the index of the obstacle that killed the player, or -1.
func (w *World) Blamed() int { return w.blamed }

// Tick returns the number of steps taken.
func (w *World) Tick() int { return w.tick }

// Name returns the level name.
func (w *World) Name() string { return w.name }

// Config returns the tuning the world was built with.
func (w *World) Config() config.Config { return w.cfg }

// Physics returns the derived physics constants.
func (w *World) Physics() config.Physics { return w.phys }
