package sim

import (
	"sort"

	"github.com/ChicagoDave/minidash/pkg/player"
)

// Press is one jump input: the button goes down once the distance reaches
// At meters and is released Hold seconds later.
type Press struct {
	At   float64 `json:"at"`
	Hold float64 `json:"hold"`
}

// Script is the input a headless run replays.
type Script struct {
	HoldAlways bool    `json:"hold_always"`
	Presses    []Press `json:"presses"`
}

// RunOptions controls a headless run.
type RunOptions struct {
	Delta      float64 // fixed step in seconds; the nominal frame time when zero
	MaxSeconds float64 // simulated time limit; DefaultMaxSeconds when zero
}

// DefaultMaxSeconds bounds a headless run with no explicit limit.
const DefaultMaxSeconds = 120

// RunResult summarizes a headless run.
type RunResult struct {
	Level    string  `json:"level"`
	Outcome  Outcome `json:"outcome"`
	Distance int     `json:"distance"`
	Blamed   int     `json:"blamed"`
	Ticks    int     `json:"ticks"`
	Seconds  float64 `json:"seconds"`
	Jumps    int     `json:"jumps"`
	Flashes  int     `json:"flashes"`
	Cleared  int     `json:"cleared"`
	TimedOut bool    `json:"timed_out"`
}

// Run steps w at a fixed delta, replaying script, until the world reaches a
// terminal outcome or the time limit runs out.
func Run(w *World, script Script, opts RunOptions) RunResult {
	dt := ClampDelta(opts.Delta, w.phys.NominalDelta)
	limit := opts.MaxSeconds
	if limit <= 0 {
		limit = DefaultMaxSeconds
	}

	presses := append([]Press(nil), script.Presses...)
	sort.Slice(presses, func(i, j int) bool { return presses[i].At < presses[j].At })

	res := RunResult{Level: w.name}
	if script.HoldAlways && w.Player.StartJump() {
		res.Jumps++
	}

	var (
		next      int
		releaseAt = -1.0
		elapsed   float64
		flashing  bool
		last      Result
	)
	for elapsed < limit {
		before := w.Player.State()
		if next < len(presses) && w.DistanceMeters() >= presses[next].At {
			w.Player.StartJump()
			releaseAt = elapsed + presses[next].Hold
			next++
		}

		last = w.Step(dt)
		elapsed += dt

		if before != player.JumpRising && w.Player.State() == player.JumpRising {
			res.Jumps++
		}
		if last.Flash && !flashing {
			res.Flashes++
		}
		flashing = last.Flash

		if releaseAt >= 0 && elapsed >= releaseAt && !script.HoldAlways {
			w.Player.StopJump()
			releaseAt = -1
		}
		if last.Outcome != Continue {
			break
		}
	}

	res.Outcome = last.Outcome
	res.Distance = last.Distance
	res.Blamed = last.Blamed
	res.Ticks = last.Tick
	res.Seconds = elapsed
	res.Cleared = last.Cleared
	res.TimedOut = last.Outcome == Continue
	return res
}
