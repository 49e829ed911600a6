package sim

import (
	"testing"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
)

func TestRunScriptClearsRectangle(t *testing.T) {
	w := build(t, levelOf(
		level.Record{Type: "rectangle", X: 20, Width: 1, Height: 1},
		finishAt(40),
	), config.Default())

	res := Run(w, Script{Presses: []Press{{At: 11.2, Hold: 0.05}}}, RunOptions{})
	if res.Outcome != LevelComplete {
		t.Fatalf("outcome = %s, want level_complete (%+v)", res.Outcome, res)
	}
	if res.Jumps != 1 {
		t.Errorf("jumps = %d, want 1", res.Jumps)
	}
	if res.TimedOut {
		t.Error("run should not time out")
	}
	if res.Level != "test" {
		t.Errorf("level = %q, want test", res.Level)
	}
}

func TestRunWithoutInputDies(t *testing.T) {
	w := build(t, levelOf(
		level.Record{Type: "triangle", X: 15, Width: 1, Height: 1},
		finishAt(40),
	), config.Default())
	res := Run(w, Script{}, RunOptions{})
	if res.Outcome != Death || res.Blamed != 0 || res.Jumps != 0 {
		t.Errorf("result = %+v, want death on obstacle 0 without jumps", res)
	}
}

func TestRunHoldAlwaysBunnyHops(t *testing.T) {
	w := build(t, levelOf(finishAt(30)), config.Default())
	res := Run(w, Script{HoldAlways: true}, RunOptions{})
	if res.Outcome != LevelComplete {
		t.Fatalf("outcome = %s, want level_complete", res.Outcome)
	}
	if res.Jumps < 3 {
		t.Errorf("jumps = %d, want a jump on every landing", res.Jumps)
	}
}

func TestRunTimesOut(t *testing.T) {
	w := build(t, levelOf(finishAt(1000)), config.Default())
	res := Run(w, Script{}, RunOptions{MaxSeconds: 1})
	if !res.TimedOut || res.Outcome != Continue {
		t.Errorf("result = %+v, want a timed-out run", res)
	}
	if res.Ticks != 60 && res.Ticks != 61 {
		t.Errorf("ticks = %d, want about 60", res.Ticks)
	}
}

func TestRunCountsDebugFlashes(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.Enabled = true
	w := build(t, levelOf(
		level.Record{Type: "triangle", X: 10, Width: 1, Height: 1},
		level.Record{Type: "triangle", X: 20, Width: 1, Height: 1},
		finishAt(30),
	), cfg)
	res := Run(w, Script{}, RunOptions{})
	if res.Outcome != LevelComplete {
		t.Fatalf("outcome = %s, want level_complete in debug mode", res.Outcome)
	}
	if res.Flashes < 2 {
		t.Errorf("flashes = %d, want at least 2", res.Flashes)
	}
}
