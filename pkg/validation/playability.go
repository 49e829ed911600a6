package validation

import (
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
)

// ValidatePlayability checks a schema-valid level against the jump the
// configured physics can produce.
func ValidatePlayability(f *level.File, cfg config.Config) *Report {
	r := NewReport()
	phys := cfg.Physics()
	upm := phys.UnitsPerMeter
	jumpLength := cfg.Gameplay.JumpDistance * upm

	for i, rec := range f.Obstacles {
		path := fmt.Sprintf("obstacles[%d]", i)
		h := rec.Height * upm
		w := rec.Width * upm

		switch rec.Type {
		case "triangle", "rectangle":
			if h >= phys.JumpHeight {
				r.AddWarning(Result{
					Level:       LevelPlayability,
					Message:     fmt.Sprintf("%s is taller than the jump apex", rec.Type),
					Path:        path + ".height",
					ActualValue: rec.Height,
					Expected:    fmt.Sprintf("< %.2f m", phys.JumpHeight/upm),
				})
			}
			if rec.Type == "triangle" && w >= jumpLength {
				r.AddWarning(Result{
					Level:       LevelPlayability,
					Message:     "triangle is wider than a full jump",
					Path:        path + ".width",
					ActualValue: rec.Width,
					Expected:    fmt.Sprintf("< %g m", cfg.Gameplay.JumpDistance),
				})
			}
		case "rectangleLarge":
			if h >= phys.JumpHeight {
				r.AddWarning(Result{
					Level:       LevelPlayability,
					Message:     "rectangleLarge top is above the jump apex",
					Path:        path + ".height",
					ActualValue: rec.Height,
				})
			}
			for j, c := range rec.Carried {
				if c.Height*upm >= phys.JumpHeight {
					r.AddWarning(Result{
						Level:       LevelPlayability,
						Message:     "carried obstacle is taller than the jump apex",
						Path:        fmt.Sprintf("%s.carried[%d].height", path, j),
						ActualValue: c.Height,
					})
				}
			}
		case "plateformeAir":
			if rec.Y == nil {
				continue
			}
			under := *rec.Y * upm
			if under > 0 && under < phys.PlayerSize {
				r.AddInfo(Result{
					Level:       LevelPlayability,
					Message:     "player cannot pass underneath this platform",
					Path:        path + ".y",
					ActualValue: *rec.Y,
				})
			}
			if under+h > phys.JumpHeight {
				r.AddInfo(Result{
					Level:       LevelPlayability,
					Message:     "platform top is above the jump apex; reachable only from another platform",
					Path:        path + ".y",
					ActualValue: *rec.Y,
				})
			}
		}
	}

	return r
}
