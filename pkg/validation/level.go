package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
)

var knownTypes = []string{"triangle", "rectangle", "rectangleLarge", "plateformeAir", "finish"}

// ValidateLevel performs schema validation on a parsed level. It checks
// that every record can be turned into an obstacle before anything is built.
func ValidateLevel(f *level.File) *Report {
	r := NewReport()

	if f.Name == "" {
		r.AddWarning(Result{
			Level:    LevelSchema,
			Message:  "level has no name",
			Path:     "name",
			Expected: "non-empty string",
		})
	}
	if len(f.Obstacles) == 0 {
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "level must contain at least one obstacle",
			Path:     "obstacles",
			Expected: ">= 1 record",
		})
		return r
	}

	for i, rec := range f.Obstacles {
		validateRecord(i, rec, r)
	}
	validateOrder(f, r)
	validateFinish(f, r)

	return r
}

func validateRecord(i int, rec level.Record, r *Report) {
	path := fmt.Sprintf("obstacles[%d]", i)

	kind, ok := obstacle.ParseKind(rec.Type)
	if !ok {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown obstacle type %q", rec.Type),
			Path:        path + ".type",
			ActualValue: rec.Type,
			Suggestions: knownTypes,
		})
		return
	}

	if !finite(rec.X, rec.Width, rec.Height) || (rec.Y != nil && !finite(*rec.Y)) {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: "coordinates must be finite numbers",
			Path:    path,
		})
		return
	}
	if rec.X < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "x must be non-negative",
			Path:        path + ".x",
			ActualValue: rec.X,
			Expected:    ">= 0",
		})
	}

	if kind == obstacle.Finish {
		if rec.Width <= 0 {
			r.AddInfo(Result{
				Level:       LevelSchema,
				Message:     "finish width defaults to 0.5 m",
				Path:        path + ".width",
				ActualValue: rec.Width,
			})
		}
		if rec.Height != 0 {
			r.AddInfo(Result{
				Level:       LevelSchema,
				Message:     "finish height is ignored; the line spans the world height",
				Path:        path + ".height",
				ActualValue: rec.Height,
			})
		}
	} else {
		requirePositive(path+".width", rec.Width, r)
		requirePositive(path+".height", rec.Height, r)
	}

	switch {
	case kind == obstacle.PlateformeAir && rec.Y == nil:
		r.AddError(Result{
			Level:    LevelSchema,
			Message:  "plateformeAir requires y, the elevation of its underside",
			Path:     path + ".y",
			Expected: ">= 0",
		})
	case kind == obstacle.PlateformeAir && *rec.Y < 0:
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "plateformeAir y must be non-negative",
			Path:        path + ".y",
			ActualValue: *rec.Y,
			Expected:    ">= 0",
		})
	case kind != obstacle.PlateformeAir && rec.Y != nil:
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("y is ignored for %s; it rests on the ground", kind),
			Path:        path + ".y",
			ActualValue: *rec.Y,
		})
	}

	if len(rec.Carried) > 0 && !kind.CanCarry() {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("%s cannot carry obstacles", kind),
			Path:        path + ".carried",
			Suggestions: []string{"Use rectangleLarge or plateformeAir as the parent"},
		})
		return
	}
	for j, c := range rec.Carried {
		validateCarried(fmt.Sprintf("%s.carried[%d]", path, j), kind, rec.Width, c, r)
	}
}

func validateCarried(path string, parent obstacle.Kind, parentWidth float64, c level.CarriedRecord, r *Report) {
	kind, ok := obstacle.ParseKind(c.Type)
	if !ok {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("unknown carried type %q", c.Type),
			Path:        path + ".type",
			ActualValue: c.Type,
		})
		return
	}
	if !obstacle.CanBeCarriedBy(kind, parent) {
		r.AddError(Result{
			Level:        LevelSchema,
			Message:      fmt.Sprintf("%s cannot be carried by %s", kind, parent),
			Path:         path + ".type",
			ActualValue:  c.Type,
			ConflictWith: parent.String(),
		})
		return
	}
	if !finite(c.RelativeX, c.Width, c.Height) {
		r.AddError(Result{
			Level:   LevelSchema,
			Message: "coordinates must be finite numbers",
			Path:    path,
		})
		return
	}
	requirePositive(path+".width", c.Width, r)
	requirePositive(path+".height", c.Height, r)
	if c.RelativeX < 0 || c.RelativeX+c.Width > parentWidth {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "carried obstacle overhangs its parent",
			Path:        path + ".relative_x",
			ActualValue: c.RelativeX,
			Expected:    fmt.Sprintf("0 to %g", parentWidth-c.Width),
		})
	}
}

func validateOrder(f *level.File, r *Report) {
	prev := math.Inf(-1)
	for i, rec := range f.Obstacles {
		if rec.Type == "finish" {
			continue
		}
		if rec.X < prev {
			r.AddInfo(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("record at x=%g comes after one at x=%g", rec.X, prev),
				Path:        fmt.Sprintf("obstacles[%d].x", i),
				ActualValue: rec.X,
			})
		}
		prev = math.Max(prev, rec.X)
	}
}

func validateFinish(f *level.File, r *Report) {
	var finishes []int
	for i, rec := range f.Obstacles {
		if rec.Type == "finish" {
			finishes = append(finishes, i)
		}
	}
	switch {
	case len(finishes) == 0:
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "level has no finish line and can never be completed",
			Path:        "obstacles",
			Suggestions: []string{"Add a finish record after the last obstacle"},
		})
		return
	case len(finishes) > 1:
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     fmt.Sprintf("level has %d finish lines; the first one crossed ends it", len(finishes)),
			Path:        fmt.Sprintf("obstacles[%d]", finishes[1]),
			ActualValue: len(finishes),
		})
	}

	finishX := f.Obstacles[finishes[0]].X
	for i, rec := range f.Obstacles {
		if rec.Type != "finish" && rec.X > finishX {
			r.AddWarning(Result{
				Level:        LevelSchema,
				Message:      fmt.Sprintf("obstacle at x=%g lies beyond the finish line", rec.X),
				Path:         fmt.Sprintf("obstacles[%d].x", i),
				ActualValue:  rec.X,
				ConflictWith: fmt.Sprintf("obstacles[%d]", finishes[0]),
			})
		}
	}
}

func requirePositive(path string, v float64, r *Report) {
	if v <= 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "size must be greater than 0",
			Path:        path,
			ActualValue: v,
			Expected:    "> 0",
		})
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
