package scene

import (
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/geo"
	"github.com/ChicagoDave/minidash/pkg/validation"
)

// ValidateFrame performs structural validation on a frame. It checks entity
// integrity, parent links, group index consistency and geometry.
func ValidateFrame(f *Frame) *validation.Report {
	r := validation.NewReport()

	if f == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelFrame,
			Message: "frame is nil",
		})
		return r
	}

	validateEntityIDs(f, r)
	validateParents(f, r)
	validateGroupIndices(f, r)
	validateGeometry(f, r)

	return r
}

func validateEntityIDs(f *Frame, r *validation.Report) {
	seen := make(map[string]int, len(f.Entities))

	for i, e := range f.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelFrame,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelFrame,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateParents(f *Frame, r *validation.Report) {
	byID := make(map[string]Entity, len(f.Entities))
	for _, e := range f.Entities {
		byID[e.ID] = e
	}

	for _, e := range f.Entities {
		if e.Parent != "" {
			parent, ok := byID[e.Parent]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelFrame,
					Message:     fmt.Sprintf("entity %q references non-existent parent %q", e.ID, e.Parent),
					Path:        fmt.Sprintf("entities.%s.parent", e.ID),
					ActualValue: e.Parent,
					Expected:    "existing entity ID",
				})
				continue
			}
			if !contains(parent.Children, e.ID) {
				r.AddError(validation.Result{
					Level:        validation.LevelFrame,
					Message:      fmt.Sprintf("entity %q is not listed among the children of %q", e.ID, e.Parent),
					Path:         fmt.Sprintf("entities.%s.children", e.Parent),
					ActualValue:  e.ID,
					ConflictWith: e.Parent,
				})
			}
		}
		for _, c := range e.Children {
			if _, ok := byID[c]; !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelFrame,
					Message:     fmt.Sprintf("entity %q lists non-existent child %q", e.ID, c),
					Path:        fmt.Sprintf("entities.%s.children", e.ID),
					ActualValue: c,
				})
			}
		}
	}
}

func validateGroupIndices(f *Frame, r *validation.Report) {
	kinds := make(map[string]string, len(f.Entities))
	for _, e := range f.Entities {
		kinds[e.ID] = e.Kind.String()
	}

	for kind, ids := range f.Groups.Kinds {
		for _, id := range ids {
			actual, ok := kinds[id]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelFrame,
					Message:     fmt.Sprintf("group kinds.%s references non-existent entity %q", kind, id),
					Path:        fmt.Sprintf("groups.kinds.%s", kind),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
				continue
			}
			if actual != kind.String() {
				r.AddError(validation.Result{
					Level:       validation.LevelFrame,
					Message:     fmt.Sprintf("entity %q has kind %s but is grouped under %s", id, actual, kind),
					Path:        fmt.Sprintf("groups.kinds.%s", kind),
					ActualValue: actual,
				})
			}
		}
	}
}

func validateGeometry(f *Frame, r *validation.Report) {
	checkRect := func(path, what string, rect geo.Rect) {
		if !rect.IsFinite() {
			r.AddError(validation.Result{
				Level:       validation.LevelFrame,
				Message:     fmt.Sprintf("%s has non-finite coordinates", what),
				Path:        path,
				ActualValue: rect,
			})
			return
		}
		if rect.Width < 0 || rect.Height < 0 {
			r.AddError(validation.Result{
				Level:       validation.LevelFrame,
				Message:     fmt.Sprintf("%s has negative size (%.2f x %.2f)", what, rect.Width, rect.Height),
				Path:        path,
				ActualValue: fmt.Sprintf("%.2f x %.2f", rect.Width, rect.Height),
				Expected:    "width and height >= 0",
			})
		}
	}

	checkRect("player.image", "player", f.Player.Image)
	checkRect("player.hurt", "player hurt body", f.Player.Hurt)

	for _, e := range f.Entities {
		checkRect(fmt.Sprintf("entities.%s.image", e.ID), fmt.Sprintf("entity %q", e.ID), e.Image)
		checkRect(fmt.Sprintf("entities.%s.hurt", e.ID), fmt.Sprintf("entity %q hurt body", e.ID), e.Hurt)
		if !e.ImagePolygon.IsFinite() || !e.HurtPolygon.IsFinite() {
			r.AddError(validation.Result{
				Level:   validation.LevelFrame,
				Message: fmt.Sprintf("entity %q has a non-finite polygon", e.ID),
				Path:    fmt.Sprintf("entities.%s", e.ID),
			})
		}
		if e.Lethal && e.HurtPolygon.Len() < 3 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelFrame,
				Message:     fmt.Sprintf("lethal entity %q has a degenerate hurt polygon", e.ID),
				Path:        fmt.Sprintf("entities.%s.hurt_polygon", e.ID),
				ActualValue: e.HurtPolygon.Len(),
				Expected:    ">= 3 vertices",
			})
		}
	}

	if f.Metadata.WorldHeight > 0 {
		for _, e := range f.Entities {
			if e.Image.Y < 0 || e.Image.Bottom() > f.Metadata.WorldHeight {
				r.AddWarning(validation.Result{
					Level:       validation.LevelFrame,
					Message:     fmt.Sprintf("entity %q extends outside the world height [0, %.1f]", e.ID, f.Metadata.WorldHeight),
					Path:        fmt.Sprintf("entities.%s.image", e.ID),
					ActualValue: e.Image.Y,
				})
				break
			}
		}
	}
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}
