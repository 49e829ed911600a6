package scene

import (
	"encoding/json"
	"testing"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/sim"
)

func testWorld(t *testing.T, cfg config.Config) *sim.World {
	t.Helper()
	y := 2.0
	lvl := &level.File{Name: "scene", Obstacles: []level.Record{
		{Type: "triangle", X: 10, Width: 0.8, Height: 0.8},
		{Type: "rectangleLarge", X: 20, Width: 10, Height: 1, Carried: []level.CarriedRecord{
			{Type: "triangle", RelativeX: 2, Width: 0.8, Height: 0.8},
			{Type: "rectangle", RelativeX: 6, Width: 1, Height: 1},
		}},
		{Type: "plateformeAir", X: 35, Y: &y, Width: 3, Height: 0.5},
		{Type: "finish", X: 50, Width: 0.5},
	}}
	w, err := sim.Build(lvl, cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return w
}

func TestCaptureEntities(t *testing.T) {
	w := testWorld(t, config.Default())
	f := Capture(w, "playing")

	if len(f.Entities) != 6 {
		t.Fatalf("entities = %d, want 6", len(f.Entities))
	}
	if f.Metadata.Level != "scene" || f.Metadata.State != "playing" {
		t.Errorf("metadata = %+v", f.Metadata)
	}

	large := f.Entities[1]
	if large.ID != "ob-1" || len(large.Children) != 2 {
		t.Fatalf("large = %+v, want ob-1 with 2 children", large)
	}
	child := f.Entities[2]
	if child.ID != "ob-1.0" || child.Parent != "ob-1" || child.Kind != obstacle.Triangle {
		t.Errorf("child = %+v", child)
	}

	platform := f.Entities[4]
	if !platform.Solid || platform.Lethal {
		t.Errorf("platform solid=%v lethal=%v, want solid and harmless", platform.Solid, platform.Lethal)
	}
	if len(f.Groups.Kinds[obstacle.Triangle]) != 2 {
		t.Errorf("triangle group = %v, want 2 ids", f.Groups.Kinds[obstacle.Triangle])
	}
	if f.Entities[0].ImagePolygon.Len() != 3 {
		t.Errorf("triangle outline has %d vertices, want 3", f.Entities[0].ImagePolygon.Len())
	}
	if len(f.Contacts) != 0 {
		t.Errorf("contacts = %d outside debug mode, want 0", len(f.Contacts))
	}
}

func TestCaptureDebugContacts(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.Enabled = true
	w := testWorld(t, cfg)

	touched := false
	for i := 0; i < 60 && !touched; i++ {
		w.Step(1.0 / 60)
		f := Capture(w, "playing")
		for _, e := range f.Entities {
			if e.Touching {
				touched = true
				if len(f.Contacts) == 0 {
					t.Fatal("expected a contact region while touching in debug mode")
				}
				if f.Contacts[0].Area() <= 0 {
					t.Errorf("contact area = %v, want > 0", f.Contacts[0].Area())
				}
			}
		}
	}
	if !touched {
		t.Error("expected the first triangle to touch the player")
	}
}

func TestCaptureJSON(t *testing.T) {
	f := Capture(testWorld(t, config.Default()), "paused")
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	groups := decoded["groups"].(map[string]any)["kinds"].(map[string]any)
	if _, ok := groups["rectangleLarge"]; !ok {
		t.Errorf("kinds keys = %v, want names", groups)
	}
	player := decoded["player"].(map[string]any)
	if player["state"] != "grounded" {
		t.Errorf("player state = %v, want grounded", player["state"])
	}
}

func TestCapturedFrameValidates(t *testing.T) {
	f := Capture(testWorld(t, config.Default()), "playing")
	r := ValidateFrame(f)
	if !r.Valid {
		t.Errorf("expected valid frame, got %v", r.Errors)
	}
}
