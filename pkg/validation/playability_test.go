package validation

import (
	"testing"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
)

func TestValidatePlayabilityDefaultsClean(t *testing.T) {
	r := ValidatePlayability(validLevel(), config.Default())
	if !r.Valid || len(r.Warnings) != 0 {
		t.Errorf("expected clean report, got %+v", r)
	}
}

func TestValidatePlayabilityTallObstacle(t *testing.T) {
	f := validLevel()
	f.Obstacles[0].Height = 3
	r := ValidatePlayability(f, config.Default())
	if !hasMessage(r.Warnings, "taller than the jump apex") {
		t.Errorf("expected tall triangle warning, got %v", r.Warnings)
	}
	if !r.Valid {
		t.Error("playability findings must not invalidate the level")
	}
}

func TestValidatePlayabilityWideTriangle(t *testing.T) {
	f := validLevel()
	f.Obstacles[0].Width = 6
	r := ValidatePlayability(f, config.Default())
	if !hasMessage(r.Warnings, "wider than a full jump") {
		t.Errorf("expected wide triangle warning, got %v", r.Warnings)
	}
}

func TestValidatePlayabilityPlatforms(t *testing.T) {
	f := &level.File{Name: "p", Obstacles: []level.Record{
		{Type: "plateformeAir", X: 10, Y: ptr(0.5), Width: 3, Height: 0.5},
		{Type: "plateformeAir", X: 20, Y: ptr(3.5), Width: 3, Height: 0.5},
	}}
	r := ValidatePlayability(f, config.Default())
	if !hasMessage(r.Info, "cannot pass underneath") {
		t.Errorf("expected low platform info, got %v", r.Info)
	}
	if !hasMessage(r.Info, "above the jump apex") {
		t.Errorf("expected high platform info, got %v", r.Info)
	}
}

func TestValidatePlayabilityFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Gameplay.JumpHeight = 1
	r := ValidatePlayability(validLevel(), cfg)
	if len(r.Warnings) == 0 {
		t.Error("expected warnings once the jump is lowered")
	}
}
