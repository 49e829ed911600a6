package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/player"
)

// Errors returned by Build for records that cannot become obstacles.
var (
	ErrUnknownType = errors.New("unknown obstacle type")
	ErrMalformed   = errors.New("malformed obstacle record")
)

// DefaultFinishWidth is the finish line width in meters when a record leaves it at zero.
const DefaultFinishWidth = 0.5

// Build creates a world for lvl. Record distances are converted from
// meters to logical units once, here.
func Build(lvl *level.File, cfg config.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	phys := cfg.Physics()
	factory := obstacle.NewFactory(cfg)

	obstacles := make([]obstacle.Obstacle, 0, len(lvl.Obstacles))
	for i, rec := range lvl.Obstacles {
		shape, err := shapeOf(rec, phys)
		if err != nil {
			return nil, fmt.Errorf("%s: obstacles[%d]: %w", lvl.Name, i, err)
		}
		o, err := factory.Build(shape)
		if err != nil {
			return nil, fmt.Errorf("%s: obstacles[%d]: %w: %v", lvl.Name, i, ErrMalformed, err)
		}
		obstacles = append(obstacles, o)
	}

	p := player.New(phys)
	p.Enable()

	w := &World{
		name:      lvl.Name,
		cfg:       cfg,
		phys:      phys,
		Player:    p,
		obstacles: obstacles,
		blamed:    -1,
		debug:     cfg.Debug.Enabled,
	}
	w.syncColliders()
	return w, nil
}

func shapeOf(rec level.Record, phys config.Physics) (obstacle.Shape, error) {
	upm := phys.UnitsPerMeter
	kind, ok := obstacle.ParseKind(rec.Type)
	if !ok {
		return obstacle.Shape{}, fmt.Errorf("%w %q", ErrUnknownType, rec.Type)
	}

	if err := checkRecord(rec, kind); err != nil {
		return obstacle.Shape{}, err
	}

	s := obstacle.Shape{
		Kind:   kind,
		X:      rec.X * upm,
		Width:  rec.Width * upm,
		Height: rec.Height * upm,
	}
	switch kind {
	case obstacle.Finish:
		if rec.Width <= 0 {
			s.Width = DefaultFinishWidth * upm
		}
	case obstacle.PlateformeAir:
		if rec.Y == nil {
			return obstacle.Shape{}, fmt.Errorf("%w: plateformeAir requires y", ErrMalformed)
		}
		s.Y = phys.GroundTop - *rec.Y*upm - s.Height
	}

	for j, c := range rec.Carried {
		ck, ok := obstacle.ParseKind(c.Type)
		if !ok {
			return obstacle.Shape{}, fmt.Errorf("carried[%d]: %w %q", j, ErrUnknownType, c.Type)
		}
		if !finite(c.RelativeX, c.Width, c.Height) || c.Width <= 0 || c.Height <= 0 {
			return obstacle.Shape{}, fmt.Errorf("carried[%d]: %w: size %vx%v at %v",
				j, ErrMalformed, c.Width, c.Height, c.RelativeX)
		}
		s.Carried = append(s.Carried, obstacle.ChildShape{
			Kind:   ck,
			Offset: c.RelativeX * upm,
			Width:  c.Width * upm,
			Height: c.Height * upm,
		})
	}
	return s, nil
}

// checkRecord rejects non-finite numbers and empty sizes. A finish line
// ignores height and falls back to DefaultFinishWidth for a zero width.
func checkRecord(rec level.Record, kind obstacle.Kind) error {
	if !finite(rec.X, rec.Width, rec.Height) {
		return fmt.Errorf("%w: non-finite x, width or height", ErrMalformed)
	}
	if rec.Y != nil && !finite(*rec.Y) {
		return fmt.Errorf("%w: non-finite y", ErrMalformed)
	}
	if kind == obstacle.Finish {
		if rec.Width < 0 {
			return fmt.Errorf("%w: negative finish width %v", ErrMalformed, rec.Width)
		}
		return nil
	}
	if rec.Width <= 0 || rec.Height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrMalformed, rec.Width, rec.Height)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
