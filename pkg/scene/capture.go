package scene

import (
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/geo"
	"github.com/ChicagoDave/minidash/pkg/obstacle"
	"github.com/ChicagoDave/minidash/pkg/player"
	"github.com/ChicagoDave/minidash/pkg/sim"
)

// Capture snapshots w. state names the game state the frame is shown in.
// In debug mode the frame also carries the overlap region of every lethal
// contact.
func Capture(w *sim.World, state string) *Frame {
	f := NewFrame()
	phys := w.Physics()
	f.Metadata = Metadata{
		Level:       w.Name(),
		State:       state,
		Tick:        w.Tick(),
		Distance:    w.Distance(),
		Outcome:     w.Outcome(),
		Flash:       w.Flashing(),
		Debug:       w.Debug(),
		Paused:      w.Paused(),
		WorldHeight: phys.WorldHeight,
		GroundTop:   phys.GroundTop,
	}
	f.Player = viewPlayer(w.Player)

	obs := w.Obstacles()
	for i := range obs {
		captureObstacle(f, w.Player, &obs[i], fmt.Sprintf("ob-%d", i), "", w.Debug())
	}
	return f
}

func viewPlayer(p *player.Player) PlayerView {
	return PlayerView{
		State:     p.State(),
		Holding:   p.Holding(),
		VelocityY: p.VelocityY,
		Image:     p.ImageBody(),
		Physical:  p.PhysicalBody(),
		Hurt:      p.HurtBody(),
	}
}

func captureObstacle(f *Frame, p *player.Player, o *obstacle.Obstacle, id, parent string, debug bool) {
	hurt, lethal := o.HurtGeometry()
	touching := lethal && o.LethalPart(p) == o

	e := Entity{
		ID:           id,
		Kind:         o.Kind,
		Parent:       parent,
		Image:        o.ImageBody(),
		Physical:     o.PhysicalBody(),
		Hurt:         o.HurtBody(),
		ImagePolygon: o.ImagePolygon(),
		HurtPolygon:  hurt,
		Solid:        o.Kind.Solid(),
		Lethal:       lethal,
		Touching:     touching,
	}
	for j := range o.Carried {
		e.Children = append(e.Children, fmt.Sprintf("%s.%d", id, j))
	}
	addEntity(f, e)

	if debug && touching {
		region := geo.ClipToConvex(p.HurtPolygon(), hurt)
		if region.Area() > 0 {
			f.Contacts = append(f.Contacts, region)
		}
	}

	for j := range o.Carried {
		captureObstacle(f, p, &o.Carried[j].Obstacle, e.Children[j], id, debug)
	}
}

func addEntity(f *Frame, e Entity) {
	f.Entities = append(f.Entities, e)
	f.Groups.Kinds[e.Kind] = append(f.Groups.Kinds[e.Kind], e.ID)
}
