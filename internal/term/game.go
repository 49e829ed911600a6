// Package term is the terminal front-end: it renders frames with tcell,
// turns key presses into session input and plays audio cues.
package term

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ChicagoDave/minidash/pkg/scene"
	"github.com/ChicagoDave/minidash/pkg/session"
)

// HoldTimeout is how long a jump key counts as held after its last key
// event. Terminals report no key release, so auto-repeat keeps it held.
const HoldTimeout = 250 * time.Millisecond

var styles = map[CellKind]tcell.Style{
	Empty:    tcell.StyleDefault,
	Ground:   tcell.StyleDefault.Foreground(tcell.ColorDarkGreen),
	Finish:   tcell.StyleDefault.Foreground(tcell.ColorYellow),
	Block:    tcell.StyleDefault.Foreground(tcell.ColorSteelBlue),
	Platform: tcell.StyleDefault.Foreground(tcell.ColorTeal),
	Spike:    tcell.StyleDefault.Foreground(tcell.ColorRed),
	Hurt:     tcell.StyleDefault.Foreground(tcell.ColorOrangeRed),
	Contact:  tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true),
	Hero:     tcell.StyleDefault.Foreground(tcell.ColorAqua),
	Text:     tcell.StyleDefault.Foreground(tcell.ColorWhite),
}

// Game runs a session on a terminal screen.
type Game struct {
	screen    tcell.Screen
	session   *session.Session
	audio     *Audio
	fps       int
	cursor    int
	holding   bool
	holdUntil time.Time
	message   string
}

// New creates a game on an initialized screen. audio may be nil.
func New(screen tcell.Screen, sess *session.Session, audio *Audio) *Game {
	g := &Game{
		screen:  screen,
		session: sess,
		audio:   audio,
		fps:     sess.Config().World.FPS,
		cursor:  sess.Level(),
	}
	sess.OnChange(g.onChange)
	return g
}

func (g *Game) onChange(c session.Change) {
	switch c.To {
	case session.GameOver:
		g.audio.Play(CueDeath)
	case session.LevelComplete:
		g.audio.Play(CueFinish)
	}
}

// Run drives the game until the player quits.
func (g *Game) Run() error {
	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	dt := 1 / float64(g.fps)
	g.draw()
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.handleKey(ev, time.Now()) {
					return nil
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
		case now := <-ticker.C:
			g.tick(now, dt)
			g.draw()
		}
	}
}

func (g *Game) tick(now time.Time, dt float64) {
	if g.holding && now.After(g.holdUntil) {
		g.holding = false
		g.session.StopJump()
	}
	g.session.Tick(dt)
}

// handleKey applies one key press. It returns false when the player quits.
func (g *Game) handleKey(ev *tcell.EventKey, now time.Time) bool {
	if ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		return false
	}

	var err error
	switch g.session.State() {
	case session.MainMenu:
		err = g.menuKey(ev)
	case session.LevelSelect:
		err = g.levelSelectKey(ev)
	case session.Playing:
		err = g.playingKey(ev, now)
	case session.Paused:
		err = g.pausedKey(ev)
	case session.GameOver, session.LevelComplete:
		err = g.endKey(ev)
	}

	g.message = ""
	if err != nil {
		g.message = err.Error()
		if !errors.Is(err, session.ErrIllegalTransition) {
			log.Printf("key %s: %v", ev.Name(), err)
		}
	}
	return true
}

func (g *Game) menuKey(ev *tcell.EventKey) error {
	switch {
	case ev.Key() == tcell.KeyEnter:
		return g.session.Start()
	case isRune(ev, 'l'):
		g.cursor = g.session.Level()
		return g.session.OpenLevelSelect()
	case isRune(ev, 'd'):
		g.session.ToggleDebug()
	}
	return nil
}

func (g *Game) levelSelectKey(ev *tcell.EventKey) error {
	n := g.session.Catalog().Len()
	switch {
	case ev.Key() == tcell.KeyUp:
		if g.cursor > 0 {
			g.cursor--
		}
	case ev.Key() == tcell.KeyDown:
		if g.cursor < n-1 {
			g.cursor++
		}
	case ev.Key() == tcell.KeyEnter:
		return g.session.SelectLevel(g.cursor)
	case ev.Key() == tcell.KeyEscape:
		return g.session.MainMenu()
	case ev.Key() == tcell.KeyRune && ev.Rune() >= '1' && ev.Rune() <= '9':
		i := int(ev.Rune() - '1')
		if i < n {
			g.cursor = i
			return g.session.SelectLevel(i)
		}
	}
	return nil
}

func (g *Game) playingKey(ev *tcell.EventKey, now time.Time) error {
	switch {
	case ev.Key() == tcell.KeyUp || isRune(ev, ' ') || isRune(ev, 'w'):
		if g.session.StartJump() {
			g.audio.Play(CueJump)
		}
		g.holding = true
		g.holdUntil = now.Add(HoldTimeout)
	case ev.Key() == tcell.KeyEscape || isRune(ev, 'p'):
		g.holding = false
		return g.session.Pause()
	case isRune(ev, 'd'):
		g.session.ToggleDebug()
	}
	return nil
}

func (g *Game) pausedKey(ev *tcell.EventKey) error {
	fast := ev.Modifiers()&tcell.ModShift != 0
	switch {
	case ev.Key() == tcell.KeyEscape || isRune(ev, 'p'):
		return g.session.Resume()
	case isRune(ev, 'r'):
		return g.session.Restart()
	case isRune(ev, 'm'):
		return g.session.MainMenu()
	case isRune(ev, 'd'):
		g.session.ToggleDebug()
	case ev.Key() == tcell.KeyRight:
		_, err := g.session.Teleport(1, fast)
		return err
	case ev.Key() == tcell.KeyLeft:
		_, err := g.session.Teleport(-1, fast)
		return err
	}
	return nil
}

func (g *Game) endKey(ev *tcell.EventKey) error {
	switch {
	case isRune(ev, 'r') || ev.Key() == tcell.KeyEnter && g.session.State() == session.GameOver:
		return g.session.Restart()
	case isRune(ev, 'n') || ev.Key() == tcell.KeyEnter:
		return g.session.NextLevel()
	case isRune(ev, 'm') || ev.Key() == tcell.KeyEscape:
		return g.session.MainMenu()
	}
	return nil
}

func isRune(ev *tcell.EventKey, r rune) bool {
	return ev.Key() == tcell.KeyRune && ev.Rune() == r
}

func (g *Game) draw() {
	w, h := g.screen.Size()
	grid := g.Render(w, h)
	g.screen.Clear()
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := grid.At(x, y)
			g.screen.SetContent(x, y, c.Rune, nil, styles[c.Kind])
		}
	}
	g.screen.Show()
}

// Render draws the current game state into a w×h grid.
func (g *Game) Render(w, h int) *Grid {
	s := g.session
	var grid *Grid
	if world := s.World(); world != nil {
		grid = Rasterize(scene.Capture(world, s.State().String()), w, h)
	} else {
		grid = NewGrid(w, h)
	}

	mid := h / 3
	switch s.State() {
	case session.MainMenu:
		grid.Center(mid, "M I N I D A S H")
		if lvl, err := s.Catalog().Get(s.Level()); err == nil {
			grid.Center(mid+2, lvl.Name)
		}
		grid.Center(mid+4, "enter: play   l: levels   d: debug   q: quit")
		if s.Debug() {
			grid.Center(mid+5, "[debug mode]")
		}
	case session.LevelSelect:
		grid.Center(1, "Select a level")
		for i, name := range s.Catalog().Names() {
			marker := "  "
			if i == g.cursor {
				marker = "> "
			}
			grid.Text(4, 3+i, fmt.Sprintf("%s%d. %s  (best %dm)", marker, i+1, name, s.Best(i)))
		}
	case session.Paused:
		grid.Center(mid, "PAUSED")
		hint := "p: resume   r: restart   m: menu"
		if s.Debug() {
			hint += "   ←/→: teleport (shift: fast)"
		}
		grid.Center(mid+2, hint)
	case session.GameOver:
		grid.Center(mid, fmt.Sprintf("GAME OVER  %dm  (best %dm)", s.Last().Distance, s.Best(s.Level())))
		grid.Center(mid+2, "r: retry   m: menu")
	case session.LevelComplete:
		grid.Center(mid, "LEVEL COMPLETE")
		hint := "r: replay   m: menu"
		if s.Catalog().HasNext(s.Level()) {
			hint = "n: next level   " + hint
		}
		grid.Center(mid+2, hint)
	}
	if g.message != "" && h > 0 {
		grid.Text(0, h-1, g.message)
	}
	return grid
}
