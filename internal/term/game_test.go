package term

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/session"
)

func testCatalog() *level.Catalog {
	return &level.Catalog{Levels: []*level.File{
		{Name: "spike", Obstacles: []level.Record{
			{Type: "triangle", X: 10, Width: 0.9, Height: 0.9},
			{Type: "finish", X: 30, Width: 0.5},
		}},
		{Name: "open", Obstacles: []level.Record{
			{Type: "finish", X: 400, Width: 0.5},
		}},
	}}
}

func newTestGame(t *testing.T) (*Game, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(gridW, gridH)
	return New(screen, session.New(testCatalog(), config.Default()), nil), screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func press(t *testing.T, g *Game, ev *tcell.EventKey) {
	t.Helper()
	if !g.handleKey(ev, time.Now()) {
		t.Fatalf("key %s quit the game", ev.Name())
	}
}

func TestQuitKeys(t *testing.T) {
	g, _ := newTestGame(t)
	if g.handleKey(char('q'), time.Now()) {
		t.Error("q did not quit")
	}
	if g.handleKey(key(tcell.KeyCtrlC), time.Now()) {
		t.Error("ctrl-c did not quit")
	}
}

func TestLevelSelectFlow(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.session

	press(t, g, char('l'))
	if s.State() != session.LevelSelect {
		t.Fatalf("state = %s, want level_select", s.State())
	}
	press(t, g, key(tcell.KeyDown))
	press(t, g, key(tcell.KeyDown))
	if g.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", g.cursor)
	}
	if !strings.Contains(g.Render(gridW, gridH).Row(4), "> 2. open") {
		t.Errorf("level list row = %q", g.Render(gridW, gridH).Row(4))
	}
	press(t, g, key(tcell.KeyEnter))
	if s.State() != session.MainMenu || s.Level() != 1 {
		t.Errorf("after select: state %s level %d, want main_menu level 1", s.State(), s.Level())
	}
}

func TestJumpHoldExpires(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.session
	press(t, g, key(tcell.KeyEnter))
	if s.State() != session.Playing {
		t.Fatalf("state = %s, want playing", s.State())
	}

	now := time.Now()
	if !g.handleKey(char(' '), now) {
		t.Fatal("space quit the game")
	}
	p := s.World().Player
	if p.VelocityY >= 0 || !p.Holding() {
		t.Fatalf("after space: vy %v holding %v, want rising and held", p.VelocityY, p.Holding())
	}

	g.tick(now.Add(HoldTimeout/2), 1.0/60)
	if !p.Holding() {
		t.Error("hold released before timeout")
	}
	g.tick(now.Add(HoldTimeout+time.Millisecond), 1.0/60)
	if p.Holding() || g.holding {
		t.Error("hold not released after timeout")
	}
}

func TestPauseDebugTeleport(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.session
	press(t, g, key(tcell.KeyEnter))
	press(t, g, char('p'))
	if s.State() != session.Paused {
		t.Fatalf("state = %s, want paused", s.State())
	}

	press(t, g, key(tcell.KeyRight))
	if g.message == "" {
		t.Error("teleport without debug left no message")
	}

	press(t, g, char('d'))
	press(t, g, key(tcell.KeyRight))
	if g.message != "" {
		t.Errorf("teleport failed: %s", g.message)
	}
	want := int(s.Config().Debug.TeleportStep)
	if got := s.World().Distance(); got != want {
		t.Errorf("distance = %d, want %d", got, want)
	}

	press(t, g, char('p'))
	if s.State() != session.Playing {
		t.Errorf("state = %s, want playing", s.State())
	}
}

func TestGameOverAndRetry(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.session
	press(t, g, key(tcell.KeyEnter))

	now := time.Now()
	for i := 0; i < 600 && s.State() == session.Playing; i++ {
		g.tick(now, 1.0/60)
	}
	if s.State() != session.GameOver {
		t.Fatalf("state = %s, want game_over", s.State())
	}
	if !strings.Contains(g.Render(gridW, gridH).String(), "GAME OVER") {
		t.Error("game over screen missing banner")
	}

	press(t, g, char('r'))
	if s.State() != session.Playing || s.World().Distance() != 0 {
		t.Errorf("after retry: state %s distance %d", s.State(), s.World().Distance())
	}
}

func TestDrawToScreen(t *testing.T) {
	g, screen := newTestGame(t)
	g.draw()
	if !strings.Contains(g.Render(gridW, gridH).String(), "M I N I D A S H") {
		t.Error("main menu missing title")
	}

	press(t, g, key(tcell.KeyEnter))
	g.draw()
	r, _, style, _ := screen.GetContent(16, 15)
	if r != '█' {
		t.Errorf("player cell = %q, want block", r)
	}
	if style != styles[Hero] {
		t.Errorf("player style = %v, want hero style", style)
	}
}
