// Package session drives the outer game flow around a simulation world:
// menus, pause, game over, level complete, restart and debug controls.
package session

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/player"
	"github.com/ChicagoDave/minidash/pkg/sim"
)

var (
	ErrNoNextLevel         = errors.New("no next level")
	ErrTeleportUnavailable = errors.New("teleport needs debug mode and a paused game")
)

// Change describes one state change.
type Change struct {
	From     State
	To       State
	Level    int
	Distance int
}

// Session owns the level catalog, the selected level and the world in play.
// Like the world it wraps, it is driven from a single goroutine.
type Session struct {
	catalog   *level.Catalog
	cfg       config.Config
	index     int
	state     State
	debug     bool
	world     *sim.World
	last      sim.Result
	best      map[int]int
	listeners []func(Change)
}

// New returns a session at the main menu with the first level selected.
func New(catalog *level.Catalog, cfg config.Config) *Session {
	return &Session{
		catalog: catalog,
		cfg:     cfg,
		state:   MainMenu,
		debug:   cfg.Debug.Enabled,
		best:    make(map[int]int),
	}
}

// OnChange registers fn to be called after every state change.
func (s *Session) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) transition(to State) error {
	if s.state == to {
		return nil
	}
	if !CanTransition(s.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, to)
	}
	s.set(to)
	return nil
}

// force moves to any state, bypassing the table.
func (s *Session) force(to State) {
	s.set(to)
}

func (s *Session) set(to State) {
	from := s.state
	s.state = to
	c := Change{From: from, To: to, Level: s.index}
	if s.world != nil {
		c.Distance = s.world.Distance()
	}
	for _, fn := range s.listeners {
		fn(c)
	}
}

func (s *Session) load() error {
	lvl, err := s.catalog.Get(s.index)
	if err != nil {
		return err
	}
	cfg := s.cfg
	cfg.Debug.Enabled = s.debug
	w, err := sim.Build(lvl, cfg)
	if err != nil {
		return fmt.Errorf("loading level %d: %w", s.index, err)
	}
	s.world = w
	s.last = sim.Result{Blamed: -1}
	return nil
}

// Start loads the selected level and begins play from the main menu.
func (s *Session) Start() error {
	if s.state != MainMenu {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, Playing)
	}
	if err := s.load(); err != nil {
		return err
	}
	return s.transition(Playing)
}

// Restart reloads the current level and plays it from the start. It is
// allowed after a game over, after completing the level, or while paused.
func (s *Session) Restart() error {
	switch s.state {
	case GameOver, LevelComplete, Paused:
	default:
		return fmt.Errorf("%w: cannot restart from %s", ErrIllegalTransition, s.state)
	}
	if err := s.load(); err != nil {
		return err
	}
	s.force(Playing)
	return nil
}

// Tick advances the world while playing. Death forces the player into the
// dying state and ends the game; crossing the finish completes the level.
func (s *Session) Tick(dt float64) sim.Result {
	if s.state != Playing || s.world == nil {
		return s.last
	}
	r := s.world.Step(dt)
	s.last = r

	switch r.Outcome {
	case sim.Death:
		s.world.Player.StopJump()
		// Forcing Dying never fails.
		_ = s.world.Player.Force(player.Dying)
		s.record(r.Distance)
		_ = s.transition(GameOver)
	case sim.LevelComplete:
		s.world.Player.StopJump()
		s.record(r.Distance)
		_ = s.transition(LevelComplete)
	}
	return r
}

func (s *Session) record(distance int) {
	if distance > s.best[s.index] {
		s.best[s.index] = distance
	}
}

// Pause freezes the world.
func (s *Session) Pause() error {
	if err := s.transition(Paused); err != nil {
		return err
	}
	s.world.Pause()
	s.world.Player.StopJump()
	return nil
}

// Resume continues a paused world.
func (s *Session) Resume() error {
	if s.state != Paused {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, Playing)
	}
	s.world.Resume()
	return s.transition(Playing)
}

// TogglePause pauses while playing and resumes while paused.
func (s *Session) TogglePause() error {
	if s.state == Paused {
		return s.Resume()
	}
	return s.Pause()
}

// MainMenu abandons the level in play and returns to the main menu.
func (s *Session) MainMenu() error {
	switch s.state {
	case Paused, GameOver, LevelComplete, LevelSelect:
	default:
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.state, MainMenu)
	}
	s.world = nil
	s.last = sim.Result{Blamed: -1}
	s.force(MainMenu)
	return nil
}

// OpenLevelSelect shows the level list from the main menu.
func (s *Session) OpenLevelSelect() error {
	return s.transition(LevelSelect)
}

// SelectLevel picks the level Start will load. From the level list it
// returns to the main menu.
func (s *Session) SelectLevel(i int) error {
	if s.state != MainMenu && s.state != LevelSelect {
		return fmt.Errorf("%w: cannot select a level while %s", ErrIllegalTransition, s.state)
	}
	if _, err := s.catalog.Get(i); err != nil {
		return err
	}
	s.index = i
	if s.state == LevelSelect {
		return s.transition(MainMenu)
	}
	return nil
}

// NextLevel loads and plays the level after a completed one.
func (s *Session) NextLevel() error {
	if s.state != LevelComplete {
		return fmt.Errorf("%w: next level requires %s, have %s", ErrIllegalTransition, LevelComplete, s.state)
	}
	if !s.catalog.HasNext(s.index) {
		return ErrNoNextLevel
	}
	s.index++
	if err := s.load(); err != nil {
		s.index--
		return err
	}
	return s.transition(Playing)
}

// ToggleDebug flips debug mode for this and later levels.
func (s *Session) ToggleDebug() bool {
	s.debug = !s.debug
	if s.world != nil {
		s.world.SetDebug(s.debug)
	}
	return s.debug
}

// Teleport moves the paused level one debug step in direction (+1 forward,
// -1 backward). fast uses the larger step.
func (s *Session) Teleport(direction int, fast bool) (bool, error) {
	if !s.debug || s.state != Paused || s.world == nil {
		return false, ErrTeleportUnavailable
	}
	step := s.cfg.Debug.TeleportStep
	if fast {
		step = s.cfg.Debug.TeleportStepFast
	}
	return s.world.Teleport(float64(direction) * step)
}

// StartJump presses the jump button while playing.
func (s *Session) StartJump() bool {
	if s.state != Playing || s.world == nil {
		return false
	}
	return s.world.Player.StartJump()
}

// StopJump releases the jump button.
func (s *Session) StopJump() {
	if s.world != nil {
		s.world.Player.StopJump()
	}
}

// State returns the current game state.
func (s *Session) State() State { return s.state }

// Level returns the selected level index.
func (s *Session) Level() int { return s.index }

// World returns the world in play, or nil at the menus.
func (s *Session) World() *sim.World { return s.world }

// Catalog returns the level catalog.
func (s *Session) Catalog() *level.Catalog { return s.catalog }

// Debug reports whether debug mode is on.
func (s *Session) Debug() bool { return s.debug }

// Last returns the most recent step result.
func (s *Session) Last() sim.Result { return s.last }

// Best returns the best distance reached on level i in this session.
func (s *Session) Best(i int) int { return s.best[i] }

// Config returns the tuning the session builds worlds with.
func (s *Session) Config() config.Config { return s.cfg }
