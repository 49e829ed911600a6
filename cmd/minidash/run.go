package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/ChicagoDave/minidash/internal/term"
	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/session"
	"github.com/ChicagoDave/minidash/pkg/sim"
	"github.com/ChicagoDave/minidash/pkg/validation"
)

type simulateOptions struct {
	hold        bool
	jumpAt      []float64
	holdSeconds float64
	maxSeconds  float64
	debug       bool
	json        bool
}

type playOptions struct {
	level   int
	mute    bool
	volume  float64
	logPath string
}

// loadSetup reads the env file, the tuning file and the level catalog.
func loadSetup(g *globalFlags) (config.Config, *level.Catalog, error) {
	if err := config.LoadEnvFile(g.envPath); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg, err = cfg.ApplyEnv()
	if err != nil {
		return cfg, nil, err
	}

	var catalog *level.Catalog
	if g.levelsDir != "" {
		catalog, err = level.LoadDir(g.levelsDir)
	} else {
		catalog, err = level.Default()
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("loading levels: %w", err)
	}
	return cfg, catalog, nil
}

// resolveLevel picks a level by 1-based catalog number, or loads arg as a
// file when it is not a number. An empty arg is the first level.
func resolveLevel(catalog *level.Catalog, arg string) (*level.File, error) {
	if arg == "" {
		return catalog.Get(0)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return level.Load(arg)
	}
	return catalog.Get(n - 1)
}

func runLevels(g *globalFlags) error {
	cfg, catalog, err := loadSetup(g)
	if err != nil {
		return err
	}
	printLevels(catalog, cfg)
	return nil
}

func runValidate(g *globalFlags, arg string) error {
	cfg, catalog, err := loadSetup(g)
	if err != nil {
		return err
	}
	lvl, err := resolveLevel(catalog, arg)
	if err != nil {
		return err
	}

	report := validation.ValidateLevel(lvl)
	report.Merge(validation.ValidatePlayability(lvl, cfg))

	fmt.Printf("Level: %s\n\n", lvl.Name)
	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runSimulate(g *globalFlags, arg string, opts simulateOptions) error {
	cfg, catalog, err := loadSetup(g)
	if err != nil {
		return err
	}
	lvl, err := resolveLevel(catalog, arg)
	if err != nil {
		return err
	}
	cfg.Debug.Enabled = cfg.Debug.Enabled || opts.debug

	world, err := sim.Build(lvl, cfg)
	if err != nil {
		return err
	}
	res := sim.Run(world, scriptFrom(opts), sim.RunOptions{MaxSeconds: opts.maxSeconds})

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printRunResult(res)
	return nil
}

func scriptFrom(opts simulateOptions) sim.Script {
	s := sim.Script{HoldAlways: opts.hold}
	for _, at := range opts.jumpAt {
		s.Presses = append(s.Presses, sim.Press{At: at, Hold: opts.holdSeconds})
	}
	return s
}

func runPlay(g *globalFlags, opts playOptions) error {
	cfg, catalog, err := loadSetup(g)
	if err != nil {
		return err
	}

	log.SetOutput(io.Discard)
	if opts.logPath != "" {
		f, err := os.Create(opts.logPath)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	sess := session.New(catalog, cfg)
	if err := sess.SelectLevel(opts.level - 1); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var audio *term.Audio
	if !opts.mute {
		audio = term.NewAudio(opts.volume)
		if err := audio.Init(); err != nil {
			// The game runs without sound.
			log.Printf("Audio initialization failed: %v", err)
		}
		defer audio.Close()
	}

	return term.New(screen, sess, audio).Run()
}
