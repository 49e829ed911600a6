package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ChicagoDave/minidash/internal/server"
)

// Paths shared by every command.
type globalFlags struct {
	configPath string
	envPath    string
	levelsDir  string
}

func main() {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:          "minidash",
		Short:        "Side-scrolling reflex game: levels, headless simulation and play",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "TOML tuning file")
	rootCmd.PersistentFlags().StringVar(&g.envPath, "env", ".env", "env file with MINIDASH_* overrides")
	rootCmd.PersistentFlags().StringVar(&g.levelsDir, "levels", "", "directory of level YAML files (default: built-in levels)")

	rootCmd.AddCommand(levelsCmd(&g))
	rootCmd.AddCommand(validateCmd(&g))
	rootCmd.AddCommand(simulateCmd(&g))
	rootCmd.AddCommand(playCmd(&g))
	rootCmd.AddCommand(serveCmd(&g))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func levelsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List the levels in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runLevels(g)
		},
	}
}

func validateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [index|file]",
		Short: "Check a level for schema and playability problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(g, firstArg(args))
		},
	}
}

func simulateCmd(g *globalFlags) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate [index|file]",
		Short: "Run a level headless with scripted jumps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSimulate(g, firstArg(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.hold, "hold", false, "hold the jump button for the whole run")
	cmd.Flags().Float64SliceVar(&opts.jumpAt, "jump-at", nil, "distances in meters at which to press jump")
	cmd.Flags().Float64Var(&opts.holdSeconds, "hold-seconds", 0.05, "how long each --jump-at press is held")
	cmd.Flags().Float64Var(&opts.maxSeconds, "max-seconds", 120, "simulated time limit")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "debug mode: lethal contacts flash instead of killing")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	return cmd
}

func playCmd(g *globalFlags) *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPlay(g, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.level, "level", "l", 1, "level number to start on")
	cmd.Flags().BoolVar(&opts.mute, "mute", false, "disable audio cues")
	cmd.Flags().Float64Var(&opts.volume, "volume", 0.5, "audio volume from 0 to 1")
	cmd.Flags().StringVar(&opts.logPath, "log", "", "write log output to this file")
	return cmd
}

func serveCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local dev server with the JSON API and frame stream",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, catalog, err := loadSetup(g)
			if err != nil {
				return err
			}
			srv := server.New(catalog, cfg, port)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
