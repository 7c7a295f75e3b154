package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/config"
	"github.com/spf13/cobra"
)

var version = "dev"

type runFlags struct {
	configPath string
	backend    string
	pacing     string
	frames     int
	profile    bool
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "oxy-frame",
		Short:         "Render a coloured mesh through an explicit frame lifecycle",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newVersionCommand(), newConfigCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open a window and render until it closes",
		RunE: func(cmd *cobra.Command, args []string) error {
			installLogger(f.verbose)

			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				common.Logger().Error("invalid configuration", "error", err)
				return err
			}
			e, cleanup, err := newSession(cfg)
			if err != nil {
				common.Logger().Error("session setup failed", "error", err)
				return err
			}
			defer cleanup()
			if err := e.Run(); err != nil {
				common.Logger().Error("session failed", "error", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVar(&f.backend, "backend", "", "renderer backend: wgpu or headless")
	cmd.Flags().StringVar(&f.pacing, "pacing", "", "frame pacing: drain or per-slot")
	cmd.Flags().IntVar(&f.frames, "frames", 0, "stop after this many frames (0 runs until the window closes)")
	cmd.Flags().BoolVar(&f.profile, "profile", false, "log frame and fence statistics every second")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "oxy-frame", version)
		},
	}
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Default().Encode(cmd.OutOrStdout())
		},
	}
}

// resolveConfig loads the file, if any, and applies the flags the user set.
func resolveConfig(cmd *cobra.Command, f runFlags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Render.Backend = f.backend
	}
	if flags.Changed("pacing") {
		cfg.Render.Pacing = f.pacing
	}
	if flags.Changed("frames") {
		cfg.Engine.Frames = f.frames
	}
	if flags.Changed("profile") {
		cfg.Engine.Profile = f.profile
	}
	return cfg, cfg.Validate()
}

func installLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
