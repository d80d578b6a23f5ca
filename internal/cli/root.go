// Package cli provides the command-line interface for walrus.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jmylchreest/walrus/internal/colour"
	"github.com/jmylchreest/walrus/internal/config"
	"github.com/jmylchreest/walrus/internal/reload"
	"github.com/jmylchreest/walrus/internal/version"
	"github.com/jmylchreest/walrus/internal/wallpaper"
)

// errNoInput is returned when no action was requested.
var errNoInput = errors.New("no image, theme or scheme name given")

// options holds the parsed command line flags.
type options struct {
	image      string
	backend    string
	brightness int8
	saturation int8
	reload     bool
	reloadNoWP bool
	theme      string
	generate   string
	preview    bool
	quiet      bool
	verbose    bool
	completion bool
}

// app carries the state shared by one invocation.
type app struct {
	opts   options
	cfg    config.Config
	out    *Output
	logger hclog.Logger

	loadConfig       func() (config.Config, error)
	isTTY            func() bool
	home             func() (string, error)
	getenv           func(string) string
	reloadOptions    []reload.Option
	wallpaperOptions []wallpaper.Option
}

func newApp() *app {
	return &app{
		loadConfig: config.Load,
		isTTY:      func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		home:       os.UserHomeDir,
		getenv:     os.Getenv,
		logger:     hclog.NewNullLogger(),
	}
}

// NewRootCmd builds the walrus command.
func NewRootCmd() *cobra.Command {
	return newApp().command()
}

// Execute runs the walrus command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp()
	if err := a.command().ExecuteContext(ctx); err != nil {
		stop()
		a.output(os.Stdout).Warn("Error", err.Error())
		os.Exit(1)
	}
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Generate a colorscheme from an image",
		Long: `walrus extracts a 16 colour terminal scheme from an image, fills the
templates in your config directory and applies the result to running
terminals, X resources, kitty, window managers, bars and the wallpaper.

Examples:
  # Generate a scheme from an image
  walrus -i ~/wallpapers/forest.png

  # Pick a random image from a directory, slightly brighter
  walrus -i ~/wallpapers -b 10

  # Use a different backend
  walrus -i wall.jpg --backend colorthief

  # Save the current scheme as a theme, then apply it later
  walrus -g forest
  walrus -t forest`,
		Version:           version.Short(),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&a.opts.image, "image", "i", "", "path/to/wal.png, or a directory to pick a random image from")
	flags.StringVar(&a.opts.backend, "backend", "", "colour backend (kmeans, colorthief, paletteextract, all, list)")
	flags.Int8VarP(&a.opts.brightness, "brightness", "b", 0, "brightness adjustment (-128 to 127)")
	flags.Int8VarP(&a.opts.saturation, "saturation", "s", 0, "saturation adjustment (-128 to 127)")
	flags.BoolVarP(&a.opts.reload, "reload", "r", false, "reload templates and set the wallpaper")
	flags.BoolVarP(&a.opts.reloadNoWP, "reload-nowal", "R", false, "reload templates without setting the wallpaper")
	flags.StringVarP(&a.opts.theme, "theme", "t", "", `apply a stored theme ("themes" lists them)`)
	flags.StringVarP(&a.opts.generate, "generate", "g", "", "save the current scheme as a named theme")
	flags.BoolVarP(&a.opts.preview, "preview", "p", false, "print every generated colour")
	flags.BoolVarP(&a.opts.quiet, "quiet", "q", false, "suppress status output")
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&a.opts.completion, "install-completions", false, "install completions for the current shell")

	cmd.SetVersionTemplate(version.String() + "\n")
	cmd.AddCommand(versionCmd())
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// setup resolves configuration, then overlays explicitly set flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := a.applyFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.out = NewOutput(cmd.OutOrStdout(), cfg.Quiet)
	a.logger = newLogger(cmd.ErrOrStderr(), a.opts.verbose, cfg.Quiet)
	a.logger.Debug("configuration resolved",
		"backend", cfg.Backend, "config_dir", cfg.ConfigDir, "cache_dir", cfg.CacheDir)
	return nil
}

// applyFlags overrides cfg with the flags given on the command line. Flags
// left at their defaults keep the configured values.
func (a *app) applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("backend") {
		b, err := colour.ParseBackend(a.opts.backend)
		if err != nil {
			return err
		}
		cfg.Backend = b
	}
	if flags.Changed("brightness") {
		v := a.opts.brightness
		cfg.Brightness = &v
	}
	if flags.Changed("saturation") {
		v := a.opts.saturation
		cfg.Saturation = &v
	}
	if a.opts.quiet {
		cfg.Quiet = true
	}
	return nil
}

// output returns the configured Output, or a fresh one writing to w when
// setup never ran.
func (a *app) output(w io.Writer) *Output {
	if a.out != nil {
		return a.out
	}
	return NewOutput(w, a.opts.quiet)
}

func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Warn
	switch {
	case quiet:
		level = hclog.Off
	case verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   config.AppName,
		Output: w,
		Level:  level,
	})
}
